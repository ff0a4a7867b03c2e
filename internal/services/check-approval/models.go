package checkapproval

import (
	apphttp "qld-approval-checker/internal/common/http"
	"qld-approval-checker/internal/common/logger"
)

type ServiceDependencies struct {
	Logger logger.Logger
	// Client overrides the transport built from Config.Timeout.
	Client *apphttp.Client
}
