package generatepdf

import (
	apphttp "qld-approval-checker/internal/common/http"
	"qld-approval-checker/internal/common/logger"
)

// PDFContentType is the media type the backend is expected to return.
const PDFContentType = "application/pdf"

type ServiceDependencies struct {
	Logger logger.Logger
	Client *apphttp.Client
}
