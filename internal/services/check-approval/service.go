package checkapproval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	apphttp "qld-approval-checker/internal/common/http"
	"qld-approval-checker/internal/common/logger"
	"qld-approval-checker/internal/common/validation"
	"qld-approval-checker/internal/models"
)

// Endpoint labels logs and metrics for this backend call.
const Endpoint = "check-approval"

// Service calls POST /api/check-approval.
type Service struct {
	config *Config
	client *apphttp.Client
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", Endpoint, err)
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	client := deps.Client
	if client == nil {
		client = apphttp.NewClient(config.Timeout, log)
	}
	return &Service{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{"service": Endpoint}),
	}, nil
}

// Execute posts the request and returns the decoded report. The response
// must be 200 and match GetOutputSchema.
func (s *Service) Execute(ctx context.Context, input *models.CheckApprovalRequest) (*models.ApprovalReport, error) {
	if err := validation.ValidateValue(GetInputSchema(), input).Err(); err != nil {
		return nil, fmt.Errorf("invalid %s request: %w", Endpoint, err)
	}

	resp, err := s.client.PostJSON(ctx, Endpoint, s.config.URL, input)
	if err != nil {
		return nil, err
	}
	if err := apphttp.ExpectOK(resp, Endpoint, fmt.Sprintf("%s returned %d", Endpoint, resp.StatusCode)); err != nil {
		s.logger.Warn("backend rejected request", map[string]interface{}{"status": resp.StatusCode})
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", Endpoint, err)
	}
	if int64(len(body)) > s.config.MaxBodyBytes {
		return nil, fmt.Errorf("%s response exceeds %d bytes", Endpoint, s.config.MaxBodyBytes)
	}

	if err := validation.ValidateJSON(GetOutputSchema(), body).Err(); err != nil {
		s.logger.Warn("malformed approval report", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%s response: %w", Endpoint, err)
	}

	var report models.ApprovalReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", Endpoint, err)
	}

	s.logger.Info("approval report received", map[string]interface{}{
		"zone":             report.Zone,
		"overlays":         len(report.Overlays),
		"requirements":     len(report.Requirements),
		"requiresApproval": report.RequiresApproval,
	})
	return &report, nil
}
