package generatepdf

import (
	"context"
	"errors"
	"fmt"
	"mime"

	apperrors "qld-approval-checker/internal/common/errors"
	apphttp "qld-approval-checker/internal/common/http"
	"qld-approval-checker/internal/common/logger"
	"qld-approval-checker/internal/common/validation"
	"qld-approval-checker/internal/models"
)

// Endpoint labels logs and metrics for this backend call.
const Endpoint = "generate-pdf"

var ErrMissingApprovalData = errors.New("approval data is required")

// Service calls POST /api/generate-pdf.
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

// Execute posts the report and returns the streamed PDF. A non-200 response
// yields an error whose message is "Failed to generate PDF". The caller owns
// the returned document body.
func (s *Service) Execute(ctx context.Context, input *models.GeneratePDFRequest) (*models.PDFDocument, error) {
	if input == nil || input.ApprovalData == nil {
		return nil, ErrMissingApprovalData
	}
	if err := validation.ValidateValue(GetInputSchema(), input).Err(); err != nil {
		return nil, fmt.Errorf("invalid %s request: %w", Endpoint, err)
	}

	resp, err := s.client.PostJSON(ctx, Endpoint, s.config.URL, input)
	if err != nil {
		return nil, err
	}
	if err := apphttp.ExpectOK(resp, Endpoint, apperrors.MsgPDFGenerateFailed); err != nil {
		s.logger.Warn("backend failed to generate PDF", map[string]interface{}{"status": resp.StatusCode})
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType != PDFContentType {
		s.logger.Warn("unexpected content type for PDF", map[string]interface{}{"contentType": contentType})
	}

	return &models.PDFDocument{
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}
