// Package form implements the approval form controller: it validates user
// input, calls the check-approval and generate-pdf endpoints, caches the last
// successful report and drives a UI-agnostic View.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "qld-approval-checker/internal/common/errors"
	"qld-approval-checker/internal/common/logger"
	"qld-approval-checker/internal/common/observability"
	"qld-approval-checker/internal/models"
)

var (
	// ErrCheckInFlight is returned when a check is requested while another
	// one has not completed. No request is sent.
	ErrCheckInFlight = errors.New("approval check already in progress")
	// ErrDownloadInFlight is the download counterpart of ErrCheckInFlight.
	ErrDownloadInFlight = errors.New("PDF download already in progress")
	// ErrCheckSuperseded is returned by a check whose result arrived after
	// the form was reset. The result is discarded.
	ErrCheckSuperseded = errors.New("form was reset while the check was in progress")
)

// ApprovalChecker is the check-approval backend.
type ApprovalChecker interface {
	Execute(ctx context.Context, input *models.CheckApprovalRequest) (*models.ApprovalReport, error)
}

// PDFGenerator is the generate-pdf backend.
type PDFGenerator interface {
	Execute(ctx context.Context, input *models.GeneratePDFRequest) (*models.PDFDocument, error)
}

type Options struct {
	Approvals     ApprovalChecker
	PDFs          PDFGenerator
	Sink          Sink
	View          View
	Logger        logger.Logger
	Observability *observability.Observability
	// Clock stamps download file names; defaults to time.Now.
	Clock func() time.Time
}

// Controller owns one form session. It is safe for concurrent use; at most
// one check and one download run at a time.
type Controller struct {
	approvals ApprovalChecker
	pdfs      PDFGenerator
	sink      Sink
	view      View
	logger    logger.Logger
	obs       *observability.Observability
	clock     func() time.Time
	sessionID string

	mu          sync.Mutex
	state       models.FormState
	checking    bool
	downloading bool
	generation  uint64 // bumped by ResetForm
}

func New(opts Options) (*Controller, error) {
	if opts.Approvals == nil {
		return nil, fmt.Errorf("approval service is required")
	}
	if opts.PDFs == nil {
		return nil, fmt.Errorf("PDF service is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("download sink is required")
	}
	if opts.View == nil {
		opts.View = NopView{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.Observability == nil {
		opts.Observability = observability.Noop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	sessionID := uuid.NewString()
	return &Controller{
		approvals: opts.Approvals,
		pdfs:      opts.PDFs,
		sink:      opts.Sink,
		view:      opts.View,
		logger:    opts.Logger.With(map[string]interface{}{"sessionId": sessionID}),
		obs:       opts.Observability,
		clock:     opts.Clock,
		sessionID: sessionID,
	}, nil
}

// SessionID identifies this form session in logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// State returns a copy of the form state.
func (c *Controller) State() models.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.LastReport = c.state.LastReport.Clone()
	return st
}

// LastReport returns a copy of the cached report, if any.
func (c *Controller) LastReport() (*models.ApprovalReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.LastReport == nil {
		return nil, false
	}
	return c.state.LastReport.Clone(), true
}

// Checking reports whether a check is in flight.
func (c *Controller) Checking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checking
}

// Downloading reports whether a download is in flight.
func (c *Controller) Downloading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloading
}

// Validate checks the form inputs without touching any state.
func Validate(address, structureType string) error {
	if strings.TrimSpace(address) == "" {
		return apperrors.NewAddressRequiredError()
	}
	if !models.StructureType(structureType).Valid() {
		return apperrors.NewStructureTypeRequiredError(structureType)
	}
	return nil
}

// CheckApproval validates the inputs, fetches the approval report and renders
// it. On success the report becomes the cached last report. On a transport
// failure the results are hidden and the cache is cleared.
func (c *Controller) CheckApproval(ctx context.Context, address, structureType string) (*models.ApprovalReport, error) {
	start := time.Now()

	c.mu.Lock()
	if c.checking {
		c.mu.Unlock()
		c.logger.Debug("check ignored, already in flight", nil)
		c.obs.RecordCommand(ctx, "check", "busy", time.Since(start))
		return nil, ErrCheckInFlight
	}
	c.mu.Unlock()

	c.view.HideError()

	address = strings.TrimSpace(address)
	if err := Validate(address, structureType); err != nil {
		c.logger.Info("check rejected", apperrors.LogFields(err))
		c.view.ShowError(apperrors.UserMessage(err))
		c.obs.RecordCommand(ctx, "check", "validation_error", time.Since(start))
		return nil, err
	}

	c.mu.Lock()
	if c.checking {
		c.mu.Unlock()
		c.obs.RecordCommand(ctx, "check", "busy", time.Since(start))
		return nil, ErrCheckInFlight
	}
	c.checking = true
	c.state.Address = address
	c.state.StructureType = models.StructureType(structureType)
	generation := c.generation
	c.mu.Unlock()

	c.view.SetChecking(true)
	defer func() {
		c.mu.Lock()
		c.checking = false
		c.mu.Unlock()
		c.view.SetChecking(false)
	}()

	log := c.logger.With(map[string]interface{}{"structureType": structureType})
	log.Info("checking approval requirements", nil)

	report, err := c.approvals.Execute(ctx, &models.CheckApprovalRequest{
		Address:       address,
		StructureType: structureType,
	})
	var fragment Fragment
	if err == nil {
		fragment, err = Render(report, address, structureType)
	}
	if err != nil {
		stdErr := apperrors.NewApprovalFetchFailedError(err)
		log.Warn("approval check failed", apperrors.LogFields(stdErr))

		c.mu.Lock()
		stale := generation != c.generation
		if !stale {
			c.state.LastReport = nil
		}
		c.mu.Unlock()

		if !stale {
			c.view.ShowError(stdErr.Message)
			c.view.HideResults()
		}
		c.obs.RecordCommand(ctx, "check", "transport_error", time.Since(start))
		return nil, stdErr
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		log.Info("discarding approval report, form was reset", nil)
		c.obs.RecordCommand(ctx, "check", "superseded", time.Since(start))
		return nil, ErrCheckSuperseded
	}
	c.state.LastReport = report.Clone()
	c.mu.Unlock()

	c.view.ShowResults(fragment)
	log.Info("approval report rendered", map[string]interface{}{
		"requiresApproval": report.RequiresApproval,
		"durationMs":       time.Since(start).Milliseconds(),
	})
	c.obs.RecordCommand(ctx, "check", "success", time.Since(start))
	return report.Clone(), nil
}

// DownloadReport requests a PDF of the cached report and saves it through the
// sink. Without a cached report it does nothing and returns "", nil. Inputs
// are validated like a check before anything is sent. A failure leaves the
// cached report intact.
func (c *Controller) DownloadReport(ctx context.Context, address, structureType string) (string, error) {
	start := time.Now()

	c.mu.Lock()
	hasReport := c.state.LastReport != nil
	c.mu.Unlock()
	if !hasReport {
		c.logger.Debug("download ignored, no report", nil)
		c.obs.RecordCommand(ctx, "download", "skipped", time.Since(start))
		return "", nil
	}

	address = strings.TrimSpace(address)
	filename := ReportFilename(structureType, c.clock())
	err := Validate(address, structureType)
	if err == nil {
		err = CheckFilename(filename)
	}
	if err != nil {
		c.logger.Info("download rejected", apperrors.LogFields(err))
		c.view.ShowError(apperrors.UserMessage(err))
		c.obs.RecordCommand(ctx, "download", "validation_error", time.Since(start))
		return "", err
	}

	c.mu.Lock()
	report := c.state.LastReport
	if report == nil {
		c.mu.Unlock()
		c.obs.RecordCommand(ctx, "download", "skipped", time.Since(start))
		return "", nil
	}
	if c.downloading {
		c.mu.Unlock()
		c.obs.RecordCommand(ctx, "download", "busy", time.Since(start))
		return "", ErrDownloadInFlight
	}
	c.downloading = true
	report = report.Clone()
	c.mu.Unlock()

	c.view.SetDownloading(true)
	defer func() {
		c.mu.Lock()
		c.downloading = false
		c.mu.Unlock()
		c.view.SetDownloading(false)
	}()

	log := c.logger.With(map[string]interface{}{"structureType": structureType, "filename": filename})
	log.Info("downloading PDF report", nil)

	path, err := c.fetchPDF(ctx, filename, &models.GeneratePDFRequest{
		Address:       address,
		StructureType: structureType,
		ApprovalData:  report,
	})
	if err != nil {
		stdErr := apperrors.NewPDFDownloadFailedError(err)
		log.Warn("PDF download failed", apperrors.LogFields(stdErr))
		c.view.ShowError(stdErr.Message)
		c.obs.RecordCommand(ctx, "download", "transport_error", time.Since(start))
		return "", stdErr
	}

	log.Info("PDF report saved", map[string]interface{}{"path": path})
	c.obs.RecordCommand(ctx, "download", "success", time.Since(start))
	return path, nil
}

func (c *Controller) fetchPDF(ctx context.Context, filename string, req *models.GeneratePDFRequest) (string, error) {
	doc, err := c.pdfs.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	defer doc.Body.Close()
	return c.sink.Save(ctx, filename, doc.Body)
}

// ResetForm clears the inputs, hides the report and any error, and drops the
// cached report. A check still in flight will not repopulate it.
func (c *Controller) ResetForm() {
	c.mu.Lock()
	c.state = models.FormState{}
	c.generation++
	c.mu.Unlock()

	c.view.ClearInputs()
	c.view.HideResults()
	c.view.HideError()
	c.logger.Debug("form reset", nil)
	c.obs.RecordCommand(context.Background(), "reset", "success", 0)
}
