package main

import (
	"fmt"

	"github.com/spf13/afero"

	apphttp "qld-approval-checker/internal/common/http"
	"qld-approval-checker/internal/common/observability"
	"qld-approval-checker/internal/form"
	checkapproval "qld-approval-checker/internal/services/check-approval"
	generatepdf "qld-approval-checker/internal/services/generate-pdf"
)

// newController wires both backend services, the download directory and view
// into a form session.
func (c *cli) newController(view form.View, obs *observability.Observability) (*form.Controller, error) {
	timeout := c.cfg.API.TimeoutDuration()
	client := apphttp.NewClient(timeout, c.log)

	checkCfg := checkapproval.DefaultConfig()
	checkCfg.URL = c.cfg.API.CheckApprovalURL()
	checkCfg.Timeout = timeout
	checker, err := checkapproval.NewService(checkapproval.ServiceDependencies{Logger: c.log, Client: client}, checkCfg)
	if err != nil {
		return nil, fmt.Errorf("check-approval service: %w", err)
	}

	pdfCfg := generatepdf.DefaultConfig()
	pdfCfg.URL = c.cfg.API.GeneratePDFURL()
	pdfCfg.Timeout = timeout
	generator, err := generatepdf.NewService(generatepdf.ServiceDependencies{Logger: c.log, Client: client}, pdfCfg)
	if err != nil {
		return nil, fmt.Errorf("generate-pdf service: %w", err)
	}

	return form.New(form.Options{
		Approvals:     checker,
		PDFs:          generator,
		Sink:          form.NewFileSink(afero.NewOsFs(), c.cfg.Download.Dir),
		View:          view,
		Logger:        c.log,
		Observability: obs,
	})
}
