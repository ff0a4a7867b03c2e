// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "qld-approval-checker/internal/common/http"
	"qld-approval-checker/internal/common/logger"
	"qld-approval-checker/internal/form"
	"qld-approval-checker/internal/models"
	checkapproval "qld-approval-checker/internal/services/check-approval"
	generatepdf "qld-approval-checker/internal/services/generate-pdf"
	"qld-approval-checker/internal/ui/console"
)

// ==========================
// Fake approval backend
// ==========================

type recordedRequest struct {
	Path      string
	RequestID string
	Body      map[string]interface{}
}

// approvalBackend answers both endpoints with canned data keyed by structure
// type. legacy switches check-approval to a response without requiresApproval
// and with nextSteps as a single string.
type approvalBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	legacy   bool
	pdfFails bool
}

func (b *approvalBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{Path: r.URL.Path, RequestID: r.Header.Get(apphttp.RequestIDHeader), Body: body})
	legacy, pdfFails := b.legacy, b.pdfFails
	b.mu.Unlock()

	switch r.URL.Path {
	case "/api/check-approval":
		structureType, _ := body["structureType"].(string)
		if body["address"] == "" || structureType == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Address and structure type are required"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reportFor(structureType, legacy))
	case "/api/generate-pdf":
		if pdfFails || body["approvalData"] == nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "wkhtmltopdf not found"})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4\n% " + body["structureType"].(string) + "\n%%EOF\n"))
	default:
		http.NotFound(w, r)
	}
}

func (b *approvalBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func reportFor(structureType string, legacy bool) map[string]interface{} {
	requiresApproval := structureType == "granny_flat"
	report := map[string]interface{}{
		"zone": "Low Density Residential",
		"overlays": []map[string]interface{}{
			{"name": "Flood", "active": false},
			{"name": "Bushfire", "active": requiresApproval},
		},
		"requirements": []map[string]interface{}{
			{"name": "Height limit", "description": "Max 3.5m", "approved": !requiresApproval},
			{"name": "Boundary setback", "description": "Min 1.5m", "approved": true},
		},
	}
	if legacy {
		report["nextSteps"] = "Contact your local council for further details."
		return report
	}
	report["requiresApproval"] = requiresApproval
	report["summaryText"] = "No approval needed."
	report["nextSteps"] = []string{"Notify council"}
	if requiresApproval {
		report["summaryText"] = "A development application is required."
		report["nextSteps"] = []string{"Engage a certifier", "Lodge a development application"}
	}
	return report
}

// ==========================
// Harness
// ==========================

type harness struct {
	backend    *approvalBackend
	controller *form.Controller
	view       *console.View
	out        *strings.Builder
	dir        string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := &approvalBackend{}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger(t)
	client := apphttp.NewClientWith(server.Client(), log)

	checkCfg := checkapproval.DefaultConfig()
	checkCfg.URL = server.URL + "/api/check-approval"
	checker, err := checkapproval.NewService(checkapproval.ServiceDependencies{Logger: log, Client: client}, checkCfg)
	require.NoError(t, err)

	pdfCfg := generatepdf.DefaultConfig()
	pdfCfg.URL = server.URL + "/api/generate-pdf"
	generator, err := generatepdf.NewService(generatepdf.ServiceDependencies{Logger: log, Client: client}, pdfCfg)
	require.NoError(t, err)

	out := &strings.Builder{}
	view, err := console.New(console.Options{Out: out, Err: out, Format: console.FormatHTML})
	require.NoError(t, err)

	dir := t.TempDir()
	controller, err := form.New(form.Options{
		Approvals: checker,
		PDFs:      generator,
		Sink:      form.NewFileSink(afero.NewOsFs(), dir),
		View:      view,
		Logger:    log,
		Clock:     func() time.Time { return time.UnixMilli(1717200000000) },
	})
	require.NoError(t, err)

	return &harness{backend: backend, controller: controller, view: view, out: out, dir: dir}
}

func (h *harness) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// ==========================
// Scenarios
// ==========================

func TestE2E_CheckThenDownload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	report, err := h.controller.CheckApproval(ctx, "12 Smith St, Brisbane", "shed")
	require.NoError(t, err)
	assert.False(t, report.RequiresApproval)
	assert.Len(t, report.Overlays, 2)

	fragment, visible := h.view.Results()
	require.True(t, visible)
	assert.Equal(t, form.SummaryExemptHeading, fragment.Report.Summary.Heading)
	assert.Contains(t, h.out.String(), "Flood: <strong>No</strong>")

	path, err := h.controller.DownloadReport(ctx, "12 Smith St, Brisbane", "shed")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.dir, "QLD-Approval-Check-shed-1717200000000.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-1.4"))

	requests := h.backend.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/api/check-approval", requests[0].Path)
	assert.Equal(t, map[string]interface{}{"address": "12 Smith St, Brisbane", "structureType": "shed"}, requests[0].Body)
	assert.Equal(t, "/api/generate-pdf", requests[1].Path)
	approvalData, ok := requests[1].Body["approvalData"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Low Density Residential", approvalData["zone"])
	assert.NotEqual(t, requests[0].RequestID, requests[1].RequestID)
}

func TestE2E_RequiresApproval(t *testing.T) {
	h := newHarness(t)

	_, err := h.controller.CheckApproval(context.Background(), "3 Bush Rd, Toowoomba", "granny_flat")
	require.NoError(t, err)

	fragment, _ := h.view.Results()
	rv := fragment.Report
	assert.Equal(t, "Granny Flat", rv.StructureLabel)
	assert.Equal(t, headingFor(true), rv.Summary.Heading)
	assert.Equal(t, []presence{{"Flood", "No"}, {"Bushfire", "Yes"}}, presenceOf(rv))
	assert.Equal(t, []string{"Engage a certifier", "Lodge a development application"}, rv.NextSteps)
}

func TestE2E_LegacyResponseRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.controller.CheckApproval(ctx, "12 Smith St, Brisbane", "shed")
	require.NoError(t, err)

	h.backend.mu.Lock()
	h.backend.legacy = true
	h.backend.mu.Unlock()

	_, err = h.controller.CheckApproval(ctx, "12 Smith St, Brisbane", "shed")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch approval requirements", err.Error())

	_, visible := h.view.Results()
	assert.False(t, visible)
	_, ok := h.controller.LastReport()
	assert.False(t, ok)

	path, err := h.controller.DownloadReport(ctx, "12 Smith St, Brisbane", "shed")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, h.files(t))
}

func TestE2E_PDFFailureKeepsReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.controller.CheckApproval(ctx, "12 Smith St, Brisbane", "patio")
	require.NoError(t, err)

	h.backend.mu.Lock()
	h.backend.pdfFails = true
	h.backend.mu.Unlock()

	_, err = h.controller.DownloadReport(ctx, "12 Smith St, Brisbane", "patio")
	require.Error(t, err)
	assert.Equal(t, "Failed to download PDF: Failed to generate PDF", err.Error())

	msg, visible := h.view.ErrorMessage()
	assert.True(t, visible)
	assert.Equal(t, "Failed to download PDF: Failed to generate PDF", msg)

	_, ok := h.controller.LastReport()
	assert.True(t, ok)
	assert.Empty(t, h.files(t))
}

func TestE2E_ResetThenDownload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.controller.CheckApproval(ctx, "12 Smith St, Brisbane", "carport")
	require.NoError(t, err)
	h.controller.ResetForm()

	path, err := h.controller.DownloadReport(ctx, "12 Smith St, Brisbane", "carport")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Len(t, h.backend.Requests(), 1)
	assert.Equal(t, models.FormState{}, h.controller.State())
}

// ==========================
// Helpers
// ==========================

type presence struct {
	Name     string
	Presence string
}

func presenceOf(rv *form.ReportView) []presence {
	out := make([]presence, 0, len(rv.Overlays))
	for _, o := range rv.Overlays {
		out = append(out, presence{o.Name, o.Presence})
	}
	return out
}

func headingFor(requiresApproval bool) string {
	if requiresApproval {
		return form.SummaryRequiresApprovalHeading
	}
	return form.SummaryExemptHeading
}
