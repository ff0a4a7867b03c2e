package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qld-approval-checker/internal/form"
	"qld-approval-checker/internal/models"
)

func brisbaneFragment(t *testing.T) form.Fragment {
	t.Helper()
	fragment, err := form.Render(&models.ApprovalReport{
		Zone:         "Low Density Residential",
		Overlays:     []models.Overlay{{Name: "Flood", Active: false}},
		Requirements: []models.Requirement{{Name: "Height limit", Description: "Max 3.5m", Approved: true}},
		SummaryText:  "No approval needed.",
		NextSteps:    []string{"Notify council"},
	}, "12 Smith St, Brisbane", "shed")
	require.NoError(t, err)
	return fragment
}

func newTestView(t *testing.T, format string) (*View, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	v, err := New(Options{Out: &out, Err: &errOut, Format: format, Style: "notty", ShowBusy: true})
	require.NoError(t, err)
	return v, &out, &errOut
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "pdf"`)
}

func TestView_ShowResultsMarkdown(t *testing.T) {
	v, out, _ := newTestView(t, FormatMarkdown)

	v.ShowResults(brisbaneFragment(t))

	rendered := out.String()
	for _, want := range []string{"Property Information", "Low Density Residential", "Flood", "Height limit", "Exempt Development", "Notify council"} {
		assert.Contains(t, rendered, want)
	}
	assert.NotContains(t, rendered, "<div")

	_, visible := v.Results()
	assert.True(t, visible)
	assert.Equal(t, form.DownloadIdleLabel, v.DownloadLabel())
}

func TestView_ShowResultsHTML(t *testing.T) {
	v, out, _ := newTestView(t, FormatHTML)

	v.ShowResults(brisbaneFragment(t))
	assert.Contains(t, out.String(), "Flood: <strong>No</strong>")
	assert.Contains(t, out.String(), `<div class="approval-summary">`)
}

func TestView_ErrorsAndLabels(t *testing.T) {
	v, _, errOut := newTestView(t, FormatHTML)

	assert.Equal(t, form.CheckIdleLabel, v.CheckLabel())
	assert.Empty(t, v.DownloadLabel())

	v.SetChecking(true)
	assert.Equal(t, form.CheckBusyLabel, v.CheckLabel())
	v.SetChecking(false)
	assert.Equal(t, form.CheckIdleLabel, v.CheckLabel())

	v.SetDownloading(true)
	assert.Equal(t, form.DownloadBusyLabel, v.DownloadLabel())
	v.SetDownloading(false)

	v.ShowError("Failed to fetch approval requirements")
	msg, visible := v.ErrorMessage()
	assert.True(t, visible)
	assert.Equal(t, "Failed to fetch approval requirements", msg)
	assert.Contains(t, errOut.String(), "Checking...")
	assert.Contains(t, errOut.String(), "Error: Failed to fetch approval requirements")

	v.HideError()
	_, visible = v.ErrorMessage()
	assert.False(t, visible)
}

func TestView_HideResultsAndClear(t *testing.T) {
	v, out, _ := newTestView(t, FormatHTML)
	v.ShowResults(brisbaneFragment(t))

	v.HideResults()
	v.ClearInputs()

	_, visible := v.Results()
	assert.False(t, visible)
	assert.Empty(t, v.DownloadLabel())
	assert.True(t, strings.HasSuffix(out.String(), "Form cleared.\n"))
}

func TestMarkdown_EscapesServerText(t *testing.T) {
	fragment, err := form.Render(&models.ApprovalReport{
		Zone:      "*bold* [link](http://x)",
		NextSteps: []string{"# heading"},
	}, "1_2 St", "shed")
	require.NoError(t, err)

	md := Markdown(fragment.Report)
	assert.Contains(t, md, `\*bold\* \[link\](http://x)`)
	assert.Contains(t, md, `1. \# heading`)
	assert.Contains(t, md, `1\_2 St`)
}

func TestMarkdown_MultiLineServerTextStaysOneItem(t *testing.T) {
	fragment, err := form.Render(&models.ApprovalReport{
		Zone: "Low Density Residential",
		Overlays: []models.Overlay{
			{Name: "Flood\n- Bushfire: **Yes**", Active: false},
			{Name: "- Heritage", Active: true},
		},
		Requirements: []models.Requirement{{Name: "Height limit\r\n- Setback", Description: "Max 3.5m\n+ Min 1.5m", Approved: true}},
		NextSteps:    []string{"Notify council\n2. Demolish house", "3) Lodge plans"},
	}, "12 Smith St, Brisbane", "shed")
	require.NoError(t, err)

	md := Markdown(fragment.Report)

	var bullets, numbered []string
	for _, line := range strings.Split(md, "\n") {
		switch {
		case strings.HasPrefix(line, "- "):
			bullets = append(bullets, line)
		case len(line) > 0 && line[0] >= '0' && line[0] <= '9':
			numbered = append(numbered, line)
		}
	}

	// 3 property lines, 2 overlays, 1 requirement.
	require.Len(t, bullets, 6)
	assert.Equal(t, `- Flood \- Bushfire: \*\*Yes\*\*: **No**`, bullets[3])
	assert.Equal(t, `- \- Heritage: **Yes**`, bullets[4])
	assert.Contains(t, bullets[5], `Height limit \- Setback`)
	assert.Contains(t, bullets[5], `Max 3.5m + Min 1.5m`)

	assert.Equal(t, []string{
		"1. Notify council 2. Demolish house",
		`2. 3\) Lodge plans`,
	}, numbered)
}
