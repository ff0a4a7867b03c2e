package form

import (
	"bytes"
	"fmt"
	"html/template"

	"qld-approval-checker/internal/models"
)

// Disclaimer closes every rendered report.
const Disclaimer = "This assessment is based on the information provided and current Queensland planning regulations. " +
	"This is not a legal document. For official confirmation, please contact your local council."

// ReportView is the display structure of an approval report.
type ReportView struct {
	Address        string
	StructureType  string
	StructureLabel string
	Zone           string
	Overlays       []OverlayRow
	Requirements   []RequirementRow
	Summary        SummaryView
	NextSteps      []string
	Disclaimer     string
}

type OverlayRow struct {
	Name     string
	Presence string // "Yes" or "No"
}

type RequirementRow struct {
	Name        string
	Description string
	Approved    bool
	StatusClass string // "approved" or "not-approved"
	Icon        string
}

type SummaryView struct {
	RequiresApproval bool
	StatusClass      string // "requires-approval" or "exempt"
	Heading          string
	Text             string
}

const (
	SummaryRequiresApprovalHeading = "Development Approval Required"
	SummaryExemptHeading           = "Exempt Development"
)

// RenderReport builds the display structure for report. It has no side
// effects and the same inputs always give the same output.
func RenderReport(report *models.ApprovalReport, address, structureType string) *ReportView {
	view := &ReportView{
		Address:        address,
		StructureType:  structureType,
		StructureLabel: models.StructureType(structureType).Label(),
		Disclaimer:     Disclaimer,
	}
	if report == nil {
		view.Summary = summaryFor(false, "")
		return view
	}

	view.Zone = report.Zone
	view.Overlays = make([]OverlayRow, 0, len(report.Overlays))
	for _, o := range report.Overlays {
		view.Overlays = append(view.Overlays, OverlayRow{Name: o.Name, Presence: yesNo(o.Active)})
	}

	view.Requirements = make([]RequirementRow, 0, len(report.Requirements))
	for _, r := range report.Requirements {
		row := RequirementRow{Name: r.Name, Description: r.Description, Approved: r.Approved}
		if r.Approved {
			row.StatusClass, row.Icon = "approved", "✓"
		} else {
			row.StatusClass, row.Icon = "not-approved", "✗"
		}
		view.Requirements = append(view.Requirements, row)
	}

	view.Summary = summaryFor(report.RequiresApproval, report.SummaryText)
	view.NextSteps = append([]string{}, report.NextSteps...)
	return view
}

func summaryFor(requiresApproval bool, text string) SummaryView {
	if requiresApproval {
		return SummaryView{
			RequiresApproval: true,
			StatusClass:      "requires-approval",
			Heading:          SummaryRequiresApprovalHeading,
			Text:             text,
		}
	}
	return SummaryView{
		StatusClass: "exempt",
		Heading:     SummaryExemptHeading,
		Text:        text,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

var reportTmpl = template.Must(template.New("report").Parse(`
<div class="property-info">
    <h3>Property Information</h3>
    <p><strong>Address:</strong> {{.Address}}</p>
    <p><strong>Structure Type:</strong> {{.StructureLabel}}</p>
    <p><strong>Zone:</strong> {{.Zone}}</p>
</div>

<div class="overlays-info">
    <h3>Property Overlays</h3>
    <ul>
{{- range .Overlays}}
        <li>{{.Name}}: <strong>{{.Presence}}</strong></li>
{{- end}}
    </ul>
</div>

<div class="requirements-info">
    <h3>Approval Checklist</h3>
    <ul class="approval-checklist">
{{- range .Requirements}}
        <li class="{{.StatusClass}}">
            <span class="status-icon">{{.Icon}}</span>
            <div class="requirement-details">
                <strong>{{.Name}}</strong>
                <p>{{.Description}}</p>
            </div>
        </li>
{{- end}}
    </ul>
</div>

<div class="approval-summary">
    <h3>Approval Summary</h3>
    <div class="summary-status {{.Summary.StatusClass}}">
        <span class="status-indicator"></span>
        <p><strong>{{.Summary.Heading}}</strong></p>
    </div>
    <p>{{.Summary.Text}}</p>
</div>

<div class="next-steps">
    <h3>Next Steps</h3>
    <ul>
{{- range .NextSteps}}
        <li>{{.}}</li>
{{- end}}
    </ul>
    <div class="disclaimer">
        <p><small>{{.Disclaimer}}</small></p>
    </div>
</div>
`))

// HTML renders the view as an auto-escaped HTML fragment.
func (v *ReportView) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Render produces the complete fragment for a report.
func Render(report *models.ApprovalReport, address, structureType string) (Fragment, error) {
	view := RenderReport(report, address, structureType)
	html, err := view.HTML()
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Report: view, HTML: html}, nil
}
