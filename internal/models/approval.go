// internal/models/approval.go
package models

// ApprovalReport is the check-approval response. It is treated as immutable
// once received; use Clone before handing it to code that may modify it.
type ApprovalReport struct {
	Zone             string        `json:"zone"`
	Overlays         []Overlay     `json:"overlays"`
	Requirements     []Requirement `json:"requirements"`
	RequiresApproval bool          `json:"requiresApproval"`
	SummaryText      string        `json:"summaryText"`
	NextSteps        []string      `json:"nextSteps"`
}

// Overlay is a planning-regulation attribute of the property.
type Overlay struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Requirement is a single approval checklist item.
type Requirement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Approved    bool   `json:"approved"`
}

// Clone returns a deep copy of the report.
func (r *ApprovalReport) Clone() *ApprovalReport {
	if r == nil {
		return nil
	}
	out := *r
	if r.Overlays != nil {
		out.Overlays = append([]Overlay(nil), r.Overlays...)
	}
	if r.Requirements != nil {
		out.Requirements = append([]Requirement(nil), r.Requirements...)
	}
	if r.NextSteps != nil {
		out.NextSteps = append([]string(nil), r.NextSteps...)
	}
	return &out
}

// CheckApprovalRequest is the body of POST /api/check-approval.
type CheckApprovalRequest struct {
	Address       string `json:"address"`
	StructureType string `json:"structureType"`
}

// GeneratePDFRequest is the body of POST /api/generate-pdf.
type GeneratePDFRequest struct {
	Address       string          `json:"address"`
	StructureType string          `json:"structureType"`
	ApprovalData  *ApprovalReport `json:"approvalData"`
}
