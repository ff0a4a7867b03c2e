// internal/models/form.go
package models

// FormState is the client-local state of one form session.
type FormState struct {
	Address       string          `json:"address"`
	StructureType StructureType   `json:"structureType"`
	LastReport    *ApprovalReport `json:"lastReport,omitempty"`
}

// HasReport reports whether a successful check is cached.
func (f *FormState) HasReport() bool {
	return f != nil && f.LastReport != nil
}
