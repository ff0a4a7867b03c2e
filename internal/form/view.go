package form

import "html/template"

// Control labels for the idle and busy states.
const (
	CheckIdleLabel    = "Check Requirements"
	CheckBusyLabel    = "Checking..."
	DownloadIdleLabel = "Download PDF"
	DownloadBusyLabel = "Generating PDF..."
)

// View is the UI binding driven by the Controller. Implementations must not
// call back into the Controller from these methods.
type View interface {
	// SetChecking disables the check control and shows CheckBusyLabel while
	// busy, and restores CheckIdleLabel otherwise.
	SetChecking(busy bool)
	// SetDownloading does the same for the download control.
	SetDownloading(busy bool)
	// ShowError replaces any visible message.
	ShowError(message string)
	HideError()
	// ShowResults displays a rendered report and reveals the download control.
	ShowResults(fragment Fragment)
	HideResults()
	// ClearInputs empties the address field and the structure type selection.
	ClearInputs()
}

// Fragment is a rendered report: the display structure and its HTML.
type Fragment struct {
	Report *ReportView
	HTML   template.HTML
}

// NopView ignores every call.
type NopView struct{}

func (NopView) SetChecking(bool)     {}
func (NopView) SetDownloading(bool)  {}
func (NopView) ShowError(string)     {}
func (NopView) HideError()           {}
func (NopView) ShowResults(Fragment) {}
func (NopView) HideResults()         {}
func (NopView) ClearInputs()         {}
