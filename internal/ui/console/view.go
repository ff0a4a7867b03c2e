// Package console binds the approval form to a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/glamour"

	"qld-approval-checker/internal/form"
)

// Output formats for rendered reports.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

type Options struct {
	Out    io.Writer
	Err    io.Writer
	Format string
	// Style is a glamour style name or path; empty picks one from the terminal.
	Style    string
	WordWrap int
	// ShowBusy prints the busy labels while a command runs.
	ShowBusy bool
}

// View prints form updates to a terminal and remembers what is visible.
type View struct {
	out      io.Writer
	errOut   io.Writer
	format   string
	showBusy bool
	renderer *glamour.TermRenderer

	mu             sync.Mutex
	checking       bool
	downloading    bool
	errorMessage   string
	errorVisible   bool
	resultsVisible bool
	fragment       form.Fragment
}

var _ form.View = (*View)(nil)

func New(opts Options) (*View, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}

	v := &View{out: opts.Out, errOut: opts.Err, format: opts.Format, showBusy: opts.ShowBusy}
	switch opts.Format {
	case FormatHTML:
	case FormatMarkdown:
		styleOpt := glamour.WithAutoStyle()
		if opts.Style != "" {
			styleOpt = glamour.WithStylePath(opts.Style)
		}
		renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(opts.WordWrap))
		if err != nil {
			return nil, fmt.Errorf("create markdown renderer: %w", err)
		}
		v.renderer = renderer
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
	return v, nil
}

func (v *View) SetChecking(busy bool) {
	v.mu.Lock()
	v.checking = busy
	v.mu.Unlock()
	if busy && v.showBusy {
		fmt.Fprintln(v.errOut, form.CheckBusyLabel)
	}
}

func (v *View) SetDownloading(busy bool) {
	v.mu.Lock()
	v.downloading = busy
	v.mu.Unlock()
	if busy && v.showBusy {
		fmt.Fprintln(v.errOut, form.DownloadBusyLabel)
	}
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	v.errorMessage, v.errorVisible = message, true
	v.mu.Unlock()
	fmt.Fprintf(v.errOut, "Error: %s\n", message)
}

func (v *View) HideError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorVisible = false
}

func (v *View) ShowResults(fragment form.Fragment) {
	v.mu.Lock()
	v.fragment, v.resultsVisible = fragment, true
	v.mu.Unlock()

	out, err := v.render(fragment)
	if err != nil {
		fmt.Fprintf(v.errOut, "Error: render report: %v\n", err)
		return
	}
	fmt.Fprint(v.out, out)
}

func (v *View) HideResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resultsVisible = false
}

func (v *View) ClearInputs() {
	fmt.Fprintln(v.out, "Form cleared.")
}

func (v *View) render(fragment form.Fragment) (string, error) {
	if v.format == FormatHTML || fragment.Report == nil {
		return string(fragment.HTML) + "\n", nil
	}
	return v.renderer.Render(Markdown(fragment.Report))
}

// CheckLabel is the current caption of the check control.
func (v *View) CheckLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.checking {
		return form.CheckBusyLabel
	}
	return form.CheckIdleLabel
}

// DownloadLabel is the current caption of the download control. It is empty
// while no report is shown.
func (v *View) DownloadLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.downloading:
		return form.DownloadBusyLabel
	case v.resultsVisible:
		return form.DownloadIdleLabel
	default:
		return ""
	}
}

// ErrorMessage returns the visible error message, if any.
func (v *View) ErrorMessage() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errorMessage, v.errorVisible
}

// Results returns the visible report, if any.
func (v *View) Results() (form.Fragment, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fragment, v.resultsVisible
}
