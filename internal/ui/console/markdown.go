package console

import (
	"fmt"
	"regexp"
	"strings"

	"qld-approval-checker/internal/form"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// orderedMarker matches text that would open an ordered list item.
var orderedMarker = regexp.MustCompile(`^(\d+)([.)])`)

// md escapes server text for a single markdown line. Line breaks are folded
// so one value never turns into extra list items.
func md(s string) string {
	s = strings.TrimLeft(mdEscaper.Replace(s), " \t")
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return `\` + s
	}
	return orderedMarker.ReplaceAllString(s, `$1\$2`)
}

// Markdown lays a report out with the same sections as its HTML fragment.
func Markdown(rv *form.ReportView) string {
	var b strings.Builder

	b.WriteString("## Property Information\n\n")
	fmt.Fprintf(&b, "- **Address:** %s\n", md(rv.Address))
	fmt.Fprintf(&b, "- **Structure Type:** %s\n", md(rv.StructureLabel))
	fmt.Fprintf(&b, "- **Zone:** %s\n\n", md(rv.Zone))

	b.WriteString("## Property Overlays\n\n")
	for _, o := range rv.Overlays {
		fmt.Fprintf(&b, "- %s: **%s**\n", md(o.Name), o.Presence)
	}
	b.WriteString("\n## Approval Checklist\n\n")
	for _, r := range rv.Requirements {
		fmt.Fprintf(&b, "- %s **%s**: %s\n", r.Icon, md(r.Name), md(r.Description))
	}

	b.WriteString("\n## Approval Summary\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", rv.Summary.Heading)
	if rv.Summary.Text != "" {
		fmt.Fprintf(&b, "%s\n\n", md(rv.Summary.Text))
	}

	b.WriteString("## Next Steps\n\n")
	for i, step := range rv.NextSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, md(step))
	}
	fmt.Fprintf(&b, "\n*%s*\n", md(rv.Disclaimer))
	return b.String()
}
