package stats

import "fmt"

// ReportSummary renders a short plain-text summary of a stats document,
// used for the scheduled report sent to the admin chat.
func (d Document) ReportSummary() string {
	title := "All-time usage summary"
	if d.WeekStartDate != "" {
		title = fmt.Sprintf("Usage summary for week starting %s", d.WeekStartDate)
	}

	summary := fmt.Sprintf(`%s:

- Interactions: %d
- Voice interactions: %d
`, title, d.Interactions, d.Voice)

	if d.ActiveUsers > 0 {
		summary += fmt.Sprintf("- Active users: %d\n", d.ActiveUsers)
	}

	if len(d.Languages) > 0 {
		summary += fmt.Sprintf("\nLanguages (%d):\n", len(d.Languages))
		for _, l := range d.Languages {
			summary += fmt.Sprintf("- %s: %d interactions", l.Lang, l.Interactions)
			if l.Voice > 0 {
				summary += fmt.Sprintf(", %d voice", l.Voice)
			}
			summary += "\n"
		}
	}
	return summary
}
