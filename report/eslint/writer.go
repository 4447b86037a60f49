package eslint

import (
	"fmt"
	"io"
	"strings"

	"github.com/securejs/jssec"
)

// WriteReport write a report in the eslint unix format to the output writer
func WriteReport(w io.Writer, data *jssec.ReportInfo) error {
	// Output Sample:
	// /tmp/app.js:11:14: [CWE-1321] Merging enumerated properties into an object with a dynamic key (Rule:J201, Severity:HIGH, Confidence:HIGH)

	for _, issue := range data.Issues {
		what := issue.What
		if issue.Cwe != nil && issue.Cwe.ID != "" {
			what = fmt.Sprintf("[%s] %s", issue.Cwe.SprintID(), issue.What)
		}

		// issue.Line uses "start-end" format for multiple line detection.
		lines := strings.Split(issue.Line, "-")
		start := lines[0]

		_, err := fmt.Fprintf(w, "%s:%s:%s: %s (Rule:%s, Severity:%s, Confidence:%s)\n",
			issue.File,
			start,
			issue.Col,
			what,
			issue.RuleID,
			issue.Severity.String(),
			issue.Confidence.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
