package lint

import (
	"fmt"
	"io"
	"sort"
)

// FormatText writes a human-readable diagnostic report. Callers should not
// invoke it for empty results; empty reports are suppressed upstream.
func FormatText(w io.Writer, result *Result) error {
	issues := make([]Issue, len(result.Issues))
	copy(issues, result.Issues)
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].FilePath != issues[j].FilePath {
			return issues[i].FilePath < issues[j].FilePath
		}
		return issues[i].Line < issues[j].Line
	})

	lastFile := ""
	for _, issue := range issues {
		if issue.FilePath != lastFile {
			if _, err := fmt.Fprintf(w, "%s\n", issue.FilePath); err != nil {
				return err
			}
			lastFile = issue.FilePath
		}
		if _, err := fmt.Fprintf(w, "  %d:\t%s\t%s (%s)\n", issue.Line, issue.Severity, issue.Message, issue.Rule); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d files scanned, %d errors, %d warnings\n",
		result.FilesTotal, result.ErrorCount(), result.WarningCount())
	return err
}
