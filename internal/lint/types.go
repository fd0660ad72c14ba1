package lint

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but never block builds.
	SeverityWarning
	// SeverityError indicates issues that will break rendering in browsers.
	// Even these are advisory: the linter never aborts the pipeline.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single problem found in a style source.
type Issue struct {
	FilePath string   // Path to the file
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier (e.g. "color-no-invalid-hex")
	Message  string   // Brief description of the issue
	Line     int      // Line number (0 if file-level issue)
}

// Result contains all issues found during one lint pass.
type Result struct {
	Issues     []Issue
	FilesTotal int // Total files scanned
}

// Empty reports whether the pass found nothing to report.
func (r *Result) Empty() bool {
	return len(r.Issues) == 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}
