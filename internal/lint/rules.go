package lint

import (
	"os"
	"regexp"
	"strings"
)

// Rule checks one style source file.
type Rule interface {
	// Name is the rule identifier used in reports.
	Name() string
	// Check returns the issues found in the file, or an error if the file
	// could not be inspected at all.
	Check(filePath string) ([]Issue, error)
}

// DebugRule flags leftover @debug statements.
type DebugRule struct{}

func (DebugRule) Name() string { return "no-debug" }

func (r DebugRule) Check(filePath string) ([]Issue, error) {
	return checkLines(filePath, func(line string) (string, bool) {
		if strings.Contains(line, "@debug") {
			return "@debug statement left in source", true
		}
		return "", false
	}, r.Name(), SeverityWarning)
}

// ImportantRule flags !important declarations.
type ImportantRule struct{}

func (ImportantRule) Name() string { return "declaration-no-important" }

func (r ImportantRule) Check(filePath string) ([]Issue, error) {
	return checkLines(filePath, func(line string) (string, bool) {
		if strings.Contains(line, "!important") {
			return "avoid !important, raise specificity instead", true
		}
		return "", false
	}, r.Name(), SeverityWarning)
}

// hexColorRe matches hex color tokens; valid lengths are 3, 4, 6 and 8 digits.
var hexColorRe = regexp.MustCompile(`#([0-9a-fA-F]+)\b`)

// InvalidHexRule flags malformed hex colors, which browsers silently drop.
type InvalidHexRule struct{}

func (InvalidHexRule) Name() string { return "color-no-invalid-hex" }

func (r InvalidHexRule) Check(filePath string) ([]Issue, error) {
	return checkLines(filePath, func(line string) (string, bool) {
		for _, m := range hexColorRe.FindAllStringSubmatch(line, -1) {
			switch len(m[1]) {
			case 3, 4, 6, 8:
			default:
				return "invalid hex color " + m[0], true
			}
		}
		return "", false
	}, r.Name(), SeverityError)
}

// EmptySourceRule flags files with no content at all.
type EmptySourceRule struct{}

func (EmptySourceRule) Name() string { return "no-empty-source" }

func (r EmptySourceRule) Check(filePath string) ([]Issue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return []Issue{{
			FilePath: filePath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "file is empty",
		}}, nil
	}
	return nil, nil
}

// checkLines runs a per-line predicate and collects issues with line numbers.
func checkLines(filePath string, check func(line string) (string, bool), rule string, severity Severity) ([]Issue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var issues []Issue
	for i, line := range strings.Split(string(data), "\n") {
		if msg, hit := check(line); hit {
			issues = append(issues, Issue{
				FilePath: filePath,
				Severity: severity,
				Rule:     rule,
				Message:  msg,
				Line:     i + 1,
			})
		}
	}
	return issues, nil
}
