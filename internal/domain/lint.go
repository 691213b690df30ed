package domain

// Severity of a lint diagnostic.
type Severity string

const (
	SeverityOK   Severity = "ok"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// LintItem is one diagnostic against a field. Suggested is nil when the rule
// has no replacement to offer; a non-nil empty string means "remove".
type LintItem struct {
	Field     string   `json:"field"`
	Severity  Severity `json:"severity"`
	Rule      string   `json:"rule"`
	Message   string   `json:"message"`
	Suggested *string  `json:"suggested,omitempty"`
}

// Suggest returns a pointer to s for LintItem.Suggested.
func Suggest(s string) *string { return &s }

// Worst returns the most severe severity in items.
func Worst(items []LintItem) Severity {
	worst := SeverityOK
	for _, it := range items {
		switch it.Severity {
		case SeverityFail:
			return SeverityFail
		case SeverityWarn:
			worst = SeverityWarn
		}
	}
	return worst
}
