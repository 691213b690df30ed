package lint

import (
	"strings"

	"github.com/seola0114/ux-writing-plugin/internal/rules"
)

// inScope reports whether a word rule applies to field. An empty or "all"
// scope matches every field; otherwise the scope is a list of field names
// separated by commas, slashes or spaces. "button" matches both buttons.
func inScope(scope, field string) bool {
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" || scope == "all" || field == "" {
		return true
	}
	field = strings.ToLower(field)
	for _, s := range strings.FieldsFunc(scope, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '|'
	}) {
		if s == field || (s == "button" && strings.HasSuffix(field, "button")) {
			return true
		}
	}
	return false
}

// TermMismatches returns every term pair whose as-is text occurs in text,
// in table order.
func (e *Engine) TermMismatches(text string) []rules.Pair {
	if text == "" {
		return nil
	}
	var out []rules.Pair
	for _, p := range e.table.Terms {
		if strings.Contains(text, p.From) {
			out = append(out, p)
		}
	}
	return out
}

// ReplaceWords passes text through every matching avoid→prefer rule in table
// order and returns the composed result with the rules that fired.
func (e *Engine) ReplaceWords(field, text string) (string, []rules.Pair) {
	if text == "" {
		return text, nil
	}
	var fired []rules.Pair
	for _, p := range e.table.Words {
		if !inScope(p.Field, field) || !strings.Contains(text, p.From) {
			continue
		}
		text = strings.ReplaceAll(text, p.From, p.To)
		fired = append(fired, p)
	}
	return text, fired
}

// ApplyTerms replaces every as-is term with its to-be form, in table order.
func (e *Engine) ApplyTerms(text string) string {
	for _, p := range e.TermMismatches(text) {
		text = strings.ReplaceAll(text, p.From, p.To)
	}
	return text
}

// SubstituteField runs both substitution passes for one field: terms first,
// then word replacement.
func (e *Engine) SubstituteField(field, text string) string {
	out, _ := e.ReplaceWords(field, e.ApplyTerms(text))
	return out
}

// Substitute runs both substitution passes with every rule in scope.
func (e *Engine) Substitute(text string) string {
	return e.SubstituteField("", text)
}
