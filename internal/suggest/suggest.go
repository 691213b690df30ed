// Package suggest builds corrected copy for a FieldSet and recommends a
// different component kind when the copy does not fit the current one.
package suggest

import (
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/lint"
)

// Suggestion is FieldSet-shaped copy for one kind.
type Suggestion struct {
	Kind        domain.Kind `json:"kind"`
	Title       string      `json:"title"`
	Identifier  string      `json:"identifier"`
	Description string      `json:"description"`
	Condition   string      `json:"condition"`
	LeftButton  string      `json:"leftButton"`
	RightButton string      `json:"rightButton"`
}

// Get returns the suggested text of a named field.
func (s Suggestion) Get(field string) string {
	switch field {
	case domain.FieldTitle:
		return s.Title
	case domain.FieldIdentifier:
		return s.Identifier
	case domain.FieldDescription:
		return s.Description
	case domain.FieldCondition:
		return s.Condition
	case domain.FieldLeftButton:
		return s.LeftButton
	case domain.FieldRightButton:
		return s.RightButton
	}
	return ""
}

func (s *Suggestion) set(field, v string) {
	switch field {
	case domain.FieldTitle:
		s.Title = v
	case domain.FieldIdentifier:
		s.Identifier = v
	case domain.FieldDescription:
		s.Description = v
	case domain.FieldCondition:
		s.Condition = v
	case domain.FieldLeftButton:
		s.LeftButton = v
	case domain.FieldRightButton:
		s.RightButton = v
	}
}

// Fields returns the suggestion as an apply-request payload.
func (s Suggestion) Fields() map[string]string {
	out := make(map[string]string, len(domain.TextFields))
	for _, f := range domain.TextFields {
		out[f] = s.Get(f)
	}
	return out
}

// Build keeps every non-empty field, passed through the substitution passes,
// and fills empty fields from the kind's template. Alerts never suggest a
// left button.
func Build(kind domain.Kind, fs domain.FieldSet, e *lint.Engine) Suggestion {
	if e == nil {
		e = lint.New(nil)
	}
	tpl := templateFor(kind)
	s := Suggestion{Kind: kind}
	for _, field := range domain.TextFields {
		if cur := fs.Text(field); cur != "" {
			s.set(field, e.SubstituteField(field, cur))
			continue
		}
		s.set(field, tpl.get(field))
	}
	if kind == domain.KindAlert {
		s.LeftButton = ""
	}
	return s
}
