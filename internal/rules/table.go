// Package rules loads the UX writing rule tables: term mapping (as-is → to-be),
// word replacement (avoid → prefer) and the style guide. A loaded Table is
// immutable; Store hands out the current one and swaps it on explicit reload.
package rules

import (
	"fmt"
	"time"
)

// Pair is one ordered substitution rule.
type Pair struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Field string `json:"field,omitempty"`
	Note  string `json:"note,omitempty"`
}

// PunctuationPolicy selects the title sentence-final punctuation rule.
type PunctuationPolicy string

const (
	// PunctuationRequire warns when a sentence title lacks a terminal mark.
	PunctuationRequire PunctuationPolicy = "require"
	// PunctuationForbid warns when a title ends with a terminal mark.
	PunctuationForbid PunctuationPolicy = "forbid"
	// PunctuationOff disables the title punctuation rule.
	PunctuationOff PunctuationPolicy = "off"
)

// ParsePunctuationPolicy validates a policy name. Empty means require.
func ParsePunctuationPolicy(s string) (PunctuationPolicy, error) {
	switch PunctuationPolicy(s) {
	case "":
		return PunctuationRequire, nil
	case PunctuationRequire, PunctuationForbid, PunctuationOff:
		return PunctuationPolicy(s), nil
	}
	return "", fmt.Errorf("unknown title punctuation policy %q (want require, forbid or off)", s)
}

// StyleGuide holds the predicate switches and thresholds of the style guide.
type StyleGuide struct {
	TitlePunctuation  PunctuationPolicy `yaml:"title_punctuation" json:"titlePunctuation"`
	HanjaWarning      bool              `yaml:"hanja_warning" json:"hanjaWarning"`
	ToastMaxSentences int               `yaml:"toast_max_sentences" json:"toastMaxSentences"`
	ToastMaxLength    int               `yaml:"toast_max_length" json:"toastMaxLength"`
	ButtonMaxLength   int               `yaml:"button_max_length" json:"buttonMaxLength"`
}

// DefaultStyleGuide returns the built-in style guide.
func DefaultStyleGuide() StyleGuide {
	return StyleGuide{
		TitlePunctuation:  PunctuationRequire,
		HanjaWarning:      true,
		ToastMaxSentences: 1,
		ToastMaxLength:    80,
		ButtonMaxLength:   10,
	}
}

func (g *StyleGuide) applyDefaults() {
	d := DefaultStyleGuide()
	if g.TitlePunctuation == "" {
		g.TitlePunctuation = d.TitlePunctuation
	}
	if g.ToastMaxSentences <= 0 {
		g.ToastMaxSentences = d.ToastMaxSentences
	}
	if g.ToastMaxLength <= 0 {
		g.ToastMaxLength = d.ToastMaxLength
	}
	if g.ButtonMaxLength <= 0 {
		g.ButtonMaxLength = d.ButtonMaxLength
	}
}

// Table is the immutable rule set used by one lint pass.
type Table struct {
	Terms    []Pair     `json:"terms"`
	Words    []Pair     `json:"words"`
	Style    StyleGuide `json:"style"`
	Source   string     `json:"source"`
	LoadedAt time.Time  `json:"loadedAt"`
}

// Empty returns a table with no substitution rules and the default style guide.
// It is what lint runs against when the rule files cannot be read.
func Empty() *Table {
	return &Table{Style: DefaultStyleGuide(), Source: "empty"}
}

// WithStyle returns a copy of t with a different style guide.
func (t *Table) WithStyle(g StyleGuide) *Table {
	cp := *t
	cp.Style = g
	cp.Style.applyDefaults()
	return &cp
}

// Stats summarises the table for logs and the readiness endpoint.
func (t *Table) Stats() map[string]int {
	return map[string]int{
		"terms": len(t.Terms),
		"words": len(t.Words),
	}
}
