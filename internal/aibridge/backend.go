// Package aibridge turns a free-text situation into modal copy through an AI
// backend, falling back to local rules whenever the backend cannot answer.
package aibridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrInvalidJSON is returned when a backend answers with something that is not the expected JSON.
	ErrInvalidJSON = errors.New("backend returned invalid JSON")
	// ErrEmptyCompletion is returned when a model answers with no content.
	ErrEmptyCompletion = errors.New("model returned no content")
)

// Backend answers a writing request with the backend contract payload.
type Backend interface {
	Name() string
	Suggest(ctx context.Context, req BackendRequest) (*BackendResponse, error)
}

// RoleText is one labelled text of a lint request.
type RoleText struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// BackendRequest is the POST body of the backend contract. Text and Prompt
// are synonyms; Texts carries per-field copy for lint requests.
type BackendRequest struct {
	Text   string     `json:"text,omitempty"`
	Prompt string     `json:"prompt,omitempty"`
	Texts  []RoleText `json:"texts,omitempty"`
}

// Input returns the free text of the request.
func (r BackendRequest) Input() string {
	if s := strings.TrimSpace(r.Text); s != "" {
		return s
	}
	return strings.TrimSpace(r.Prompt)
}

// RoleSuggestion is one suggested rewrite in the list response shape.
type RoleSuggestion struct {
	Role      string   `json:"role"`
	Suggested string   `json:"suggested"`
	Reasons   []string `json:"reasons,omitempty"`
}

// Component carries the recommended kind. It decodes from both
// {"type": "confirm"} and a bare "confirm".
type Component struct {
	Type string `json:"type"`
}

func (c *Component) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Type)
	}
	type plain Component
	return json.Unmarshal(data, (*plain)(c))
}

// Copy is modal copy in the flat shape the operator panel renders.
type Copy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Where       string `json:"where,omitempty"`
	Left        string `json:"left"`
	Right       string `json:"right"`
}

// BackendResponse accepts every response shape backends have used: a
// suggestion list with a component object, flat title/description/left/right
// fields, or a nested suggestion with a type.
type BackendResponse struct {
	Suggestions []RoleSuggestion `json:"suggestions,omitempty"`
	Component   *Component       `json:"component,omitempty"`
	Type        string           `json:"type,omitempty"`
	Suggestion  *Copy            `json:"suggestion,omitempty"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Left        string           `json:"left,omitempty"`
	Right       string           `json:"right,omitempty"`
	Reasons     []string         `json:"reasons,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Kind returns the component type the backend chose, "" when absent.
func (r *BackendResponse) Kind() string {
	if r.Component != nil && r.Component.Type != "" {
		return r.Component.Type
	}
	return r.Type
}

// Flatten merges every response shape into one Copy plus the reasons.
// Later shapes only fill fields the earlier ones left empty.
func (r *BackendResponse) Flatten() (Copy, []string) {
	var c Copy
	var reasons []string
	seen := map[string]bool{}
	addReasons := func(rs []string) {
		for _, s := range rs {
			if s = strings.TrimSpace(s); s != "" && !seen[s] {
				seen[s] = true
				reasons = append(reasons, s)
			}
		}
	}
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = strings.TrimSpace(v)
		}
	}

	fill(&c.Title, r.Title)
	fill(&c.Description, r.Description)
	fill(&c.Left, r.Left)
	fill(&c.Right, r.Right)
	if s := r.Suggestion; s != nil {
		fill(&c.Title, s.Title)
		fill(&c.Description, s.Description)
		fill(&c.Where, s.Where)
		fill(&c.Left, s.Left)
		fill(&c.Right, s.Right)
	}
	for _, s := range r.Suggestions {
		switch strings.ToLower(s.Role) {
		case "title":
			fill(&c.Title, s.Suggested)
		case "description":
			fill(&c.Description, s.Suggested)
		case "where":
			fill(&c.Where, s.Suggested)
		case "left", "leftbutton":
			fill(&c.Left, s.Suggested)
		case "right", "rightbutton":
			fill(&c.Right, s.Suggested)
		}
		addReasons(s.Reasons)
	}
	addReasons(r.Reasons)
	return c, reasons
}

// ParseResponse decodes a backend body, tolerating a Markdown code fence
// around the JSON.
func ParseResponse(raw []byte) (*BackendResponse, error) {
	raw = stripFences(raw)
	if len(raw) == 0 {
		return nil, ErrInvalidJSON
	}
	var out BackendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return &out, nil
}

func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}
