// Package host models the design tool the plugin runs in: selection,
// descendant search, font preparation, text mutation and user notices.
package host

import (
	"context"
	"errors"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

var (
	// ErrFontNotLoaded is returned by SetText when LoadTextResources did not
	// succeed for the node first.
	ErrFontNotLoaded = errors.New("text resources not loaded")
	// ErrFontUnavailable is returned by LoadTextResources for a missing font.
	ErrFontUnavailable = errors.New("font unavailable")
	// ErrNotText is returned when a text operation targets a container.
	ErrNotText = errors.New("node is not a text layer")
)

// Document is the host primitives the service consumes.
type Document interface {
	// CurrentSelection returns the selected roots in selection order.
	CurrentSelection() []*domain.Node
	// FindDescendants returns the visible descendants of root matching pred, in pre-order.
	FindDescendants(root *domain.Node, pred func(*domain.Node) bool) []*domain.Node
	// LoadTextResources prepares the node's font; SetText is invalid until it succeeds.
	LoadTextResources(ctx context.Context, n *domain.Node) error
	SetText(n *domain.Node, text string) error
	// Notify shows a fire-and-forget message to the operator.
	Notify(msg string)
	// OnSelectionChanged registers fn and returns a function that removes it.
	OnSelectionChanged(fn func([]*domain.Node)) (cancel func())
}

// Patch is one text mutation, returned to the plugin to replay on the canvas.
type Patch struct {
	NodeID     string `json:"nodeId"`
	Characters string `json:"characters"`
}

// Snapshot is the document state the plugin posts with a request.
type Snapshot struct {
	Selection []*domain.Node `json:"selection"`
	// MissingFonts lists "family__style" keys the host could not load.
	MissingFonts []string `json:"missingFonts,omitempty"`
}
