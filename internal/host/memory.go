package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

// MemoryDocument is a Document over a posted Snapshot. Mutations change the
// in-memory nodes and are recorded as patches for the plugin to replay.
type MemoryDocument struct {
	mu        sync.Mutex
	selection []*domain.Node
	missing   map[string]bool
	loaded    map[string]bool
	patches   []Patch
	notices   []string
	listeners map[int]func([]*domain.Node)
	nextID    int
}

// NewMemoryDocument returns a document holding snap.
func NewMemoryDocument(snap Snapshot) *MemoryDocument {
	d := &MemoryDocument{
		missing:   map[string]bool{},
		loaded:    map[string]bool{},
		listeners: map[int]func([]*domain.Node){},
	}
	for _, f := range snap.MissingFonts {
		d.missing[f] = true
	}
	d.selection = append(d.selection, snap.Selection...)
	return d
}

// CurrentSelection returns a copy of the selection slice. The nodes are
// shared, so a task holding a root keeps it after SetSelection.
func (d *MemoryDocument) CurrentSelection() []*domain.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.Node, len(d.selection))
	copy(out, d.selection)
	return out
}

// SetSelection replaces the selection and notifies listeners.
func (d *MemoryDocument) SetSelection(nodes []*domain.Node) {
	d.mu.Lock()
	d.selection = append([]*domain.Node(nil), nodes...)
	fns := make([]func([]*domain.Node), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(d.CurrentSelection())
	}
}

func (d *MemoryDocument) FindDescendants(root *domain.Node, pred func(*domain.Node) bool) []*domain.Node {
	var out []*domain.Node
	domain.Walk(root, func(n, _ *domain.Node) bool {
		if n != root && (pred == nil || pred(n)) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (d *MemoryDocument) LoadTextResources(ctx context.Context, n *domain.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == nil || !n.IsText() {
		return ErrNotText
	}
	key := n.FontKey()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.missing[key] {
		return fmt.Errorf("%w: %s", ErrFontUnavailable, key)
	}
	d.loaded[key] = true
	return nil
}

func (d *MemoryDocument) SetText(n *domain.Node, text string) error {
	if n == nil || !n.IsText() {
		return ErrNotText
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded[n.FontKey()] {
		return fmt.Errorf("%w: %s", ErrFontNotLoaded, n.ID)
	}
	n.Characters = text
	d.patches = append(d.patches, Patch{NodeID: n.ID, Characters: text})
	return nil
}

func (d *MemoryDocument) Notify(msg string) {
	d.mu.Lock()
	d.notices = append(d.notices, msg)
	d.mu.Unlock()
}

func (d *MemoryDocument) OnSelectionChanged(fn func([]*domain.Node)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// Patches returns the mutations recorded so far.
func (d *MemoryDocument) Patches() []Patch {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Patch(nil), d.patches...)
}

// Notices returns the operator messages recorded so far.
func (d *MemoryDocument) Notices() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.notices...)
}

var _ Document = (*MemoryDocument)(nil)
