// Package extract locates the semantic text fields of a modal or toast inside
// an arbitrarily nested design tree. Each field is searched with an ordered
// fallback: exact layer names, fuzzy layer names, then layout position.
// A node claimed by one field is never reused by a looser fallback.
package extract

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

var whereRe = regexp.MustCompile(`^[0-9]+\s*행`)

type extraction struct {
	root   *domain.Node
	parent map[*domain.Node]*domain.Node
	nodes  []*domain.Node // visible, pre-order
	used   map[*domain.Node]bool
}

type buttonSlot struct {
	frame *domain.Node
	label *domain.Node
}

// Finder returns the visible descendants of root matching pred, in pre-order.
// A nil pred matches every node. host.Document.FindDescendants satisfies it.
type Finder func(root *domain.Node, pred func(*domain.Node) bool) []*domain.Node

// Extract builds a FieldSet from the selected root. It never fails: anything
// it cannot find is left empty.
func Extract(root *domain.Node) domain.FieldSet {
	return ExtractWith(root, walkDescendants)
}

// ExtractWith is Extract over the nodes find reports under root.
func ExtractWith(root *domain.Node, find Finder) domain.FieldSet {
	if find == nil {
		find = walkDescendants
	}
	fs := domain.FieldSet{
		LeftButton:  domain.ButtonField{Hidden: true},
		RightButton: domain.ButtonField{Hidden: true},
		Container:   domain.ContainerModal,
	}
	if root == nil || !root.IsVisible() {
		return fs
	}

	x := &extraction{
		root:   root,
		parent: map[*domain.Node]*domain.Node{},
		used:   map[*domain.Node]bool{},
	}
	x.nodes = append([]*domain.Node{root}, find(root, nil)...)
	visible := make(map[*domain.Node]bool, len(x.nodes))
	for _, n := range x.nodes {
		visible[n] = true
	}
	x.parent[root] = nil
	for _, n := range x.nodes {
		for _, c := range n.Children {
			if visible[c] {
				x.parent[c] = n
			}
		}
	}

	if x.isToast() {
		fs.Container = domain.ContainerToast
	}

	// The title resolves completely before any other field searches.
	fs.Title = x.byName(func(n, p *domain.Node) bool {
		return nameContains(n, titleContains) || nameContains(p, titleContains)
	})
	if fs.Title.Node == nil {
		fs.Title = x.topmost(x.titleCandidate)
	}

	fs.Identifier = x.byName(func(n, p *domain.Node) bool {
		return nameContains(n, identifierContains) || nameContains(p, identifierContains)
	})
	fs.Condition = x.condition()
	fs.Description = x.byName(func(n, p *domain.Node) bool {
		return nameContains(n, descriptionContains) || nameContains(p, descriptionContains) || nameIs(p, descriptionExact)
	})
	slots, found := x.namedButtons()

	fs.Where = x.where()
	if !found {
		slots = x.bottomRow(fs.Description.Node != nil)
		if len(slots) == 0 {
			slots = x.literalButtons()
		}
	}
	if fs.Description.Node == nil {
		fs.Description = x.topmost(nil)
	}

	assignButtons(&fs, slots, x)
	return fs
}

func (x *extraction) claim(n *domain.Node) domain.TextField {
	x.used[n] = true
	return domain.TextField{Text: textOf(n), Node: n, NodeID: n.ID}
}

// parentOf returns the enclosing layer of n, or nil when that is the
// selection itself: a root called "Modal Title" must not match every text,
// and the modal background is not a button fill.
func (x *extraction) parentOf(n *domain.Node) *domain.Node {
	p := x.parent[n]
	if p == x.root {
		return nil
	}
	return p
}

func (x *extraction) byName(match func(n, parent *domain.Node) bool) domain.TextField {
	for _, n := range x.nodes {
		if !n.IsText() || x.used[n] {
			continue
		}
		if match(n, x.parentOf(n)) {
			return x.claim(n)
		}
	}
	return domain.TextField{}
}

func (x *extraction) isToast() bool {
	if nameContains(x.root, toastContains) {
		return true
	}
	for _, n := range x.nodes {
		if n.IsContainer() && nameContains(n, toastContains) {
			return true
		}
	}
	return false
}

// condition joins every visible line of the first condition group, in child
// order. A lone text layer named condition also counts.
func (x *extraction) condition() domain.TextField {
	for _, n := range x.nodes {
		if !nameContains(n, conditionContains) {
			continue
		}
		if n.IsText() {
			if x.used[n] {
				continue
			}
			return x.claim(n)
		}
		if !n.IsContainer() {
			continue
		}
		var lines []string
		var nodes []*domain.Node
		for _, t := range domain.Collect(n, (*domain.Node).IsText) {
			if x.used[t] {
				continue
			}
			if s := textOf(t); s != "" {
				lines = append(lines, s)
				nodes = append(nodes, t)
			}
		}
		if len(nodes) == 0 {
			continue
		}
		for _, t := range nodes {
			x.used[t] = true
		}
		return domain.TextField{
			Text:   strings.Join(lines, "\n"),
			Node:   nodes[0],
			NodeID: nodes[0].ID,
			Lines:  nodes,
		}
	}
	return domain.TextField{}
}

// freeTexts returns the unclaimed visible non-empty text nodes in pre-order.
func (x *extraction) freeTexts() []*domain.Node {
	var out []*domain.Node
	for _, n := range x.nodes {
		if n.IsText() && !x.used[n] && textOf(n) != "" {
			out = append(out, n)
		}
	}
	return out
}

// topmost claims the highest unclaimed text (lowest y, then lowest x) that
// keep accepts. A nil keep accepts every text.
func (x *extraction) topmost(keep func(*domain.Node) bool) domain.TextField {
	var texts []*domain.Node
	for _, n := range x.freeTexts() {
		if keep == nil || keep(n) {
			texts = append(texts, n)
		}
	}
	if len(texts) == 0 {
		return domain.TextField{}
	}
	domain.SortByY(texts)
	return x.claim(texts[0])
}

// titleCandidate rejects texts that another field claims by an explicit
// layer name, and row locators. Generic body names such as "text" do not
// count: a title often shares that container with the description.
func (x *extraction) titleCandidate(n *domain.Node) bool {
	for a := n; a != nil; a = x.parentOf(a) {
		if nameContains(a, identifierContains) || nameContains(a, conditionContains) ||
			nameContains(a, descriptionContains) || nameContains(a, buttonContains) || nameIs(a, buttonExact) {
			return false
		}
	}
	s := textOf(n)
	return !(utf8.RuneCountInString(s) <= 20 && whereRe.MatchString(s))
}

// where claims a row locator such as "3행".
func (x *extraction) where() domain.TextField {
	for _, n := range x.freeTexts() {
		s := textOf(n)
		if utf8.RuneCountInString(s) <= 20 && whereRe.MatchString(s) {
			return x.claim(n)
		}
	}
	return domain.TextField{}
}

// namedButtons tries the named button container, then free-standing layers
// whose name mentions a button. found is true when either strategy located a
// button layer, even if it held no text.
func (x *extraction) namedButtons() ([]buttonSlot, bool) {
	if c := x.buttonContainer(); c != nil {
		return x.slotsOf(unwrapSingle(c)), true
	}

	var named []*domain.Node
	domain.Walk(x.root, func(n, _ *domain.Node) bool {
		if n != x.root && nameContains(n, buttonContains) {
			named = append(named, n)
			return false
		}
		return true
	})
	if len(named) == 0 {
		return nil, false
	}
	domain.SortByX(named)
	var slots []buttonSlot
	for _, n := range named {
		if s, ok := x.slot(n); ok {
			slots = append(slots, s)
		}
	}
	return slots, len(slots) > 0
}

func (x *extraction) buttonContainer() *domain.Node {
	for _, n := range x.nodes {
		if n.IsContainer() && nameIs(n, buttonExact) {
			return n
		}
	}
	for _, n := range x.nodes {
		if n != x.root && n.IsContainer() && nameContains(n, buttonContains) && visibleFrames(unwrapSingle(n)) >= 2 {
			return n
		}
	}
	return nil
}

func visibleFrames(n *domain.Node) int {
	count := 0
	for _, c := range n.Children {
		if c.IsVisible() && c.IsContainer() {
			count++
		}
	}
	return count
}

// unwrapSingle descends through wrappers that hold exactly one visible frame.
func unwrapSingle(n *domain.Node) *domain.Node {
	for {
		var only *domain.Node
		visible := 0
		for _, c := range n.Children {
			if c.IsVisible() {
				visible++
				only = c
			}
		}
		if visible != 1 || !only.IsContainer() || visibleFrames(only) < 2 {
			return n
		}
		n = only
	}
}

func (x *extraction) slotsOf(container *domain.Node) []buttonSlot {
	var children []*domain.Node
	for _, c := range container.Children {
		if c.IsVisible() {
			children = append(children, c)
		}
	}
	domain.SortByX(children)
	var slots []buttonSlot
	for _, c := range children {
		if s, ok := x.slot(c); ok {
			slots = append(slots, s)
		}
	}
	return slots
}

func (x *extraction) slot(frame *domain.Node) (buttonSlot, bool) {
	label := domain.FirstText(frame)
	if label == nil || x.used[label] {
		return buttonSlot{}, false
	}
	x.used[label] = true
	return buttonSlot{frame: frame, label: label}, true
}

// bottomRow treats the lowest row of unclaimed texts as the buttons when it
// holds one or two short labels. A lone remaining text is the right button
// only once the description is taken; otherwise it is the description.
func (x *extraction) bottomRow(descriptionTaken bool) []buttonSlot {
	texts := x.freeTexts()
	if len(texts) == 0 || (len(texts) == 1 && !descriptionTaken) {
		return nil
	}
	bottom := texts[0]
	for _, t := range texts[1:] {
		if t.Y > bottom.Y {
			bottom = t
		}
	}
	tolerance := math.Max(4, bottom.Height/2)
	var row []*domain.Node
	for _, t := range texts {
		if math.Abs(t.Y-bottom.Y) <= tolerance {
			row = append(row, t)
		}
	}
	if len(row) > 2 {
		return nil
	}
	for _, t := range row {
		if !looksLikeButtonLabel(textOf(t)) {
			return nil
		}
	}
	domain.SortByX(row)
	slots := make([]buttonSlot, 0, len(row))
	for _, t := range row {
		x.used[t] = true
		slots = append(slots, buttonSlot{frame: x.parentOf(t), label: t})
	}
	return slots
}

// literalButtons picks the rightmost "확인" and the leftmost "취소".
func (x *extraction) literalButtons() []buttonSlot {
	var right, left *domain.Node
	for _, t := range x.freeTexts() {
		switch textOf(t) {
		case confirmLiteral:
			if right == nil || t.X > right.X {
				right = t
			}
		case cancelLiteral:
			if left == nil || t.X < left.X {
				left = t
			}
		}
	}
	var slots []buttonSlot
	if left != nil {
		x.used[left] = true
		slots = append(slots, buttonSlot{frame: x.parentOf(left), label: left})
	}
	if right != nil {
		x.used[right] = true
		slots = append(slots, buttonSlot{frame: x.parentOf(right), label: right})
	} else if left != nil {
		// A lone cancel literal is still the left button.
		return []buttonSlot{slots[0], {}}
	}
	return slots
}

func assignButtons(fs *domain.FieldSet, slots []buttonSlot, x *extraction) {
	count := 0
	for _, s := range slots {
		if s.label != nil {
			count++
		}
	}
	fs.ButtonCount = count
	switch {
	case len(slots) == 1:
		fs.RightButton = x.button(slots[0])
	case len(slots) >= 2:
		fs.LeftButton = x.button(slots[0])
		fs.RightButton = x.button(slots[len(slots)-1])
	}
}

func (x *extraction) button(s buttonSlot) domain.ButtonField {
	if s.label == nil {
		return domain.ButtonField{Hidden: true}
	}
	b := domain.ButtonField{
		Label:  textOf(s.label),
		Node:   s.label,
		NodeID: s.label.ID,
	}
	b.Hidden = b.Label == ""
	b.Fill, b.StyleName = styleOf(s.frame, s.label)
	return b
}

// styleOf reads the button background: the slot frame's own fill, else the
// first filled non-text layer inside it.
func styleOf(frame, label *domain.Node) (fill, style string) {
	if frame == nil || frame == label {
		return "", ""
	}
	domain.Walk(frame, func(n, _ *domain.Node) bool {
		if n.IsText() {
			return false
		}
		if fill == "" && n.Fill != "" {
			fill = n.Fill
		}
		if style == "" && n.FillStyleName != "" {
			style = n.FillStyleName
		}
		return fill == "" || style == ""
	})
	return fill, style
}

func walkDescendants(root *domain.Node, pred func(*domain.Node) bool) []*domain.Node {
	var out []*domain.Node
	domain.Walk(root, func(n, _ *domain.Node) bool {
		if n != root && (pred == nil || pred(n)) {
			out = append(out, n)
		}
		return true
	})
	return out
}
