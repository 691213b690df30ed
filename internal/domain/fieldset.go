package domain

// Field names used in lint items, apply requests and suggestions.
const (
	FieldTitle       = "title"
	FieldIdentifier  = "identifier"
	FieldDescription = "description"
	FieldCondition   = "condition"
	FieldLeftButton  = "leftButton"
	FieldRightButton = "rightButton"
)

// TextFields lists the text fields in lint and display order.
var TextFields = []string{
	FieldTitle,
	FieldIdentifier,
	FieldDescription,
	FieldCondition,
	FieldLeftButton,
	FieldRightButton,
}

// Container is the kind of element the selection was recognised as.
type Container string

const (
	ContainerModal Container = "modal"
	ContainerToast Container = "toast"
)

// TextField is one extracted text field. Text is "" when the field is absent.
type TextField struct {
	Text string `json:"text"`
	Node *Node  `json:"-"`
	// Lines holds every source node of a multi-line field (condition groups).
	Lines []*Node `json:"-"`
	// NodeID is exposed so the panel can highlight the layer.
	NodeID string `json:"nodeId,omitempty"`
}

// Present reports whether the field has non-empty text.
func (f TextField) Present() bool { return f.Text != "" }

// ButtonField is one extracted button.
type ButtonField struct {
	Label     string `json:"label"`
	Hidden    bool   `json:"hidden"`
	Node      *Node  `json:"-"`
	NodeID    string `json:"nodeId,omitempty"`
	Fill      string `json:"fill,omitempty"`
	StyleName string `json:"styleName,omitempty"`
}

// Present reports whether the button is shown with a label.
func (b ButtonField) Present() bool { return !b.Hidden && b.Label != "" }

// FieldSet is the semantic record extracted from one component instance.
// It is rebuilt on every extraction and never cached.
type FieldSet struct {
	Title       TextField   `json:"title"`
	Identifier  TextField   `json:"identifier"`
	Description TextField   `json:"description"`
	Condition   TextField   `json:"condition"`
	Where       TextField   `json:"where"`
	LeftButton  ButtonField `json:"leftButton"`
	RightButton ButtonField `json:"rightButton"`
	ButtonCount int         `json:"buttonCount"`
	Container   Container   `json:"container"`
}

// Text returns the current text of a named field.
func (fs FieldSet) Text(field string) string {
	switch field {
	case FieldTitle:
		return fs.Title.Text
	case FieldIdentifier:
		return fs.Identifier.Text
	case FieldDescription:
		return fs.Description.Text
	case FieldCondition:
		return fs.Condition.Text
	case FieldLeftButton:
		if fs.LeftButton.Hidden {
			return ""
		}
		return fs.LeftButton.Label
	case FieldRightButton:
		if fs.RightButton.Hidden {
			return ""
		}
		return fs.RightButton.Label
	}
	return ""
}

// Nodes returns the host nodes backing a named field, in line order.
func (fs FieldSet) Nodes(field string) []*Node {
	var tf TextField
	switch field {
	case FieldTitle:
		tf = fs.Title
	case FieldIdentifier:
		tf = fs.Identifier
	case FieldDescription:
		tf = fs.Description
	case FieldCondition:
		tf = fs.Condition
	case FieldLeftButton:
		if fs.LeftButton.Node != nil {
			return []*Node{fs.LeftButton.Node}
		}
		return nil
	case FieldRightButton:
		if fs.RightButton.Node != nil {
			return []*Node{fs.RightButton.Node}
		}
		return nil
	default:
		return nil
	}
	if len(tf.Lines) > 0 {
		return tf.Lines
	}
	if tf.Node != nil {
		return []*Node{tf.Node}
	}
	return nil
}

// IsToast reports whether the selection was recognised as a toast element.
func (fs FieldSet) IsToast() bool { return fs.Container == ContainerToast }

// FieldSetInput is the plain-text form of a FieldSet, used when the panel
// sends edited values instead of a node tree.
type FieldSetInput struct {
	Title       string `json:"title"`
	Identifier  string `json:"identifier"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
	LeftButton  string `json:"leftButton"`
	RightButton string `json:"rightButton"`
	Toast       bool   `json:"toast,omitempty"`
	RightFill   string `json:"rightFill,omitempty"`
	RightStyle  string `json:"rightStyle,omitempty"`
}

// FieldSet converts the input to a FieldSet without node references.
func (in FieldSetInput) FieldSet() FieldSet {
	fs := FieldSet{
		Title:       TextField{Text: in.Title},
		Identifier:  TextField{Text: in.Identifier},
		Description: TextField{Text: in.Description},
		Condition:   TextField{Text: in.Condition},
		LeftButton:  ButtonField{Label: in.LeftButton, Hidden: in.LeftButton == ""},
		RightButton: ButtonField{Label: in.RightButton, Hidden: in.RightButton == "", Fill: in.RightFill, StyleName: in.RightStyle},
		Container:   ContainerModal,
	}
	if in.Toast {
		fs.Container = ContainerToast
	}
	if fs.LeftButton.Present() {
		fs.ButtonCount++
	}
	if fs.RightButton.Present() {
		fs.ButtonCount++
	}
	return fs
}
