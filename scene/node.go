package scene

// Node is a scene graph node. Children are owned: a node appears under
// exactly one parent, which keeps the hierarchy a forest by construction.
type Node struct {
	ID          string
	Name        string
	Transform   Transform
	MeshID      string
	MaterialID  string
	Children    []*Node
	Attachments []Attachment
	Meta        map[string]interface{}
}

func NewNode(id string) *Node {
	return &Node{
		ID:        id,
		Transform: NewTransform(),
	}
}

func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// AttachmentByName returns the named socket, or nil.
func (n *Node) AttachmentByName(name string) *Attachment {
	for i := range n.Attachments {
		if n.Attachments[i].Name == name {
			return &n.Attachments[i]
		}
	}
	return nil
}

// SetMeta lazily allocates the metadata bag.
func (n *Node) SetMeta(key string, value interface{}) {
	if n.Meta == nil {
		n.Meta = make(map[string]interface{})
	}
	n.Meta[key] = value
}

// MetaBool reads a boolean metadata flag, returning def when absent or of
// another type.
func (n *Node) MetaBool(key string, def bool) bool {
	if n.Meta == nil {
		return def
	}
	if v, ok := n.Meta[key].(bool); ok {
		return v
	}
	return def
}

// Hidden reports the visible=false metadata flag.
func (n *Node) Hidden() bool {
	return !n.MetaBool(MetaVisible, true)
}

// Well-known metadata keys.
const (
	MetaVisible    = "visible"
	MetaStyle      = "style"
	MetaStyleDirty = "style_dirty"
	MetaTag        = "tag"
)
