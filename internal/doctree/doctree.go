// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doctree holds untyped structured documents returned by the
// processing service. A Node is a recursive variant over JSON values that
// keeps object members in the order they were received, so a document can be
// re-encoded and displayed exactly as the service produced it.
package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Kind identifies which variant a Node holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Object
)

var kindNames = [...]string{"null", "bool", "number", "string", "list", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Member is one key/value pair of an Object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is one value of a document tree.
type Node struct {
	kind    Kind
	boolean bool
	text    string // string value, or the literal text of a number
	items   []*Node
	members []Member
}

// Constructors used by tests and by callers assembling trees by hand.

func NewNull() *Node               { return &Node{kind: Null} }
func NewBool(b bool) *Node         { return &Node{kind: Bool, boolean: b} }
func NewString(s string) *Node     { return &Node{kind: String, text: s} }
func NewList(items ...*Node) *Node { return &Node{kind: List, items: items} }
func NewObject(members ...Member) *Node {
	return &Node{kind: Object, members: members}
}

// NewNumber returns a number node. The literal must be valid JSON number text.
func NewNumber(literal string) *Node { return &Node{kind: Number, text: literal} }

// Parse decodes JSON into a tree. Member order and duplicate keys are kept.
func Parse(data []byte) (*Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) *Node {
	switch r.Type {
	case gjson.True:
		return NewBool(true)
	case gjson.False:
		return NewBool(false)
	case gjson.Number:
		return NewNumber(r.Raw)
	case gjson.String:
		return NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			n := &Node{kind: List}
			r.ForEach(func(_, v gjson.Result) bool {
				n.items = append(n.items, fromResult(v))
				return true
			})
			return n
		}
		n := &Node{kind: Object}
		r.ForEach(func(k, v gjson.Result) bool {
			n.members = append(n.members, Member{Key: k.Str, Value: fromResult(v)})
			return true
		})
		return n
	default:
		return NewNull()
	}
}

// Kind reports the variant held by n. A nil node is Null.
func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

// Str returns the string value and whether n is a String.
func (n *Node) Str() (string, bool) {
	if n.Kind() != String {
		return "", false
	}
	return n.text, true
}

// Literal returns the literal text of a Number.
func (n *Node) Literal() string {
	if n.Kind() != Number {
		return ""
	}
	return n.text
}

// Items returns the elements of a List, or nil.
func (n *Node) Items() []*Node {
	if n.Kind() != List {
		return nil
	}
	return n.items
}

// Members returns the members of an Object in received order, or nil.
func (n *Node) Members() []Member {
	if n.Kind() != Object {
		return nil
	}
	return n.members
}

// Get returns the value of the first member named key. It returns nil when n
// is not an Object or has no such member.
func (n *Node) Get(key string) *Node {
	for _, m := range n.Members() {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// MarshalJSON encodes the tree compactly, members in received order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a tree in place.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(n.boolean))
	case Number:
		buf.WriteString(n.text)
	case String:
		if err := writeString(buf, n.text); err != nil {
			return err
		}
	case List:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding string: %w", err)
	}
	// Encoder appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Pretty renders the tree as indented JSON with two-space indentation and
// members in received order. Arrays are always expanded one element per line.
func (n *Node) Pretty() (string, error) {
	raw, err := n.MarshalJSON()
	if err != nil {
		return "", err
	}
	out := pretty.PrettyOptions(raw, &pretty.Options{
		Width:    0,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	})
	return string(bytes.TrimRight(out, "\n")), nil
}

// Colorized renders Pretty output with terminal colour escapes.
func (n *Node) Colorized() (string, error) {
	s, err := n.Pretty()
	if err != nil {
		return "", err
	}
	return string(pretty.Color([]byte(s), nil)), nil
}
