package diagram

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Object is one named entry of a dependency export.
type Object struct {
	Name       string
	Uses       []string
	Unresolved []string
}

// Export is a dependency-export document flattened in document order.
type Export struct {
	Objects []Object
	// Unresolved lists every UnresolvedObject under any Object's Uses,
	// including objects that carry no name.
	Unresolved []string
}

type node struct {
	XMLName  xml.Name
	Text     string  `xml:",chardata"`
	Children []*node `xml:",any"`
}

func (n *node) child(name string) *node {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

func (n *node) texts(name string) []string {
	var out []string
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			out = append(out, strings.TrimSpace(c.Text))
		}
	}
	return out
}

// Parse decodes a dependency export. Object elements are collected at any
// depth; those without a Name child are skipped.
func Parse(r io.Reader) (*Export, error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "failed to decode dependency export")
	}

	export := &Export{}
	var walk func(n *node)
	walk = func(n *node) {
		if n.XMLName.Local == "Object" {
			uses := n.child("Uses")
			if uses != nil {
				export.Unresolved = append(export.Unresolved, uses.texts("UnresolvedObject")...)
			}
			if name := n.child("Name"); name != nil && strings.TrimSpace(name.Text) != "" {
				obj := Object{Name: strings.TrimSpace(name.Text)}
				if uses != nil {
					obj.Uses = uses.texts("Object")
					obj.Unresolved = uses.texts("UnresolvedObject")
				}
				export.Objects = append(export.Objects, obj)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(&root)
	return export, nil
}
