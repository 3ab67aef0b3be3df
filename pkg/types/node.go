// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
)

// FeatureNode is one node of the extracted feature tree. The tree owns its
// children top-down; the parent pointer is a non-owning back-reference used
// only for upward traversal.
type FeatureNode struct {
	// Name identifies the feature ("stem", "prickles", "height").
	Name string

	// RawText is the exact source span the node was extracted from,
	// kept for provenance. Not part of the export form.
	RawText string

	// Value is the parsed value, nil for purely structural nodes.
	Value *Value

	// Children are the sub-features in document order (the order the
	// text mentioned them, not schema declaration order).
	Children []*FeatureNode

	parent *FeatureNode
}

// NewFeatureNode returns a node with the given name and raw source span.
func NewFeatureNode(name, rawText string) *FeatureNode {
	return &FeatureNode{Name: name, RawText: rawText}
}

// AddChild appends child and sets its parent back-reference.
func (n *FeatureNode) AddChild(child *FeatureNode) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the parent node, nil at the root.
func (n *FeatureNode) Parent() *FeatureNode {
	return n.parent
}

// Path returns the slash-joined names from the root down to this node,
// e.g. "taxon/stem/prickles/length".
func (n *FeatureNode) Path() string {
	if n.parent == nil {
		return n.Name
	}
	return n.parent.Path() + "/" + n.Name
}

// Find returns every node in this subtree whose name equals name,
// case-insensitively, in document order.
func (n *FeatureNode) Find(name string) []*FeatureNode {
	var out []*FeatureNode
	if strings.EqualFold(n.Name, name) {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, c.Find(name)...)
	}
	return out
}

// Walk visits this node and every descendant in document order.
func (n *FeatureNode) Walk(visit func(node *FeatureNode)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// NodeDoc is the export form of a feature tree: a nested mapping with
// name, value, and children keys, field order preserved. This is the only
// externally consumed serialization contract.
type NodeDoc struct {
	Name     string    `json:"name" yaml:"name"`
	Value    *Value    `json:"value,omitempty" yaml:"value,omitempty"`
	Children []NodeDoc `json:"children,omitempty" yaml:"children,omitempty"`
}

// Doc converts the subtree rooted at n into its export form.
func (n *FeatureNode) Doc() NodeDoc {
	doc := NodeDoc{Name: n.Name, Value: n.Value}
	for _, c := range n.Children {
		doc.Children = append(doc.Children, c.Doc())
	}
	return doc
}

// MarshalJSON serializes the node in its export form.
func (n *FeatureNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Doc())
}

// MarshalYAML serializes the node in its export form.
func (n *FeatureNode) MarshalYAML() (any, error) {
	return n.Doc(), nil
}
