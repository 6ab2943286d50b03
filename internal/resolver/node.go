// Package resolver walks a target model's module tree and decides, per
// module, whether an adapter applies and with which algorithm and
// hyperparameters. The tree itself is caller-built; constructing it from a
// live model is framework glue outside this package.
package resolver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind classifies a module for conv gating.
type Kind string

const (
	KindLinear    Kind = "linear"
	KindConv      Kind = "conv"
	KindEmbedding Kind = "embedding"
	KindOther     Kind = "other"
)

// Node is one module in a model tree. Name is the path segment relative to
// the parent; full paths are dot-joined during traversal.
type Node struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Kind     Kind    `yaml:"kind"`
	Children []*Node `yaml:"children"`
}

// LoadTree reads a YAML model-layout file describing a module tree.
// Nodes without an explicit kind default to KindOther.
func LoadTree(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model layout: %w", err)
	}
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse model layout %s: %w", path, err)
	}
	normalizeKinds(&root)
	return &root, nil
}

func normalizeKinds(n *Node) {
	if n.Kind == "" {
		n.Kind = KindOther
	}
	for _, c := range n.Children {
		normalizeKinds(c)
	}
}
