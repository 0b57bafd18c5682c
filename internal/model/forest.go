package model

import (
	"fmt"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
)

// Tree is one decision tree in array form. Node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split (Left/Right >= 0) or a leaf (Left == Right == -1).
// Rows with x[Feature] <= Threshold go left.
type Node struct {
	Feature   string    `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

func (n Node) isLeaf() bool { return n.Left < 0 && n.Right < 0 }

type compiledNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	positive  float64
}

// Forest averages the leaf class distributions of its trees
type Forest struct {
	names []string
	trees [][]compiledNode
}

func newForest(names []string, trees []Tree, positive int) (*Forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("random forest has no trees")
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	f := &Forest{names: append([]string(nil), names...)}
	for ti, t := range trees {
		compiled, err := compileTree(t, index, positive)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		f.trees = append(f.trees, compiled)
	}
	return f, nil
}

func compileTree(t Tree, index map[string]int, positive int) ([]compiledNode, error) {
	if len(t.Nodes) == 0 {
		return nil, fmt.Errorf("empty tree")
	}

	out := make([]compiledNode, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.isLeaf() {
			if len(n.Value) != 2 {
				return nil, fmt.Errorf("leaf %d has %d class weights, want 2", i, len(n.Value))
			}
			total := n.Value[0] + n.Value[1]
			if total <= 0 || n.Value[0] < 0 || n.Value[1] < 0 {
				return nil, fmt.Errorf("leaf %d has invalid class weights %v", i, n.Value)
			}
			out[i] = compiledNode{left: -1, right: -1, positive: n.Value[positive] / total}
			continue
		}

		fi, ok := index[n.Feature]
		if !ok {
			return nil, fmt.Errorf("node %d splits on unknown feature %q", i, n.Feature)
		}
		// children must point forward so traversal always terminates
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return nil, fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
		out[i] = compiledNode{feature: fi, threshold: n.Threshold, left: n.Left, right: n.Right}
	}
	return out, nil
}

// FeatureNames implements Classifier
func (f *Forest) FeatureNames() []string {
	return append([]string(nil), f.names...)
}

// PredictPositiveProbability implements Classifier
func (f *Forest) PredictPositiveProbability(row features.FeatureRow) (float64, error) {
	x, err := vector(f.names, row)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for _, tree := range f.trees {
		i := 0
		for tree[i].left >= 0 {
			node := tree[i]
			if x[node.feature] <= node.threshold {
				i = node.left
			} else {
				i = node.right
			}
		}
		sum += tree[i].positive
	}
	return sum / float64(len(f.trees)), nil
}
