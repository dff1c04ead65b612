package model

import (
	"errors"
	"sort"
	"sync"
)

// Tree hyperparameters. The depth cap bounds fit time and memory on
// adversarial inputs.
const (
	treeMaxDepth        = 5
	treeMinSamplesSplit = 2
	treeMinSamplesLeaf  = 1
)

// TreeModel is a fitted CART classifier with its node structure flattened
// for introspection and rendering. Nodes[0] is the root; leaves have
// Feature and child indices of -1.
type TreeModel struct {
	Nodes []TreeNode
}

// TreeNode describes one node of the fitted tree.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Samples   int     `json:"samples"`
	Counts    []int   `json:"class_counts"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     int     `json:"class"`
}

// Leaf reports whether the node has no children.
func (n *TreeNode) Leaf() bool { return n.Left < 0 }

type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64
	left      *dtNode
	right     *dtNode

	n         int
	counts    []int
	predIndex int
}

type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

type pair struct {
	v float64
	i int
}

// fitTree grows a gini-impurity CART on X and class-index labels y, with
// midpoint thresholds between distinct sorted feature values.
func fitTree(X [][]float64, y []int, nClasses int) (*TreeModel, error) {
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return nil, errors.New("dtree: inconsistent number of features in X rows")
		}
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	root := buildNode(X, y, idx, 0, p, nClasses)

	t := &TreeModel{}
	t.flatten(root)
	return t, nil
}

func buildNode(X [][]float64, y []int, idx []int, depth, p, nClasses int) *dtNode {
	counts := make([]int, nClasses)
	for _, ii := range idx {
		counts[y[ii]]++
	}
	node := &dtNode{n: len(idx), counts: counts, predIndex: argmax(counts)}

	if isPure(counts) || len(idx) < treeMinSamplesSplit || depth >= treeMaxDepth {
		node.isLeaf = true
		return node
	}

	parentImpurity := gini(counts)

	// Search each feature's best threshold in parallel.
	results := make(chan splitResult, p)
	var wg sync.WaitGroup
	for f := 0; f < p; f++ {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			results <- bestSplitForFeature(X, y, idx, f, nClasses, parentImpurity)
		}(f)
	}
	wg.Wait()
	close(results)

	best := splitResult{feature: -1}
	for r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= 0 {
		node.isLeaf = true
		return node
	}

	node.feature = best.feature
	node.threshold = best.threshold
	node.left = buildNode(X, y, best.leftIdx, depth+1, p, nClasses)
	node.right = buildNode(X, y, best.rightIdx, depth+1, p, nClasses)
	return node
}

// bestSplitForFeature scans the midpoints between consecutive distinct
// sorted values of feature f for the split with the highest gini gain.
func bestSplitForFeature(X [][]float64, y []int, idx []int, f, nClasses int, parentImpurity float64) splitResult {
	result := splitResult{feature: -1}

	vals := make([]pair, 0, len(idx))
	for _, ii := range idx {
		vals = append(vals, pair{X[ii][f], ii})
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	// Maintain running left/right counts while sweeping the sorted values.
	leftCounts := make([]int, nClasses)
	rightCounts := make([]int, nClasses)
	for _, pv := range vals {
		rightCounts[y[pv.i]]++
	}
	total := float64(len(vals))

	for s := 1; s < len(vals); s++ {
		leftCounts[y[vals[s-1].i]]++
		rightCounts[y[vals[s-1].i]]--
		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < treeMinSamplesLeaf || len(vals)-s < treeMinSamplesLeaf {
			continue
		}
		weighted := (float64(s)/total)*gini(leftCounts) + (float64(len(vals)-s)/total)*gini(rightCounts)
		gain := parentImpurity - weighted
		if gain > result.gain {
			result = splitResult{
				gain:      gain,
				feature:   f,
				threshold: (vals[s-1].v + vals[s].v) / 2.0,
				leftIdx:   indicesFromPairs(vals[:s]),
				rightIdx:  indicesFromPairs(vals[s:]),
			}
		}
	}
	return result
}

// flatten appends the subtree rooted at node in preorder and returns its
// index.
func (t *TreeModel) flatten(node *dtNode) int {
	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{
		Feature:   -1,
		Threshold: node.threshold,
		Samples:   node.n,
		Counts:    node.counts,
		Left:      -1,
		Right:     -1,
		Class:     node.predIndex,
	})
	if !node.isLeaf {
		t.Nodes[self].Feature = node.feature
		t.Nodes[self].Left = t.flatten(node.left)
		t.Nodes[self].Right = t.flatten(node.right)
	}
	return self
}

// Predict returns the majority class index of the leaf each row lands in.
func (t *TreeModel) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		node := &t.Nodes[0]
		for !node.Leaf() {
			if row[node.Feature] <= node.Threshold {
				node = &t.Nodes[node.Left]
			} else {
				node = &t.Nodes[node.Right]
			}
		}
		out[i] = node.Class
	}
	return out
}

// Depth returns the maximum node depth of the fitted tree.
func (t *TreeModel) Depth() int {
	var depth func(i, d int) int
	depth = func(i, d int) int {
		n := &t.Nodes[i]
		if n.Leaf() {
			return d
		}
		l := depth(n.Left, d+1)
		r := depth(n.Right, d+1)
		if l > r {
			return l
		}
		return r
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return depth(0, 0)
}

func gini(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.i)
	}
	return out
}
