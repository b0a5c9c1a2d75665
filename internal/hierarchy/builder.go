// Package hierarchy turns the flat backlog returned by the backend into an
// ordered forest of parent/child nodes.
package hierarchy

import (
	"encoding/json"
	"sort"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// Node wraps one backlog item and its ordered children.
type Node struct {
	Item     domain.BacklogItem
	Children []*Node
}

// MarshalJSON encodes the node as the item's fields plus a "children" array.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		domain.BacklogItem
		Children []*Node `json:"children"`
	}{n.Item, n.Children})
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (n *Node) MarshalYAML() (any, error) {
	return struct {
		domain.BacklogItem `yaml:",inline"`
		Children           []*Node `yaml:"children"`
	}{n.Item, n.Children}, nil
}

const noParent = -1

// Build arranges items into a forest.
//
// An item is a root when it has no parent reference, when the reference
// matches no item in the collection, or when it points at the item itself.
// Every other item becomes a child of the item its ParentID names. Siblings
// at every level are ordered by task type (epic, feature, user_story, task,
// bug, then anything else), then by priority (critical, high, medium, low,
// then anything else), keeping input order on ties.
//
// Parent references that form a loop without a self-reference would leave
// the loop unreachable from any root; the earliest item of such a loop is
// promoted to a root so that every input item appears exactly once.
//
// The input slice is not modified.
func Build(items []domain.BacklogItem) []*Node {
	n := len(items)
	if n == 0 {
		return []*Node{}
	}

	// Pass 1: index ids. On duplicate ids the first occurrence is the parent target.
	index := make(map[domain.ItemID]int, n)
	nodes := make([]*Node, n)
	typeRank := make([]int, n)
	prioRank := make([]int, n)
	for i := range items {
		nodes[i] = &Node{Item: items[i]}
		typeRank[i] = items[i].TaskType.Rank()
		prioRank[i] = items[i].Priority.Rank()
		if _, dup := index[items[i].ID]; !dup {
			index[items[i].ID] = i
		}
	}

	// Pass 2: resolve parents.
	parent := make([]int, n)
	for i := range items {
		parent[i] = noParent
		it := &items[i]
		if !it.HasParent() || *it.ParentID == it.ID {
			continue
		}
		if p, ok := index[*it.ParentID]; ok && p != i {
			parent[i] = p
		}
	}
	breakCycles(parent)

	// Pass 3: link in input order, then sort each sibling list.
	var roots []int
	children := make([][]int, n)
	for i := range items {
		if parent[i] == noParent {
			roots = append(roots, i)
		} else {
			children[parent[i]] = append(children[parent[i]], i)
		}
	}

	less := func(a, b int) bool {
		if typeRank[a] != typeRank[b] {
			return typeRank[a] < typeRank[b]
		}
		return prioRank[a] < prioRank[b]
	}
	sortSiblings := func(ids []int) {
		sort.SliceStable(ids, func(i, j int) bool { return less(ids[i], ids[j]) })
	}

	sortSiblings(roots)
	for i := range nodes {
		sortSiblings(children[i])
		nodes[i].Children = make([]*Node, len(children[i]))
		for k, c := range children[i] {
			nodes[i].Children[k] = nodes[c]
		}
	}

	forest := make([]*Node, len(roots))
	for k, r := range roots {
		forest[k] = nodes[r]
	}
	return forest
}

// breakCycles detaches the lowest-index member of every parent loop so that
// each chain of parent links ends at a root.
func breakCycles(parent []int) {
	const (
		unvisited = iota
		visiting
		rooted
	)
	state := make([]uint8, len(parent))
	path := make([]int, 0, 8)

	for i := range parent {
		if state[i] != unvisited {
			continue
		}
		path = path[:0]
		j := i
		for j != noParent && state[j] == unvisited {
			state[j] = visiting
			path = append(path, j)
			j = parent[j]
		}
		if j != noParent && state[j] == visiting {
			start := 0
			for path[start] != j {
				start++
			}
			lowest := j
			for _, k := range path[start:] {
				if k < lowest {
					lowest = k
				}
			}
			parent[lowest] = noParent
		}
		for _, k := range path {
			state[k] = rooted
		}
	}
}
