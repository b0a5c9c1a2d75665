package hierarchy

import "github.com/alexanderramin/autobacklog/internal/domain"

// Row is one line of a flattened, depth-first view of a forest.
type Row struct {
	Node       *Node
	Depth      int
	IsLast     bool
	ChildCount int
	Collapsed  bool
	// Guides[d] is true when the ancestor at depth d was the last of its
	// siblings, so no vertical connector is drawn in that column.
	Guides []bool
}

// Flatten lists the forest depth-first in sibling order. Children of nodes
// for which collapsed returns true are skipped. A nil collapsed expands
// everything.
func Flatten(forest []*Node, collapsed func(domain.ItemID) bool) []Row {
	var rows []Row
	var visit func(nodes []*Node, depth int, guides []bool)
	visit = func(nodes []*Node, depth int, guides []bool) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			closed := collapsed != nil && len(n.Children) > 0 && collapsed(n.Item.ID)
			rows = append(rows, Row{
				Node:       n,
				Depth:      depth,
				IsLast:     last,
				ChildCount: len(n.Children),
				Collapsed:  closed,
				Guides:     guides,
			})
			if closed {
				continue
			}
			next := make([]bool, len(guides)+1)
			copy(next, guides)
			next[len(guides)] = last
			visit(n.Children, depth+1, next)
		}
	}
	visit(forest, 0, nil)
	return rows
}

// Walk calls fn for every node depth-first, pre-order. Returning false from
// fn skips that node's subtree.
func Walk(forest []*Node, fn func(n *Node, depth int) bool) {
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(forest, 0)
}

// Count returns the number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	Walk(forest, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Find returns the first node with the given id in depth-first order.
func Find(forest []*Node, id domain.ItemID) *Node {
	var found *Node
	Walk(forest, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Item.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Descendants returns the ids of every item below id in the hierarchy
// built from items. The id itself is not included.
func Descendants(items []domain.BacklogItem, id domain.ItemID) map[domain.ItemID]bool {
	out := map[domain.ItemID]bool{}
	n := Find(Build(items), id)
	if n == nil {
		return out
	}
	Walk(n.Children, func(c *Node, _ int) bool {
		out[c.Item.ID] = true
		return true
	})
	return out
}
