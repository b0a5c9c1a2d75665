package hierarchy

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest() []*Node {
	return Build([]domain.BacklogItem{
		item("e1", "epic", "high"),
		child("f1", "e1", "feature", "high"),
		child("s1", "f1", "user_story", "medium"),
		child("f2", "e1", "feature", "low"),
		item("b1", "bug", "critical"),
	})
}

func TestFlatten_DepthAndConnectors(t *testing.T) {
	rows := Flatten(sampleForest(), nil)
	require.Len(t, rows, 5)

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = string(r.Node.Item.ID)
	}
	assert.Equal(t, []string{"e1", "f1", "s1", "f2", "b1"}, got)

	assert.Equal(t, 0, rows[0].Depth)
	assert.Equal(t, 2, rows[0].ChildCount)
	assert.False(t, rows[0].IsLast)

	assert.Equal(t, 2, rows[2].Depth)
	assert.True(t, rows[2].IsLast)
	assert.Equal(t, []bool{false, false}, rows[2].Guides)

	assert.True(t, rows[3].IsLast)
	assert.True(t, rows[4].IsLast)
	assert.Empty(t, rows[4].Guides)
}

func TestFlatten_Collapsed(t *testing.T) {
	collapsed := map[domain.ItemID]bool{"e1": true}
	rows := Flatten(sampleForest(), func(id domain.ItemID) bool { return collapsed[id] })
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Collapsed)
	assert.Equal(t, 2, rows[0].ChildCount)
	assert.Equal(t, domain.ItemID("b1"), rows[1].Node.Item.ID)
}

func TestFlatten_LeafNeverCollapsed(t *testing.T) {
	rows := Flatten(sampleForest(), func(domain.ItemID) bool { return true })
	require.Len(t, rows, 2)
	assert.False(t, rows[1].Collapsed, "a leaf has nothing to hide")
}

func TestWalk_SkipSubtree(t *testing.T) {
	var visited []string
	Walk(sampleForest(), func(n *Node, depth int) bool {
		visited = append(visited, string(n.Item.ID))
		return n.Item.ID != "f1"
	})
	assert.Equal(t, []string{"e1", "f1", "f2", "b1"}, visited)
}

func TestFind(t *testing.T) {
	forest := sampleForest()
	n := Find(forest, "s1")
	require.NotNil(t, n)
	assert.Equal(t, domain.TaskUserStory, n.Item.TaskType)
	assert.Nil(t, Find(forest, "nope"))
}

func TestDescendants(t *testing.T) {
	items := []domain.BacklogItem{
		item("e1", "epic", ""),
		child("f1", "e1", "feature", ""),
		child("s1", "f1", "user_story", ""),
		item("b1", "bug", ""),
	}
	assert.Equal(t, map[domain.ItemID]bool{"f1": true, "s1": true}, Descendants(items, "e1"))
	assert.Empty(t, Descendants(items, "b1"))
	assert.Empty(t, Descendants(items, "missing"))
}

func TestNode_MarshalJSON(t *testing.T) {
	forest := Build([]domain.BacklogItem{
		{ID: "1", TaskType: domain.TaskEpic, Title: "Checkout"},
		{ID: "2", ParentID: domain.ItemID("1").Ptr(), TaskType: domain.TaskTask, Title: "Cart"},
	})
	out, err := json.Marshal(forest)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"taskType":"epic","title":"Checkout","children":[
		{"id":2,"parentId":1,"taskType":"task","title":"Cart","children":[]}]}]`, string(out))
}
