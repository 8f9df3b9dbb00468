package router

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/model/modeltest"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "#dept-a-area-1-ws-main", Encode("dept-a", "area-1", "ws-main"))
	assert.Equal(t, "#a-b-c", EncodePath(modeltest.Path("a", "b", "c")))
}

func TestDecode_EmbeddedSeparators(t *testing.T) {
	tree := modeltest.Sample().Departments

	p, ok := Decode("#dept-a-area-1-ws-main", tree)
	require.True(t, ok)
	assert.Equal(t, modeltest.Path("dept-a", "area-1", "ws-main"), p)

	// marker is optional
	p, ok = Decode("dept-a-area-1-ws-main", tree)
	require.True(t, ok)
	assert.Equal(t, "ws-main", p.WorkstreamID)
}

func TestDecode_Misses(t *testing.T) {
	tree := modeltest.Sample().Departments
	for _, fragment := range []string{"", "#", "#dept-a", "#dept-a-area-1", "#dept-a-area-1-ws-main-extra", "#nope-x-y"} {
		_, ok := Decode(fragment, tree)
		assert.False(t, ok, "fragment %q", fragment)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	d := modeltest.Sample()
	d.Walk(func(dept *model.Department, area *model.Area, ws *model.Workstream) bool {
		got, ok := Decode(Encode(dept.ID, area.ID, ws.ID), d.Departments)
		require.True(t, ok)
		if diff := cmp.Diff(model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
		return true
	})
}

func collidingTree() []model.Department {
	return []model.Department{
		{ID: "a-b", Areas: []model.Area{{ID: "c", Workstreams: []model.Workstream{{ID: "d"}}}}},
		{ID: "a", Areas: []model.Area{{ID: "b-c", Workstreams: []model.Workstream{{ID: "d"}, {ID: "e"}}}}},
	}
}

func TestDecode_FirstMatchWins(t *testing.T) {
	tree := collidingTree()

	p, ok := Decode("#a-b-c-d", tree)
	require.True(t, ok)
	assert.Equal(t, modeltest.Path("a-b", "c", "d"), p)

	p, ok = Decode("#a-b-c-e", tree)
	require.True(t, ok)
	assert.Equal(t, modeltest.Path("a", "b-c", "e"), p)
}

func TestCollisions(t *testing.T) {
	got := Collisions(collidingTree())
	want := []Collision{{
		Key:   "a-b-c-d",
		Paths: []model.Path{modeltest.Path("a-b", "c", "d"), modeltest.Path("a", "b-c", "d")},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collisions() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, Collisions(modeltest.Sample().Departments))
}

func TestSuggest(t *testing.T) {
	tree := modeltest.Sample().Departments

	got := Suggest("#finance-invoices", tree, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "#finance-payables-invoices", got[0])

	assert.Nil(t, Suggest("#", tree, 3))
	assert.Nil(t, Suggest("#finance", tree, 0))
	assert.LessOrEqual(t, len(Suggest("e", tree, 2)), 2)
}
