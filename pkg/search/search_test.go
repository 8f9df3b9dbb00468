package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/model/modeltest"
)

func keys(results []Match) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Path().Key())
	}
	return out
}

func TestSearch_EmptyQueryIsInactive(t *testing.T) {
	tree := modeltest.Sample().Departments
	for _, q := range []string{"", "   ", "\t\n"} {
		results, active := Search(q, tree)
		assert.False(t, active, "query %q", q)
		assert.Nil(t, results)
	}
}

func TestSearch_NoResultsIsStillActive(t *testing.T) {
	results, active := Search("zzz-not-there", modeltest.Sample().Departments)
	assert.True(t, active)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_TrainingScenario(t *testing.T) {
	results, active := Search("training", modeltest.Sample().Departments)
	require.True(t, active)
	require.Len(t, results, 2)

	assert.Equal(t, "Staff Training", results[0].Workstream.Name)
	assert.Equal(t, "Performance Reviews", results[1].Workstream.Name)

	// name (10) only; the "training budget" dependency reason is not searched
	assert.Equal(t, WeightName, results[0].Score)
	assert.Equal(t, []string{FieldName}, results[0].Matched)
	assert.Equal(t, WeightFrequency, results[1].Score)
	assert.Equal(t, []string{FieldFrequency}, results[1].Matched)
}

func TestSearch_NormalizesQuery(t *testing.T) {
	a, _ := Search("  TRAINING ", modeltest.Sample().Departments)
	b, _ := Search("training", modeltest.Sample().Departments)
	assert.Equal(t, keys(b), keys(a))
}

func TestScore_Weights(t *testing.T) {
	ws := &model.Workstream{
		Name:        "Payment run",
		Description: "Prepare the payment batch",
		Frequency:   "Weekly payment cycle",
		RACI: []model.RACIRole{
			{Role: "Payment Officer"},
			{Role: "Payment Approver"},
			{Role: "CFO"},
		},
		Dependencies: []model.Dependency{{Team: "Payments Team"}, {Team: "Legal"}},
		Output:       []string{"Payment file", "Payment log", "Receipt"},
	}

	score, matched := Score("payment", ws)
	want := WeightName + WeightDescription + WeightFrequency +
		2*WeightRACI + WeightDependency + 2*WeightOutput
	assert.Equal(t, want, score)
	assert.Equal(t, []string{
		FieldName, FieldDescription, FieldFrequency, FieldRACI, FieldDependencies, FieldOutput,
	}, matched)
}

func TestScore_MissingOptionalFields(t *testing.T) {
	ws := &model.Workstream{Name: "Bare"}
	score, matched := Score("bare", ws)
	assert.Equal(t, WeightName, score)
	assert.Equal(t, []string{FieldName}, matched)

	score, matched = Score("anything", ws)
	assert.Zero(t, score)
	assert.Empty(t, matched)
}

func TestSearch_Invariants(t *testing.T) {
	tree := modeltest.Sample().Departments
	queries := []string{"a", "e", "pay", "o", "finance", "review", "-", "hr"}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			results, active := Search(q, tree)
			require.True(t, active)

			inResults := make(map[string]bool)
			for i, r := range results {
				assert.Positive(t, r.Score)
				if i > 0 {
					assert.GreaterOrEqual(t, results[i-1].Score, r.Score, "results must be sorted descending")
				}
				inResults[r.Path().Key()] = true
			}

			d := model.Directory{Departments: tree}
			d.Walk(func(dept *model.Department, area *model.Area, ws *model.Workstream) bool {
				score, _ := Score(Normalize(q), ws)
				key := model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}.Key()
				assert.Equal(t, score > 0, inResults[key], "workstream %s", key)
				return true
			})
		})
	}
}

func TestSearch_TiesKeepTreeOrder(t *testing.T) {
	tree := []model.Department{
		{ID: "d", Areas: []model.Area{
			{ID: "a", Workstreams: []model.Workstream{
				{ID: "1", Name: "low", Output: []string{"alpha"}},
				{ID: "2", Name: "alpha one"},
				{ID: "3", Name: "alpha two"},
			}},
			{ID: "b", Workstreams: []model.Workstream{
				{ID: "4", Name: "alpha three"},
			}},
		}},
	}

	results, _ := Search("alpha", tree)
	assert.Equal(t, []string{"d-a-2", "d-a-3", "d-b-4", "d-a-1"}, keys(results))
}

func TestMatchHasField(t *testing.T) {
	m := Match{Matched: []string{FieldName, FieldOutput}}
	assert.True(t, m.HasField(FieldOutput))
	assert.False(t, m.HasField(FieldRACI))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, `No results found for "x"`, Summary(nil, " x "))
	assert.Equal(t, `Showing 1 result for "x"`, Summary(make([]Match, 1), "x"))
	assert.Equal(t, `Showing 3 results for "x"`, Summary(make([]Match, 3), "x"))
	assert.Equal(t, `Showing 1 result for "training"`, Summary(make([]Match, 1), "  Training "))
}
