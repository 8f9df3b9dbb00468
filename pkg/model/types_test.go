package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/model/modeltest"
)

func TestPathKey(t *testing.T) {
	p := modeltest.Path("dept-a", "area-1", "ws-main")
	assert.Equal(t, "dept-a-area-1-ws-main", p.Key())
	assert.Equal(t, p.Key(), p.String())
	assert.Equal(t, model.AreaRef{DeptID: "dept-a", AreaID: "area-1"}, p.Area())
	assert.Equal(t, "dept-a/area-1", p.Area().String())
	assert.NotEqual(t, model.AreaRef{DeptID: "a-b", AreaID: "c"}, model.AreaRef{DeptID: "a", AreaID: "b-c"})
}

func TestLookup(t *testing.T) {
	d := modeltest.Sample()

	dept, area, ws, ok := d.Lookup(modeltest.Path("finance", "payables", "invoices"))
	require.True(t, ok)
	assert.Equal(t, "Finance", dept.Name)
	assert.Equal(t, "Payables", area.Name)
	assert.Equal(t, "Invoice Processing", ws.Name)

	_, _, _, ok = d.Lookup(modeltest.Path("finance", "payables", "missing"))
	assert.False(t, ok)
	_, _, _, ok = d.Lookup(modeltest.Path("finance", "onboarding", "staff-training"))
	assert.False(t, ok, "area ids are scoped to their department")
}

func TestDepartmentAndArea(t *testing.T) {
	d := modeltest.Sample()

	_, ok := d.Department("people-ops")
	assert.True(t, ok)
	_, ok = d.Department("nope")
	assert.False(t, ok)

	area, ok := d.Area("people-ops", "reviews")
	require.True(t, ok)
	assert.Equal(t, "Reviews", area.Name)
	_, ok = d.Area("nope", "reviews")
	assert.False(t, ok)
}

func TestWalkTreeOrder(t *testing.T) {
	d := modeltest.Sample()

	var keys []string
	d.Walk(func(dept *model.Department, area *model.Area, ws *model.Workstream) bool {
		keys = append(keys, model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}.Key())
		return true
	})
	assert.Equal(t, []string{
		"people-ops-onboarding-staff-training",
		"people-ops-onboarding-equipment",
		"people-ops-reviews-quarterly-reviews",
		"finance-payables-invoices",
		"dept-a-area-1-ws-main",
	}, keys)

	count := 0
	d.Walk(func(*model.Department, *model.Area, *model.Workstream) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestCountsAndMetadata(t *testing.T) {
	d := modeltest.Sample()
	depts, areas, wss := d.Counts()
	assert.Equal(t, 3, depts)
	assert.Equal(t, 4, areas)
	assert.Equal(t, 5, wss)
	assert.Equal(t, 5, d.Metadata.TotalWorkstreams)
}

func TestOwners(t *testing.T) {
	d := modeltest.Sample()
	_, _, ws, ok := d.Lookup(modeltest.Path("people-ops", "onboarding", "staff-training"))
	require.True(t, ok)
	assert.Equal(t, []string{"HR Lead", "Head of Ops"}, ws.Owners())

	assert.Empty(t, model.Workstream{}.Owners())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		dir     *model.Directory
		wantErr string
	}{
		{name: "sample is valid", dir: modeltest.Sample()},
		{
			name: "empty department id",
			dir: &model.Directory{Departments: []model.Department{
				{Name: "Nameless"},
			}},
			wantErr: "department \"Nameless\" has an empty id",
		},
		{
			name: "duplicate workstream",
			dir: &model.Directory{Departments: []model.Department{
				{ID: "d", Areas: []model.Area{{ID: "a", Workstreams: []model.Workstream{{ID: "w"}, {ID: "w"}}}}},
			}},
			wantErr: "duplicate workstream d-a-w",
		},
		{
			name: "duplicate area",
			dir: &model.Directory{Departments: []model.Department{
				{ID: "d", Areas: []model.Area{{ID: "a"}, {ID: "a"}}},
			}},
			wantErr: "duplicate area id \"a\" in \"d\"",
		},
		{
			name: "colliding composite keys are legal",
			dir: &model.Directory{Departments: []model.Department{
				{ID: "a-b", Areas: []model.Area{{ID: "c", Workstreams: []model.Workstream{{ID: "d"}}}}},
				{ID: "a", Areas: []model.Area{{ID: "b-c", Workstreams: []model.Workstream{{ID: "d"}}}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dir.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcessStepsIsEmpty(t *testing.T) {
	var nilSteps *model.ProcessSteps
	assert.True(t, nilSteps.IsEmpty())
	assert.True(t, (&model.ProcessSteps{}).IsEmpty())
	assert.False(t, (&model.ProcessSteps{Tools: []string{"Xero"}}).IsEmpty())
}
