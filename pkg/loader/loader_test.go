package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecthear/opsportal/pkg/loader"
	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/model/modeltest"
)

const bibleFixture = "testdata/bible.md"

func TestGenerateID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lead Sourcing & Tracking", "lead-sourcing-tracking"},
		{"🔷 People & Culture", "people-culture"},
		{"  Multi   space -- dash  ", "multi-space-dash"},
		{"Q1/Q2 Planning (draft)", "q1q2-planning-draft"},
		{"Café Ops", "café-ops"},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, loader.GenerateID(tt.in))
		})
	}
}

func TestParseBible(t *testing.T) {
	f, err := os.Open(bibleFixture)
	require.NoError(t, err)
	defer f.Close()

	now := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	dir, err := loader.ParseBibleAt(f, now)
	require.NoError(t, err)

	assert.Equal(t, model.Metadata{
		Version:          loader.BibleVersion,
		LastUpdated:      "March 2026",
		TotalDepartments: 2,
		TotalAreas:       2,
		TotalWorkstreams: 3,
	}, dir.Metadata)

	require.Len(t, dir.Departments, 2)
	people := dir.Departments[0]
	assert.Equal(t, "people-culture", people.ID)
	assert.Equal(t, "People & Culture", people.Name)
	assert.Equal(t, loader.DepartmentEmoji, people.Emoji)
	require.Len(t, people.Areas, 1)
	assert.Equal(t, "hiring-onboarding", people.Areas[0].ID)
	assert.Equal(t, loader.AreaEmoji, people.Areas[0].Emoji)

	_, _, training, ok := dir.Lookup(modeltest.Path("people-culture", "hiring-onboarding", "staff-training"))
	require.True(t, ok)

	want := model.Workstream{
		ID:          "staff-training",
		Name:        "Staff Training",
		Description: "Run induction sessions for every new hire.",
		Frequency:   "Monthly",
		Output:      []string{"Attendance sheet", "Feedback summary shared with leads"},
		Dependencies: []model.Dependency{
			{Team: "Finance", Reason: "training budget"},
			{Team: "IT Support"},
		},
		RACI: []model.RACIRole{
			{Role: "HR Lead", Responsible: true},
			{Role: "Head of Ops", Accountable: true, Informed: true},
		},
		Notes: []model.Note{
			{Title: "Key Process Notes", Content: []string{"Book rooms two weeks ahead", "Record attendance"}},
			{Title: "Implementation Note", Content: []string{"Pilot in Q1."}},
		},
		ProcessSteps: &model.ProcessSteps{
			Steps: []model.Step{
				{Number: 1, Title: "Prepare material", Details: []string{"Update slides", "Print handbooks"}},
				{Number: 2, Title: "Deliver session", Details: []string{"Welcome attendees"}},
			},
			DecisionPoints: []model.Decision{
				{Condition: "If fewer than 3 hires", Action: "Merge with next month"},
				{Condition: "Remote hire", Action: "send recording"},
			},
			CommonIssues:       []model.Issue{{Issue: "Projector fails", Solution: "Use the spare"}},
			Tools:              []string{"Google Slides"},
			RelatedWorkstreams: []string{"Equipment Handover"},
		},
	}
	if diff := cmp.Diff(want, training); diff != "" {
		t.Errorf("Staff Training mismatch (-want +got):\n%s", diff)
	}

	_, _, handover, ok := dir.Lookup(modeltest.Path("people-culture", "hiring-onboarding", "equipment-handover"))
	require.True(t, ok)
	assert.Equal(t, "Per hire", handover.Frequency)
	assert.Nil(t, handover.ProcessSteps)

	_, _, invoices, ok := dir.Lookup(modeltest.Path("finance", "payables", "invoice-processing"))
	require.True(t, ok)
	assert.Equal(t, "Verify and pay invoices.", invoices.Description)
}

func TestParseBible_NoDepartments(t *testing.T) {
	_, err := loader.ParseBible(strings.NewReader("# Just a title\n\nSome text\n"))
	assert.True(t, errors.Is(err, model.ErrNoData))
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"data.json", "data.yaml", "nested/out/data.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := modeltest.Sample()

			require.NoError(t, loader.SaveDirectory(want, path))
			got, err := loader.LoadDirectory(path)
			require.NoError(t, err)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDirectory_MissingData(t *testing.T) {
	_, err := loader.LoadDirectory("")
	assert.True(t, errors.Is(err, model.ErrNoData))

	_, err = loader.LoadDirectory(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, errors.Is(err, model.ErrNoData))

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	_, err = loader.LoadDirectory(empty)
	assert.True(t, errors.Is(err, model.ErrNoData))

	noDepts := filepath.Join(t.TempDir(), "nodepts.json")
	require.NoError(t, os.WriteFile(noDepts, []byte(`{"departments": []}`), 0o644))
	_, err = loader.LoadDirectory(noDepts)
	assert.True(t, errors.Is(err, model.ErrNoData))
}

func TestLoadDirectory_Invalid(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"departments": [`), 0o644))
	_, err := loader.LoadDirectory(bad)
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrNoData))
	assert.Contains(t, err.Error(), "invalid json")

	dup := filepath.Join(t.TempDir(), "dup.yaml")
	require.NoError(t, os.WriteFile(dup, []byte(`
departments:
  - id: d
    name: D
    areas:
      - id: a
        name: A
        workstreams:
          - {id: w, name: W}
          - {id: w, name: W again}
`), 0o644))
	_, err = loader.LoadDirectory(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate workstream d-a-w")
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, loader.FormatYAML, loader.FormatFor("x.YAML"))
	assert.Equal(t, loader.FormatYAML, loader.FormatFor("x.yml"))
	assert.Equal(t, loader.FormatJSON, loader.FormatFor("x.json"))
	assert.Equal(t, loader.FormatJSON, loader.FormatFor("x"))
}

func TestBuildAll(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "extra.md")
	require.NoError(t, os.WriteFile(extra, []byte("# 3. 🔷 Legal\n\n## 📍 Area: Contracts\n\n### Workstream: Contract Review\n"), 0o644))

	dir, err := loader.BuildAll(context.Background(), []string{bibleFixture, extra})
	require.NoError(t, err)

	var ids []string
	for _, d := range dir.Departments {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"people-culture", "finance", "legal"}, ids)
	assert.Equal(t, 4, dir.Metadata.TotalWorkstreams)
}

func TestBuildAll_Errors(t *testing.T) {
	_, err := loader.BuildAll(context.Background(), nil)
	assert.True(t, errors.Is(err, model.ErrNoData))

	_, err = loader.BuildAll(context.Background(), []string{bibleFixture, filepath.Join(t.TempDir(), "missing.md")})
	assert.Error(t, err)

	// the same source twice duplicates every department id
	_, err = loader.BuildAll(context.Background(), []string{bibleFixture, bibleFixture})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate department id")
}
