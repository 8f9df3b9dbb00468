package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/model/modeltest"
)

func lookup(t *testing.T, dir *model.Directory, dept, area, ws string) (model.Department, model.Area, model.Workstream) {
	t.Helper()
	d, a, w, ok := dir.Lookup(modeltest.Path(dept, area, ws))
	require.True(t, ok)
	return d, a, w
}

func TestWorkstreamMarkdown_FullPage(t *testing.T) {
	dir := modeltest.Sample()
	md := WorkstreamMarkdown(lookup(t, dir, "people-ops", "onboarding", "staff-training"))

	for _, want := range []string{
		"# Staff Training\n",
		"*🔷 People Ops › 📍 Onboarding*",
		"**Frequency:** Monthly",
		"**Owner:** HR Lead, Head of Ops",
		"## Description\n\nRun induction sessions for new hires.",
		"## Output\n\n- Attendance sheet\n- Feedback summary\n",
		"- **Finance**: training budget",
		"| HR Lead | ✅ |  |  |  |",
		"| Team Leads |  |  | ✅ |  |",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "## Notes")
	assert.NotContains(t, md, "## Process Steps")
}

func TestWorkstreamMarkdown_OmitsEmptySections(t *testing.T) {
	dir := modeltest.Sample()
	md := WorkstreamMarkdown(lookup(t, dir, "dept-a", "area-1", "ws-main"))

	assert.Equal(t, "# Main Workstream\n\n*🔷 Department A › 📍 Area One*\n\n", md)
}

func TestWorkstreamMarkdown_ProcessSteps(t *testing.T) {
	ws := model.Workstream{
		Name: "Payroll",
		Notes: []model.Note{
			{Title: "Timing", Content: []string{"Run before the 25th"}},
		},
		ProcessSteps: &model.ProcessSteps{
			Steps:              []model.Step{{Number: 1, Title: "Collect timesheets", Details: []string{"Export from HR system"}}},
			DecisionPoints:     []model.Decision{{Condition: "If late:", Action: "Escalate to manager"}},
			CommonIssues:       []model.Issue{{Issue: "Missing hours", Solution: "Chase team lead"}},
			Tools:              []string{"HR system"},
			RelatedWorkstreams: []string{"Invoice Processing"},
		},
	}
	md := WorkstreamMarkdown(model.Department{Name: "Finance"}, model.Area{Name: "Payroll"}, ws)

	assert.Contains(t, md, "*🔷 Finance › 📍 Payroll*")
	assert.Contains(t, md, "## Notes\n\n### Timing\n\n- Run before the 25th\n")
	assert.Contains(t, md, "### 1. Collect timesheets\n\n- Export from HR system\n")
	assert.Contains(t, md, "- **If late:** Escalate to manager")
	assert.Contains(t, md, "- **Missing hours** Solution: Chase team lead")
	assert.Contains(t, md, "### Tools & Access\n\n- HR system\n")
	assert.Contains(t, md, "### Related Workstreams\n\n- Invoice Processing\n")
}

func TestHomeMarkdown(t *testing.T) {
	dir := modeltest.Sample()
	md := HomeMarkdown(dir)

	assert.True(t, strings.HasPrefix(md, "# Operations Directory\n"))
	assert.Contains(t, md, "**3** departments, **4** areas, **5** workstreams.")
	assert.Contains(t, md, "- 🔷 **People Ops**: 2 areas, 3 workstreams")
	assert.Contains(t, md, "- 🔷 **Finance**: 1 areas, 1 workstreams")
}

func TestHandbook(t *testing.T) {
	dir := modeltest.Sample()
	hb := Handbook(dir)

	assert.Contains(t, hb, "## Contents")
	assert.Contains(t, hb, "  - 📍 Onboarding (2)\n")
	assert.Contains(t, hb, "    - [Invoice Processing](#finance-payables-invoices)\n")
	assert.Contains(t, hb, "<a id=\"people-ops-onboarding-staff-training\"></a>\n\n## Staff Training\n")
	assert.Contains(t, hb, "### Description")
	assert.Equal(t, 1, strings.Count("\n"+hb, "\n# "), "only the handbook title is h1")

	training := strings.Index(hb, "<a id=\"people-ops-onboarding-staff-training\">")
	invoices := strings.Index(hb, "<a id=\"finance-payables-invoices\">")
	last := strings.Index(hb, "<a id=\"dept-a-area-1-ws-main\">")
	assert.True(t, training < invoices && invoices < last, "workstreams follow tree order")
}

func TestWriteHandbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "handbook.md")
	require.NoError(t, WriteHandbook(modeltest.Sample(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Handbook(modeltest.Sample()), string(data))

	err = WriteHandbook(&model.Directory{}, path)
	assert.True(t, errors.Is(err, model.ErrNoData))
}
