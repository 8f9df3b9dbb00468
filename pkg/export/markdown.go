package export

import (
	"fmt"
	"strings"

	"github.com/connecthear/opsportal/pkg/loader"
	"github.com/connecthear/opsportal/pkg/model"
)

// HomeMarkdown is the directory overview: totals and one line per department
func HomeMarkdown(dir *model.Directory) string {
	var b strings.Builder
	b.WriteString("# Operations Directory\n\n")

	depts, areas, wss := dir.Counts()
	fmt.Fprintf(&b, "**%d** departments, **%d** areas, **%d** workstreams.\n\n", depts, areas, wss)
	if dir.Metadata.LastUpdated != "" {
		fmt.Fprintf(&b, "*Last updated %s*\n\n", dir.Metadata.LastUpdated)
	}

	b.WriteString("## Departments\n\n")
	for _, dept := range dir.Departments {
		n := 0
		for _, area := range dept.Areas {
			n += len(area.Workstreams)
		}
		fmt.Fprintf(&b, "- %s **%s**: %d areas, %d workstreams\n",
			emojiOr(dept.Emoji, loader.DepartmentEmoji), dept.Name, len(dept.Areas), n)
	}
	return b.String()
}

// WorkstreamMarkdown renders the detail page of one workstream. Sections with
// no content are omitted.
func WorkstreamMarkdown(dept model.Department, area model.Area, ws model.Workstream) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ws.Name)
	fmt.Fprintf(&b, "*%s %s › %s %s*\n\n",
		emojiOr(dept.Emoji, loader.DepartmentEmoji), dept.Name,
		emojiOr(area.Emoji, loader.AreaEmoji), area.Name)

	if ws.Frequency != "" {
		fmt.Fprintf(&b, "**Frequency:** %s\n\n", ws.Frequency)
	}
	if owners := ws.Owners(); len(owners) > 0 {
		if len(owners) > 2 {
			owners = owners[:2]
		}
		fmt.Fprintf(&b, "**Owner:** %s\n\n", strings.Join(owners, ", "))
	}

	if ws.Description != "" {
		fmt.Fprintf(&b, "## Description\n\n%s\n\n", ws.Description)
	}

	if len(ws.Output) > 0 {
		b.WriteString("## Output\n\n")
		writeList(&b, ws.Output)
	}

	if len(ws.Dependencies) > 0 {
		b.WriteString("## Dependencies\n\n")
		for _, dep := range ws.Dependencies {
			if dep.Reason != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", dep.Team, dep.Reason)
			} else {
				fmt.Fprintf(&b, "- **%s**\n", dep.Team)
			}
		}
		b.WriteString("\n")
	}

	if len(ws.RACI) > 0 {
		b.WriteString("## RACI Matrix\n\n")
		b.WriteString("| Role | R | A | C | I |\n|---|---|---|---|---|\n")
		for _, r := range ws.RACI {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				r.Role, check(r.Responsible), check(r.Accountable), check(r.Consulted), check(r.Informed))
		}
		b.WriteString("\n")
	}

	if len(ws.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, note := range ws.Notes {
			if note.Title != "" {
				fmt.Fprintf(&b, "### %s\n\n", note.Title)
			}
			writeList(&b, note.Content)
		}
	}

	if !ws.ProcessSteps.IsEmpty() {
		writeProcessSteps(&b, ws.ProcessSteps)
	}

	return b.String()
}

func writeProcessSteps(b *strings.Builder, ps *model.ProcessSteps) {
	b.WriteString("## Process Steps\n\n")
	for _, step := range ps.Steps {
		fmt.Fprintf(b, "### %d. %s\n\n", step.Number, step.Title)
		writeList(b, step.Details)
	}
	if len(ps.DecisionPoints) > 0 {
		b.WriteString("### Decision Points\n\n")
		for _, d := range ps.DecisionPoints {
			fmt.Fprintf(b, "- **%s** %s\n", d.Condition, d.Action)
		}
		b.WriteString("\n")
	}
	if len(ps.CommonIssues) > 0 {
		b.WriteString("### Common Issues\n\n")
		for _, is := range ps.CommonIssues {
			if is.Solution != "" {
				fmt.Fprintf(b, "- **%s** Solution: %s\n", is.Issue, is.Solution)
			} else {
				fmt.Fprintf(b, "- **%s**\n", is.Issue)
			}
		}
		b.WriteString("\n")
	}
	if len(ps.Tools) > 0 {
		b.WriteString("### Tools & Access\n\n")
		writeList(b, ps.Tools)
	}
	if len(ps.RelatedWorkstreams) > 0 {
		b.WriteString("### Related Workstreams\n\n")
		writeList(b, ps.RelatedWorkstreams)
	}
}

func writeList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func check(v bool) string {
	if v {
		return loader.CheckMark
	}
	return ""
}

func emojiOr(emoji, fallback string) string {
	if emoji != "" {
		return emoji
	}
	return fallback
}
