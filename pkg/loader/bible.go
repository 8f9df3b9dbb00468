package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/connecthear/opsportal/pkg/model"
)

// Markers used by the Operations Bible markdown
const (
	DepartmentEmoji = "🔷"
	AreaEmoji       = "📍"
	CheckMark       = "✅"

	areaHeader       = "## " + AreaEmoji + " Area:"
	workstreamHeader = "### Workstream:"

	// BibleVersion is stamped into the metadata of built directories
	BibleVersion = "2.0"
)

var (
	deptHeaderRe   = regexp.MustCompile(`^# \d+\.\s*` + DepartmentEmoji + `\s*(.+)$`)
	dependencyRe   = regexp.MustCompile(`^(.+?)\s*\((.+?)\)`)
	bulletRe       = regexp.MustCompile(`^[-*]\s*`)
	noteHeaderRe   = regexp.MustCompile(`^\*\*(.+?Notes|.+?Requirements|Implementation Note):\*\*`)
	noteTitleRe    = regexp.MustCompile(`^\*\*(.+?):\*\*`)
	stepHeaderRe   = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)
	decisionRe     = regexp.MustCompile(`^\*\*(.+?):\*\*\s*(.+)$`)
	idSeparatorsRe = regexp.MustCompile(`[-\s]+`)
)

// GenerateID turns a heading into a URL-safe id:
// "Lead Sourcing & Tracking" becomes "lead-sourcing-tracking".
func GenerateID(text string) string {
	for _, marker := range []string{DepartmentEmoji, AreaEmoji, CheckMark} {
		text = strings.ReplaceAll(text, marker, "")
	}
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(text))
	text = idSeparatorsRe.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// ParseBible parses an Operations Bible markdown document. The build date in
// the metadata is the current month.
func ParseBible(r io.Reader) (*model.Directory, error) {
	return ParseBibleAt(r, time.Now())
}

// ParseBibleAt is ParseBible with an explicit build time.
func ParseBibleAt(r io.Reader, now time.Time) (*model.Directory, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	dir := &model.Directory{
		Departments: extractDepartments(lines),
		Metadata: model.Metadata{
			Version:     BibleVersion,
			LastUpdated: now.Format("January 2006"),
		},
	}
	if len(dir.Departments) == 0 {
		return nil, fmt.Errorf("no departments found in markdown: %w", model.ErrNoData)
	}
	dir.RefreshMetadata()
	return dir, nil
}

// ParseBibleFile opens and parses a markdown file.
func ParseBibleFile(path string) (*model.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open markdown source: %w", err)
	}
	defer f.Close()

	dir, err := ParseBible(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dir, nil
}

// BuildAll parses several markdown files concurrently and concatenates their
// departments in argument order.
func BuildAll(ctx context.Context, paths []string) (*model.Directory, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no markdown sources given: %w", model.ErrNoData)
	}

	parts := make([]*model.Directory, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dir, err := ParseBibleFile(path)
			if err != nil {
				return err
			}
			parts[i] = dir
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &model.Directory{Metadata: parts[0].Metadata}
	for _, p := range parts {
		out.Departments = append(out.Departments, p.Departments...)
	}
	out.RefreshMetadata()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading markdown: %w", err)
	}
	return lines, nil
}

// sections splits lines at every index where isHeader matches. Lines before
// the first header are dropped.
func sections(lines []string, isHeader func(string) bool) [][]string {
	var starts []int
	for i, line := range lines {
		if isHeader(strings.TrimSpace(line)) {
			starts = append(starts, i)
		}
	}
	out := make([][]string, 0, len(starts))
	for idx, start := range starts {
		end := len(lines)
		if idx+1 < len(starts) {
			end = starts[idx+1]
		}
		out = append(out, lines[start:end])
	}
	return out
}

func extractDepartments(lines []string) []model.Department {
	var depts []model.Department
	for _, sec := range sections(lines, deptHeaderRe.MatchString) {
		name := "Unknown"
		if m := deptHeaderRe.FindStringSubmatch(strings.TrimSpace(sec[0])); m != nil {
			name = strings.TrimSpace(m[1])
		}
		depts = append(depts, model.Department{
			ID:    GenerateID(name),
			Name:  name,
			Emoji: DepartmentEmoji,
			Areas: extractAreas(sec[1:]),
		})
	}
	return depts
}

func extractAreas(lines []string) []model.Area {
	areas := []model.Area{}
	isArea := func(s string) bool { return strings.HasPrefix(s, areaHeader) }
	for _, sec := range sections(lines, isArea) {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sec[0]), areaHeader))
		areas = append(areas, model.Area{
			ID:          GenerateID(name),
			Name:        name,
			Emoji:       AreaEmoji,
			Workstreams: extractWorkstreams(sec[1:]),
		})
	}
	return areas
}

func extractWorkstreams(lines []string) []model.Workstream {
	wss := []model.Workstream{}
	isWS := func(s string) bool { return strings.HasPrefix(s, workstreamHeader) }
	for _, sec := range sections(lines, isWS) {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sec[0]), workstreamHeader))
		ws := parseWorkstreamContent(sec[1:])
		ws.ID = GenerateID(name)
		ws.Name = name
		wss = append(wss, ws)
	}
	return wss
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")
}

func stripBullet(line string) string {
	return bulletRe.ReplaceAllString(line, "")
}

func listItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if isBullet(line) {
			items = append(items, stripBullet(line))
		}
	}
	return items
}

func parseDependencies(lines []string) []model.Dependency {
	var deps []model.Dependency
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !isBullet(line) {
			continue
		}
		item := stripBullet(line)
		if m := dependencyRe.FindStringSubmatch(item); m != nil {
			deps = append(deps, model.Dependency{Team: strings.TrimSpace(m[1]), Reason: strings.TrimSpace(m[2])})
			continue
		}
		deps = append(deps, model.Dependency{Team: strings.TrimSpace(item)})
	}
	return deps
}

func parseRACITable(lines []string) []model.RACIRole {
	var roles []model.RACIRole
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "|---") || strings.HasPrefix(line, "| Role") {
			continue
		}

		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) > 0 && parts[0] == "" {
			parts = parts[1:]
		}
		if len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		if len(parts) < 2 {
			continue
		}

		marked := func(i int) bool { return i < len(parts) && strings.Contains(parts[i], CheckMark) }
		roles = append(roles, model.RACIRole{
			Role:        parts[0],
			Responsible: marked(1),
			Accountable: marked(2),
			Consulted:   marked(3),
			Informed:    marked(4),
		})
	}
	return roles
}

// collectUntilSection gathers trimmed lines from start until the next bold
// section marker. It returns the lines and the index it stopped at.
func collectUntilSection(lines []string, start int) ([]string, int) {
	var out []string
	i := start
	for ; i < len(lines); i++ {
		next := strings.TrimSpace(lines[i])
		if strings.HasPrefix(next, "**") {
			break
		}
		out = append(out, next)
	}
	return out, i
}

func parseWorkstreamContent(lines []string) model.Workstream {
	var ws model.Workstream

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, "**Description:**"):
			var desc []string
			if text := strings.TrimSpace(strings.TrimPrefix(line, "**Description:**")); text != "" {
				desc = append(desc, text)
			}
			block, next := collectUntilSection(lines, i+1)
			for _, l := range block {
				if l != "" {
					desc = append(desc, l)
				}
			}
			ws.Description = strings.Join(desc, " ")
			i = next
			continue

		case strings.HasPrefix(line, "**Frequency:**"):
			ws.Frequency = strings.TrimSpace(strings.TrimPrefix(line, "**Frequency:**"))

		case strings.HasPrefix(line, "**Output:**"):
			block, next := collectUntilSection(lines, i+1)
			var items []string
			for _, l := range block {
				switch {
				case l == "":
				case isBullet(l):
					items = append(items, l)
				case len(items) > 0:
					items[len(items)-1] += " " + l
				}
			}
			ws.Output = listItems(items)
			i = next
			continue

		case strings.HasPrefix(line, "**Dependencies:**"):
			block, next := collectUntilSection(lines, i+1)
			ws.Dependencies = parseDependencies(block)
			i = next
			continue

		case strings.HasPrefix(line, "**RACI:**"):
			var rows []string
			i++
			for ; i < len(lines); i++ {
				next := strings.TrimSpace(lines[i])
				if strings.HasPrefix(next, "**") {
					break
				}
				if strings.HasPrefix(next, "|") {
					rows = append(rows, next)
				}
			}
			ws.RACI = parseRACITable(rows)
			continue

		case strings.HasPrefix(line, "**Process Steps:**"):
			steps, next := parseProcessSteps(lines, i)
			ws.ProcessSteps = steps
			i = next
			continue

		case noteHeaderRe.MatchString(line):
			title := "Notes"
			if m := noteTitleRe.FindStringSubmatch(line); m != nil {
				title = m[1]
			}
			var body []string
			hasBullets := false
			i++
			for ; i < len(lines); i++ {
				next := strings.TrimSpace(lines[i])
				if strings.HasPrefix(next, "**") || strings.HasPrefix(next, "###") || strings.HasPrefix(next, "---") {
					break
				}
				if next != "" {
					body = append(body, next)
					hasBullets = hasBullets || isBullet(next)
				}
			}
			note := model.Note{Title: title}
			if hasBullets {
				note.Content = listItems(body)
			} else {
				note.Content = []string{strings.Join(body, "\n")}
			}
			ws.Notes = append(ws.Notes, note)
			continue
		}

		i++
	}
	return ws
}

type stepSection int

const (
	sectionSteps stepSection = iota
	sectionDecisions
	sectionIssues
	sectionTools
	sectionRelated
)

// parseProcessSteps parses from the "**Process Steps:**" line at start up to
// the next heading or top-level bold section.
func parseProcessSteps(lines []string, start int) (*model.ProcessSteps, int) {
	ps := &model.ProcessSteps{}
	var current *model.Step
	section := sectionSteps

	flush := func() {
		if current != nil {
			ps.Steps = append(ps.Steps, *current)
			current = nil
		}
	}

	i := start + 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "# ") || strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ") {
			break
		}
		if strings.HasPrefix(line, "**") && strings.Contains(line, ":") &&
			!strings.HasPrefix(line, "**If") &&
			!strings.HasPrefix(line, "**Issue:") &&
			!strings.HasPrefix(line, "**Solution:") {
			break
		}

		if strings.HasPrefix(line, "####") {
			title := strings.TrimSpace(strings.ReplaceAll(line, "####", ""))
			switch {
			case strings.Contains(title, "Decision Points"):
				section = sectionDecisions
				i++
				continue
			case strings.Contains(title, "Common Issues"):
				section = sectionIssues
				i++
				continue
			case strings.Contains(title, "Tools"), strings.Contains(title, "Access"), strings.Contains(title, "Key Thresholds"):
				section = sectionTools
				i++
				continue
			case strings.Contains(title, "Related Workstreams"):
				section = sectionRelated
				i++
				continue
			}
			if m := stepHeaderRe.FindStringSubmatch(title); m != nil && section == sectionSteps {
				flush()
				n, _ := strconv.Atoi(m[1])
				current = &model.Step{Number: n, Title: strings.TrimSpace(m[2])}
				i++
				continue
			}
		}

		switch section {
		case sectionSteps:
			if current != nil && isBullet(line) {
				current.Details = append(current.Details, stripBullet(line))
			}
		case sectionDecisions:
			if m := decisionRe.FindStringSubmatch(line); m != nil {
				ps.DecisionPoints = append(ps.DecisionPoints, model.Decision{
					Condition: strings.TrimSpace(m[1]),
					Action:    strings.TrimSpace(m[2]),
				})
			} else if isBullet(line) {
				detail := stripBullet(line)
				if cond, action, ok := strings.Cut(detail, ":"); ok {
					ps.DecisionPoints = append(ps.DecisionPoints, model.Decision{
						Condition: strings.TrimSpace(cond),
						Action:    strings.TrimSpace(action),
					})
				}
			}
		case sectionIssues:
			if strings.HasPrefix(line, "**Issue:**") {
				issue := model.Issue{Issue: strings.TrimSpace(strings.TrimPrefix(line, "**Issue:**"))}
				if i+1 < len(lines) && strings.Contains(lines[i+1], "**Solution:**") {
					issue.Solution = strings.TrimSpace(strings.ReplaceAll(lines[i+1], "**Solution:**", ""))
					i++
				}
				ps.CommonIssues = append(ps.CommonIssues, issue)
			}
		case sectionTools:
			if isBullet(line) {
				ps.Tools = append(ps.Tools, stripBullet(line))
			}
		case sectionRelated:
			if isBullet(line) {
				ps.RelatedWorkstreams = append(ps.RelatedWorkstreams, stripBullet(line))
			}
		}
		i++
	}

	flush()
	return ps, i
}
