// Package export renders the operations directory as markdown: single
// workstream pages for the browser's detail pane, and a complete handbook
// document whose anchors match the browser's deep links.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/connecthear/opsportal/pkg/loader"
	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/router"
)

// Handbook renders the whole directory as one markdown document: the
// overview, a linked table of contents, then every workstream in tree order.
// Each workstream is preceded by an HTML anchor named by its composite key,
// so "#dept-area-workstream" links work inside the document.
func Handbook(dir *model.Directory) string {
	var b strings.Builder
	b.WriteString(HomeMarkdown(dir))
	b.WriteString("\n## Contents\n\n")

	for _, dept := range dir.Departments {
		fmt.Fprintf(&b, "- %s %s\n", emojiOr(dept.Emoji, loader.DepartmentEmoji), dept.Name)
		for _, area := range dept.Areas {
			fmt.Fprintf(&b, "  - %s %s (%d)\n", emojiOr(area.Emoji, loader.AreaEmoji), area.Name, len(area.Workstreams))
			for _, ws := range area.Workstreams {
				fmt.Fprintf(&b, "    - [%s](%s)\n", ws.Name, router.Encode(dept.ID, area.ID, ws.ID))
			}
		}
	}

	dir.Walk(func(dept *model.Department, area *model.Area, ws *model.Workstream) bool {
		key := model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}.Key()
		fmt.Fprintf(&b, "\n---\n\n<a id=\"%s\"></a>\n\n", key)
		// Workstream pages start at h1; nest them under the handbook title.
		for _, line := range strings.SplitAfter(WorkstreamMarkdown(*dept, *area, *ws), "\n") {
			if strings.HasPrefix(line, "#") {
				line = "#" + line
			}
			b.WriteString(line)
		}
		return true
	})
	return b.String()
}

// WriteHandbook writes the handbook to path, creating parent directories.
func WriteHandbook(dir *model.Directory, path string) error {
	if dir == nil || len(dir.Departments) == 0 {
		return fmt.Errorf("cannot export handbook: %w", model.ErrNoData)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Handbook(dir)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
