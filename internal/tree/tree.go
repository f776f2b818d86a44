// Package tree rebuilds the ancestry of a build's processes and draws it with
// box-drawing prefixes, the way tree(1) and pstree do.
package tree

import (
	"fmt"
	"strings"

	"github.com/five82/nixtop/internal/nixps"
)

const (
	branch     = "├───"
	lastBranch = "└───"
	pipe       = "│    "
	blank      = "    "
)

// Render draws the subtree rooted at the process with pid root. Children are
// listed in the order they appear in processes. The result is nil when no
// process has pid root.
//
// A pid is only ever placed once, so parent links that form a cycle (or pids
// that repeat) end the descent instead of recursing forever.
func Render(processes []nixps.Process, root int) []string {
	idx := indexOf(processes, root)
	if idx < 0 {
		return nil
	}
	placed := map[int]bool{root: true}
	return render(processes, processes[idx], placed)
}

func render(processes []nixps.Process, node nixps.Process, placed map[int]bool) []string {
	lines := []string{label(node)}

	children := childrenOf(processes, node.PID, placed)
	for i, child := range children {
		last := i == len(children)-1
		sub := render(processes, child, placed)
		for j, line := range sub {
			lines = append(lines, prefix(j == 0, last)+line)
		}
	}
	return lines
}

// childrenOf scans processes for direct children of pid that have not been
// placed yet and marks them placed.
func childrenOf(processes []nixps.Process, pid int, placed map[int]bool) []nixps.Process {
	var out []nixps.Process
	for _, p := range processes {
		if p.ParentPID != pid || placed[p.PID] {
			continue
		}
		placed[p.PID] = true
		out = append(out, p)
	}
	return out
}

func prefix(first, last bool) string {
	switch {
	case first && last:
		return lastBranch
	case first:
		return branch
	case last:
		return blank
	default:
		return pipe
	}
}

func label(p nixps.Process) string {
	if text := p.Label(); strings.TrimSpace(text) != "" {
		return text
	}
	return fmt.Sprintf("[pid %d]", p.PID)
}

func indexOf(processes []nixps.Process, pid int) int {
	for i, p := range processes {
		if p.PID == pid {
			return i
		}
	}
	return -1
}
