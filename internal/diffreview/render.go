package diffreview

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"testmind/internal/model"
	"testmind/internal/txerr"
)

var (
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

// GenerateDiff computes the DiffResult for a generated test suite
// against whatever currently exists at its file path. A missing target
// file yields Exists=false and an additions-only diff.
func (r *Reviewer) GenerateDiff(suite model.TestSuite) (model.DiffResult, error) {
	original := ""
	exists := false
	data, err := os.ReadFile(suite.FilePath)
	switch {
	case err == nil:
		original = string(data)
		exists = true
	case os.IsNotExist(err):
	default:
		return model.DiffResult{}, txerr.New(txerr.Resource, "diffreview.GenerateDiff", err)
	}

	fd := r.Review(suite.FilePath, original, suite.Code)
	return model.DiffResult{
		FilePath:        suite.FilePath,
		Exists:          exists,
		Diff:            Format(fd),
		OriginalContent: original,
		NewContent:      suite.Code,
	}, nil
}

// Format renders a FileDiff without ANSI coloring, suitable for logs
// and machine consumers.
func Format(fd *FileDiff) string {
	var b strings.Builder

	status := "modified"
	switch {
	case fd.IsNew:
		status = "new file"
	case fd.IsDelete:
		status = "deleted"
	}
	fmt.Fprintf(&b, "--- %s (%s) ---\n", fd.Path, status)

	for _, h := range fd.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			marker := " "
			switch l.Kind {
			case LineAdded:
				marker = "+"
			case LineRemoved:
				marker = "-"
			}
			fmt.Fprintf(&b, "%s%s %s\n", marker, padLineNum(l.Number), l.Content)
		}
	}
	return b.String()
}

// FormatForCLI renders a FileDiff as a colored unified-diff-like string.
func FormatForCLI(fd *FileDiff) string {
	var b strings.Builder

	status := "modified"
	switch {
	case fd.IsNew:
		status = "new file"
	case fd.IsDelete:
		status = "deleted"
	}
	b.WriteString(headerColor.Sprintf("--- %s (%s) ---\n", fd.Path, status))

	for _, h := range fd.Hunks {
		b.WriteString(headerColor.Sprintf("@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount))
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				b.WriteString(addedColor.Sprintf("+%s %s\n", padLineNum(l.Number), l.Content))
			case LineRemoved:
				b.WriteString(removedColor.Sprintf("-%s %s\n", padLineNum(l.Number), l.Content))
			default:
				b.WriteString(fmt.Sprintf(" %s %s\n", padLineNum(l.Number), l.Content))
			}
		}
	}
	return b.String()
}

func padLineNum(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 4 {
		s = strings.Repeat(" ", 4-len(s)) + s
	}
	return s
}

// ApplyTest writes newContent to path atomically, creating parent
// directories as needed: the content lands in a temp file first and is
// renamed into place, so a crash mid-write never leaves a truncated
// test file behind.
func ApplyTest(path, newContent string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(newContent); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
