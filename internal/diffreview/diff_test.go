package diffreview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReview_NewFileHasNoOldContent(t *testing.T) {
	r := NewReviewer()
	fd := r.Review("math_test.go", "", "func TestAdd(t *testing.T) {}\n")
	require.True(t, fd.IsNew)
	require.Len(t, fd.Hunks, 1)
}

func TestReview_DetectsAddedAndRemovedLines(t *testing.T) {
	r := NewReviewer()
	old := "func TestAdd(t *testing.T) {\n  x := 1\n  require.Equal(t, 1, x)\n}\n"
	new_ := "func TestAdd(t *testing.T) {\n  x := 2\n  require.Equal(t, 2, x)\n}\n"
	fd := r.Review("math_test.go", old, new_)
	require.NotEmpty(t, fd.Hunks)

	var added, removed int
	for _, h := range fd.Hunks {
		for _, l := range h.Lines {
			if l.Kind == LineAdded {
				added++
			}
			if l.Kind == LineRemoved {
				removed++
			}
		}
	}
	require.Equal(t, 2, added)
	require.Equal(t, 2, removed)
}

func TestReview_CachesIdenticalPairs(t *testing.T) {
	r := NewReviewer()
	old, new_ := "a\nb\n", "a\nc\n"
	first := r.Review("x_test.go", old, new_)
	second := r.Review("y_test.go", old, new_)
	require.Equal(t, len(first.Hunks), len(second.Hunks))
	require.Equal(t, "y_test.go", second.Path)
}

func TestFormatForCLI_IncludesPathAndStatus(t *testing.T) {
	r := NewReviewer()
	fd := r.Review("new_test.go", "", "func TestX(t *testing.T) {}\n")
	out := FormatForCLI(fd)
	require.Contains(t, out, "new_test.go")
	require.Contains(t, out, "new file")
}

func TestApplyTest_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "generated_test.go")
	err := ApplyTest(path, "package foo\n")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "package foo\n", string(data))
}
