package context

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"testmind/internal/model"
)

func chunk(id, path string, content string) model.CodeChunk {
	return model.CodeChunk{ID: id, FilePath: path, Content: content}
}

func TestManager_AddFile_DefaultPriority(t *testing.T) {
	m := NewManager()
	m.AddFile([]model.CodeChunk{chunk("a", "x.go", "hello")}, "user pinned", 0)
	pinned := m.GetPinnedChunks()
	require.Len(t, pinned, 1)
	require.Equal(t, 5, pinned[0].Priority)
}

func TestManager_AddFunction_HigherPriority(t *testing.T) {
	m := NewManager()
	m.AddFunction([]model.CodeChunk{chunk("a", "x.go", "hello")}, "focus fn", 0)
	pinned := m.GetPinnedChunks()
	require.Equal(t, 7, pinned[0].Priority)
}

func TestManager_RemoveFile_RoundTrips(t *testing.T) {
	m := NewManager()
	m.AddFile([]model.CodeChunk{chunk("a", "x.go", "one"), chunk("b", "x.go", "two")}, "r", 0)
	before := m.GetPinnedChunks()
	m.AddFile([]model.CodeChunk{chunk("c", "y.go", "three")}, "r", 0)
	m.RemoveFile("y.go")
	after := m.GetPinnedChunks()
	require.Equal(t, len(before), len(after))
}

func TestManager_PriorityOrdering_TieBreakByAddedAt(t *testing.T) {
	m := NewManager()
	t0 := time.Now()
	calls := 0
	m.nowFunc = func() time.Time {
		calls++
		return t0.Add(time.Duration(calls) * time.Second)
	}
	m.AddFile([]model.CodeChunk{chunk("b", "b.go", "x")}, "r", 5)
	m.AddFile([]model.CodeChunk{chunk("a", "a.go", "x")}, "r", 5)

	pinned := m.GetPinnedChunks()
	require.Equal(t, "b", pinned[0].Chunk.ID)
	require.Equal(t, "a", pinned[1].Chunk.ID)
}

func TestManager_Focus(t *testing.T) {
	m := NewManager()
	require.True(t, m.IsInFocus("anything.go"))

	m.SetFocus([]string{"src/lib"})
	require.True(t, m.IsInFocus("src/lib"))
	require.True(t, m.IsInFocus("src/lib/file.go"))
	require.False(t, m.IsInFocus("src/other.go"))

	m.AddToFocus("src/other")
	require.True(t, m.IsInFocus("src/other/file.go"))

	m.RemoveFromFocus("src/lib")
	require.False(t, m.IsInFocus("src/lib/file.go"))
}

func TestManager_EstimatedTokens(t *testing.T) {
	m := NewManager()
	m.AddFile([]model.CodeChunk{chunk("a", "x.go", "abcd")}, "r", 0)
	require.Equal(t, 1, m.EstimatedTokens())
}
