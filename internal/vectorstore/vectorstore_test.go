package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"testmind/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func chunk(id, path string, embedding []float32) model.CodeChunk {
	return model.CodeChunk{
		ID:        id,
		FilePath:  path,
		Content:   "content-" + id,
		Kind:      model.KindFunction,
		Name:      id,
		Embedding: embedding,
	}
}

func TestStore_InsertAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, []model.CodeChunk{
		chunk("a", "x.go", []float32{1, 0}),
		chunk("b", "y.go", []float32{0, 1}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 5, SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "a", results[0].Chunk.ID)
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestStore_UpdateFile_IsAtomicReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, []model.CodeChunk{
		chunk("old1", "x.go", []float32{1, 0}),
		chunk("old2", "x.go", []float32{0, 1}),
	}))

	require.NoError(t, s.UpdateFile(ctx, "x.go", []model.CodeChunk{
		chunk("new1", "x.go", []float32{1, 1}),
	}))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalChunks)
}

func TestStore_DeleteFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, []model.CodeChunk{chunk("a", "x.go", []float32{1, 0})}))
	require.NoError(t, s.DeleteFile(ctx, "x.go"))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalChunks)
}

func TestStore_SearchFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, []model.CodeChunk{
		chunk("a", "x.go", []float32{1, 0}),
		chunk("b", "y.go", []float32{1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 5, SearchFilter{FilePath: "y.go"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "b", results[0].Chunk.ID)
}

func TestStore_OptimizeIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, []model.CodeChunk{chunk("a", "x.go", []float32{1, 0})}))

	require.NoError(t, s.Optimize(ctx))
	require.NoError(t, s.Optimize(ctx))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalChunks)
}

func TestRecommendIndexStrategy(t *testing.T) {
	require.Equal(t, "linear_scan", RecommendIndexStrategy(500))
	require.Contains(t, RecommendIndexStrategy(5000), "ivf_partitions=")
}
