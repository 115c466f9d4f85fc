package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeEngine is a deterministic in-memory stand-in for network-backed
// providers: each text hashes to a fixed-dimension vector so tests never
// touch the network.
type fakeEngine struct {
	failBatches int // number of EmbedBatch calls to fail before succeeding
	calls       int
}

func (f *fakeEngine) Name() string    { return "fake" }
func (f *fakeEngine) Dimensions() int { return 4 }

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return hashVector(text), nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failBatches {
		return nil, errors.New("simulated transient failure")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t)
	}
	return out, nil
}

func hashVector(s string) []float32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return []float32{float32(h % 7), float32(h % 11), float32(h % 13), float32(h % 17)}
}

func TestBatchEmbedder_EmbedAll_Batches(t *testing.T) {
	engine := &fakeEngine{}
	be := NewBatchEmbedder(engine)
	be.BatchSize = 2
	be.Sleep = func(time.Duration) {}

	texts := []string{"a", "b", "c", "d", "e"}
	vectors, err := be.EmbedAll(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 5)
	for i, v := range vectors {
		require.Equal(t, hashVector(texts[i]), v)
	}
}

func TestBatchEmbedder_RetriesOnFailure(t *testing.T) {
	engine := &fakeEngine{failBatches: 2}
	be := NewBatchEmbedder(engine)
	be.Retry.MaxAttempts = 3
	be.Sleep = func(time.Duration) {}

	vectors, err := be.EmbedAll(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	require.Equal(t, 3, engine.calls)
}

func TestBatchEmbedder_ExhaustsRetries(t *testing.T) {
	engine := &fakeEngine{failBatches: 10}
	be := NewBatchEmbedder(engine)
	be.Retry.MaxAttempts = 3
	be.Sleep = func(time.Duration) {}

	_, err := be.EmbedAll(context.Background(), []string{"x"})
	require.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	require.InDelta(t, 1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	require.Equal(t, 0.0, sim)
}

func TestFindTopK(t *testing.T) {
	query := []float32{1, 0}
	corpus := [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}}
	results, err := FindTopK(query, corpus, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 0, results[0].Index)
}
