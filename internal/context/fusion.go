package context

import (
	"testmind/internal/budget"
	"testmind/internal/model"
)

// AutoResult is one score-ordered auto-retrieved chunk fed into fusion.
type AutoResult struct {
	Chunk model.CodeChunk
	Score float64
}

// FusionOptions configures one Fuse call.
type FusionOptions struct {
	MaxTokens              int
	ExplicitContextReserve float64 // in [0,1]
	AllowPartialAuto       bool
}

type dedupKey struct {
	filePath  string
	startLine int
	endLine   int
}

// Fuse merges pinned (priority-ordered) and auto (score-ordered) chunks
// under a strict token budget: dedupe, partition the budget, fill the
// explicit reserve, spill the remainder to auto, and report what was
// kept.
func Fuse(pinned []model.PinnedChunk, auto []AutoResult, opts FusionOptions) model.FusionResult {
	// Step 1: dedupe by (filePath, startLine, endLine); the pinned copy
	// wins on conflict.
	seen := map[dedupKey]bool{}
	duplicatesFound := 0

	dedupedPinned := make([]model.PinnedChunk, 0, len(pinned))
	for _, p := range pinned {
		key := dedupKey{p.Chunk.FilePath, p.Chunk.StartLine, p.Chunk.EndLine}
		if seen[key] {
			duplicatesFound++
			continue
		}
		seen[key] = true
		dedupedPinned = append(dedupedPinned, p)
	}

	dedupedAuto := make([]AutoResult, 0, len(auto))
	for _, a := range auto {
		key := dedupKey{a.Chunk.FilePath, a.Chunk.StartLine, a.Chunk.EndLine}
		if seen[key] {
			duplicatesFound++
			continue
		}
		seen[key] = true
		dedupedAuto = append(dedupedAuto, a)
	}

	// Step 2: partition the budget.
	reserve := opts.ExplicitContextReserve
	if reserve < 0 {
		reserve = 0
	}
	if reserve > 1 {
		reserve = 1
	}
	explicitBudget := int(float64(opts.MaxTokens) * reserve)
	autoBudget := opts.MaxTokens - explicitBudget

	// Step 3: greedily include pinned chunks in priority order; unused
	// budget spills to the auto budget.
	var result []model.CodeChunk
	explicitTokens := 0
	truncated := false
	explicitUsed := 0
	for _, p := range dedupedPinned {
		cost := budget.EstimateTokens(p.Chunk.Content)
		if explicitUsed+cost > explicitBudget {
			truncated = true
			continue
		}
		result = append(result, p.Chunk)
		explicitTokens += cost
		explicitUsed += cost
	}
	autoBudget += explicitBudget - explicitUsed

	// Step 4: greedily include auto chunks in score order.
	autoTokens := 0
	autoUsed := 0
	for _, a := range dedupedAuto {
		cost := budget.EstimateTokens(a.Chunk.Content)
		if autoUsed+cost > autoBudget {
			truncated = true
			if !opts.AllowPartialAuto {
				break
			}
			continue
		}
		result = append(result, a.Chunk)
		autoTokens += cost
		autoUsed += cost
	}

	return model.FusionResult{
		Chunks:         result,
		ExplicitTokens: explicitTokens,
		AutoTokens:     autoTokens,
		TotalTokens:    explicitTokens + autoTokens,
		Truncated:      truncated,
		Deduplication: model.DedupStats{
			DuplicatesFound:   duplicatesFound,
			DuplicatesRemoved: duplicatesFound,
		},
	}
}
