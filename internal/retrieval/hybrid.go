package retrieval

import (
	"sort"
	"strings"

	"testmind/internal/model"
	"testmind/internal/vectorstore"
)

// DefaultAlpha is the weighted-sum mix between vector and lexical
// score: alpha*vector + (1-alpha)*lexical.
const DefaultAlpha = 0.7

// PathFilter narrows results by extension and path prefix, applied
// after merging.
type PathFilter struct {
	Extensions []string
	PathPrefix string
}

func (f PathFilter) matches(path string) bool {
	if f.PathPrefix != "" && !strings.HasPrefix(path, f.PathPrefix) {
		return false
	}
	if len(f.Extensions) == 0 {
		return true
	}
	for _, ext := range f.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Merge combines vector and lexical results under the weighted sum,
// deduplicating by chunk id and breaking ties lexicographically by
// file path.
func Merge(vectorResults []vectorstore.SearchResult, lexicalResults []Result, alpha float64, filter PathFilter) []Result {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	maxLexical := 0.0
	for _, r := range lexicalResults {
		if r.Score > maxLexical {
			maxLexical = r.Score
		}
	}

	byID := map[string]*mergedEntry{}
	var order []string

	for _, vr := range vectorResults {
		if !filter.matches(vr.Chunk.FilePath) {
			continue
		}
		e := &mergedEntry{chunk: vr.Chunk, vectorScore: vr.Score}
		byID[vr.Chunk.ID] = e
		order = append(order, vr.Chunk.ID)
	}
	for _, lr := range lexicalResults {
		if !filter.matches(lr.Chunk.FilePath) {
			continue
		}
		norm := 0.0
		if maxLexical > 0 {
			norm = lr.Score / maxLexical
		}
		if e, ok := byID[lr.Chunk.ID]; ok {
			e.lexicalScore = norm
		} else {
			e := &mergedEntry{chunk: lr.Chunk, lexicalScore: norm}
			byID[lr.Chunk.ID] = e
			order = append(order, lr.Chunk.ID)
		}
	}

	results := make([]Result, 0, len(order))
	for _, id := range order {
		e := byID[id]
		score := alpha*e.vectorScore + (1-alpha)*e.lexicalScore
		results = append(results, Result{Chunk: e.chunk, Score: score})
	}
	sortByScoreThenPath(results)
	return results
}

type mergedEntry struct {
	chunk        model.CodeChunk
	vectorScore  float64
	lexicalScore float64
}

func sortByScoreThenPath(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.FilePath < results[j].Chunk.FilePath
	})
}
