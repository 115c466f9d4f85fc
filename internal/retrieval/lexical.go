// Package retrieval implements hybrid search: a BM25 lexical matcher
// merged with vector search results under a weighted sum. The corpus
// chunks are already in memory once analysis has run, so the lexical
// side scores in-process rather than shelling out to an external
// search tool.
package retrieval

import (
	"math"
	"strings"

	"testmind/internal/model"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// LexicalMatcher scores chunks against a query using BM25.
type LexicalMatcher struct {
	chunks  []model.CodeChunk
	docLens []int
	avgLen  float64
	df      map[string]int // document frequency per term
}

// NewLexicalMatcher indexes chunks for term-frequency scoring.
func NewLexicalMatcher(chunks []model.CodeChunk) *LexicalMatcher {
	m := &LexicalMatcher{chunks: chunks, df: map[string]int{}}
	total := 0
	for _, c := range chunks {
		terms := tokenize(c.Content)
		m.docLens = append(m.docLens, len(terms))
		total += len(terms)
		seen := map[string]bool{}
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				m.df[t]++
			}
		}
	}
	if len(chunks) > 0 {
		m.avgLen = float64(total) / float64(len(chunks))
	}
	return m
}

// Result is one scored match.
type Result struct {
	Chunk model.CodeChunk
	Score float64
}

// Search scores every indexed chunk against query and returns the top k.
func (m *LexicalMatcher) Search(query string, k int) []Result {
	queryTerms := tokenize(query)
	n := float64(len(m.chunks))

	var results []Result
	for i, c := range m.chunks {
		termFreq := map[string]int{}
		for _, t := range tokenize(c.Content) {
			termFreq[t]++
		}
		score := 0.0
		docLen := float64(m.docLens[i])
		for _, qt := range queryTerms {
			tf, ok := termFreq[qt]
			if !ok {
				continue
			}
			df := float64(m.df[qt])
			idf := 0.0
			if df > 0 {
				idf = math.Log((n-df+0.5)/(df+0.5) + 1)
			}
			denom := float64(tf) + bm25K1*(1-bm25B+bm25B*docLen/maxFloat(m.avgLen, 1))
			score += idf * (float64(tf) * (bm25K1 + 1) / maxFloat(denom, 1e-9))
		}
		if score > 0 {
			results = append(results, Result{Chunk: c, Score: score})
		}
	}
	sortByScoreThenPath(results)
	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.ToLower(f)
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
