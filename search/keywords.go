package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/docsieve/docsieve/core"
)

// DefaultPatterns is the ordered heuristic set used to pull searchable
// keywords out of document text: dates, letter+digit codes, decimal numbers,
// currency amounts, long digit runs, and capitalized words. The capitalized
// word pattern is deliberately case-sensitive; the others are not.
var DefaultPatterns = []string{
	`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`, // dates: 12/03/2024, 1-1-24
	`(?i)\b[A-Z]{2,}\d+\b`,                  // codes: EXP2041, REF103
	`(?i)\b\d+[.,]\d+\b`,                    // decimals: 3.14, 1.000,50
	`(?i)\$\d+[.,]?\d*`,                     // currency: $1500, $99.95
	`(?i)\b\d{4,}\b`,                        // long digit runs: years, ids
	`\b[A-Z][a-záéíóúñü]{3,}`,               // capitalized words len > 3
}

// Stop words excluded from the capitalized-word heuristic. Mixed Spanish and
// English since documents arrive in both.
var stopWords = map[string]bool{
	"the": true, "this": true, "that": true, "with": true, "from": true,
	"have": true, "been": true, "were": true, "will": true, "would": true,
	"para": true, "como": true, "este": true, "esta": true, "esto": true,
	"pero": true, "donde": true, "cuando": true, "entre": true, "sobre": true,
	"desde": true, "hasta": true, "todos": true, "todas": true, "tiene": true,
}

// KeywordExtractor extracts searchable keywords from text using an ordered
// list of regular expression patterns.
type KeywordExtractor struct {
	patterns []*regexp.Regexp
}

// NewKeywordExtractor compiles the given patterns. With no arguments it uses
// DefaultPatterns.
func NewKeywordExtractor(patterns ...string) (*KeywordExtractor, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling keyword pattern %q: %w", pattern, err)
		}
		compiled[i] = re
	}

	return &KeywordExtractor{patterns: compiled}, nil
}

// Extract returns the union of all pattern matches in text, lowercased,
// deduplicated, in first-seen order.
func (e *KeywordExtractor) Extract(text string) []string {
	seen := make(map[string]bool)
	var keywords []string

	for _, re := range e.patterns {
		for _, match := range re.FindAllString(text, -1) {
			kw := strings.ToLower(match)
			if seen[kw] || stopWords[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	return keywords
}

// MatchScore scores a document's keywords against the query's keywords:
// |intersection| / max(|query keywords|, 1).
func MatchScore(queryKeywords, docKeywords []string) float32 {
	if len(queryKeywords) == 0 {
		return 0
	}

	docSet := make(map[string]bool, len(docKeywords))
	for _, kw := range docKeywords {
		docSet[kw] = true
	}

	matched := 0
	for _, kw := range queryKeywords {
		if docSet[kw] {
			matched++
		}
	}

	return float32(matched) / float32(len(queryKeywords))
}

// KeywordSearch matches the query's keywords against each record's content.
// Records with no keyword overlap are excluded; the rest come back sorted by
// score descending, ties keeping their input order.
func (e *KeywordExtractor) KeywordSearch(query string, records []*core.ChunkRecord) []*core.KeywordMatch {
	queryKeywords := e.Extract(query)
	if len(queryKeywords) == 0 {
		return nil
	}

	querySet := make(map[string]bool, len(queryKeywords))
	for _, kw := range queryKeywords {
		querySet[kw] = true
	}

	var matches []*core.KeywordMatch
	for _, record := range records {
		docKeywords := e.Extract(record.Content)

		score := MatchScore(queryKeywords, docKeywords)
		if score == 0 {
			continue
		}

		var hit []string
		for _, kw := range docKeywords {
			if querySet[kw] {
				hit = append(hit, kw)
			}
		}

		matches = append(matches, &core.KeywordMatch{
			Content:  record.Content,
			Source:   record.Source,
			Score:    score,
			Keywords: hit,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
