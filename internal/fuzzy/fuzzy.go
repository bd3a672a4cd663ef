// Copyright 2025 Notedown Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fuzzy scores and ranks completion candidates against a query:
// exact match beats prefix beats substring beats subsequence, and anything
// that doesn't even subsequence-match is dropped.
package fuzzy

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Match pairs a candidate with its score, in case a caller wants both.
type Match struct {
	Candidate string
	Score     float64
}

// Rank scores every candidate against query and returns the top limit
// matches sorted by score descending, ties broken by input order. A zero
// limit (or negative) returns every scoring candidate.
//
// Empty query is a special case: every candidate scores a uniform 1.0 and
// the input order is preserved, rather than running any of the match rules.
func Rank(query string, candidates []string, limit int) []Match {
	matches := make([]Match, 0, len(candidates))

	if query == "" {
		for _, c := range candidates {
			matches = append(matches, Match{Candidate: c, Score: 1.0})
		}
		return truncate(matches, limit)
	}

	foldedQuery := fold.String(query)
	for _, c := range candidates {
		if score, ok := Score(foldedQuery, c); ok {
			matches = append(matches, Match{Candidate: c, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return truncate(matches, limit)
}

// Score computes the match score of candidate against an already
// case-folded query. Returns ok=false when candidate doesn't even
// subsequence-match (score 0, dropped).
func Score(foldedQuery, candidate string) (float64, bool) {
	foldedCand := fold.String(candidate)

	if foldedCand == foldedQuery {
		return 100, true
	}

	qLen := utf8.RuneCountInString(foldedQuery)
	cLen := utf8.RuneCountInString(foldedCand)
	ratio := float64(qLen) / float64(cLen)

	if hasPrefix(foldedCand, foldedQuery) {
		return 50 + 10*ratio, true
	}
	if contains(foldedCand, foldedQuery) {
		return 25 + 5*ratio, true
	}
	return subsequenceScore(foldedQuery, foldedCand)
}

func hasPrefix(s, prefix string) bool {
	sr, pr := []rune(s), []rune(prefix)
	if len(pr) > len(sr) {
		return false
	}
	for i, r := range pr {
		if sr[i] != r {
			return false
		}
	}
	return true
}

func contains(s, substr string) bool {
	sr, subr := []rune(s), []rune(substr)
	if len(subr) > len(sr) {
		return false
	}
	for start := 0; start+len(subr) <= len(sr); start++ {
		match := true
		for i, r := range subr {
			if sr[start+i] != r {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// subsequenceScore greedily matches each query rune against the next
// available candidate rune, in order, then sums the lengths of each run of
// consecutively-positioned matches plus one. A query rune with no remaining
// occurrence in the candidate means no subsequence match at all.
func subsequenceScore(query, candidate string) (float64, bool) {
	qRunes := []rune(query)
	cRunes := []rune(candidate)

	positions := make([]int, 0, len(qRunes))
	ci := 0
	for _, qr := range qRunes {
		found := false
		for ci < len(cRunes) {
			if cRunes[ci] == qr {
				positions = append(positions, ci)
				ci++
				found = true
				break
			}
			ci++
		}
		if !found {
			return 0, false
		}
	}
	if len(positions) == 0 {
		return 0, false
	}

	total := 0
	runLen := 1
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			runLen++
		} else {
			total += runLen
			runLen = 1
		}
	}
	total += runLen
	return float64(total) + 1, true
}

func truncate(matches []Match, limit int) []Match {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
