package opine

import (
	"strings"

	"github.com/google/uuid"
)

// Match resolves a normalized candidate phrase to a taxonomy aspect. It
// returns the aspect ID and the surface text that produced the match (the
// aspect name for name and fuzzy matches, the keyword otherwise), or
// (nil, "") when nothing matches.
//
// Strategies run in strict priority order, first hit wins:
//
//  1. aspect-name match (equality, or the name as a whole token)
//  2. keyword exact match
//  3. keyword substring match
//  4. keyword token match
//  5. fuzzy match against aspect names only
//
// Substring is deliberately tried before token, matching the behavior the
// reporting side was calibrated against; with taxonomies whose keywords
// overlap across aspects the two can disagree, and which equally-valid match
// wins is then decided only by iteration order.
func (s *Snapshot) Match(candidate string) (*uuid.UUID, string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || len(s.aspects) == 0 {
		return nil, ""
	}
	tokens := tokensOf(candidate)
	padded := " " + candidate + " "

	for i := range s.aspects {
		a := &s.aspects[i]
		if a.normName == "" {
			continue
		}
		if candidate == a.normName || hasToken(tokens, a.normName) ||
			(strings.Contains(a.normName, " ") && strings.Contains(padded, " "+a.normName+" ")) {
			id := a.ID
			return &id, a.Name
		}
	}

	for i := range s.aspects {
		a := &s.aspects[i]
		for _, kw := range a.Keywords {
			if candidate == kw {
				id := a.ID
				return &id, kw
			}
		}
	}

	for i := range s.aspects {
		a := &s.aspects[i]
		for _, kw := range a.Keywords {
			if strings.Contains(candidate, kw) {
				id := a.ID
				return &id, kw
			}
		}
	}

	for i := range s.aspects {
		a := &s.aspects[i]
		for _, kw := range a.Keywords {
			if hasToken(tokens, kw) {
				id := a.ID
				return &id, kw
			}
		}
	}

	return s.fuzzyMatch(candidate)
}

// fuzzyMatch is the last-resort strategy: best-of-one similarity against
// aspect names only, never keywords.
func (s *Snapshot) fuzzyMatch(candidate string) (*uuid.UUID, string) {
	var (
		bestIdx   = -1
		bestRatio float64
	)
	for i := range s.aspects {
		r := similarity(candidate, s.aspects[i].normName)
		if r >= s.cutoff && r > bestRatio {
			bestRatio = r
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, ""
	}
	id := s.aspects[bestIdx].ID
	return &id, s.aspects[bestIdx].Name
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// similarity is a Levenshtein-based ratio in [0,1]: identical strings score
// 1, disjoint strings score 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance between two rune slices using a
// single rolling row.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
