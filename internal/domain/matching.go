package domain

import (
	"strings"
)

type MatchTier int

const (
	MatchTierNone MatchTier = iota
	MatchTierExact
	MatchTierAllWords
	MatchTierSubstring
)

func (t MatchTier) String() string {
	switch t {
	case MatchTierExact:
		return "exact"
	case MatchTierAllWords:
		return "all_words"
	case MatchTierSubstring:
		return "substring"
	}
	return "none"
}

// SearchTermForQuery picks the term sent to the provider for a free-text player query.
//
// Provider search works on single names, so multi-word queries are narrowed to their last word.
func SearchTermForQuery(query string) string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// MatchPlayer selects the best candidate for the query.
//
// The tiers are tried in order and the first candidate (in the given order) satisfying the
// earliest tier is returned. There is no scoring within a tier.
func MatchPlayer(query string, candidates []PlayerSearchResult) (PlayerSearchResult, MatchTier) {
	query = strings.TrimSpace(query)
	if query == "" {
		return PlayerSearchResult{}, MatchTierNone
	}

	lowerQuery := strings.ToLower(query)

	for _, candidate := range candidates {
		if strings.EqualFold(candidate.FullName(), query) {
			return candidate, MatchTierExact
		}
	}

	words := strings.Fields(lowerQuery)
	if len(words) > 1 {
		for _, candidate := range candidates {
			if containsAll(strings.ToLower(candidate.FullName()), words) {
				return candidate, MatchTierAllWords
			}
		}
	}

	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate.FullName()), lowerQuery) {
			return candidate, MatchTierSubstring
		}
	}

	return PlayerSearchResult{}, MatchTierNone
}

func containsAll(s string, substrings []string) bool {
	for _, substring := range substrings {
		if !strings.Contains(s, substring) {
			return false
		}
	}
	return true
}

// MatchingPlayers filters candidates down to those containing every word of the query, keeping
// their order. Every candidate MatchPlayer could select is included.
func MatchingPlayers(query string, candidates []PlayerSearchResult) []PlayerSearchResult {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return []PlayerSearchResult{}
	}

	matching := make([]PlayerSearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if containsAll(strings.ToLower(candidate.FullName()), words) {
			matching = append(matching, candidate)
		}
	}
	return matching
}
