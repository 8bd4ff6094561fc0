package trend

import "sort"

// RankedWord is one entry of a frequency ranking.
type RankedWord struct {
	Word  string
	Count int
}

// FrequencyTable counts token occurrences for one cycle. It remembers the
// order in which words were first seen so rankings are deterministic when
// counts tie.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// Aggregate builds a frequency table from the cycle-wide token stream.
func Aggregate(tokens []string) *FrequencyTable {
	t := &FrequencyTable{counts: make(map[string]int, len(tokens))}
	for _, token := range tokens {
		if _, seen := t.counts[token]; !seen {
			t.order = append(t.order, token)
		}
		t.counts[token]++
	}
	return t
}

// Count returns the occurrence count for a word, zero if absent.
func (t *FrequencyTable) Count(word string) int {
	return t.counts[word]
}

// Len returns the number of distinct words.
func (t *FrequencyTable) Len() int {
	return len(t.counts)
}

// Total returns the sum of all counts, i.e. the number of tokens aggregated.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Rank returns up to n words ordered by descending count; ties keep
// first-occurrence order. n <= 0 ranks the whole table.
func (t *FrequencyTable) Rank(n int) []RankedWord {
	ranked := make([]RankedWord, 0, len(t.order))
	for _, word := range t.order {
		ranked = append(ranked, RankedWord{Word: word, Count: t.counts[word]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
