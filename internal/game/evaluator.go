// internal/game/evaluator.go
package game

import (
	"fmt"
	"sort"
)

// HandCategory is a standard poker hand class, ordered weakest to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"High Card", "One Pair", "Two Pair", "Three of a Kind",
	"Straight", "Flush", "Full House", "Four of a Kind", "Straight Flush",
}

func (c HandCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

func (c HandCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *HandCategory) UnmarshalText(text []byte) error {
	for i, name := range categoryNames {
		if string(text) == name {
			*c = HandCategory(i)
			return nil
		}
	}
	return fmt.Errorf("unknown hand category %q", text)
}

// HandRank is the value of a best five-card hand: a category plus up to five
// tie-break ranks in decreasing significance. Unused slots are zero, so two
// ranks compare equal exactly when the hands split the pot.
type HandRank struct {
	Category HandCategory `json:"category"`
	Kickers  [5]Rank      `json:"kickers"`
}

func (h HandRank) String() string {
	return h.Category.String()
}

// Compare imposes a total order: -1 if h loses to o, 0 on a split, 1 if it
// wins.
func (h HandRank) Compare(o HandRank) int {
	if h.Category != o.Category {
		if h.Category < o.Category {
			return -1
		}
		return 1
	}
	for i := range h.Kickers {
		if h.Kickers[i] != o.Kickers[i] {
			if h.Kickers[i] < o.Kickers[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Evaluate ranks the best five-card hand obtainable from 5 to 7 cards
// (hole cards plus community).
func Evaluate(cards []Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("evaluate: need 5-7 cards, got %d", len(cards))
	}

	rankCount := map[Rank]int{}
	suitRanks := map[Suit][]Rank{}
	for _, c := range cards {
		rankCount[c.Rank]++
		suitRanks[c.Suit] = append(suitRanks[c.Suit], c.Rank)
	}

	// Straight flush: a straight within a single suit. Checking the suited
	// subset avoids false positives from same-rank cards across suits.
	for _, ranks := range suitRanks {
		if len(ranks) < 5 {
			continue
		}
		if high, ok := straightHigh(ranks); ok {
			return HandRank{Category: StraightFlush, Kickers: [5]Rank{high}}, nil
		}
	}

	var quad, trips, secondTrips Rank
	var pairs []Rank
	for r, n := range rankCount {
		switch n {
		case 4:
			quad = r
		case 3:
			if r > trips {
				secondTrips = trips
				trips = r
			} else if r > secondTrips {
				secondTrips = r
			}
		case 2:
			pairs = append(pairs, r)
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i] > pairs[j] })

	distinct := make([]Rank, 0, len(rankCount))
	for r := range rankCount {
		distinct = append(distinct, r)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] > distinct[j] })

	if quad != 0 {
		kicker := bestExcluding(distinct, 1, quad)
		return HandRank{Category: FourOfAKind, Kickers: [5]Rank{quad, kicker[0]}}, nil
	}

	if trips != 0 {
		// A second set of trips or any pair fills the house.
		pairRank := secondTrips
		if len(pairs) > 0 && pairs[0] > pairRank {
			pairRank = pairs[0]
		}
		if pairRank != 0 {
			return HandRank{Category: FullHouse, Kickers: [5]Rank{trips, pairRank}}, nil
		}
	}

	for _, ranks := range suitRanks {
		if len(ranks) < 5 {
			continue
		}
		sorted := append([]Rank(nil), ranks...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
		var k [5]Rank
		copy(k[:], sorted[:5])
		return HandRank{Category: Flush, Kickers: k}, nil
	}

	if high, ok := straightHigh(distinct); ok {
		return HandRank{Category: Straight, Kickers: [5]Rank{high}}, nil
	}

	if trips != 0 {
		ks := bestExcluding(distinct, 2, trips)
		return HandRank{Category: ThreeOfAKind, Kickers: [5]Rank{trips, ks[0], ks[1]}}, nil
	}

	if len(pairs) >= 2 {
		// With seven cards a third pair can exist; its rank competes with the
		// singles for the one kicker slot.
		ks := bestExcluding(distinct, 1, pairs[0], pairs[1])
		return HandRank{Category: TwoPair, Kickers: [5]Rank{pairs[0], pairs[1], ks[0]}}, nil
	}

	if len(pairs) == 1 {
		ks := bestExcluding(distinct, 3, pairs[0])
		return HandRank{Category: OnePair, Kickers: [5]Rank{pairs[0], ks[0], ks[1], ks[2]}}, nil
	}

	var k [5]Rank
	copy(k[:], distinct[:5])
	return HandRank{Category: HighCard, Kickers: k}, nil
}

// straightHigh returns the high card of the best straight formed by the given
// ranks, treating the ace as low for the wheel (A-2-3-4-5).
func straightHigh(ranks []Rank) (Rank, bool) {
	var present [15]bool
	for _, r := range ranks {
		present[r] = true
	}
	present[1] = present[Ace]
	for high := Ace; high >= Five; high-- {
		run := true
		for r := high; r > high-5; r-- {
			if !present[r] {
				run = false
				break
			}
		}
		if run {
			return high, true
		}
	}
	return 0, false
}

// bestExcluding picks the n highest ranks from the descending-sorted slice,
// skipping the excluded ranks. The result always has length n (zero-padded),
// which cannot underfill for any legal 5-7 card input.
func bestExcluding(sortedDesc []Rank, n int, exclude ...Rank) []Rank {
	out := make([]Rank, n)
	i := 0
outer:
	for _, r := range sortedDesc {
		for _, ex := range exclude {
			if r == ex {
				continue outer
			}
		}
		out[i] = r
		i++
		if i == n {
			break
		}
	}
	return out
}
