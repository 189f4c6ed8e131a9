// internal/game/card.go
package game

import (
	"fmt"
	"math/rand"
)

// Suit is one of the four standard card suits.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitNames = [...]string{"hearts", "diamonds", "clubs", "spades"}
var suitLetters = [...]string{"H", "D", "C", "S"}

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return fmt.Sprintf("suit(%d)", uint8(s))
}

// MarshalText serializes suits as their lowercase names, matching the wire
// format the clients already consume.
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	for i, name := range suitNames {
		if string(text) == name {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("unknown suit %q", text)
}

// Rank is a card rank from Two (2) to Ace (14). Ace is always high here;
// the evaluator handles the ace-low wheel straight itself.
type Rank uint8

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return fmt.Sprintf("%d", uint8(r))
	}
}

func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	for v := Two; v <= Ace; v++ {
		if string(text) == v.String() {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", text)
}

// Card is an immutable rank/suit pair. 52 unique cards form a deck.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// String renders a short form like "AS" or "10H".
func (c Card) String() string {
	return c.Rank.String() + suitLetters[c.Suit]
}

// Deck is an ordered pile of cards. Dealing removes from the top.
type Deck struct {
	cards []Card
}

// NewDeck returns all 52 cards in canonical order: hearts, diamonds, clubs,
// spades, each running Two through Ace.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range []Suit{Hearts, Diamonds, Clubs, Spades} {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle permutes the deck using the supplied source. The source is injected
// so tests can deal deterministic hands.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card. An empty deck yields
// ErrDeckExhausted; the room's dealing schedule guarantees that never
// happens, so a caller seeing it has hit a bug.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, nil
}

// Len reports how many cards remain.
func (d *Deck) Len() int {
	return len(d.cards)
}
