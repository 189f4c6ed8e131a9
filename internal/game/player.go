// internal/game/player.go
package game

import (
	"fmt"

	"github.com/google/uuid"
)

// PlayerStatus tracks what a seat can do in the current hand.
type PlayerStatus uint8

const (
	// PlayerActive players hold cards and can act on their turn.
	PlayerActive PlayerStatus = iota
	// PlayerFolded players are out of the current hand.
	PlayerFolded
	// PlayerAllIn players hold cards but cannot act further; they are dealt
	// through to showdown.
	PlayerAllIn
	// PlayerSittingOut players are seated but not in the hand (joined
	// mid-hand, or busted).
	PlayerSittingOut
)

var playerStatusNames = [...]string{"active", "folded", "allIn", "sittingOut"}

func (s PlayerStatus) String() string {
	if int(s) < len(playerStatusNames) {
		return playerStatusNames[s]
	}
	return fmt.Sprintf("playerStatus(%d)", uint8(s))
}

func (s PlayerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PlayerStatus) UnmarshalText(text []byte) error {
	for i, name := range playerStatusNames {
		if string(text) == name {
			*s = PlayerStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown player status %q", text)
}

// Player is per-seat state, owned exclusively by the Room. Nothing outside
// the room package ever holds a reference to one; callers see projections.
type Player struct {
	ID        uuid.UUID
	Name      string
	Stack     int
	HoleCards []Card
	StreetBet int // chips wagered this betting round
	HandBet   int // chips wagered this hand, all rounds
	Status    PlayerStatus

	// hasActed is cleared at each street start and whenever a bet or raise
	// reopens the action.
	hasActed bool
}

// postBet moves amount from the stack into the player's street and hand
// contributions. The room credits the pot; the player never touches it
// directly. Betting the whole stack puts the player all in.
func (p *Player) postBet(amount int) error {
	if amount > p.Stack {
		return ErrInsufficientStack
	}
	p.Stack -= amount
	p.StreetBet += amount
	p.HandBet += amount
	if p.Stack == 0 {
		p.Status = PlayerAllIn
	}
	return nil
}

func (p *Player) fold() {
	p.Status = PlayerFolded
}

// canAct reports whether the seat is eligible to take a turn.
func (p *Player) canAct() bool {
	return p.Status == PlayerActive
}

// inHand reports whether the seat still holds live cards.
func (p *Player) inHand() bool {
	return p.Status == PlayerActive || p.Status == PlayerAllIn
}
