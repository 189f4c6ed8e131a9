// internal/game/action.go
package game

import "fmt"

// ActionKind discriminates the player action variants. The room's transition
// logic switches over this exhaustively; there is no dispatch hierarchy.
type ActionKind uint8

const (
	ActionFold ActionKind = iota
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
)

var actionKindNames = [...]string{"fold", "check", "call", "bet", "raise"}

func (k ActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return fmt.Sprintf("actionKind(%d)", uint8(k))
}

// ParseActionKind maps the wire spelling of an action to its kind.
func ParseActionKind(s string) (ActionKind, error) {
	for i, name := range actionKindNames {
		if s == name {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Action is a tagged variant of a player's move. Amount is meaningful only
// for Bet (chips to wager) and Raise (the street total to raise to).
type Action struct {
	Kind   ActionKind
	Amount int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionBet, ActionRaise:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Amount)
	default:
		return a.Kind.String()
	}
}
