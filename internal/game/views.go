// internal/game/views.go
package game

import "github.com/google/uuid"

// RoomView is the public projection for the big screen. It never carries
// hole cards; only LastHand reveals the hands that reached showdown.
type RoomView struct {
	Status      RoomStatus  `json:"status"`
	Street      Street      `json:"street"`
	Pot         int         `json:"pot"`
	Community   []Card      `json:"community"`
	Players     []SeatView  `json:"players"`
	CurrentTurn *uuid.UUID  `json:"currentTurn,omitempty"`
	LastHand    *HandResult `json:"lastHand,omitempty"`
}

// SeatView is one player's public state.
type SeatView struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Stack     int          `json:"stack"`
	StreetBet int          `json:"streetBet"`
	Status    PlayerStatus `json:"status"`
	IsTurn    bool         `json:"isTurn"`
	CardCount int          `json:"cardCount"`
}

// PlayerViewData is the private projection for one player: public room state
// plus their own cards and what it costs them to continue.
type PlayerViewData struct {
	RoomStatus   RoomStatus   `json:"roomStatus"`
	Street       Street       `json:"street"`
	Pot          int          `json:"pot"`
	PlayersCount int          `json:"playersCount"`
	Stack        int          `json:"stack"`
	Status       PlayerStatus `json:"playerStatus"`
	HoleCards    []Card       `json:"cards"`
	StreetBet    int          `json:"streetBet"`
	YourTurn     bool         `json:"yourTurn"`
	CallAmount   int          `json:"callAmount"`
	MinRaiseTo   int          `json:"minRaiseTo"`
}

// HandResult summarizes a finished hand for the inter-hand display. It is
// immutable once built.
type HandResult struct {
	Winners  []HandWinner   `json:"winners"`
	Board    []Card         `json:"board"`
	Showdown []ShowdownHand `json:"showdown,omitempty"`
}

// HandWinner is one player's take from the pot.
type HandWinner struct {
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
	Winnings int       `json:"winnings"`
}

// ShowdownHand is a hand revealed at showdown.
type ShowdownHand struct {
	PlayerID  uuid.UUID `json:"playerId"`
	Name      string    `json:"name"`
	HoleCards []Card    `json:"cards"`
	Rank      HandRank  `json:"rank"`
}

// Snapshot builds the public room projection. Card slices are copied so the
// view stays stable after the lock is released.
func (r *Room) Snapshot() RoomView {
	view := RoomView{
		Status:    r.status,
		Street:    r.street,
		Pot:       r.pot,
		Community: append([]Card(nil), r.community...),
		Players:   make([]SeatView, 0, len(r.players)),
		LastHand:  r.lastHand,
	}
	for i, p := range r.players {
		isTurn := r.status == RoomInProgress && i == r.currentTurn
		view.Players = append(view.Players, SeatView{
			ID:        p.ID,
			Name:      p.Name,
			Stack:     p.Stack,
			StreetBet: p.StreetBet,
			Status:    p.Status,
			IsTurn:    isTurn,
			CardCount: len(p.HoleCards),
		})
		if isTurn {
			id := p.ID
			view.CurrentTurn = &id
		}
	}
	return view
}

// PlayerView builds the private projection for one player.
func (r *Room) PlayerView(playerID uuid.UUID) (PlayerViewData, error) {
	var p *Player
	for _, seat := range r.players {
		if seat.ID == playerID {
			p = seat
			break
		}
	}
	if p == nil {
		return PlayerViewData{}, ErrPlayerNotFound
	}

	view := PlayerViewData{
		RoomStatus:   r.status,
		Street:       r.street,
		Pot:          r.pot,
		PlayersCount: len(r.players),
		Stack:        p.Stack,
		Status:       p.Status,
		HoleCards:    append([]Card(nil), p.HoleCards...),
		StreetBet:    p.StreetBet,
	}
	if r.status == RoomInProgress {
		view.YourTurn = r.currentTurn >= 0 && r.players[r.currentTurn] == p
		if owed := r.currentBet - p.StreetBet; owed > 0 {
			view.CallAmount = owed
		}
		view.MinRaiseTo = r.currentBet + r.minRaise
	}
	return view, nil
}
