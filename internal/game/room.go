// internal/game/room.go
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Config holds the table settings recognized by a room.
type Config struct {
	MaxSeats      int
	StartingStack int
	SmallBlind    int
	BigBlind      int
}

// DefaultConfig mirrors the classic table: 8 seats, 1000 chips, blinds 10/20.
func DefaultConfig() Config {
	return Config{
		MaxSeats:      8,
		StartingStack: 1000,
		SmallBlind:    10,
		BigBlind:      20,
	}
}

// RoomStatus is the room lifecycle phase.
type RoomStatus uint8

const (
	// RoomOpen accepts joins and hand starts; also the inter-hand state.
	RoomOpen RoomStatus = iota
	// RoomInProgress means a hand is being played.
	RoomInProgress
	// RoomClosed is terminal; only reads remain valid.
	RoomClosed
)

var roomStatusNames = [...]string{"open", "inProgress", "closed"}

func (s RoomStatus) String() string {
	if int(s) < len(roomStatusNames) {
		return roomStatusNames[s]
	}
	return fmt.Sprintf("roomStatus(%d)", uint8(s))
}

func (s RoomStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RoomStatus) UnmarshalText(text []byte) error {
	for i, name := range roomStatusNames {
		if string(text) == name {
			*s = RoomStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown room status %q", text)
}

// Street is the betting round stage within a hand.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "showdown"}

func (s Street) String() string {
	if int(s) < len(streetNames) {
		return streetNames[s]
	}
	return fmt.Sprintf("street(%d)", uint8(s))
}

func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if string(text) == name {
			*s = Street(i)
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// Room is the game state machine: seats, deck, pot, turn order and street
// progression for one table. It is not safe for concurrent use by itself;
// every caller goes through a Handle, which serializes access.
type Room struct {
	cfg Config
	rng *rand.Rand

	players   []*Player // seat order == join order == turn order
	community []Card
	deck      *Deck
	pot       int

	status      RoomStatus
	street      Street
	dealer      int // button seat; blinds and first action derive from it
	currentTurn int // index into players, -1 when nobody acts
	currentBet  int // street total each live player must match
	minRaise    int // minimum raise increment on top of currentBet

	lastHand *HandResult
}

// NewRoom builds an empty open room. rng drives shuffling and may be nil,
// in which case a time-seeded source is used; tests inject a fixed seed.
func NewRoom(cfg Config, rng *rand.Rand) *Room {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	def := DefaultConfig()
	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = def.MaxSeats
	}
	if cfg.StartingStack <= 0 {
		cfg.StartingStack = def.StartingStack
	}
	if cfg.SmallBlind <= 0 {
		cfg.SmallBlind = def.SmallBlind
	}
	if cfg.BigBlind <= 0 {
		cfg.BigBlind = def.BigBlind
	}
	return &Room{cfg: cfg, rng: rng, currentTurn: -1}
}

// Join seats a new player with the starting stack. Seat order is fixed by
// join order. Joining during a hand is allowed; the player sits out until
// the next hand starts.
func (r *Room) Join(playerID uuid.UUID, name string) error {
	if r.status == RoomClosed {
		return ErrRoomClosed
	}
	for _, p := range r.players {
		if p.ID == playerID {
			return ErrAlreadyJoined
		}
	}
	if len(r.players) >= r.cfg.MaxSeats {
		return ErrRoomFull
	}
	status := PlayerActive
	if r.status == RoomInProgress {
		status = PlayerSittingOut
	}
	r.players = append(r.players, &Player{
		ID:     playerID,
		Name:   name,
		Stack:  r.cfg.StartingStack,
		Status: status,
	})
	log.Infof("player %s (%s) joined, seat %d", name, playerID, len(r.players)-1)
	return nil
}

// StartHand shuffles a fresh deck, deals two hole cards to every player with
// chips, posts the blinds and opens preflop betting with the player after
// the big blind.
func (r *Room) StartHand() error {
	if r.status == RoomClosed {
		return ErrRoomClosed
	}
	if r.status == RoomInProgress {
		return ErrInvalidAction
	}
	eligible := 0
	for _, p := range r.players {
		if p.Stack > 0 {
			eligible++
		}
	}
	if eligible < 2 {
		return ErrNotEnoughPlayers
	}

	for _, p := range r.players {
		p.HoleCards = nil
		p.StreetBet = 0
		p.HandBet = 0
		p.hasActed = false
		if p.Stack > 0 {
			p.Status = PlayerActive
		} else {
			p.Status = PlayerSittingOut
		}
	}
	r.deck = NewDeck()
	r.deck.Shuffle(r.rng)
	r.community = nil
	r.pot = 0
	r.lastHand = nil

	for i := 0; i < 2; i++ {
		for _, p := range r.players {
			if p.Status != PlayerActive {
				continue
			}
			c, err := r.deck.Deal()
			if err != nil {
				return err
			}
			p.HoleCards = append(p.HoleCards, c)
		}
	}

	sb := r.firstEligibleFrom(r.dealer)
	bb := r.nextEligible(sb)
	r.postBlind(r.players[sb], r.cfg.SmallBlind)
	r.postBlind(r.players[bb], r.cfg.BigBlind)
	r.currentBet = r.cfg.BigBlind
	r.minRaise = r.cfg.BigBlind
	r.street = Preflop
	r.status = RoomInProgress
	log.Infof("hand started: blinds %d/%d from %s and %s, %d players",
		r.cfg.SmallBlind, r.cfg.BigBlind, r.players[sb].Name, r.players[bb].Name, eligible)

	r.currentTurn = r.nextEligible(bb)
	if r.currentTurn == -1 {
		// Both blinds went all in posting; deal the board out.
		return r.advanceStreet()
	}
	return nil
}

// postBlind takes a forced bet, capped at the player's stack (a short stack
// posts all in).
func (r *Room) postBlind(p *Player, amount int) {
	if amount > p.Stack {
		amount = p.Stack
	}
	_ = p.postBet(amount)
	r.pot += amount
}

// PlayTurn applies one action by the player whose turn it is. Validation
// happens before any mutation, so a rejected action leaves the room
// untouched.
func (r *Room) PlayTurn(playerID uuid.UUID, a Action) error {
	switch r.status {
	case RoomClosed:
		return ErrRoomClosed
	case RoomOpen:
		return ErrInvalidAction
	}
	if r.currentTurn < 0 || r.players[r.currentTurn].ID != playerID {
		return ErrNotYourTurn
	}
	p := r.players[r.currentTurn]
	owed := r.currentBet - p.StreetBet

	var pay int
	switch a.Kind {
	case ActionFold:
	case ActionCheck:
		if owed != 0 {
			return ErrInvalidAction
		}
	case ActionCall:
		if owed <= 0 {
			return ErrInvalidAction
		}
		pay = owed
		if pay > p.Stack {
			pay = p.Stack // short call, all in
		}
	case ActionBet:
		if r.currentBet != 0 || a.Amount <= 0 {
			return ErrInvalidAction
		}
		if a.Amount > p.Stack {
			return ErrInsufficientStack
		}
		if a.Amount < r.cfg.BigBlind && a.Amount < p.Stack {
			return ErrInvalidAction
		}
		pay = a.Amount
	case ActionRaise:
		if r.currentBet == 0 || a.Amount <= r.currentBet {
			return ErrInvalidAction
		}
		pay = a.Amount - p.StreetBet
		if pay <= 0 {
			return ErrInvalidAction
		}
		if pay > p.Stack {
			return ErrInsufficientStack
		}
		if a.Amount < r.currentBet+r.minRaise && pay < p.Stack {
			return ErrInvalidAction
		}
	default:
		return ErrInvalidAction
	}

	switch a.Kind {
	case ActionFold:
		p.fold()
	case ActionBet:
		_ = p.postBet(pay)
		r.pot += pay
		r.currentBet = a.Amount
		r.minRaise = a.Amount
		r.reopenAction(p)
	case ActionRaise:
		_ = p.postBet(pay)
		r.pot += pay
		// A short all-in below the minimum raise does not reopen action for
		// players who already acted this street.
		if inc := a.Amount - r.currentBet; inc >= r.minRaise {
			r.minRaise = inc
			r.reopenAction(p)
		}
		r.currentBet = a.Amount
	case ActionCall:
		_ = p.postBet(pay)
		r.pot += pay
	}
	p.hasActed = true
	log.Debugf("player %s: %s (pot %d)", p.Name, a, r.pot)
	return r.afterAction()
}

// reopenAction forces every other live player to act again this street.
func (r *Room) reopenAction(actor *Player) {
	for _, p := range r.players {
		if p != actor && p.Status == PlayerActive {
			p.hasActed = false
		}
	}
}

// afterAction advances the turn, the street, or the whole hand, depending on
// what the last action left behind.
func (r *Room) afterAction() error {
	if r.liveCount() == 1 {
		return r.resolveHand()
	}
	if r.bettingRoundComplete() {
		return r.advanceStreet()
	}
	next := r.nextEligible(r.currentTurn)
	if next == -1 {
		// Everyone else is all in; deal through.
		return r.advanceStreet()
	}
	r.currentTurn = next
	return nil
}

// bettingRoundComplete reports whether every player who can still act has
// acted and matched the street bet. All-in seats are not waited on. The big
// blind's preflop option falls out of hasActed being unset until they act.
func (r *Room) bettingRoundComplete() bool {
	for _, p := range r.players {
		if p.Status != PlayerActive {
			continue
		}
		if !p.hasActed || p.StreetBet != r.currentBet {
			return false
		}
	}
	return true
}

// advanceStreet reconciles the pot, deals the next community cards and opens
// the next betting round, running the board out when fewer than two players
// can still act. After river betting it resolves the hand.
func (r *Room) advanceStreet() error {
	if err := r.reconcilePot(); err != nil {
		return err
	}
	for r.street < River {
		for _, p := range r.players {
			p.StreetBet = 0
			p.hasActed = false
		}
		r.currentBet = 0
		r.minRaise = r.cfg.BigBlind

		n := 1
		if r.street == Preflop {
			n = 3
		}
		if err := r.dealCommunity(n); err != nil {
			return err
		}
		r.street++
		log.Infof("street %s: board %v (pot %d)", r.street, r.community, r.pot)

		if r.activeCount() >= 2 {
			r.currentTurn = r.firstEligibleFrom(r.dealer)
			return nil
		}
	}
	return r.resolveHand()
}

func (r *Room) dealCommunity(n int) error {
	for i := 0; i < n; i++ {
		c, err := r.deck.Deal()
		if err != nil {
			return err
		}
		r.community = append(r.community, c)
	}
	return nil
}

// reconcilePot checks the pot against the sum of per-player contributions at
// every betting-round boundary. A mismatch means the engine corrupted state;
// fail loudly instead of paying out garbage.
func (r *Room) reconcilePot() error {
	sum := 0
	for _, p := range r.players {
		sum += p.HandBet
	}
	if sum != r.pot {
		log.Errorf("pot mismatch: pot=%d, contributions=%d", r.pot, sum)
		return ErrPotMismatch
	}
	return nil
}

// resolveHand pays out the pot and returns the room to the inter-hand open
// state. With one live player left the pot is awarded without showdown;
// otherwise hands are evaluated and each stake-level pot goes to the best
// eligible hand, split on ties with the odd chip to the earliest seat.
func (r *Room) resolveHand() error {
	if err := r.reconcilePot(); err != nil {
		return err
	}
	var live []*Player
	for _, p := range r.players {
		if p.inHand() {
			live = append(live, p)
		}
	}
	result := &HandResult{Board: append([]Card(nil), r.community...)}

	if len(live) == 1 {
		w := live[0]
		w.Stack += r.pot
		result.Winners = []HandWinner{{PlayerID: w.ID, Name: w.Name, Winnings: r.pot}}
		log.Infof("hand over: %s wins %d uncontested", w.Name, r.pot)
	} else {
		r.street = Showdown
		if err := r.payoutShowdown(live, result); err != nil {
			return err
		}
	}

	r.pot = 0
	r.community = nil
	r.deck = nil
	r.currentTurn = -1
	r.currentBet = 0
	r.minRaise = 0
	r.street = Preflop
	r.status = RoomOpen
	for _, p := range r.players {
		p.HoleCards = nil
		p.StreetBet = 0
		p.HandBet = 0
		p.hasActed = false
		if p.Stack > 0 {
			p.Status = PlayerActive
		} else {
			p.Status = PlayerSittingOut
		}
	}
	r.dealer = (r.dealer + 1) % len(r.players)
	r.lastHand = result
	return nil
}

// payoutShowdown evaluates the live hands and distributes the pot in
// stake-level layers, so all-in players only contest chips they covered.
func (r *Room) payoutShowdown(live []*Player, result *HandResult) error {
	ranks := make(map[uuid.UUID]HandRank, len(live))
	for _, p := range live {
		hand := append(append([]Card{}, p.HoleCards...), r.community...)
		hr, err := Evaluate(hand)
		if err != nil {
			return err
		}
		ranks[p.ID] = hr
		result.Showdown = append(result.Showdown, ShowdownHand{
			PlayerID:  p.ID,
			Name:      p.Name,
			HoleCards: append([]Card(nil), p.HoleCards...),
			Rank:      hr,
		})
	}

	var levels []int
	seen := map[int]bool{}
	for _, p := range live {
		if !seen[p.HandBet] {
			seen[p.HandBet] = true
			levels = append(levels, p.HandBet)
		}
	}
	for i := 0; i < len(levels); i++ {
		for j := i + 1; j < len(levels); j++ {
			if levels[j] < levels[i] {
				levels[i], levels[j] = levels[j], levels[i]
			}
		}
	}

	winnings := map[uuid.UUID]int{}
	paid, prev := 0, 0
	for i, level := range levels {
		amt := 0
		if i == len(levels)-1 {
			// The top layer sweeps whatever remains, including folded
			// contributions above the highest live stake.
			amt = r.pot - paid
		} else {
			for _, p := range r.players {
				amt += min(p.HandBet, level) - min(p.HandBet, prev)
			}
		}

		var best HandRank
		var winners []*Player
		for _, p := range live {
			if p.HandBet < level {
				continue
			}
			switch c := ranks[p.ID].Compare(best); {
			case len(winners) == 0 || c > 0:
				best = ranks[p.ID]
				winners = []*Player{p}
			case c == 0:
				winners = append(winners, p)
			}
		}

		share := amt / len(winners)
		rem := amt % len(winners)
		for j, w := range winners {
			won := share
			if j == 0 {
				won += rem // odd chip to the earliest winning seat
			}
			w.Stack += won
			winnings[w.ID] += won
		}
		paid += amt
		prev = level
	}

	for _, p := range r.players {
		if won := winnings[p.ID]; won > 0 {
			result.Winners = append(result.Winners, HandWinner{
				PlayerID: p.ID, Name: p.Name, Winnings: won,
			})
			log.Infof("hand over: %s wins %d with %s", p.Name, won, ranks[p.ID])
		}
	}
	return nil
}

// Reset clears the room back to a fresh open state. The roster is emptied;
// players re-join after a reset.
func (r *Room) Reset() error {
	if r.status == RoomClosed {
		return ErrRoomClosed
	}
	r.players = nil
	r.community = nil
	r.deck = nil
	r.pot = 0
	r.currentTurn = -1
	r.currentBet = 0
	r.minRaise = 0
	r.dealer = 0
	r.street = Preflop
	r.status = RoomOpen
	r.lastHand = nil
	log.Info("room reset")
	return nil
}

// Close shuts the room permanently. Mutating operations fail afterwards;
// reads remain valid for inspecting the final state.
func (r *Room) Close() error {
	if r.status == RoomClosed {
		return ErrRoomClosed
	}
	r.status = RoomClosed
	log.Info("room closed")
	return nil
}

// firstEligibleFrom returns the first seat at or after start that can act,
// or -1.
func (r *Room) firstEligibleFrom(start int) int {
	n := len(r.players)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if r.players[idx].canAct() {
			return idx
		}
	}
	return -1
}

// nextEligible returns the first seat strictly after from that can act,
// wrapping around and ending on from itself, or -1.
func (r *Room) nextEligible(from int) int {
	n := len(r.players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if r.players[idx].canAct() {
			return idx
		}
	}
	return -1
}

func (r *Room) liveCount() int {
	n := 0
	for _, p := range r.players {
		if p.inHand() {
			n++
		}
	}
	return n
}

func (r *Room) activeCount() int {
	n := 0
	for _, p := range r.players {
		if p.canAct() {
			n++
		}
	}
	return n
}
