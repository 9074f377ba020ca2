package model

type PhaseKind string

const (
	PhaseIdle      PhaseKind = "idle"
	PhaseSelected  PhaseKind = "selected"
	PhasePurchase  PhaseKind = "purchase"
	PhasePlacement PhaseKind = "placement"
	PhasePromotion PhaseKind = "promotion"
	PhaseGameOver  PhaseKind = "game-over"
)

// Phase is the interaction state of a session. Exactly one phase is active at
// a time; pausing is tracked separately and does not change the phase.
type Phase interface {
	Kind() PhaseKind
}

// IdlePhase waits for the side to move to pick a piece.
type IdlePhase struct{}

// SelectedPhase holds a picked piece and what it can do.
type SelectedPhase struct {
	From       Position
	Highlights Highlights
}

// PurchasePhase is open after the selected king is clicked again.
type PurchasePhase struct {
	King Position
	pre  snapshot
}

// PlacementPhase waits for a square to drop the bought piece on.
type PlacementPhase struct {
	King       Position
	Type       PieceType
	Candidates []Position
	pre        snapshot
}

// PromotionPhase waits for the promotion type of a pawn on its last rank.
type PromotionPhase struct {
	At    Position
	Color PlayerColor
	pre   snapshot
}

type GameOverPhase struct {
	Outcome Outcome
}

func (IdlePhase) Kind() PhaseKind      { return PhaseIdle }
func (SelectedPhase) Kind() PhaseKind  { return PhaseSelected }
func (PurchasePhase) Kind() PhaseKind  { return PhasePurchase }
func (PlacementPhase) Kind() PhaseKind { return PhasePlacement }
func (PromotionPhase) Kind() PhaseKind { return PhasePromotion }
func (GameOverPhase) Kind() PhaseKind  { return PhaseGameOver }

// speculative returns the rollback snapshot of phases that can be cancelled.
func speculative(p Phase) (snapshot, bool) {
	switch ph := p.(type) {
	case PurchasePhase:
		return ph.pre, true
	case PlacementPhase:
		return ph.pre, true
	case PromotionPhase:
		return ph.pre, true
	}
	return snapshot{}, false
}
