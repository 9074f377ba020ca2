package model

type PurchaseOption struct {
	Type       PieceType `json:"type"`
	Cost       int       `json:"cost"`
	Affordable bool      `json:"affordable"`
}

// GameState is the read-only view hosts render and send over the wire.
type GameState struct {
	ID               string           `json:"id"`
	Board            [][]*Piece       `json:"board"`
	ToMove           PlayerColor      `json:"toMove"`
	Phase            PhaseKind        `json:"phase"`
	Paused           bool             `json:"paused"`
	Selected         *Position        `json:"selected,omitempty"`
	Moves            []Position       `json:"moves"`
	Captures         []Position       `json:"captures"`
	Transfers        []Position       `json:"transfers"`
	Placements       []Position       `json:"placements"`
	PurchaseOptions  []PurchaseOption `json:"purchaseOptions,omitempty"`
	PromotionOptions []PieceType      `json:"promotionOptions,omitempty"`
	PromotionSquare  *Position        `json:"promotionSquare,omitempty"`
	MoveLog          []string         `json:"moveLog"`
	MoveLogLines     []string         `json:"moveLogLines"`
	Status           string           `json:"status"`
	IsCheck          bool             `json:"isCheck"`
	EnPassant        *EnPassant       `json:"enPassant,omitempty"`
	HalfmoveClock    int              `json:"halfmoveClock"`
	Outcome          *Outcome         `json:"outcome,omitempty"`
	Clock            *ClockState      `json:"clock,omitempty"`
	LastMove         *SimpleMove      `json:"lastMove,omitempty"`
}

func (s *Session) State() GameState {
	highlights := s.Highlights()
	state := GameState{
		ID:            s.ID,
		Board:         s.board.Grid(),
		ToMove:        s.turn,
		Phase:         s.phase.Kind(),
		Paused:        s.paused,
		Moves:         highlights.Moves,
		Captures:      highlights.Captures,
		Transfers:     highlights.Transfers,
		Placements:    []Position{},
		MoveLog:       s.MoveLog(),
		MoveLogLines:  s.MoveLogLines(),
		Status:        s.status,
		IsCheck:       s.IsCheck(),
		EnPassant:     s.EnPassant(),
		HalfmoveClock: s.halfmoveClock,
	}

	if sel, ok := s.Selected(); ok {
		state.Selected = &sel
	}

	switch ph := s.phase.(type) {
	case PurchasePhase:
		king, _ := s.board.At(ph.King)
		for _, t := range PurchaseOrder {
			state.PurchaseOptions = append(state.PurchaseOptions, PurchaseOption{
				Type:       t,
				Cost:       PurchaseCost[t],
				Affordable: king.Gold >= PurchaseCost[t],
			})
		}
	case PlacementPhase:
		state.Placements = append(state.Placements, ph.Candidates...)
	case PromotionPhase:
		at := ph.At
		state.PromotionSquare = &at
		state.PromotionOptions = append([]PieceType(nil), PromotionOrder...)
	}

	if s.outcome.IsTerminal() {
		outcome := s.outcome
		state.Outcome = &outcome
	}
	if s.clock != nil {
		cs := s.clock.State()
		state.Clock = &cs
	}
	if s.lastMove != nil {
		lm := *s.lastMove
		state.LastMove = &lm
	}
	return state
}
