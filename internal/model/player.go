package model

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorWhite {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}

// pawnDirection is the row delta of a forward pawn step.
func (c PlayerColor) pawnDirection() int {
	if c == PlayerColorWhite {
		return -1
	}
	return 1
}

// pawnStartRow is the row a pawn may double-step from.
func (c PlayerColor) pawnStartRow() int {
	if c == PlayerColorWhite {
		return 6
	}
	return 1
}

// promotionRow is the farthest row from the side's own start.
func (c PlayerColor) promotionRow() int {
	if c == PlayerColorWhite {
		return 0
	}
	return BoardSize - 1
}

// Winner is the terminal result of a session. The zero value means the game
// is still running.
type Winner string

const (
	WinnerNone  Winner = ""
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

func winnerFor(c PlayerColor) Winner {
	if c == PlayerColorWhite {
		return WinnerWhite
	}
	return WinnerBlack
}

type OutcomeReason string

const (
	ReasonCheckmate  OutcomeReason = "checkmate"
	ReasonStalemate  OutcomeReason = "stalemate"
	ReasonRepetition OutcomeReason = "repetition"
	ReasonFiftyMove  OutcomeReason = "fifty-move"
	ReasonTimeout    OutcomeReason = "timeout"
)

type Outcome struct {
	Winner Winner        `json:"winner"`
	Reason OutcomeReason `json:"reason,omitempty"`
}

func (o Outcome) IsTerminal() bool {
	return o.Winner != WinnerNone
}

func (o Outcome) String() string {
	switch o.Winner {
	case WinnerNone:
		return "ongoing"
	case WinnerDraw:
		return "draw (" + string(o.Reason) + ")"
	}
	return string(o.Winner) + " wins (" + string(o.Reason) + ")"
}
