package model

import "fmt"

// EnPassant is set right after a two-square pawn advance. Landing is the
// skipped square an enemy pawn may move to; Captured is where the advanced
// pawn stands and is removed from.
type EnPassant struct {
	Landing  Position `json:"landing"`
	Captured Position `json:"captured"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Highlights are the actions available for the selected piece.
type Highlights struct {
	Moves     []Position `json:"moves"`
	Captures  []Position `json:"captures"`
	Transfers []Position `json:"transfers"`
}

func containsPosition(set []Position, p Position) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}

func moveNotation(t PieceType, to Position) string {
	return fmt.Sprintf("%s%s", t.Notation(), to.SquareNotation())
}

func captureNotation(t PieceType, to Position) string {
	return fmt.Sprintf("%sx%s", t.Notation(), to.SquareNotation())
}

func enPassantNotation(t PieceType, to Position) string {
	return captureNotation(t, to) + " (e.p.)"
}

func promotionSuffix(t PieceType) string {
	return "=" + t.Notation()
}

func collectNotation(t PieceType, at Position) string {
	return fmt.Sprintf("%s+%s", t.Notation(), at.SquareNotation())
}

func transferNotation(t PieceType, to Position) string {
	return fmt.Sprintf("%sG%s", t.Notation(), to.SquareNotation())
}

func purchaseNotation(t PieceType, at Position) string {
	return fmt.Sprintf("$%s%s", t.Notation(), at.SquareNotation())
}

// MoveLogLines pairs plies into numbered lines: "1. Pe4 Pe5".
func MoveLogLines(log []string) []string {
	lines := make([]string, 0, (len(log)+1)/2)
	for i := 0; i < len(log); i += 2 {
		black := ""
		if i+1 < len(log) {
			black = log[i+1]
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", i/2+1, log[i], black))
	}
	return lines
}
