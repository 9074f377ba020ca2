package model

import (
	"strconv"
	"strings"
)

// PositionKey encodes board contents including gold, side to move and the en
// passant landing square. Equal keys are the same position for repetition.
func PositionKey(board *Board, turn PlayerColor, enPassant *EnPassant) string {
	var sb strings.Builder
	for y := 0; y < BoardSize; y++ {
		if y > 0 {
			sb.WriteByte('|')
		}
		for x := 0; x < BoardSize; x++ {
			piece, ok := board.At(Position{X: x, Y: y})
			if !ok {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(string(piece.Color)[0])
			sb.WriteString(piece.Type.Notation())
			sb.WriteString(strconv.Itoa(piece.Gold))
		}
	}
	sb.WriteString("_")
	sb.WriteString(string(turn))
	if enPassant != nil {
		sb.WriteString("_ep")
		sb.WriteString(enPassant.Landing.SquareNotation())
	} else {
		sb.WriteString("_epNone")
	}
	return sb.String()
}
