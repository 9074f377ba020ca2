package model

import "fmt"

// IsInCheck reports whether any enemy piece could move onto color's king.
// A board without that king is never in check.
func IsInCheck(color PlayerColor, board *Board, enPassant *EnPassant) bool {
	kingPos, ok := board.KingPosition(color)
	if !ok {
		return false
	}
	return isSquareAttacked(board, color.Opponent(), kingPos, enPassant)
}

func isSquareAttacked(board *Board, attacker PlayerColor, target Position, enPassant *EnPassant) bool {
	attacked := false
	board.Each(func(from Position, piece Piece) {
		if attacked || piece.Color != attacker {
			return
		}
		if containsPosition(GenerateMoves(piece, from, board, enPassant), target) {
			attacked = true
		}
	})
	return attacked
}

// simulateMove plays from->to on a copy of board, removing the en passant
// victim when the mover is a pawn landing on the marker.
func simulateMove(board Board, from, to Position, enPassant *EnPassant) Board {
	piece, _ := board.At(from)
	if piece.Type == Pawn && enPassant != nil && to == enPassant.Landing && board.IsEmpty(to) {
		board.Clear(enPassant.Captured)
	}
	board.Relocate(from, to)
	return board
}

// IsSafe reports whether moving the piece on from to to leaves its own king
// out of check. The live board is not touched.
func IsSafe(board *Board, from, to Position, enPassant *EnPassant) bool {
	piece, ok := board.At(from)
	if !ok {
		panic(fmt.Sprintf("safety check from empty square %s", from))
	}
	scratch := simulateMove(*board, from, to, enPassant)
	return !IsInCheck(piece.Color, &scratch, enPassant)
}

// LegalMoves filters GenerateMoves down to moves that keep the king safe.
// Asking for moves of an empty square is a caller bug and panics.
func LegalMoves(board *Board, from Position, enPassant *EnPassant) []Position {
	piece, ok := board.At(from)
	if !ok {
		panic(fmt.Sprintf("legal moves requested for empty square %s", from))
	}
	legal := []Position{}
	for _, to := range GenerateMoves(piece, from, board, enPassant) {
		if IsSafe(board, from, to, enPassant) {
			legal = append(legal, to)
		}
	}
	return legal
}

// HasAnyLegalMove reports whether color has at least one legal piece move.
// Purchases and gold actions are not moves and do not count.
func HasAnyLegalMove(color PlayerColor, board *Board, enPassant *EnPassant) bool {
	found := false
	board.Each(func(from Position, piece Piece) {
		if found || piece.Color != color {
			return
		}
		for _, to := range GenerateMoves(piece, from, board, enPassant) {
			if IsSafe(board, from, to, enPassant) {
				found = true
				return
			}
		}
	})
	return found
}
