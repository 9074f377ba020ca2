package model

// GenerateMoves returns the pseudo-legal destination squares for piece standing
// on from. It does not consider whether the mover's king is left in check.
func GenerateMoves(piece Piece, from Position, board *Board, enPassant *EnPassant) []Position {
	switch piece.Type {
	case Pawn:
		return getPseudoPawnMoves(piece, from, board, enPassant)
	case Knight:
		return getPseudoStepMoves(piece, from, board, knightDirs)
	case King:
		return getPseudoStepMoves(piece, from, board, kingDirs)
	case Bishop, Rook, Queen:
		return getPseudoSlidingMoves(piece, from, board, slidingDirsFor[piece.Type])
	default:
		return []Position{}
	}
}

func getPseudoPawnMoves(piece Piece, from Position, board *Board, enPassant *EnPassant) []Position {
	moves := []Position{}
	dir := piece.Color.pawnDirection()

	// forward one, and two from the start row when both squares are empty
	one := Position{X: from.X, Y: from.Y + dir}
	if one.InBounds() && board.IsEmpty(one) {
		moves = append(moves, one)
		if from.Y == piece.Color.pawnStartRow() {
			two := Position{X: from.X, Y: from.Y + 2*dir}
			if two.InBounds() && board.IsEmpty(two) {
				moves = append(moves, two)
			}
		}
	}

	for _, dx := range []int{-1, 1} {
		target := Position{X: from.X + dx, Y: from.Y + dir}
		if !target.InBounds() {
			continue
		}
		if occupant, ok := board.At(target); ok && occupant.Color != piece.Color {
			moves = append(moves, target)
		} else if enPassant != nil && enPassant.Landing == target {
			moves = append(moves, target)
		}
	}
	return moves
}

func getPseudoStepMoves(piece Piece, from Position, board *Board, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := from.Add(dir)
		if !target.InBounds() {
			continue
		}
		if occupant, ok := board.At(target); !ok || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func getPseudoSlidingMoves(piece Piece, from Position, board *Board, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		for target := from.Add(dir); target.InBounds(); target = target.Add(dir) {
			occupant, ok := board.At(target)
			if !ok {
				moves = append(moves, target)
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, target)
			}
			break
		}
	}
	return moves
}

// VisibleAllies returns the squares of allied pieces that piece can "see" from
// from, using its movement geometry. These are the gold transfer targets.
// Pawns only look along their two forward diagonals.
func VisibleAllies(piece Piece, from Position, board *Board) []Position {
	visible := []Position{}
	isAlly := func(p Position) bool {
		occupant, ok := board.At(p)
		return ok && occupant.Color == piece.Color
	}

	switch piece.Type {
	case Pawn:
		dir := piece.Color.pawnDirection()
		for _, dx := range []int{-1, 1} {
			target := Position{X: from.X + dx, Y: from.Y + dir}
			if target.InBounds() && isAlly(target) {
				visible = append(visible, target)
			}
		}
	case Knight, King:
		dirs := kingDirs
		if piece.Type == Knight {
			dirs = knightDirs
		}
		for _, dir := range dirs {
			target := from.Add(dir)
			if target.InBounds() && isAlly(target) {
				visible = append(visible, target)
			}
		}
	case Bishop, Rook, Queen:
		for _, dir := range slidingDirsFor[piece.Type] {
			for target := from.Add(dir); target.InBounds(); target = target.Add(dir) {
				if board.IsEmpty(target) {
					continue
				}
				if isAlly(target) {
					visible = append(visible, target)
				}
				break
			}
		}
	}
	return visible
}
