package model

import "testing"

// boardWith builds a board from square -> piece.
func boardWith(t *testing.T, pieces map[string]Piece) Board {
	t.Helper()
	var b Board
	for s, p := range pieces {
		b.Set(sq(t, s), p)
	}
	return b
}

func wp(t PieceType) Piece { return Piece{Type: t, Color: PlayerColorWhite} }
func bp(t PieceType) Piece { return Piece{Type: t, Color: PlayerColorBlack} }

func TestGenerateMovesOpenBoard(t *testing.T) {
	tests := []struct {
		piece PieceType
		at    string
		want  int
	}{
		{Bishop, "d5", 13},
		{Rook, "d5", 14},
		{Queen, "d5", 27},
		{Knight, "d5", 8},
		{Knight, "a1", 2},
		{King, "d5", 8},
		{King, "h1", 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.piece)+"@"+tt.at, func(t *testing.T) {
			b := boardWith(t, map[string]Piece{tt.at: wp(tt.piece)})
			got := GenerateMoves(wp(tt.piece), sq(t, tt.at), &b, nil)
			if len(got) != tt.want {
				t.Fatalf("expected %d moves but got %d: %v", tt.want, len(got), got)
			}
		})
	}
}

func TestSlidersStopAtPieces(t *testing.T) {
	b := boardWith(t, map[string]Piece{
		"a1": wp(Rook),
		"a3": wp(Pawn),
		"c1": bp(Knight),
	})
	got := GenerateMoves(wp(Rook), sq(t, "a1"), &b, nil)
	// a2, b1 and the capture on c1
	if len(got) != 3 {
		t.Fatalf("expected 3 moves but got %v", got)
	}
	if !containsPosition(got, sq(t, "c1")) {
		t.Fatal("rook should be able to capture on c1")
	}
	if containsPosition(got, sq(t, "a3")) {
		t.Fatal("rook should not capture its own pawn")
	}
}

func TestPawnMoves(t *testing.T) {
	b := boardWith(t, map[string]Piece{
		"e2": wp(Pawn),
		"d3": bp(Pawn),
		"f3": wp(Knight),
	})
	got := GenerateMoves(wp(Pawn), sq(t, "e2"), &b, nil)
	for _, want := range []string{"e3", "e4", "d3"} {
		if !containsPosition(got, sq(t, want)) {
			t.Fatalf("expected %s in %v", want, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 moves but got %v", got)
	}

	blocked := boardWith(t, map[string]Piece{"e2": wp(Pawn), "e4": bp(Pawn)})
	if got := GenerateMoves(wp(Pawn), sq(t, "e2"), &blocked, nil); len(got) != 1 {
		t.Fatalf("double step onto an occupied square: %v", got)
	}

	black := boardWith(t, map[string]Piece{"d7": bp(Pawn)})
	got = GenerateMoves(bp(Pawn), sq(t, "d7"), &black, nil)
	if !containsPosition(got, sq(t, "d6")) || !containsPosition(got, sq(t, "d5")) {
		t.Fatalf("black pawn should advance towards rank 1, got %v", got)
	}
}

func TestPawnEnPassantTarget(t *testing.T) {
	b := boardWith(t, map[string]Piece{"e5": wp(Pawn), "d5": bp(Pawn)})
	ep := &EnPassant{Landing: sq(t, "d6"), Captured: sq(t, "d5")}
	if got := GenerateMoves(wp(Pawn), sq(t, "e5"), &b, ep); !containsPosition(got, sq(t, "d6")) {
		t.Fatalf("expected en passant landing d6 in %v", got)
	}
	if got := GenerateMoves(wp(Pawn), sq(t, "e5"), &b, nil); containsPosition(got, sq(t, "d6")) {
		t.Fatal("empty diagonal is not a move without the en passant marker")
	}
}

func TestVisibleAllies(t *testing.T) {
	b := boardWith(t, map[string]Piece{
		"a1": wp(Rook),
		"a4": wp(Pawn),
		"a6": wp(Knight),
		"d1": bp(Bishop),
		"h1": wp(King),
	})
	got := VisibleAllies(wp(Rook), sq(t, "a1"), &b)
	if len(got) != 1 || got[0] != sq(t, "a4") {
		t.Fatalf("rook should only see a4, got %v", got)
	}

	pawns := boardWith(t, map[string]Piece{
		"e4": wp(Pawn),
		"d5": wp(Knight),
		"f3": wp(Bishop),
		"e5": wp(Rook),
	})
	got = VisibleAllies(wp(Pawn), sq(t, "e4"), &pawns)
	if len(got) != 1 || got[0] != sq(t, "d5") {
		t.Fatalf("pawn should only see its forward diagonals, got %v", got)
	}
}

func TestLegalMovesRespectPins(t *testing.T) {
	b := boardWith(t, map[string]Piece{
		"e1": wp(King),
		"e2": wp(Rook),
		"e8": bp(Rook),
		"a8": bp(King),
	})
	got := LegalMoves(&b, sq(t, "e2"), nil)
	if len(got) != 6 {
		t.Fatalf("pinned rook should only move along the e-file, got %v", got)
	}
	for _, to := range got {
		if to.X != 4 {
			t.Fatalf("pinned rook left the e-file: %v", to)
		}
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	b := boardWith(t, map[string]Piece{
		"e1": wp(King),
		"d2": wp(Queen),
		"g3": wp(Knight),
		"b4": bp(Bishop),
		"e8": bp(King),
		"h4": bp(Queen),
	})
	b.Each(func(from Position, piece Piece) {
		if piece.Color != PlayerColorWhite {
			return
		}
		for _, to := range LegalMoves(&b, from, nil) {
			after := simulateMove(b, from, to, nil)
			if IsInCheck(PlayerColorWhite, &after, nil) {
				t.Fatalf("%s%s leaves the king in check", from, to)
			}
		}
	})
}

func TestIsInCheck(t *testing.T) {
	b := boardWith(t, map[string]Piece{"e1": wp(King), "e8": bp(Rook)})
	if !IsInCheck(PlayerColorWhite, &b, nil) {
		t.Fatal("rook on the open file should give check")
	}
	b.Set(sq(t, "e4"), wp(Pawn))
	if IsInCheck(PlayerColorWhite, &b, nil) {
		t.Fatal("blocked file should not be check")
	}
	if IsInCheck(PlayerColorBlack, &b, nil) {
		t.Fatal("a side without a king is never in check")
	}
	pawnCheck := boardWith(t, map[string]Piece{"e1": wp(King), "d2": bp(Pawn), "e2": bp(Pawn)})
	if !IsInCheck(PlayerColorWhite, &pawnCheck, nil) {
		t.Fatal("pawn on d2 attacks e1")
	}
}

func TestLegalMovesPanicsOnEmptySquare(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	var b Board
	LegalMoves(&b, Position{X: 0, Y: 0}, nil)
}
