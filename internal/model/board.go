package model

import "fmt"

const BoardSize = 8

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Notation returns the single-letter piece code used in the move log.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

// ParsePieceType accepts either the letter ("N") or the full name ("knight").
func ParsePieceType(s string) (PieceType, error) {
	switch s {
	case "K", "k", string(King):
		return King, nil
	case "Q", "q", string(Queen):
		return Queen, nil
	case "R", "r", string(Rook):
		return Rook, nil
	case "B", "b", string(Bishop):
		return Bishop, nil
	case "N", "n", string(Knight):
		return Knight, nil
	case "P", "p", string(Pawn):
		return Pawn, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPieceType, s)
}

// PurchaseCost is the gold a king pays to place a fresh piece of each type.
var PurchaseCost = map[PieceType]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
}

// PurchaseOrder is the order purchase options are offered in.
var PurchaseOrder = []PieceType{Pawn, Knight, Bishop, Rook, Queen}

// PromotionOrder is the order promotion options are offered in.
var PromotionOrder = []PieceType{Queen, Rook, Bishop, Knight}

type Piece struct {
	Type  PieceType   `json:"type"`
	Color PlayerColor `json:"color"`
	Gold  int         `json:"gold"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// SquareNotation renders the square as algebraic notation, e.g. {4 6} -> "e2".
func (p Position) SquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, BoardSize-p.Y)
}

func (p Position) String() string {
	return p.SquareNotation()
}

// ParseSquare is the inverse of SquareNotation.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	return Position{X: int(s[0] - 'a'), Y: BoardSize - int(s[1]-'0')}, nil
}

// DisplayToBoard maps a square as drawn for the side to move back onto board
// coordinates. Black sees the board rotated by 180 degrees.
func DisplayToBoard(p Position, turn PlayerColor) Position {
	if turn == PlayerColorBlack {
		return Position{X: BoardSize - 1 - p.X, Y: BoardSize - 1 - p.Y}
	}
	return p
}

var (
	kingDirs       = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs     = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	bishopDirs     = []Position{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}}
	rookDirs       = []Position{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}
	queenDirs      = append(append([]Position{}, bishopDirs...), rookDirs...)
	slidingDirsFor = map[PieceType][]Position{
		Bishop: bishopDirs,
		Rook:   rookDirs,
		Queen:  queenDirs,
	}
)

type square struct {
	piece    Piece
	occupied bool
}

// Board is an 8x8 grid held by value: assigning a Board copies every square,
// which is what snapshots and legality simulation rely on.
type Board struct {
	squares [BoardSize][BoardSize]square
}

// At returns the piece on p and whether the square is occupied.
func (b *Board) At(p Position) (Piece, bool) {
	sq := b.squares[p.Y][p.X]
	return sq.piece, sq.occupied
}

func (b *Board) IsEmpty(p Position) bool {
	return !b.squares[p.Y][p.X].occupied
}

func (b *Board) Set(p Position, piece Piece) {
	if piece.Gold < 0 {
		panic(fmt.Sprintf("negative gold %d for %s at %s", piece.Gold, piece.Type, p))
	}
	b.squares[p.Y][p.X] = square{piece: piece, occupied: true}
}

func (b *Board) Clear(p Position) {
	b.squares[p.Y][p.X] = square{}
}

// Relocate moves the piece on from to to, replacing whatever stood there.
func (b *Board) Relocate(from, to Position) {
	piece, ok := b.At(from)
	if !ok {
		panic(fmt.Sprintf("relocate from empty square %s", from))
	}
	b.Clear(from)
	b.Set(to, piece)
}

// KingPosition finds the king of the given color.
func (b *Board) KingPosition(color PlayerColor) (Position, bool) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			sq := b.squares[y][x]
			if sq.occupied && sq.piece.Type == King && sq.piece.Color == color {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Each calls fn for every occupied square in row-major order.
func (b *Board) Each(fn func(Position, Piece)) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if sq := b.squares[y][x]; sq.occupied {
				fn(Position{X: x, Y: y}, sq.piece)
			}
		}
	}
}

// Grid renders the board as rows of nullable pieces for JSON clients.
func (b *Board) Grid() [][]*Piece {
	grid := make([][]*Piece, BoardSize)
	for y := 0; y < BoardSize; y++ {
		grid[y] = make([]*Piece, BoardSize)
		for x := 0; x < BoardSize; x++ {
			if sq := b.squares[y][x]; sq.occupied {
				piece := sq.piece
				grid[y][x] = &piece
			}
		}
	}
	return grid
}

// newBoard sets up the opening position: a king and a pawn on the e-file for
// each side, everything else is bought with gold.
func newBoard() Board {
	var b Board
	b.Set(Position{X: 4, Y: 7}, Piece{Type: King, Color: PlayerColorWhite})
	b.Set(Position{X: 4, Y: 6}, Piece{Type: Pawn, Color: PlayerColorWhite})
	b.Set(Position{X: 4, Y: 0}, Piece{Type: King, Color: PlayerColorBlack})
	b.Set(Position{X: 4, Y: 1}, Piece{Type: Pawn, Color: PlayerColorBlack})
	return b
}

// StartingBoard returns the opening position.
func StartingBoard() Board {
	return newBoard()
}
