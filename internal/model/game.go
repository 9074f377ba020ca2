package model

import "fmt"

const (
	repetitionLimit   = 3
	halfmoveDrawLimit = 100
)

// Session is a single game: board, turn, draw bookkeeping and the interaction
// phase. It is not safe for concurrent use; hosts must serialize every call.
type Session struct {
	ID string

	board           Board
	turn            PlayerColor
	enPassant       *EnPassant
	halfmoveClock   int
	positionHistory map[string]int
	moveLog         []string
	plies           int
	lastMove        *SimpleMove

	phase   Phase
	paused  bool
	status  string
	outcome Outcome
	clock   *Clock
}

// NewSession starts a game from the opening position. A nil clock means the
// game is untimed.
func NewSession(id string, clock *Clock) *Session {
	return NewSessionWithBoard(id, newBoard(), PlayerColorWhite, clock)
}

// NewSessionWithBoard starts a game from an arbitrary position.
func NewSessionWithBoard(id string, board Board, turn PlayerColor, clock *Clock) *Session {
	s := &Session{ID: id, clock: clock}
	s.init(board, turn)
	return s
}

func (s *Session) init(board Board, turn PlayerColor) {
	s.board = board
	s.turn = turn
	s.enPassant = nil
	s.halfmoveClock = 0
	s.positionHistory = make(map[string]int)
	s.moveLog = make([]string, 0)
	s.plies = 0
	s.lastMove = nil
	s.phase = IdlePhase{}
	s.paused = false
	s.status = ""
	s.outcome = Outcome{}
	if s.clock != nil {
		s.clock.Reset()
		s.clock.Start(turn)
	}
}

// Reset starts a new game in place, keeping the id and time control.
func (s *Session) Reset() {
	s.init(newBoard(), PlayerColorWhite)
}

func (s *Session) acceptingInput() error {
	if s.outcome.IsTerminal() {
		return ErrGameOver
	}
	if s.paused {
		return ErrPaused
	}
	return nil
}

// Click handles a click on a board square, already in board coordinates.
// Rule violations are ignored or reported through Status; only misuse by the
// host comes back as an error.
func (s *Session) Click(pos Position) error {
	if err := s.acceptingInput(); err != nil {
		return err
	}
	if !pos.InBounds() {
		return fmt.Errorf("%w: %+v", ErrOutOfBounds, pos)
	}

	switch ph := s.phase.(type) {
	case IdlePhase:
		if piece, ok := s.board.At(pos); ok && piece.Color == s.turn {
			s.selectPiece(pos)
		}
	case SelectedPhase:
		s.clickSelected(ph, pos)
	case PurchasePhase:
		// the board lies outside the purchase overlay
		s.restore(ph.pre)
	case PlacementPhase:
		s.clickPlacement(ph, pos)
	case PromotionPhase:
		s.restore(ph.pre)
	}
	return nil
}

func (s *Session) selectPiece(pos Position) {
	piece, _ := s.board.At(pos)
	highlights := Highlights{
		Moves:     []Position{},
		Captures:  []Position{},
		Transfers: []Position{},
	}
	for _, to := range LegalMoves(&s.board, pos, s.enPassant) {
		if s.board.IsEmpty(to) {
			highlights.Moves = append(highlights.Moves, to)
		} else {
			highlights.Captures = append(highlights.Captures, to)
		}
	}
	if piece.Gold > 0 && !IsInCheck(piece.Color, &s.board, s.enPassant) {
		highlights.Transfers = VisibleAllies(piece, pos, &s.board)
	}
	s.phase = SelectedPhase{From: pos, Highlights: highlights}
}

func (s *Session) clickSelected(ph SelectedPhase, pos Position) {
	if pos == ph.From {
		piece, _ := s.board.At(pos)
		switch piece.Type {
		case Pawn:
			s.collectGold(pos)
		case King:
			s.phase = PurchasePhase{King: pos, pre: s.takeSnapshot(&pos)}
		default:
			s.phase = IdlePhase{}
		}
		return
	}

	switch {
	case containsPosition(ph.Highlights.Moves, pos):
		s.movePiece(ph.From, pos)
	case containsPosition(ph.Highlights.Captures, pos):
		s.capturePiece(ph.From, pos)
	case containsPosition(ph.Highlights.Transfers, pos):
		s.transferGold(ph.From, pos)
	default:
		if piece, ok := s.board.At(pos); ok && piece.Color == s.turn {
			s.selectPiece(pos)
		} else {
			s.phase = IdlePhase{}
		}
	}
}

func (s *Session) collectGold(at Position) {
	if IsInCheck(s.turn, &s.board, s.enPassant) {
		s.status = StatusCollectInCheck
		return
	}
	piece, _ := s.board.At(at)
	piece.Gold++
	s.board.Set(at, piece)
	s.moveLog = append(s.moveLog, collectNotation(piece.Type, at))
	s.halfmoveClock = 0
	s.enPassant = nil
	s.lastMove = &SimpleMove{From: at, To: at}
	s.endTurn()
}

func (s *Session) movePiece(from, to Position) {
	pre := s.takeSnapshot(&from)
	mover, _ := s.board.At(from)

	if mover.Type == Pawn && s.enPassant != nil && to == s.enPassant.Landing {
		if victim, ok := s.board.At(s.enPassant.Captured); ok {
			mover.Gold += victim.Gold
		}
		s.board.Clear(s.enPassant.Captured)
		s.board.Clear(from)
		s.board.Set(to, mover)
		s.moveLog = append(s.moveLog, enPassantNotation(mover.Type, to))
		s.halfmoveClock = 0
	} else {
		s.board.Relocate(from, to)
		s.moveLog = append(s.moveLog, moveNotation(mover.Type, to))
		if mover.Type == Pawn {
			s.halfmoveClock = 0
		} else {
			s.halfmoveClock++
		}
	}
	s.lastMove = &SimpleMove{From: from, To: to}

	if mover.Type == Pawn && abs(to.Y-from.Y) == 2 {
		s.enPassant = &EnPassant{
			Landing:  Position{X: from.X, Y: from.Y + mover.Color.pawnDirection()},
			Captured: to,
		}
	} else {
		s.enPassant = nil
	}

	if s.promotes(mover, to) {
		s.phase = PromotionPhase{At: to, Color: mover.Color, pre: pre}
		return
	}
	s.endTurn()
}

func (s *Session) capturePiece(from, to Position) {
	pre := s.takeSnapshot(&from)
	mover, _ := s.board.At(from)
	target, _ := s.board.At(to)

	mover.Gold += target.Gold
	s.board.Clear(from)
	s.board.Set(to, mover)
	s.moveLog = append(s.moveLog, captureNotation(mover.Type, to))
	s.halfmoveClock = 0
	s.enPassant = nil
	s.lastMove = &SimpleMove{From: from, To: to}

	if s.promotes(mover, to) {
		s.phase = PromotionPhase{At: to, Color: mover.Color, pre: pre}
		return
	}
	s.endTurn()
}

func (s *Session) promotes(mover Piece, to Position) bool {
	return mover.Type == Pawn && to.Y == mover.Color.promotionRow()
}

func (s *Session) transferGold(from, to Position) {
	source, _ := s.board.At(from)
	target, _ := s.board.At(to)
	if source.Gold <= 0 {
		return
	}
	target.Gold += source.Gold
	source.Gold = 0
	s.board.Set(from, source)
	s.board.Set(to, target)
	s.moveLog = append(s.moveLog, transferNotation(source.Type, to))
	s.halfmoveClock++
	s.enPassant = nil
	s.lastMove = &SimpleMove{From: from, To: to}
	s.endTurn()
}

// SelectPurchase picks the piece type to buy while the purchase overlay is
// open. An unaffordable type only sets the status.
func (s *Session) SelectPurchase(t PieceType) error {
	if err := s.acceptingInput(); err != nil {
		return err
	}
	ph, ok := s.phase.(PurchasePhase)
	if !ok {
		return fmt.Errorf("%w: purchase in %s", ErrWrongPhase, s.phase.Kind())
	}
	cost, ok := PurchaseCost[t]
	if !ok {
		return fmt.Errorf("%w: cannot buy %q", ErrInvalidPieceType, t)
	}

	king, _ := s.board.At(ph.King)
	if king.Gold < cost {
		s.status = StatusNotEnoughGold
		return nil
	}

	candidates := s.placementCandidates(ph.King, t, king.Color)
	if len(candidates) == 0 {
		s.restore(ph.pre)
		s.status = StatusNoPlacement
		return nil
	}
	s.phase = PlacementPhase{King: ph.King, Type: t, Candidates: candidates, pre: ph.pre}
	return nil
}

// placementCandidates lists the empty squares around the king where a fresh
// piece of type t may go without leaving the king in check.
func (s *Session) placementCandidates(kingPos Position, t PieceType, color PlayerColor) []Position {
	candidates := []Position{}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			pos := Position{X: kingPos.X + dx, Y: kingPos.Y + dy}
			if !pos.InBounds() || !s.board.IsEmpty(pos) {
				continue
			}
			if t == Pawn && (pos.Y == 0 || pos.Y == BoardSize-1) {
				continue
			}
			scratch := s.board
			scratch.Set(pos, Piece{Type: t, Color: color})
			if !IsInCheck(color, &scratch, s.enPassant) {
				candidates = append(candidates, pos)
			}
		}
	}
	return candidates
}

func (s *Session) clickPlacement(ph PlacementPhase, pos Position) {
	if !containsPosition(ph.Candidates, pos) {
		s.restore(ph.pre)
		return
	}
	king, _ := s.board.At(ph.King)
	king.Gold -= PurchaseCost[ph.Type]
	s.board.Set(ph.King, king)
	s.board.Set(pos, Piece{Type: ph.Type, Color: king.Color})
	s.moveLog = append(s.moveLog, purchaseNotation(ph.Type, pos))
	s.halfmoveClock++
	s.enPassant = nil
	s.lastMove = &SimpleMove{From: ph.King, To: pos}
	s.endTurn()
}

// SelectPromotion turns the pending pawn into t and finishes the ply.
func (s *Session) SelectPromotion(t PieceType) error {
	if err := s.acceptingInput(); err != nil {
		return err
	}
	ph, ok := s.phase.(PromotionPhase)
	if !ok {
		return fmt.Errorf("%w: promotion in %s", ErrWrongPhase, s.phase.Kind())
	}
	if !isPromotionType(t) {
		return fmt.Errorf("%w: cannot promote to %q", ErrInvalidPieceType, t)
	}
	pawn, _ := s.board.At(ph.At)
	pawn.Type = t
	s.board.Set(ph.At, pawn)
	s.moveLog[len(s.moveLog)-1] += promotionSuffix(t)
	s.endTurn()
	return nil
}

func isPromotionType(t PieceType) bool {
	for _, option := range PromotionOrder {
		if option == t {
			return true
		}
	}
	return false
}

// Escape backs out of a purchase, placement or promotion. Anywhere else it
// toggles the pause overlay. A paused game is only resumed.
func (s *Session) Escape() {
	if s.paused {
		s.TogglePause()
		return
	}
	if snap, ok := speculative(s.phase); ok {
		s.restore(snap)
		return
	}
	s.TogglePause()
}

// TogglePause flips the pause overlay. A paused game's clock does not run.
// Finished games ignore it; Reset starts over from there.
func (s *Session) TogglePause() {
	if s.outcome.IsTerminal() {
		return
	}
	s.paused = !s.paused
	if s.clock == nil {
		return
	}
	if s.paused {
		s.clock.Update()
		s.clock.Stop()
	} else {
		s.clock.Start(s.turn)
	}
}

// Flag ends the game on time in favour of color's opponent. Hosts call it
// after seeing a side's clock reach zero.
func (s *Session) Flag(color PlayerColor) error {
	if s.outcome.IsTerminal() {
		return ErrGameOver
	}
	if snap, ok := speculative(s.phase); ok {
		s.restore(snap)
	}
	s.finish(Outcome{Winner: winnerFor(color.Opponent()), Reason: ReasonTimeout})
	return nil
}

func (s *Session) endTurn() {
	s.turn = s.turn.Opponent()
	s.plies++
	if s.clock != nil {
		s.clock.SwitchTurn()
	}
	s.phase = IdlePhase{}
	s.status = ""

	key := s.PositionKey()
	s.positionHistory[key]++
	if s.positionHistory[key] >= repetitionLimit {
		s.finish(Outcome{Winner: WinnerDraw, Reason: ReasonRepetition})
		return
	}
	if s.halfmoveClock >= halfmoveDrawLimit {
		s.finish(Outcome{Winner: WinnerDraw, Reason: ReasonFiftyMove})
		return
	}
	if !HasAnyLegalMove(s.turn, &s.board, s.enPassant) {
		if IsInCheck(s.turn, &s.board, s.enPassant) {
			s.finish(Outcome{Winner: winnerFor(s.turn.Opponent()), Reason: ReasonCheckmate})
		} else {
			s.finish(Outcome{Winner: WinnerDraw, Reason: ReasonStalemate})
		}
	}
}

func (s *Session) finish(outcome Outcome) {
	s.outcome = outcome
	s.phase = GameOverPhase{Outcome: outcome}
	if s.clock != nil {
		s.clock.Stop()
	}
}

func (s *Session) Board() Board {
	return s.board
}

func (s *Session) Turn() PlayerColor {
	return s.turn
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) Status() string {
	return s.status
}

func (s *Session) Outcome() Outcome {
	return s.outcome
}

func (s *Session) Clock() *Clock {
	return s.clock
}

func (s *Session) HalfmoveClock() int {
	return s.halfmoveClock
}

// Plies counts completed plies. A move waiting on its promotion choice is not
// complete yet.
func (s *Session) Plies() int {
	return s.plies
}

func (s *Session) EnPassant() *EnPassant {
	if s.enPassant == nil {
		return nil
	}
	ep := *s.enPassant
	return &ep
}

func (s *Session) MoveLog() []string {
	return append([]string(nil), s.moveLog...)
}

func (s *Session) MoveLogLines() []string {
	return MoveLogLines(s.moveLog)
}

func (s *Session) PositionKey() string {
	return PositionKey(&s.board, s.turn, s.enPassant)
}

// Repetitions returns how often key has been reached at the end of a ply.
func (s *Session) Repetitions(key string) int {
	return s.positionHistory[key]
}

func (s *Session) IsCheck() bool {
	return IsInCheck(s.turn, &s.board, s.enPassant)
}

// Highlights returns the selected piece's actions, empty when nothing is
// selected.
func (s *Session) Highlights() Highlights {
	if ph, ok := s.phase.(SelectedPhase); ok {
		return ph.Highlights
	}
	return Highlights{Moves: []Position{}, Captures: []Position{}, Transfers: []Position{}}
}

func (s *Session) Selected() (Position, bool) {
	switch ph := s.phase.(type) {
	case SelectedPhase:
		return ph.From, true
	case PurchasePhase:
		return ph.King, true
	case PlacementPhase:
		return ph.King, true
	}
	return Position{}, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
