package model

// snapshot is everything a cancelled purchase or promotion has to put back.
// Board is a value type, so the copy is a plain assignment.
type snapshot struct {
	board         Board
	moveLog       []string
	selected      *Position
	turn          PlayerColor
	enPassant     *EnPassant
	halfmoveClock int
	status        string
	lastMove      *SimpleMove
}

func (s *Session) takeSnapshot(selected *Position) snapshot {
	snap := snapshot{
		board:         s.board,
		moveLog:       append([]string(nil), s.moveLog...),
		turn:          s.turn,
		halfmoveClock: s.halfmoveClock,
		status:        s.status,
	}
	if selected != nil {
		sel := *selected
		snap.selected = &sel
	}
	if s.enPassant != nil {
		ep := *s.enPassant
		snap.enPassant = &ep
	}
	if s.lastMove != nil {
		lm := *s.lastMove
		snap.lastMove = &lm
	}
	return snap
}

// restore rolls the session back to snap. The selection is re-derived from
// the restored board so highlights match it.
func (s *Session) restore(snap snapshot) {
	s.board = snap.board
	s.moveLog = append([]string(nil), snap.moveLog...)
	s.turn = snap.turn
	s.enPassant = snap.enPassant
	s.halfmoveClock = snap.halfmoveClock
	s.status = snap.status
	s.lastMove = snap.lastMove

	s.phase = IdlePhase{}
	if snap.selected != nil {
		if piece, ok := s.board.At(*snap.selected); ok && piece.Color == s.turn {
			s.selectPiece(*snap.selected)
		}
	}
}
