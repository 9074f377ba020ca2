package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/goldchess-backend/internal/model"
)

type CommandKind string

const (
	CommandClick   CommandKind = "click"
	CommandBuy     CommandKind = "buy"
	CommandPromote CommandKind = "promote"
	CommandEscape  CommandKind = "esc"
	CommandPause   CommandKind = "pause"
	CommandNew     CommandKind = "new"
	CommandBoard   CommandKind = "board"
	CommandLog     CommandKind = "log"
	CommandHelp    CommandKind = "help"
	CommandQuit    CommandKind = "quit"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed input line.
type Command struct {
	Kind        CommandKind
	Square      model.Position
	Piece       model.PieceType
	TimeControl string
}

const helpText = `Commands:
  <square>         click a square, e.g. e2
  buy <P|N|B|R|Q>  buy a piece while the purchase menu is open
  promote <Q|R|B|N>
                   choose the promotion piece
  esc              cancel a purchase or promotion, otherwise pause
  pause            pause or resume
  new [control]    start over, optionally with a time control (1 min, 3|2, 5 min, 10 min, 15|10)
  board            redraw the board
  log              show the move list
  help             show this help
  quit             leave`

// Parse turns an input line into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "buy", "promote":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <piece>", name)
		}
		piece, err := model.ParsePieceType(args[0])
		if err != nil {
			return Command{}, err
		}
		kind := CommandBuy
		if name == "promote" {
			kind = CommandPromote
		}
		return Command{Kind: kind, Piece: piece}, nil
	case "esc", "escape":
		return Command{Kind: CommandEscape}, nil
	case "pause":
		return Command{Kind: CommandPause}, nil
	case "new":
		return Command{Kind: CommandNew, TimeControl: strings.Join(args, " ")}, nil
	case "board":
		return Command{Kind: CommandBoard}, nil
	case "log":
		return Command{Kind: CommandLog}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	}

	if len(args) == 0 {
		if pos, err := model.ParseSquare(name); err == nil {
			return Command{Kind: CommandClick, Square: pos}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
}
