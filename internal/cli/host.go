package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benbeisheim/goldchess-backend/internal/model"
)

// Host drives one local session from typed commands. Every command is one
// frame: the clock is brought up to date and flagged before the input is
// applied.
type Host struct {
	session  *model.Session
	control  string
	now      func() time.Time
	out      io.Writer
	renderer *Renderer
	log      *zap.Logger
}

type HostConfig struct {
	TimeControl string
	Color       bool
	Now         func() time.Time
}

func NewHost(cfg HostConfig, out io.Writer, log *zap.Logger) (*Host, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	h := &Host{
		now:      cfg.Now,
		out:      out,
		renderer: NewRenderer(cfg.Color),
		log:      log,
	}
	if err := h.newGame(cfg.TimeControl); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) Session() *model.Session {
	return h.session
}

func (h *Host) newGame(control string) error {
	var clock *model.Clock
	if control != "" {
		tc, err := model.LookupTimeControl(control)
		if err != nil {
			return err
		}
		clock = model.NewClockWithSource(tc, h.now)
	}
	h.session = model.NewSession(uuid.New().String(), clock)
	h.control = control
	h.log.Debug("new game", zap.String("game_id", h.session.ID), zap.String("time_control", control))
	return nil
}

// Frame advances the clock and ends the game on time if a flag fell.
func (h *Host) Frame() {
	clock := h.session.Clock()
	if clock == nil || h.session.Outcome().IsTerminal() {
		return
	}
	clock.Update()
	if color, expired := clock.Expired(); expired {
		if err := h.session.Flag(color); err == nil {
			h.log.Info("flag fell", zap.String("color", string(color)))
		}
	}
}

// Prompt names the side to move, or the result once the game is over.
func (h *Host) Prompt() string {
	if outcome := h.session.Outcome(); outcome.IsTerminal() {
		return "game over> "
	}
	if h.session.Paused() {
		return "paused> "
	}
	return fmt.Sprintf("%s> ", h.session.Turn())
}

// Execute runs a command and reports whether the host should exit.
func (h *Host) Execute(cmd Command) (bool, error) {
	h.Frame()

	var err error
	switch cmd.Kind {
	case CommandQuit:
		return true, nil
	case CommandHelp:
		fmt.Fprintln(h.out, helpText)
		return false, nil
	case CommandLog:
		h.renderer.RenderLog(h.out, h.session.State())
		return false, nil
	case CommandBoard:
	case CommandClick:
		err = h.session.Click(cmd.Square)
	case CommandBuy:
		err = h.session.SelectPurchase(cmd.Piece)
	case CommandPromote:
		err = h.session.SelectPromotion(cmd.Piece)
	case CommandEscape:
		h.session.Escape()
	case CommandPause:
		h.session.TogglePause()
	case CommandNew:
		if cmd.TimeControl == "" || cmd.TimeControl == h.control {
			h.session.Reset()
		} else {
			err = h.newGame(cmd.TimeControl)
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}
	if err != nil {
		return false, err
	}

	h.Render()
	return false, nil
}

func (h *Host) Render() {
	st := h.session.State()
	h.renderer.RenderBoard(h.out, st)
	h.renderer.RenderStatus(h.out, st)
}
