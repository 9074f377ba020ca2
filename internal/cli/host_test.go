package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/goldchess-backend/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"e2", Command{Kind: CommandClick, Square: model.Position{X: 4, Y: 6}}},
		{"  a8 ", Command{Kind: CommandClick, Square: model.Position{X: 0, Y: 0}}},
		{"buy N", Command{Kind: CommandBuy, Piece: model.Knight}},
		{"buy queen", Command{Kind: CommandBuy, Piece: model.Queen}},
		{"promote q", Command{Kind: CommandPromote, Piece: model.Queen}},
		{"esc", Command{Kind: CommandEscape}},
		{"pause", Command{Kind: CommandPause}},
		{"new", Command{Kind: CommandNew}},
		{"new 5 min", Command{Kind: CommandNew, TimeControl: "5 min"}},
		{"new 3|2", Command{Kind: CommandNew, TimeControl: "3|2"}},
		{"LOG", Command{Kind: CommandLog}},
		{"exit", Command{Kind: CommandQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) returned %v", tt.line, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, line := range []string{"", "i9", "e2 e4", "castle"} {
		if _, err := Parse(line); !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("Parse(%q) = %v, want ErrUnknownCommand", line, err)
		}
	}
	if _, err := Parse("buy x"); !errors.Is(err, model.ErrInvalidPieceType) {
		t.Errorf("expected ErrInvalidPieceType, got %v", err)
	}
	if _, err := Parse("buy"); err == nil {
		t.Error("expected usage error for buy without a piece")
	}
}

func run(t *testing.T, h *Host, lines ...string) {
	t.Helper()
	for _, line := range lines {
		cmd, err := Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		if _, err := h.Execute(cmd); err != nil {
			t.Fatalf("Execute(%q): %v", line, err)
		}
	}
}

func TestHostPlaysMoves(t *testing.T) {
	var out bytes.Buffer
	h, err := NewHost(HostConfig{}, &out, nil)
	if err != nil {
		t.Fatal(err)
	}

	run(t, h, "e2", "e4")
	if log := h.Session().MoveLog(); len(log) != 1 || log[0] != "Pe4" {
		t.Fatalf("unexpected move log %v", log)
	}
	if h.Prompt() != "black> " {
		t.Fatalf("unexpected prompt %q", h.Prompt())
	}

	out.Reset()
	run(t, h, "board")
	text := out.String()
	// Black to move, so rank 1 is drawn first.
	if !strings.HasPrefix(text, "1 ") || !strings.Contains(text, "black to move") {
		t.Fatalf("unexpected board output:\n%s", text)
	}
	if strings.Contains(text, "\x1b[") {
		t.Fatal("colour escapes written with colour disabled")
	}

	out.Reset()
	run(t, h, "log")
	if strings.TrimSpace(out.String()) != "1. Pe4" {
		t.Fatalf("unexpected log output %q", out.String())
	}
}

func TestHostRejectsWhilePaused(t *testing.T) {
	h, err := NewHost(HostConfig{}, &bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	run(t, h, "pause")
	if _, err := h.Execute(Command{Kind: CommandClick, Square: model.Position{X: 4, Y: 6}}); !errors.Is(err, model.ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	run(t, h, "esc")
	if h.Session().Paused() {
		t.Fatal("escape should resume a paused game")
	}
}

func TestHostFlagsOnFrame(t *testing.T) {
	now := time.Unix(0, 0)
	h, err := NewHost(HostConfig{TimeControl: "1 min", Now: func() time.Time { return now }}, &bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(61 * time.Second)
	run(t, h, "board")

	outcome := h.Session().Outcome()
	if outcome.Winner != model.WinnerBlack || outcome.Reason != model.ReasonTimeout {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if h.Prompt() != "game over> " {
		t.Fatalf("unexpected prompt %q", h.Prompt())
	}
}

func TestHostNewGame(t *testing.T) {
	h, err := NewHost(HostConfig{}, &bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	run(t, h, "e2", "e4", "new")
	if h.Session().Plies() != 0 || h.Session().Clock() != nil {
		t.Fatal("new should restart the untimed game")
	}
	run(t, h, "new 3|2")
	if c := h.Session().Clock(); c == nil || c.Control().Name != "3|2" {
		t.Fatal("expected a 3|2 clock")
	}
	if _, err := h.Execute(Command{Kind: CommandNew, TimeControl: "2 min"}); !errors.Is(err, model.ErrUnknownTimeControl) {
		t.Fatalf("expected ErrUnknownTimeControl, got %v", err)
	}
}
