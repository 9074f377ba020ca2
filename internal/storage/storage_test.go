package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "games.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestGameArchive(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s.RecordGame(GameRecord{GameID: "g1", Name: "brave-otter", TimeControl: "5 min", StartedAt: start})
	s.RecordPly(PlyRecord{GameID: "g1", PlyNumber: 1, Color: "white", Notation: "Pe4", PositionKey: "k1", PlayedAt: start.Add(time.Second)})
	s.RecordPly(PlyRecord{GameID: "g1", PlyNumber: 2, Color: "black", Notation: "P+e7", PositionKey: "k2", PlayedAt: start.Add(2 * time.Second)})
	s.RecordFinish("g1", "white", "timeout", start.Add(time.Minute))
	flush(t, s)

	if !s.IsHealthy() {
		t.Fatal("store degraded")
	}

	games, err := s.QueryGames("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game but got %d", len(games))
	}
	g := games[0]
	if g.Name != "brave-otter" || g.TimeControl != "5 min" || g.Winner != "white" || g.Reason != "timeout" {
		t.Fatalf("unexpected record %+v", g)
	}
	if g.FinishedAt == nil || !g.FinishedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("unexpected finish time %v", g.FinishedAt)
	}

	plies, err := s.GamePlies("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(plies) != 2 || plies[0].Notation != "Pe4" || plies[1].Color != "black" {
		t.Fatalf("unexpected plies %+v", plies)
	}
}

func TestRestartGameClearsPlies(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	s.RecordGame(GameRecord{GameID: "g1", Name: "a", StartedAt: now})
	s.RecordPly(PlyRecord{GameID: "g1", PlyNumber: 1, Color: "white", Notation: "Pe3", PositionKey: "k", PlayedAt: now})
	s.RecordFinish("g1", "draw", "repetition", now)
	s.RestartGame("g1", now)
	s.RecordPly(PlyRecord{GameID: "g1", PlyNumber: 1, Color: "white", Notation: "Pe4", PositionKey: "k", PlayedAt: now})
	flush(t, s)

	plies, err := s.GamePlies("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(plies) != 1 || plies[0].Notation != "Pe4" {
		t.Fatalf("unexpected plies %+v", plies)
	}
	games, _ := s.QueryGames("*")
	if len(games) != 1 || games[0].FinishedAt != nil || games[0].Winner != "" {
		t.Fatalf("restart should clear the result, got %+v", games)
	}
}

func TestFailedWriteDegrades(t *testing.T) {
	s := newTestStore(t)

	// unknown game id violates the foreign key
	s.RecordPly(PlyRecord{GameID: "missing", PlyNumber: 1, Color: "white", Notation: "Pe4", PositionKey: "k", PlayedAt: time.Now()})
	flush(t, s)
	if s.IsHealthy() {
		t.Fatal("expected the store to degrade")
	}

	s.RecordGame(GameRecord{GameID: "g2", Name: "b", StartedAt: time.Now()})
	flush(t, s)
	games, err := s.QueryGames("")
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Fatalf("degraded store should drop writes, got %+v", games)
	}
}
