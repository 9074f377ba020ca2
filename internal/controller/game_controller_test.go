package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/goldchess-backend/internal/model"
	"github.com/benbeisheim/goldchess-backend/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gm := service.NewGameManager(service.Config{}, nil, nil)
	return NewApp(AppConfig{}, service.NewGameService(gm), nil)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	resp, data := do(t, app, http.MethodPost, "/api/games", body)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", resp.StatusCode, data)
	}
	var created struct {
		GameID string `json:"gameId"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatal(err)
	}
	if created.GameID == "" || created.Name == "" {
		t.Fatalf("unexpected response %s", data)
	}
	return created.GameID
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, data := do(t, app, http.MethodGet, "/health", "")
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(data), `"storage":"disabled"`) {
		t.Fatalf("unexpected health response %d %s", resp.StatusCode, data)
	}
}

func TestPlayThroughHTTP(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app, `{"timeControl":"5 min"}`)

	resp, data := do(t, app, http.MethodPost, "/api/games/"+gameID+"/click", `{"x":4,"y":6}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", resp.StatusCode, data)
	}
	var view service.GameView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatal(err)
	}
	if view.Phase != model.PhaseSelected || len(view.Moves) != 2 {
		t.Fatalf("unexpected state after selecting e2: %+v", view)
	}

	do(t, app, http.MethodPost, "/api/games/"+gameID+"/click", `{"x":4,"y":4}`)

	resp, data = do(t, app, http.MethodGet, "/api/games/"+gameID, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatal(err)
	}
	if view.ToMove != model.PlayerColorBlack || view.Clock == nil || view.Clock.Control != "5 min" {
		t.Fatalf("unexpected state %+v", view)
	}

	resp, data = do(t, app, http.MethodGet, "/api/games/"+gameID+"/log", "")
	if resp.StatusCode != fiber.StatusOK || string(data) != "1. Pe4 " {
		t.Fatalf("unexpected log %d %q", resp.StatusCode, data)
	}
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad id", http.MethodGet, "/api/games/not-a-uuid", "", fiber.StatusBadRequest},
		{"unknown game", http.MethodGet, "/api/games/3f2504e0-4f89-11d3-9a0c-0305e82c3301", "", fiber.StatusNotFound},
		{"missing coordinates", http.MethodPost, "/api/games/" + gameID + "/click", `{"x":1}`, fiber.StatusBadRequest},
		{"off the board", http.MethodPost, "/api/games/" + gameID + "/click", `{"x":8,"y":0}`, fiber.StatusBadRequest},
		{"bad piece", http.MethodPost, "/api/games/" + gameID + "/purchase", `{"type":"z"}`, fiber.StatusBadRequest},
		{"wrong phase", http.MethodPost, "/api/games/" + gameID + "/promotion", `{"type":"Q"}`, fiber.StatusConflict},
		{"unknown time control", http.MethodPost, "/api/games", `{"timeControl":"2 min"}`, fiber.StatusBadRequest},
		{"no archive", http.MethodGet, "/api/games/" + gameID + "/plies", "", fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, app, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d but got %d: %s", tt.want, resp.StatusCode, data)
			}
		})
	}
}

func TestPausedGameConflicts(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app, "")

	resp, _ := do(t, app, http.MethodPost, "/api/games/"+gameID+"/escape", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodPost, "/api/games/"+gameID+"/click", `{"x":4,"y":6}`)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 while paused, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodPost, "/api/games/"+gameID+"/pause", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodPost, "/api/games/"+gameID+"/reset", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
}

func TestListGames(t *testing.T) {
	app := newTestApp(t)
	createGame(t, app, "")
	createGame(t, app, `{"timeControl":"3|2"}`)

	resp, data := do(t, app, http.MethodGet, "/api/games", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
	var games []map[string]interface{}
	if err := json.Unmarshal(data, &games); err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games but got %d", len(games))
	}
}
