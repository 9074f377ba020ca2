package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benbeisheim/goldchess-backend/internal/model"
	"github.com/benbeisheim/goldchess-backend/internal/storage"
	"github.com/benbeisheim/goldchess-backend/internal/ws"
)

const (
	DefaultFrameInterval   = 100 * time.Millisecond
	clockBroadcastInterval = time.Second
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrArchiveDisabled = errors.New("game archive disabled")
)

// Archive is where finished and running games are recorded. *storage.Store
// implements it.
type Archive interface {
	RecordGame(storage.GameRecord)
	RecordPly(storage.PlyRecord)
	RecordFinish(gameID, winner, reason string, at time.Time)
	RestartGame(gameID string, at time.Time)
	QueryGames(gameID string) ([]storage.GameRecord, error)
	GamePlies(gameID string) ([]storage.PlyRecord, error)
}

// Conn is the write side of a client connection. *websocket.Conn satisfies
// it.
type Conn interface {
	WriteJSON(v interface{}) error
}

type client struct {
	mu   sync.Mutex
	conn Conn
}

func (c *client) send(msg ws.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// table is one hosted session. Its mutex serializes every access to the
// session, since the session itself has no locking.
type table struct {
	mu      sync.Mutex
	session *model.Session
	name    string
	clients map[string]*client

	recordedPlies    int
	recordedFinish   bool
	lastClockMessage time.Time
}

// GameView is a session's state plus the table's display name.
type GameView struct {
	Name string `json:"name"`
	model.GameState
}

type Config struct {
	FrameInterval time.Duration
	// Now drives session clocks and archive timestamps. Defaults to time.Now.
	Now func() time.Time
}

type GameManager struct {
	tables  map[string]*table
	mu      sync.RWMutex
	archive Archive
	logger  *zap.Logger
	cfg     Config
}

// NewGameManager builds a manager. archive may be nil to run without
// persistence.
func NewGameManager(cfg Config, archive Archive, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &GameManager{
		tables:  make(map[string]*table),
		archive: archive,
		logger:  logger,
		cfg:     cfg,
	}
}

// CreateGame starts a hot-seat session. An empty time control means untimed.
func (gm *GameManager) CreateGame(timeControl string) (string, string, error) {
	var clock *model.Clock
	if timeControl != "" {
		tc, err := model.LookupTimeControl(timeControl)
		if err != nil {
			return "", "", err
		}
		clock = model.NewClockWithSource(tc, gm.cfg.Now)
	}

	gameID := uuid.New().String()
	name := petname.Generate(2, "-")
	t := &table{
		session: model.NewSession(gameID, clock),
		name:    name,
		clients: make(map[string]*client),
	}

	gm.mu.Lock()
	gm.tables[gameID] = t
	gm.mu.Unlock()

	if gm.archive != nil {
		gm.archive.RecordGame(storage.GameRecord{
			GameID:      gameID,
			Name:        name,
			TimeControl: timeControl,
			StartedAt:   gm.cfg.Now(),
		})
	}
	gm.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.String("name", name),
		zap.String("time_control", timeControl),
	)
	return gameID, name, nil
}

func (gm *GameManager) table(gameID string) (*table, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	t, exists := gm.tables[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return t, nil
}

// GameIDs lists hosted sessions in a stable order.
func (gm *GameManager) GameIDs() []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	ids := make([]string, 0, len(gm.tables))
	for id := range gm.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (gm *GameManager) GetGameState(gameID string) (GameView, error) {
	t, err := gm.table(gameID)
	if err != nil {
		return GameView{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view(), nil
}

func (gm *GameManager) MoveLog(gameID string) ([]string, error) {
	t, err := gm.table(gameID)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.MoveLogLines(), nil
}

func (t *table) view() GameView {
	return GameView{Name: t.name, GameState: t.session.State()}
}

// apply runs action against the session under the table lock, archives what
// changed and pushes the new state to connected clients. The state is
// returned even when action fails.
func (gm *GameManager) apply(gameID string, action func(*model.Session) error, hooks ...func(*table)) (GameView, error) {
	t, err := gm.table(gameID)
	if err != nil {
		return GameView{}, err
	}

	t.mu.Lock()
	actionErr := action(t.session)
	for _, hook := range hooks {
		hook(t)
	}
	gm.persist(t)
	view := t.view()
	clients := t.snapshotClients()
	t.mu.Unlock()

	if actionErr == nil {
		gm.broadcast(gameID, clients, view)
	}
	return view, actionErr
}

// Reset starts the session over in place and clears its archived plies.
func (gm *GameManager) Reset(gameID string) (GameView, error) {
	return gm.apply(gameID, func(s *model.Session) error {
		s.Reset()
		return nil
	}, func(t *table) {
		t.recordedPlies = 0
		t.recordedFinish = false
		if gm.archive != nil {
			gm.archive.RestartGame(gameID, gm.cfg.Now())
		}
		gm.logger.Info("game reset", zap.String("game_id", gameID))
	})
}

// persist records plies completed since the last call and the result once the
// game is over. Callers hold t.mu.
func (gm *GameManager) persist(t *table) {
	s := t.session
	now := gm.cfg.Now()

	if s.Plies() > t.recordedPlies {
		log := s.MoveLog()
		for ply := t.recordedPlies + 1; ply <= s.Plies(); ply++ {
			if gm.archive != nil {
				gm.archive.RecordPly(storage.PlyRecord{
					GameID:      s.ID,
					PlyNumber:   ply,
					Color:       string(moverOf(ply)),
					Notation:    log[ply-1],
					PositionKey: s.PositionKey(),
					PlayedAt:    now,
				})
			}
			gm.logger.Debug("ply",
				zap.String("game_id", s.ID),
				zap.Int("ply", ply),
				zap.String("notation", log[ply-1]),
			)
		}
		t.recordedPlies = s.Plies()
	}

	if outcome := s.Outcome(); outcome.IsTerminal() && !t.recordedFinish {
		t.recordedFinish = true
		if gm.archive != nil {
			gm.archive.RecordFinish(s.ID, string(outcome.Winner), string(outcome.Reason), now)
		}
		gm.logger.Info("game over",
			zap.String("game_id", s.ID),
			zap.String("winner", string(outcome.Winner)),
			zap.String("reason", string(outcome.Reason)),
		)
	}
}

// moverOf returns who played the given 1-based ply. Hosted games always start
// with white.
func moverOf(ply int) model.PlayerColor {
	if ply%2 == 1 {
		return model.PlayerColorWhite
	}
	return model.PlayerColorBlack
}

// Run drives session clocks once per frame until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.tick()
		}
	}
}

func (gm *GameManager) tick() {
	for _, gameID := range gm.GameIDs() {
		t, err := gm.table(gameID)
		if err != nil {
			continue
		}

		t.mu.Lock()
		clock := t.session.Clock()
		if clock == nil || !clock.IsRunning() {
			t.mu.Unlock()
			continue
		}
		clock.Update()

		changed := false
		if loser, expired := clock.Expired(); expired {
			if err := t.session.Flag(loser); err == nil {
				gm.persist(t)
				changed = true
			}
		}
		now := gm.cfg.Now()
		if now.Sub(t.lastClockMessage) >= clockBroadcastInterval {
			changed = true
		}
		if !changed {
			t.mu.Unlock()
			continue
		}
		t.lastClockMessage = now
		view := t.view()
		clients := t.snapshotClients()
		t.mu.Unlock()

		gm.broadcast(gameID, clients, view)
	}
}

// RegisterConnection attaches a client to a table and sends it the current
// state. The returned id is used to detach it.
func (gm *GameManager) RegisterConnection(gameID string, conn Conn) (string, error) {
	t, err := gm.table(gameID)
	if err != nil {
		return "", err
	}

	connID := uuid.New().String()
	c := &client{conn: conn}

	t.mu.Lock()
	t.clients[connID] = c
	view := t.view()
	t.mu.Unlock()

	gm.logger.Debug("connection registered", zap.String("game_id", gameID), zap.String("conn_id", connID))
	gm.broadcast(gameID, []*client{c}, view)
	return connID, nil
}

// SendError reports a rejected input to the one client that sent it.
func (gm *GameManager) SendError(gameID, connID string, cause error) {
	t, err := gm.table(gameID)
	if err != nil {
		return
	}
	t.mu.Lock()
	c, ok := t.clients[connID]
	t.mu.Unlock()
	if !ok {
		return
	}

	payload, err := json.Marshal(ws.ErrorPayload{Error: cause.Error()})
	if err != nil {
		return
	}
	if err := c.send(ws.Message{Type: ws.MessageTypeError, Payload: payload}); err != nil {
		gm.logger.Warn("failed to send error", zap.String("game_id", gameID), zap.Error(err))
	}
}

func (gm *GameManager) UnregisterConnection(gameID, connID string) {
	t, err := gm.table(gameID)
	if err != nil {
		return
	}
	t.mu.Lock()
	delete(t.clients, connID)
	t.mu.Unlock()
	gm.logger.Debug("connection unregistered", zap.String("game_id", gameID), zap.String("conn_id", connID))
}

func (t *table) snapshotClients() []*client {
	clients := make([]*client, 0, len(t.clients))
	for _, c := range t.clients {
		clients = append(clients, c)
	}
	return clients
}

func (gm *GameManager) broadcast(gameID string, clients []*client, view GameView) {
	if len(clients) == 0 {
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		gm.logger.Error("failed to marshal game state", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			gm.logger.Warn("failed to send game state", zap.String("game_id", gameID), zap.Error(err))
		}
	}
}

// ListGames returns archived games, newest first. Without an archive only the
// games hosted right now are listed.
func (gm *GameManager) ListGames() ([]storage.GameRecord, error) {
	if gm.archive != nil {
		return gm.archive.QueryGames("")
	}

	records := []storage.GameRecord{}
	for _, gameID := range gm.GameIDs() {
		t, err := gm.table(gameID)
		if err != nil {
			continue
		}
		t.mu.Lock()
		record := storage.GameRecord{GameID: gameID, Name: t.name}
		if clock := t.session.Clock(); clock != nil {
			record.TimeControl = clock.Control().Name
		}
		outcome := t.session.Outcome()
		record.Winner = string(outcome.Winner)
		record.Reason = string(outcome.Reason)
		t.mu.Unlock()
		records = append(records, record)
	}
	return records, nil
}

// Plies returns the archived plies of a game.
func (gm *GameManager) Plies(gameID string) ([]storage.PlyRecord, error) {
	if gm.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return gm.archive.GamePlies(gameID)
}
