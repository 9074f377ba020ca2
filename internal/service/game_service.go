package service

import (
	"fmt"

	"github.com/benbeisheim/goldchess-backend/internal/model"
	"github.com/benbeisheim/goldchess-backend/internal/storage"
)

// GameService is what the transport layer talks to. It turns client input
// into session calls on the manager.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(timeControl string) (string, string, error) {
	gameID, name, err := gs.gameManager.CreateGame(timeControl)
	if err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, name, nil
}

func (gs *GameService) ListGames() ([]storage.GameRecord, error) {
	return gs.gameManager.ListGames()
}

func (gs *GameService) Plies(gameID string) ([]storage.PlyRecord, error) {
	return gs.gameManager.Plies(gameID)
}

func (gs *GameService) GetGameState(gameID string) (GameView, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) MoveLog(gameID string) ([]string, error) {
	return gs.gameManager.MoveLog(gameID)
}

// Click presses a square. With display set, x and y are taken in the side to
// move's orientation.
func (gs *GameService) Click(gameID string, x, y int, display bool) (GameView, error) {
	return gs.gameManager.apply(gameID, func(s *model.Session) error {
		pos := model.Position{X: x, Y: y}
		if display {
			pos = model.DisplayToBoard(pos, s.Turn())
		}
		return s.Click(pos)
	})
}

func (gs *GameService) Purchase(gameID, pieceType string) (GameView, error) {
	t, err := model.ParsePieceType(pieceType)
	if err != nil {
		return GameView{}, err
	}
	return gs.gameManager.apply(gameID, func(s *model.Session) error {
		return s.SelectPurchase(t)
	})
}

func (gs *GameService) Promote(gameID, pieceType string) (GameView, error) {
	t, err := model.ParsePieceType(pieceType)
	if err != nil {
		return GameView{}, err
	}
	return gs.gameManager.apply(gameID, func(s *model.Session) error {
		return s.SelectPromotion(t)
	})
}

func (gs *GameService) Escape(gameID string) (GameView, error) {
	return gs.gameManager.apply(gameID, func(s *model.Session) error {
		s.Escape()
		return nil
	})
}

func (gs *GameService) TogglePause(gameID string) (GameView, error) {
	return gs.gameManager.apply(gameID, func(s *model.Session) error {
		s.TogglePause()
		return nil
	})
}

func (gs *GameService) Reset(gameID string) (GameView, error) {
	return gs.gameManager.Reset(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, conn Conn) (string, error) {
	return gs.gameManager.RegisterConnection(gameID, conn)
}

func (gs *GameService) SendError(gameID, connID string, err error) {
	gs.gameManager.SendError(gameID, connID, err)
}

func (gs *GameService) UnregisterConnection(gameID, connID string) {
	gs.gameManager.UnregisterConnection(gameID, connID)
}
