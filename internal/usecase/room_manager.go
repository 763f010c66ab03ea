package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/apperror"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/pkg"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/ultimate"
)

const maxRoomCodeAttempts = 5

var ErrNoFreeRoomCode = errors.New("failed to generate a free room code")

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// RoomManager owns every room and serializes all work on a room behind a
// per-room lock: validation, mutation and persistence of one move complete
// before the next event for that room is processed. Rooms share no state.
type RoomManager struct {
	logger   *slog.Logger
	roomRepo roomRepo

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRoomManager(logger *slog.Logger, roomRepo roomRepo) *RoomManager {
	return &RoomManager{
		logger:   logger,
		roomRepo: roomRepo,

		locks: make(map[string]*sync.Mutex),
	}
}

// CreateRoom creates a fresh room and seats the creator as X. The room code
// is regenerated on the rare key collision.
func (that *RoomManager) CreateRoom(ctx context.Context, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "CreateRoom")

	roomID, err := that.newRoomCode(ctx)
	if err != nil {
		return nil, err
	}

	game := entity.NewGame(roomID)
	game.Players = []*entity.Player{
		{ID: playerID, Mark: entity.PlayerX, RoomID: roomID},
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	log.Info("room created", "roomID", roomID, "playerID", playerID)

	return game, nil
}

// JoinRoom seats a second connection as O and starts the game. Joining a
// room you are already seated in returns the current state unchanged.
func (that *RoomManager) JoinRoom(ctx context.Context, roomID, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "JoinRoom")

	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if game.PlayerByID(playerID) != nil {
		return game, nil
	}

	if len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrRoomFull, roomID)
	}

	game.Players = append(game.Players, &entity.Player{ID: playerID, Mark: entity.PlayerO, RoomID: roomID})
	game.Status = entity.StatusOngoing

	if err = that.roomRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	log.Info("player joined room", "roomID", roomID, "playerID", playerID)

	return game, nil
}

// MakeMove applies one move for the seated connection. A rejected move
// leaves the stored game untouched, so the client may safely resubmit.
func (that *RoomManager) MakeMove(ctx context.Context, roomID, playerID string, boardIndex, row, col int) (*entity.Game, error) {
	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	player := game.PlayerByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrPlayerNotSeated, roomID)
	}

	if err = ultimate.MakeTurn(game, player.Mark, boardIndex, row, col); err != nil {
		return nil, err
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return game, nil
}

// RestartGame resets a finished game to a fresh one on the same room.
func (that *RoomManager) RestartGame(ctx context.Context, roomID string) (*entity.Game, error) {
	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err = ultimate.Restart(game); err != nil {
		return nil, err
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.logger.Info("game restarted", "roomID", roomID)

	return game, nil
}

// RemoveConnection tears the room down the moment any seated connection
// disconnects, regardless of game phase. The final game state is returned
// so the transport can notify the surviving seat.
func (that *RoomManager) RemoveConnection(ctx context.Context, roomID, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "RemoveConnection")

	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if game.PlayerByID(playerID) == nil {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrPlayerNotSeated, roomID)
	}

	if err = that.roomRepo.DeleteByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("failed to delete room: %w", err)
	}

	that.dropLock(roomID)

	log.Info("room removed", "roomID", roomID, "playerID", playerID)

	return game, nil
}

// GetGame returns the current game of a room.
func (that *RoomManager) GetGame(ctx context.Context, roomID string) (*entity.Game, error) {
	game, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *RoomManager) newRoomCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		roomID := pkg.GenerateRoomCode()
		if roomID == "" {
			continue
		}

		exists, err := that.roomRepo.Exists(ctx, roomID)
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}

		if !exists {
			return roomID, nil
		}
	}

	return "", ErrNoFreeRoomCode
}

func (that *RoomManager) roomLock(roomID string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[roomID] = lock
	}

	return lock
}

func (that *RoomManager) dropLock(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	delete(that.locks, roomID)
}
