package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/apperror"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/repository"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/testing/suite"
)

func TestRoomManager_CreateRoom(t *testing.T) {
	ctx, st := suite.New(t)

	manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

	// When: creating a room
	game, err := manager.CreateRoom(ctx, "p1")

	// Then: the creator is seated as X and the game waits for an opponent
	require.NoError(t, err)
	assert.Len(t, game.ID, 6)
	assert.Equal(t, entity.StatusWaiting, game.Status)
	require.Len(t, game.Players, 1)
	assert.Equal(t, entity.PlayerX, game.Players[0].Mark)
	assert.Equal(t, "p1", game.Players[0].ID)
}

func TestRoomManager_JoinRoom(t *testing.T) {
	t.Run("Second seat gets O and the game starts", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		// Given: a freshly created room
		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)

		// When: a second connection joins
		game, err := manager.JoinRoom(ctx, created.ID, "p2")

		// Then: it is seated as O and the game is ongoing
		require.NoError(t, err)
		assert.Equal(t, entity.StatusOngoing, game.Status)
		require.Len(t, game.Players, 2)
		assert.Equal(t, entity.PlayerO, game.PlayerByID("p2").Mark)
	})

	t.Run("Rejects a third seat", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		// When: a third connection tries the same room code
		_, err = manager.JoinRoom(ctx, created.ID, "p3")

		// Then: the join is rejected with ErrRoomFull
		assert.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("Rejects an unknown room code", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		_, err := manager.JoinRoom(ctx, "NOSUCH", "p1")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Joining twice is idempotent", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)

		// When: the creator joins its own room again
		game, err := manager.JoinRoom(ctx, created.ID, "p1")

		// Then: nothing changes
		require.NoError(t, err)
		assert.Len(t, game.Players, 1)
		assert.Equal(t, entity.StatusWaiting, game.Status)
	})
}

func TestRoomManager_MakeMove(t *testing.T) {
	t.Run("Applies a legal move and persists the new state", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		// When: X plays the center cell of the center board
		game, err := manager.MakeMove(ctx, created.ID, "p1", 4, 1, 1)
		require.NoError(t, err)

		// Then: the snapshot reflects the move and survives a reload
		assert.Equal(t, entity.PlayerO, game.Turn)
		require.NotNil(t, game.ActiveBoard)
		assert.Equal(t, 4, *game.ActiveBoard)

		reloaded, err := manager.GetGame(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, game.Board, reloaded.Board)
		assert.Equal(t, entity.PlayerO, reloaded.Turn)
	})

	t.Run("Rejects a move from an unseated connection", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		_, err = manager.MakeMove(ctx, created.ID, "stranger", 4, 1, 1)

		assert.ErrorIs(t, err, apperror.ErrPlayerNotSeated)
	})

	t.Run("A rejected move leaves the stored game unchanged", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		_, err = manager.MakeMove(ctx, created.ID, "p1", 4, 1, 1)
		require.NoError(t, err)

		before, err := manager.GetGame(ctx, created.ID)
		require.NoError(t, err)

		// When: O ignores the forced board
		_, err = manager.MakeMove(ctx, created.ID, "p2", 0, 0, 0)
		assert.ErrorIs(t, err, apperror.ErrIllegalMove)

		// Then: the stored state is bit-for-bit what it was
		after, err := manager.GetGame(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		// When: O moves first
		_, err = manager.MakeMove(ctx, created.ID, "p2", 4, 1, 1)

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}

func TestRoomManager_RestartGame(t *testing.T) {
	t.Run("Rejects a restart while the game is running", func(t *testing.T) {
		ctx, st := suite.New(t)

		manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		_, err = manager.RestartGame(ctx, created.ID)

		assert.ErrorIs(t, err, apperror.ErrGameNotFinished)
	})

	t.Run("Resets a finished game and keeps the seats", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := repository.NewRoomRepository(st.Storage)
		manager := NewRoomManager(st.Logger, repo)

		created, err := manager.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, created.ID, "p2")
		require.NoError(t, err)

		// Given: the stored game is finished
		game, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		game.Status = entity.StatusFinished
		game.Winner = entity.PlayerX
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// When: restarting
		restarted, err := manager.RestartGame(ctx, created.ID)

		// Then: fresh board, X to move, both seats still present
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, restarted.Board)
		assert.Equal(t, entity.PlayerX, restarted.Turn)
		assert.Nil(t, restarted.ActiveBoard)
		assert.Equal(t, entity.StatusOngoing, restarted.Status)
		assert.Len(t, restarted.Players, 2)
	})
}

func TestRoomManager_RemoveConnection(t *testing.T) {
	ctx, st := suite.New(t)

	manager := NewRoomManager(st.Logger, repository.NewRoomRepository(st.Storage))

	created, err := manager.CreateRoom(ctx, "p1")
	require.NoError(t, err)
	_, err = manager.JoinRoom(ctx, created.ID, "p2")
	require.NoError(t, err)

	// When: one seated connection disconnects mid-game
	game, err := manager.RemoveConnection(ctx, created.ID, "p1")

	// Then: the final state is returned for the disconnect notice and the
	// room is gone for good
	require.NoError(t, err)
	assert.NotNil(t, game.PlayerByID("p2"))

	_, err = manager.GetGame(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)

	_, err = manager.MakeMove(ctx, created.ID, "p2", 4, 1, 1)
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}
