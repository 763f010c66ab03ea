package ultimate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
)

func TestEmptyCellIndexes(t *testing.T) {
	t.Run("Returns all indexes for an empty board", func(t *testing.T) {
		// Given: an empty small board
		var grid entity.SmallBoard

		// When: querying empty cells
		indexes := EmptyCellIndexes(grid)

		// Then: every cell is reported, row-major
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, indexes)
	})

	t.Run("Skips marked cells", func(t *testing.T) {
		// Given: a board with two marked cells
		grid := entity.SmallBoard{
			entity.PlayerX, entity.EmptyCell, entity.EmptyCell,
			entity.EmptyCell, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}

		// When: querying empty cells
		indexes := EmptyCellIndexes(grid)

		// Then: the marked indexes are absent
		assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8}, indexes)
	})
}

func TestIsWinner(t *testing.T) {
	t.Run("Detects a row win", func(t *testing.T) {
		grid := entity.SmallBoard{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.EmptyCell, entity.PlayerO, entity.EmptyCell,
			entity.PlayerO, entity.EmptyCell, entity.EmptyCell,
		}

		assert.True(t, IsWinner(grid, entity.PlayerX))
		assert.False(t, IsWinner(grid, entity.PlayerO))
	})

	t.Run("Detects a column win", func(t *testing.T) {
		grid := entity.SmallBoard{
			entity.PlayerO, entity.PlayerX, entity.EmptyCell,
			entity.PlayerO, entity.PlayerX, entity.EmptyCell,
			entity.PlayerO, entity.EmptyCell, entity.PlayerX,
		}

		assert.True(t, IsWinner(grid, entity.PlayerO))
		assert.False(t, IsWinner(grid, entity.PlayerX))
	})

	t.Run("Detects a diagonal win", func(t *testing.T) {
		grid := entity.SmallBoard{
			entity.PlayerX, entity.PlayerO, entity.EmptyCell,
			entity.PlayerO, entity.PlayerX, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.PlayerX,
		}

		assert.True(t, IsWinner(grid, entity.PlayerX))
	})

	t.Run("Neither mark wins an undecided board", func(t *testing.T) {
		grid := entity.SmallBoard{
			entity.PlayerX, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.PlayerX, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.PlayerO,
		}

		assert.False(t, IsWinner(grid, entity.PlayerX))
		assert.False(t, IsWinner(grid, entity.PlayerO))
	})

	t.Run("An empty line never counts as a win for the empty mark", func(t *testing.T) {
		var grid entity.SmallBoard

		// WinnerOf must not treat three empty cells as a winning line.
		assert.Equal(t, entity.EmptyCell, WinnerOf(grid))
	})
}

func TestWinnerBoard(t *testing.T) {
	t.Run("Summarizes each small board's winner", func(t *testing.T) {
		// Given: board 0 won by X, board 4 won by O, the rest open
		var board entity.Board
		board[0] = wonBoard(entity.PlayerX)
		board[4] = wonBoard(entity.PlayerO)

		// When: deriving the winner board
		winners := WinnerBoard(board)

		// Then: only those two positions carry a mark
		assert.Equal(t, entity.PlayerX, winners[0])
		assert.Equal(t, entity.PlayerO, winners[4])
		for _, i := range []int{1, 2, 3, 5, 6, 7, 8} {
			assert.Equal(t, entity.EmptyCell, winners[i])
		}
	})

	t.Run("A locally drawn board stays empty on the winner board", func(t *testing.T) {
		// Given: board 3 is full with no winner
		var board entity.Board
		board[3] = drawnBoard()

		// When: deriving the winner board
		winners := WinnerBoard(board)

		// Then: the drawn board contributes no mark
		assert.Equal(t, entity.EmptyCell, winners[3])
	})
}

func TestBoardQueries(t *testing.T) {
	t.Run("BoardDecided is true once either mark wins", func(t *testing.T) {
		assert.True(t, BoardDecided(wonBoard(entity.PlayerX)))
		assert.True(t, BoardDecided(wonBoard(entity.PlayerO)))
		assert.False(t, BoardDecided(drawnBoard()))
		assert.False(t, BoardDecided(entity.SmallBoard{}))
	})

	t.Run("IsFull is true only with no empty cell", func(t *testing.T) {
		assert.True(t, IsFull(drawnBoard()))
		assert.False(t, IsFull(wonBoard(entity.PlayerX)))
		assert.False(t, IsFull(entity.SmallBoard{}))
	})
}

// wonBoard returns a small board with the top row taken by the given mark.
func wonBoard(mark entity.Mark) entity.SmallBoard {
	var grid entity.SmallBoard
	grid[0], grid[1], grid[2] = mark, mark, mark
	return grid
}

// drawnBoard returns a full small board with no winner.
func drawnBoard() entity.SmallBoard {
	return entity.SmallBoard{
		entity.PlayerX, entity.PlayerO, entity.PlayerX,
		entity.PlayerX, entity.PlayerX, entity.PlayerO,
		entity.PlayerO, entity.PlayerX, entity.PlayerO,
	}
}
