package ultimate

import (
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
)

// WinCombos are the 3 rows, 3 columns and 2 diagonals of a 3x3 grid.
// The same table scores a small board and the derived winner board.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// EmptyCellIndexes returns the row-major indexes of all unmarked cells.
func EmptyCellIndexes(grid entity.SmallBoard) []int {
	indexes := make([]int, 0, len(grid))

	for i, cell := range grid {
		if cell == entity.EmptyCell {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// IsWinner reports whether the given mark holds a full row, column or
// diagonal on the grid.
func IsWinner(grid entity.SmallBoard, mark entity.Mark) bool {
	for _, combo := range WinCombos {
		if grid[combo[0]] == mark && grid[combo[1]] == mark && grid[combo[2]] == mark {
			return true
		}
	}

	return false
}

// WinnerOf returns the mark that won the grid, or EmptyCell if neither has.
func WinnerOf(grid entity.SmallBoard) entity.Mark {
	for _, combo := range WinCombos {
		a, b, c := grid[combo[0]], grid[combo[1]], grid[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

// WinnerBoard derives the 3x3 summary grid of small-board winners. It is
// recomputed on every query: small boards keep accumulating marks after
// being individually won, so the summary is never stored.
func WinnerBoard(board entity.Board) entity.SmallBoard {
	var winners entity.SmallBoard

	for i, smallBoard := range board {
		winners[i] = WinnerOf(smallBoard)
	}

	return winners
}

// BoardDecided reports whether either mark has won the grid.
func BoardDecided(grid entity.SmallBoard) bool {
	return WinnerOf(grid) != entity.EmptyCell
}

// IsFull reports whether the grid has no unmarked cell left.
func IsFull(grid entity.SmallBoard) bool {
	return len(EmptyCellIndexes(grid)) == 0
}

// playable reports whether a small board can still accept a move: it must
// be undecided and have at least one empty cell. A full but undecided board
// (local draw) is not playable.
func playable(grid entity.SmallBoard) bool {
	return !BoardDecided(grid) && !IsFull(grid)
}
