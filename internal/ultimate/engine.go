package ultimate

import (
	"fmt"

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/apperror"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
)

// MakeTurn validates and applies one move for the given mark, then derives
// the next game state: winner, tie, turn, and the board the opponent is
// forced into. A rejected move leaves the game untouched.
func MakeTurn(game *entity.Game, mark entity.Mark, boardIndex, row, col int) error {
	if err := ValidateMove(game, mark, boardIndex, row, col); err != nil {
		return err
	}

	game.Board[boardIndex][row*3+col] = mark

	updateGameStatus(game, mark, row, col)

	return nil
}

// ValidateMove checks every legality rule for a proposed move. A turn
// mismatch reports ErrNotYourTurn; every other failure reports the single
// ErrIllegalMove identity, with detail kept in the message for logs.
func ValidateMove(game *entity.Game, mark entity.Mark, boardIndex, row, col int) error {
	if boardIndex < 0 || boardIndex > 8 {
		return fmt.Errorf("%w: board index %d out of range", apperror.ErrIllegalMove, boardIndex)
	}

	if row < 0 || row > 2 || col < 0 || col > 2 {
		return fmt.Errorf("%w: cell (%d,%d) out of range", apperror.ErrIllegalMove, row, col)
	}

	if !game.IsOngoing() {
		return fmt.Errorf("%w: game is %s", apperror.ErrIllegalMove, game.Status)
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if game.ActiveBoard != nil && *game.ActiveBoard != boardIndex {
		return fmt.Errorf("%w: must play on board %d", apperror.ErrIllegalMove, *game.ActiveBoard)
	}

	if !playable(game.Board[boardIndex]) {
		return fmt.Errorf("%w: board %d is decided or full", apperror.ErrIllegalMove, boardIndex)
	}

	if game.Board[boardIndex][row*3+col] != entity.EmptyCell {
		return fmt.Errorf("%w: cell is already occupied", apperror.ErrIllegalMove)
	}

	return nil
}

// Restart resets a finished game to a fresh one on the same room: empty
// board, X to move, no forced board.
func Restart(game *entity.Game) error {
	if !game.IsFinished() {
		return apperror.ErrGameNotFinished
	}

	game.Board = entity.Board{}
	game.Turn = entity.PlayerX
	game.ActiveBoard = nil
	game.Winner = entity.EmptyCell
	game.Tie = false
	game.Status = entity.StatusOngoing

	return nil
}

// updateGameStatus recomputes the derived state after the given mark played
// the cell (row, col) of its small board.
func updateGameStatus(game *entity.Game, mark entity.Mark, row, col int) {
	winners := WinnerBoard(game.Board)

	if IsWinner(winners, mark) {
		game.Winner = mark
		game.Status = entity.StatusFinished
		game.Turn = entity.EmptyCell
		game.ActiveBoard = nil
		return
	}

	// Tied only when the winner board has no empty cell left. A small board
	// drawn without a winner never gets a mark here, so a fully exhausted
	// main board containing a local draw is never reported as tied.
	if IsFull(winners) {
		game.Tie = true
		game.Status = entity.StatusFinished
		game.Turn = entity.EmptyCell
		game.ActiveBoard = nil
		return
	}

	game.Turn = mark.Other()

	// The inner position of the move picks the opponent's board: the small
	// board sitting at the same winner-board position as the cell played.
	next := row*3 + col
	if playable(game.Board[next]) {
		game.ActiveBoard = &next
	} else {
		game.ActiveBoard = nil
	}
}
