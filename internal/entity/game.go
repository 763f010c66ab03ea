package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

// Mark is the closed set of cell values. Nothing outside these three
// constants is ever written to a board.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Other returns the opposing player mark.
func (that Mark) Other() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// SmallBoard is one 3x3 sub-board, row-major (index = row*3 + col).
type SmallBoard [9]Mark

// Board is the main board: nine small boards, indexed 0..8 row-major.
type Board [9]SmallBoard

// Game is one room's full game state. ActiveBoard is the small board the
// current player is forced to play in; nil means any eligible board.
type Game struct {
	ID          string    `json:"id"`
	Board       Board     `json:"board"`
	Turn        Mark      `json:"player_turn"`
	ActiveBoard *int      `json:"active_board"`
	Winner      Mark      `json:"winner,omitempty"`
	Tie         bool      `json:"is_tie"`
	Status      string    `json:"status"`
	Players     []*Player `json:"players,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// PlayerByID returns the seated player with the given connection identity.
func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}
