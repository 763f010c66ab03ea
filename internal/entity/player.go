package entity

type Player struct {
	ID     string `json:"id"`
	Mark   Mark   `json:"mark,omitempty"`
	RoomID string `json:"room_id,omitempty"`
}
