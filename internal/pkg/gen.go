package pkg

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	roomCodeLength  = 6
	roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateNewSessionID - generates a new unique connection identity.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateRoomCode - generates a short shareable identifier for a room.
func GenerateRoomCode() string {
	code := make([]byte, roomCodeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeCharset))))
		if err != nil {
			return ""
		}
		code[i] = roomCodeCharset[n.Int64()]
	}

	return string(code)
}
