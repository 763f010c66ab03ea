package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/apperror"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
)

const (
	payloadActionGameLeave = "game:leave"
	gameStatusOpponentOut  = "opponent_out"
)

func (that *Server) handleNewRoom(ctx context.Context, connClient *client, msg *Message) error {
	log := that.logger.With("method", "handleNewRoom", "playerID", connClient.playerID)

	game, err := that.rooms.CreateRoom(ctx, connClient.playerID)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendErrorResponse(connClient, msg.Action, "failed to create a new room")
	}

	connClient.roomID = game.ID

	payloadResp := Payload{
		Player: game.PlayerByID(connClient.playerID),
		Game:   maskGameDetails(game),
	}

	if err = that.sendMessage(connClient, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("room created", "roomID", game.ID)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, connClient *client, msg *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "playerID", connClient.playerID)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		log.Error("room id is missing in payload")
		return that.sendErrorResponse(connClient, msg.Action, "room id is required")
	}

	game, err := that.rooms.JoinRoom(ctx, payloadReq.Game.ID, connClient.playerID)
	if err != nil {
		log.Error("failed to join room", "roomID", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(connClient, msg.Action, rejectionMessage(err))
	}

	connClient.roomID = game.ID

	// Each seat gets its own assigned mark in the response.
	that.broadcastGame(msg.Action, game)

	log.Info("player joined room", "roomID", game.ID)

	return nil
}

func (that *Server) handleGameMove(ctx context.Context, connClient *client, msg *Message) error {
	log := that.logger.With("method", "handleGameMove", "playerID", connClient.playerID)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Board == nil || payloadReq.Row == nil || payloadReq.Col == nil {
		log.Error("move coordinates are missing in payload")
		return that.sendErrorResponse(connClient, msg.Action, "board, row and col are required")
	}

	if connClient.roomID == "" {
		return that.sendErrorResponse(connClient, msg.Action, rejectionMessage(apperror.ErrRoomNotFound))
	}

	game, err := that.rooms.MakeMove(ctx, connClient.roomID, connClient.playerID, *payloadReq.Board, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		log.Error("failed to make move", "roomID", connClient.roomID, "error", err)
		return that.sendErrorResponse(connClient, msg.Action, rejectionMessage(err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player made a move", "roomID", game.ID)

	return nil
}

func (that *Server) handleGameRestart(ctx context.Context, connClient *client, msg *Message) error {
	log := that.logger.With("method", "handleGameRestart", "playerID", connClient.playerID)

	if connClient.roomID == "" {
		return that.sendErrorResponse(connClient, msg.Action, rejectionMessage(apperror.ErrRoomNotFound))
	}

	game, err := that.rooms.RestartGame(ctx, connClient.roomID)
	if err != nil {
		log.Error("failed to restart game", "roomID", connClient.roomID, "error", err)
		return that.sendErrorResponse(connClient, msg.Action, rejectionMessage(err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("game restarted", "roomID", game.ID)

	return nil
}

// handleDisconnect tears the room down the moment a seated connection goes
// away and notifies the surviving seat before the room is gone.
func (that *Server) handleDisconnect(ctx context.Context, connClient *client) {
	log := that.logger.With("method", "handleDisconnect", "playerID", connClient.playerID)

	that.connectionsMutex.Lock()
	delete(that.connections, connClient.playerID)
	that.connectionsMutex.Unlock()

	if connClient.roomID == "" {
		return
	}

	game, err := that.rooms.RemoveConnection(ctx, connClient.roomID, connClient.playerID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		// The room was already torn down by the other seat's disconnect.
		return
	}

	if err != nil {
		log.Error("failed to remove room", "roomID", connClient.roomID, "error", err)
		return
	}

	for _, player := range game.Players {
		if player.ID == connClient.playerID {
			continue
		}

		opponent, ok := that.clientByPlayerID(player.ID)
		if !ok {
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}
		payloadResp.Game.Status = gameStatusOpponentOut

		if err = that.sendMessage(opponent, payloadActionGameLeave, payloadResp); err != nil {
			log.Error("failed to send disconnect notice", "playerID", player.ID, "error", err)
		}
	}

	log.Info("room torn down", "roomID", connClient.roomID)
}

// broadcastGame sends the game snapshot to every seated connection, each
// with its own player in the payload.
func (that *Server) broadcastGame(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcastGame", "roomID", game.ID)

	for _, player := range game.Players {
		connClient, ok := that.clientByPlayerID(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}

		if err := that.sendMessage(connClient, action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

// maskGameDetails strips the seat list from the broadcast snapshot; each
// connection only learns its own identity.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil
	return &masked
}

// rejectionMessage maps core errors to the messages reported to the
// originating connection. Unknown errors stay generic.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return apperror.ErrRoomNotFound.Error()
	case errors.Is(err, apperror.ErrRoomFull):
		return apperror.ErrRoomFull.Error()
	case errors.Is(err, apperror.ErrPlayerNotSeated):
		return apperror.ErrPlayerNotSeated.Error()
	case errors.Is(err, apperror.ErrNotYourTurn):
		return apperror.ErrNotYourTurn.Error()
	case errors.Is(err, apperror.ErrIllegalMove):
		return apperror.ErrIllegalMove.Error()
	case errors.Is(err, apperror.ErrGameNotFinished):
		return apperror.ErrGameNotFinished.Error()
	default:
		return "internal error"
	}
}
