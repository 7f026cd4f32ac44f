package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/viewmodel"
)

func (that *Server) handleNewSession(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleNewSession")

	payloadReq, ok, err := that.readPayload(conn, msg)
	if !ok {
		return err
	}

	difficulty, err := that.resolveDifficulty(payloadReq)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	session, err := that.sessionUseCase.NewSession(ctx, difficulty)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleGetSession(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, ok, err := that.readSessionPayload(conn, msg)
	if !ok {
		return err
	}

	session, err := that.sessionUseCase.GetSession(ctx, payloadReq.SessionID)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleResetSession(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleResetSession")

	payloadReq, ok, err := that.readSessionPayload(conn, msg)
	if !ok {
		return err
	}

	difficulty, err := that.resolveDifficulty(payloadReq)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	session, err := that.sessionUseCase.ResetSession(ctx, payloadReq.SessionID, difficulty)
	if err != nil {
		log.Error("failed to reset session", "sessionID", payloadReq.SessionID, "error", err)
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleReveal(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, ok, err := that.readCellPayload(conn, msg)
	if !ok {
		return err
	}

	session, state, err := that.sessionUseCase.Reveal(ctx, payloadReq.SessionID, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	if state != entity.StatePlaying {
		that.logger.Info("game over", "sessionID", session.ID, "state", state)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleFlag(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, ok, err := that.readCellPayload(conn, msg)
	if !ok {
		return err
	}

	session, _, err := that.sessionUseCase.ToggleFlag(ctx, payloadReq.SessionID, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

// readPayload decodes the message payload. When it returns ok == false the
// client has already been answered and err only reports a broken connection.
func (that *Server) readPayload(conn *websocket.Conn, msg *Message) (Payload, bool, error) {
	var payloadReq Payload

	if len(msg.Payload) == 0 {
		return payloadReq, true, nil
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.logger.Warn("failed to unmarshal payload", "action", msg.Action, "error", err)
		return payloadReq, false, that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	return payloadReq, true, nil
}

func (that *Server) readSessionPayload(conn *websocket.Conn, msg *Message) (Payload, bool, error) {
	payloadReq, ok, err := that.readPayload(conn, msg)
	if !ok {
		return payloadReq, false, err
	}

	if payloadReq.SessionID == "" {
		return payloadReq, false, that.sendErrorResponse(conn, msg.Action, "session_id is required")
	}

	return payloadReq, true, nil
}

func (that *Server) readCellPayload(conn *websocket.Conn, msg *Message) (Payload, bool, error) {
	payloadReq, ok, err := that.readSessionPayload(conn, msg)
	if !ok {
		return payloadReq, false, err
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return payloadReq, false, that.sendErrorResponse(conn, msg.Action, "row and col are required")
	}

	return payloadReq, true, nil
}

func (that *Server) resolveDifficulty(payloadReq Payload) (entity.Difficulty, error) {
	name := payloadReq.Difficulty
	if name == "" {
		name = that.defaultDifficulty
	}

	return entity.ResolveDifficulty(name, payloadReq.Width, payloadReq.Height, payloadReq.Mines)
}

// sendUseCaseError reports domain errors verbatim and hides everything else.
func (that *Server) sendUseCaseError(conn *websocket.Conn, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound),
		errors.Is(err, apperror.ErrConcurrentUpdate),
		errors.Is(err, apperror.ErrUnknownDifficulty),
		errors.Is(err, apperror.ErrInvalidBoardSize),
		errors.Is(err, apperror.ErrInvalidMineCount),
		errors.Is(err, apperror.ErrTooManyMines):
		return that.sendErrorResponse(conn, action, err.Error())
	default:
		that.logger.Error("request failed", "action", action, "error", err)
		return that.sendErrorResponse(conn, action, "internal error")
	}
}

func (that *Server) sendSession(conn *websocket.Conn, action string, session *entity.Session) error {
	return that.sendMessage(conn, action, ResponsePayload{Session: viewmodel.NewSessionView(session, that.now())})
}
