package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/viewmodel"
)

const maxBodyBytes = 1 << 12

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Mines      int    `json:"mines"`
}

type cellRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("bad request")

func (that *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, entity.Presets)
}

func (that *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	difficulty, err := that.readDifficulty(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := that.sessionUseCase.NewSession(r.Context(), difficulty)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, viewmodel.NewSessionView(session, that.now()))
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessionUseCase.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, viewmodel.NewSessionView(session, that.now()))
}

func (that *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	difficulty, err := that.readDifficulty(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := that.sessionUseCase.ResetSession(r.Context(), r.PathValue("id"), difficulty)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, viewmodel.NewSessionView(session, that.now()))
}

func (that *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	row, col, err := readCell(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, _, err := that.sessionUseCase.Reveal(r.Context(), r.PathValue("id"), row, col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, viewmodel.NewSessionView(session, that.now()))
}

func (that *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	row, col, err := readCell(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, _, err := that.sessionUseCase.ToggleFlag(r.Context(), r.PathValue("id"), row, col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, viewmodel.NewSessionView(session, that.now()))
}

// readDifficulty accepts an empty body, which selects the configured default preset.
func (that *Server) readDifficulty(r *http.Request) (entity.Difficulty, error) {
	var req difficultyRequest

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return entity.Difficulty{}, errors.Join(errBadRequest, err)
	}

	if req.Difficulty == "" {
		req.Difficulty = that.defaultDifficulty
	}

	return entity.ResolveDifficulty(req.Difficulty, req.Width, req.Height, req.Mines)
}

func readCell(r *http.Request) (int, int, error) {
	var req cellRequest

	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return 0, 0, errors.Join(errBadRequest, err)
	}

	if req.Row == nil || req.Col == nil {
		return 0, 0, errors.Join(errBadRequest, errors.New("row and col are required"))
	}

	return *req.Row, *req.Col, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrUnknownDifficulty),
		errors.Is(err, apperror.ErrInvalidBoardSize),
		errors.Is(err, apperror.ErrInvalidMineCount),
		errors.Is(err, apperror.ErrTooManyMines):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
