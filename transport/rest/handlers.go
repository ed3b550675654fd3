package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
)

const maxBodyBytes = 1 << 12

type namesRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type moveResponse struct {
	Accepted bool                       `json:"accepted"`
	Reason   apperror.InvalidMoveReason `json:"reason,omitempty"`
	Game     *entity.GameView           `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req namesRequest
	if !that.decodeBody(w, r, &req, true) {
		return
	}

	game, err := that.uGame.CreateGame(r.Context(), req.PlayerA, req.PlayerB)
	if err != nil {
		that.writeError(w, "handleCreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, entity.NewGameView(game))
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleGetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewGameView(game))
}

func (that *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.EndGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "handleEndGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleMakeTurn(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !that.decodeBody(w, r, &req, false) {
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), r.PathValue("id"), *req.Row, *req.Col)
	if errors.Is(err, apperror.ErrInvalidMove) {
		that.writeJSON(w, http.StatusUnprocessableEntity, moveResponse{
			Reason: apperror.ReasonOf(err),
			Game:   entity.NewGameView(game),
		})
		return
	}

	if err != nil {
		that.writeError(w, "handleMakeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, moveResponse{
		Accepted: true,
		Game:     entity.NewGameView(game),
	})
}

func (that *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.ResetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleResetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewGameView(game))
}

func (that *Server) handleRenamePlayers(w http.ResponseWriter, r *http.Request) {
	var req namesRequest
	if !that.decodeBody(w, r, &req, false) {
		return
	}

	game, err := that.uGame.RenamePlayers(r.Context(), r.PathValue("id"), req.PlayerA, req.PlayerB)
	if err != nil {
		that.writeError(w, "handleRenamePlayers", err)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewGameView(game))
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched
// when optional is set, whatever the request's Content-Length says.
func (that *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if optional && errors.Is(err, io.EOF) {
		return true
	}

	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}

	return true
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	if errors.Is(err, repository.ErrGameNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: repository.ErrGameNotFound.Error()})
		return
	}

	that.logger.Error("request failed", "method", method, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
