package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
	"github.com/livioambr/CLDE-Gruppe-6/internal/service"
)

type Handlers interface {
	Ping(w http.ResponseWriter, r *http.Request)
	CreateSession(w http.ResponseWriter, r *http.Request)
	JoinSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger   *slog.Logger
	sessions service.SessionService
}

func NewHandlers(logger *slog.Logger, sessions service.SessionService) Handlers {
	return &handlers{
		logger:   logger,
		sessions: sessions,
	}
}

type createSessionRequest struct {
	HostName string `json:"host_name"`
}

type joinSessionRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type sessionResponse struct {
	Session *entity.SessionView `json:"session"`
	Player  *entity.Player      `json:"player,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HostName == "" {
		that.writeJSON(w, http.StatusBadRequest, &errorResponse{Code: "Internal", Message: "host_name is required"})
		return
	}

	session, host, err := that.sessions.Create(r.Context(), req.HostName)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, &sessionResponse{
		Session: session.PublicView(),
		Player:  host,
	})
}

func (that *handlers) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req joinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.Name == "" {
		that.writeJSON(w, http.StatusBadRequest, &errorResponse{Code: "Internal", Message: "code and name are required"})
		return
	}

	session, player, err := that.sessions.Join(r.Context(), req.Code, req.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, &sessionResponse{
		Session: session.PublicView(),
		Player:  player,
	})
}

func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, &sessionResponse{
		Session: session.PublicView(),
	})
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	if !apperror.IsValidation(err) {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, &errorResponse{Code: "Internal", Message: "internal error"})
		return
	}

	code := apperror.CodeOf(err)

	status := http.StatusConflict
	if code == apperror.ErrNotFound.Code {
		status = http.StatusNotFound
	}
	if code == apperror.ErrInvalidLetter.Code {
		status = http.StatusBadRequest
	}

	that.writeJSON(w, status, &errorResponse{Code: code, Message: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
