package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
	"github.com/livioambr/CLDE-Gruppe-6/internal/game"
	"github.com/livioambr/CLDE-Gruppe-6/internal/pkg"
	"github.com/livioambr/CLDE-Gruppe-6/internal/repository"
)

var ErrNoUniqueCode = errors.New("could not generate a unique session code")

const codeGenerationAttempts = 10

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetByCode(ctx context.Context, code string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	ListStale(ctx context.Context, threshold time.Duration, now time.Time) ([]*entity.Session, error)
}

type chatCleaner interface {
	Clear(ctx context.Context, sessionID string) error
}

type wordSource interface {
	NextWord(ctx context.Context) (string, error)
}

// LeaveResult tells the transport what a leave did, so it can emit the
// right notifications before any teardown happens.
type LeaveResult struct {
	Session *entity.Session
	Player  *entity.Player

	// HostLeft means the session was marked closing; the caller must
	// notify all participants and then call Teardown.
	HostLeft bool

	// Empty means the last player left a non-host session.
	Empty bool
}

type SessionService interface {
	Create(ctx context.Context, hostName string) (*entity.Session, *entity.Player, error)
	Join(ctx context.Context, code, name string) (*entity.Session, *entity.Player, error)
	Start(ctx context.Context, sessionID string, maxAttempts int) (*entity.Session, error)
	Guess(ctx context.Context, sessionID, playerID, letter string) (*entity.Session, *game.Result, error)
	Reset(ctx context.Context, sessionID string) (*entity.Session, error)
	Leave(ctx context.Context, sessionID, playerID string) (*LeaveResult, error)
	Teardown(ctx context.Context, sessionID string) error

	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetByCode(ctx context.Context, code string) (*entity.Session, error)

	ReapStale(ctx context.Context, threshold time.Duration, notify func(session *entity.Session)) (int, error)
}

type sessionService struct {
	logger *slog.Logger

	sessions sessionRepo
	chat     chatCleaner
	words    wordSource

	maxAttempts int
	locks       *sessionLocks
}

func NewSessionService(logger *slog.Logger, sessions sessionRepo, chat chatCleaner, words wordSource, maxAttempts int) SessionService {
	return &sessionService{
		logger:      logger,
		sessions:    sessions,
		chat:        chat,
		words:       words,
		maxAttempts: maxAttempts,
		locks:       newSessionLocks(),
	}
}

// Create allocates a new waiting session with a fresh word and registers
// the host as the first player at turn order 0.
func (that *sessionService) Create(ctx context.Context, hostName string) (*entity.Session, *entity.Player, error) {
	word, err := that.words.NextWord(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to draw a word: %w", err)
	}

	code, err := that.uniqueCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	session := &entity.Session{
		ID:               pkg.GenerateNewSessionID(),
		Code:             code,
		Word:             strings.ToUpper(word),
		Status:           entity.StatusWaiting,
		AttemptsLeft:     that.maxAttempts,
		MaxAttempts:      that.maxAttempts,
		GuessedLetters:   []string{},
		IncorrectGuesses: []string{},
		CreatedAt:        now,
		LastActivity:     now,
	}

	host := game.AddPlayer(session, uuid.NewString(), hostName)
	host.IsHost = true

	if err = that.sessions.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "code", session.Code)

	return session, host, nil
}

// Join adds a player to a waiting session. Display names must be unique
// among connected players; the match is exact and case-sensitive.
func (that *sessionService) Join(ctx context.Context, code, name string) (*entity.Session, *entity.Player, error) {
	session, err := that.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	unlock := that.locks.Lock(session.ID)
	defer unlock()

	session, err = that.GetByID(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}

	if session.Closing {
		return nil, nil, apperror.ErrSessionClosing
	}

	if !session.IsWaiting() {
		return nil, nil, apperror.ErrGameInProgress
	}

	for _, player := range session.ConnectedPlayers() {
		if player.Name == name {
			return nil, nil, apperror.ErrNameTaken
		}
	}

	player := game.AddPlayer(session, uuid.NewString(), name)

	session.Touch(time.Now())
	if err = that.sessions.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("player joined", "sessionID", session.ID, "playerID", player.ID)

	return session, player, nil
}

func (that *sessionService) Start(ctx context.Context, sessionID string, maxAttempts int) (*entity.Session, error) {
	unlock := that.locks.Lock(sessionID)
	defer unlock()

	session, err := that.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Closing {
		return nil, apperror.ErrSessionClosing
	}

	if !session.IsWaiting() {
		return nil, apperror.ErrAlreadyStarted
	}

	if len(session.ConnectedPlayers()) == 0 {
		return nil, apperror.ErrNoPlayers
	}

	if maxAttempts <= 0 {
		maxAttempts = that.maxAttempts
	}

	now := time.Now()
	session.Status = entity.StatusPlaying
	session.MaxAttempts = maxAttempts
	session.AttemptsLeft = maxAttempts
	session.StartedAt = &now

	session.Touch(now)
	if err = that.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("game started", "sessionID", session.ID, "maxAttempts", maxAttempts)

	return session, nil
}

func (that *sessionService) Guess(ctx context.Context, sessionID, playerID, letter string) (*entity.Session, *game.Result, error) {
	unlock := that.locks.Lock(sessionID)
	defer unlock()

	session, err := that.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if session.Closing {
		return nil, nil, apperror.ErrSessionClosing
	}

	result, err := game.ApplyGuess(session, playerID, letter)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if session.IsFinished() {
		session.FinishedAt = &now
	}

	session.Touch(now)
	if err = that.sessions.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, result, nil
}

// Reset starts a fresh round in a finished session: new word, cleared
// guess sets, full attempts, turn back to the first player.
func (that *sessionService) Reset(ctx context.Context, sessionID string) (*entity.Session, error) {
	unlock := that.locks.Lock(sessionID)
	defer unlock()

	session, err := that.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Closing {
		return nil, apperror.ErrSessionClosing
	}

	if !session.IsFinished() {
		return nil, apperror.ErrNotFinished
	}

	word, err := that.words.NextWord(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to draw a word: %w", err)
	}

	session.Word = strings.ToUpper(word)
	session.Status = entity.StatusWaiting
	session.AttemptsLeft = session.MaxAttempts
	session.CurrentTurnIndex = 0
	session.GuessedLetters = []string{}
	session.IncorrectGuesses = []string{}
	session.LastGuess = nil
	session.StartedAt = nil
	session.FinishedAt = nil

	session.Touch(time.Now())
	if err = that.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session reset", "sessionID", session.ID)

	return session, nil
}

// Leave removes a player. A leaving host marks the whole session closing;
// the transport notifies everyone and then calls Teardown. Once closing is
// set, every other mutation is rejected, so teardown can't race a write.
func (that *sessionService) Leave(ctx context.Context, sessionID, playerID string) (*LeaveResult, error) {
	unlock := that.locks.Lock(sessionID)
	defer unlock()

	session, err := that.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	player := session.PlayerByID(playerID)
	if player == nil {
		return nil, apperror.ErrUnknownPlayer
	}

	now := time.Now()

	if player.IsHost {
		session.Closing = true
		session.Touch(now)
		if err = that.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}

		return &LeaveResult{Session: session, Player: player, HostLeft: true}, nil
	}

	game.RemovePlayer(session, playerID)

	session.Touch(now)
	if err = that.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("player left", "sessionID", session.ID, "playerID", playerID)

	return &LeaveResult{
		Session: session,
		Player:  player,
		Empty:   len(session.ConnectedPlayers()) == 0,
	}, nil
}

// Teardown removes the session and everything derived from it.
func (that *sessionService) Teardown(ctx context.Context, sessionID string) error {
	if err := that.chat.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}

	if err := that.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.locks.Forget(sessionID)

	that.logger.Info("session deleted", "sessionID", sessionID)

	return nil
}

func (that *sessionService) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, apperror.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *sessionService) GetByCode(ctx context.Context, code string) (*entity.Session, error) {
	session, err := that.sessions.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, apperror.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ReapStale deletes sessions idle for longer than threshold. Every
// candidate is re-checked under its lock directly before deletion so the
// sweep never races a live mutation.
func (that *sessionService) ReapStale(ctx context.Context, threshold time.Duration, notify func(session *entity.Session)) (int, error) {
	now := time.Now()

	candidates, err := that.sessions.ListStale(ctx, threshold, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	reaped := 0
	for _, candidate := range candidates {
		unlock := that.locks.Lock(candidate.ID)

		session, err := that.sessions.GetByID(ctx, candidate.ID)
		if errors.Is(err, repository.ErrSessionNotFound) {
			unlock()
			continue
		}

		if err != nil {
			unlock()
			return reaped, fmt.Errorf("failed to re-check session: %w", err)
		}

		if now.Sub(session.LastActivity) <= threshold {
			unlock()
			continue
		}

		if notify != nil {
			notify(session)
		}

		if err = that.chat.Clear(ctx, session.ID); err != nil {
			unlock()
			return reaped, fmt.Errorf("failed to clear chat history: %w", err)
		}

		if err = that.sessions.DeleteByID(ctx, session.ID); err != nil {
			unlock()
			return reaped, fmt.Errorf("failed to delete session: %w", err)
		}

		unlock()
		that.locks.Forget(session.ID)
		reaped++

		that.logger.Info("stale session reaped", "sessionID", session.ID)
	}

	return reaped, nil
}

func (that *sessionService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code := pkg.GenerateSessionCode()
		if code == "" {
			continue
		}

		_, err := that.sessions.GetByCode(ctx, code)
		if errors.Is(err, repository.ErrSessionNotFound) {
			return code, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
	}

	return "", ErrNoUniqueCode
}
