package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionKeyPrefix = "session:"
	codeKeyPrefix    = "session:code:"
	sessionSetKey    = "sessions"
)

type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetByCode(ctx context.Context, code string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	ListStale(ctx context.Context, threshold time.Duration, now time.Time) ([]*entity.Session, error)
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) Save(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	sessionKey := sessionKeyPrefix + session.ID
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	codeKey := codeKeyPrefix + strings.ToUpper(session.Code)
	if err = that.client.Set(ctx, codeKey, session.ID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set code index: %w", err)
	}

	if err = that.client.SAdd(ctx, sessionSetKey, session.ID).Err(); err != nil {
		return fmt.Errorf("failed to register session id: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// GetByCode resolves the human-shareable join code, case-insensitively.
func (that *dbSession) GetByCode(ctx context.Context, code string) (*entity.Session, error) {
	id, err := that.client.Get(ctx, codeKeyPrefix+strings.ToUpper(code)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve session code: %w", err)
	}

	return that.GetByID(ctx, id)
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	session, err := that.GetByID(ctx, id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	if session != nil {
		if err = that.client.Del(ctx, codeKeyPrefix+strings.ToUpper(session.Code)).Err(); err != nil {
			return fmt.Errorf("failed to delete code index: %w", err)
		}
	}

	if err = that.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err = that.client.SRem(ctx, sessionSetKey, id).Err(); err != nil {
		return fmt.Errorf("failed to unregister session id: %w", err)
	}

	return nil
}

// ListStale returns sessions whose last activity is older than threshold.
// Ids in the registry whose blob is already gone are cleaned up on the way.
func (that *dbSession) ListStale(ctx context.Context, threshold time.Duration, now time.Time) ([]*entity.Session, error) {
	ids, err := that.client.SMembers(ctx, sessionSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list session ids: %w", err)
	}

	var stale []*entity.Session

	for _, id := range ids {
		session, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			if remErr := that.client.SRem(ctx, sessionSetKey, id).Err(); remErr != nil {
				return nil, fmt.Errorf("failed to drop orphaned session id: %w", remErr)
			}
			continue
		}

		if err != nil {
			return nil, err
		}

		if now.Sub(session.LastActivity) > threshold {
			stale = append(stale, session)
		}
	}

	return stale, nil
}
