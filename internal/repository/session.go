package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository - stores sessions as JSON under session:<id>. A zero ttl keeps them forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (that *dbSession) Save(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	if err = that.client.Set(ctx, sessionKey(session.ID), sessionJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	return getSession(ctx, that.client, id)
}

// Update loads the session, applies fn and writes the result back in one optimistic
// transaction. If the key changes in between, nothing is written and
// ErrConcurrentUpdate is returned.
func (that *dbSession) Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	key := sessionKey(id)

	var updated *entity.Session

	txf := func(tx *redis.Tx) error {
		session, err := getSession(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = fn(session); err != nil {
			return err
		}

		sessionJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err //nolint: wrapcheck // TxFailedErr is matched below
		}

		updated = session

		return nil
	}

	err := that.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, apperror.ErrConcurrentUpdate
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return updated, nil
}

func getSession(ctx context.Context, client getter, id string) (*entity.Session, error) {
	response, err := client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}
