package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGXStore keeps sessions in the sessions table (sid, sess jsonb, expire).
type PGXStore struct {
	pool pgxPool
}

// NewPGXStore wires a session store on a pgx pool.
func NewPGXStore(pool pgxPool) *PGXStore {
	return &PGXStore{pool: pool}
}

func (s *PGXStore) Save(ctx context.Context, sess Session) error {
	payload, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
        INSERT INTO sessions (sid, sess, expire)
        VALUES ($1, $2, $3)
        ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`,
		sess.ID, payload, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PGXStore) Get(ctx context.Context, id string) (*Session, error) {
	var payload []byte
	sess := Session{ID: id}
	err := s.pool.QueryRow(ctx, `SELECT sess, expire FROM sessions WHERE sid = $1`, id).Scan(&payload, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	if err := json.Unmarshal(payload, &sess.Data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *PGXStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE sid = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PGXStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expire <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}
