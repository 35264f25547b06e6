package repository

import (
	"context"
	"fmt"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// ListAgents returns the roster with the featured agents first.
func (s *PGXStore) ListAgents(ctx context.Context) ([]entity.Agent, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, name, title, bio, email, image_url, credentials, created_at
        FROM agents
        ORDER BY created_at ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]entity.Agent, 0)
	for rows.Next() {
		var a entity.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Title, &a.Bio, &a.Email, &a.ImageURL, &a.Credentials, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		if a.Credentials == nil {
			a.Credentials = []string{}
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}

	sortRoster(agents)
	return agents, nil
}

// EnsureAgent inserts the agent keyed by email and reports whether a row was created.
func (s *PGXStore) EnsureAgent(ctx context.Context, in entity.NewAgent) (bool, error) {
	credentials := in.Credentials
	if credentials == nil {
		credentials = []string{}
	}
	cmd, err := s.pool.Exec(ctx, `
        INSERT INTO agents (name, title, bio, email, image_url, credentials)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email) DO NOTHING`,
		in.Name, in.Title, in.Bio, in.Email, in.ImageURL, credentials)
	if err != nil {
		return false, fmt.Errorf("ensure agent: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
