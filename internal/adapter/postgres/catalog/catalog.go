package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	domaincatalog "github.com/alanyang/agent-marketplace/internal/domain/catalog"
	"github.com/alanyang/agent-marketplace/internal/domain/result"
	portcatalog "github.com/alanyang/agent-marketplace/internal/port/catalog"
)

var _ portcatalog.Source = (*Source)(nil)

// Source reads the catalog from the marketplace_* tables.
type Source struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

func (s *Source) Name() string { return "postgres" }

func (s *Source) Load(ctx context.Context) (domaincatalog.Data, error) {
	var d domaincatalog.Data

	agents, err := s.listAgents(ctx)
	if err != nil {
		return d, err
	}
	d.Agents = agents

	mocks, err := s.listMockResponses(ctx)
	if err != nil {
		return d, err
	}
	d.MockResponses = mocks
	return d, nil
}

func (s *Source) listAgents(ctx context.Context) ([]domainagent.Agent, error) {
	query := `
		SELECT id, name, description, tags, icon, category,
			popularity_score, usage_count, result_kind, sample_prompts
		FROM marketplace_agents
		ORDER BY position, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying agents: %w", err)
	}
	defer rows.Close()

	agents := []domainagent.Agent{}
	for rows.Next() {
		var (
			a          domainagent.Agent
			icon, kind string
		)
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Description, &a.Tags, &icon, &a.Category,
			&a.PopularityScore, &a.UsageCount, &kind, &a.SamplePrompts,
		); err != nil {
			return nil, fmt.Errorf("scanning agent: %w", err)
		}
		a.Icon = domainagent.ParseIcon(icon)
		a.ResultKind = result.ParseKind(kind)
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agents: %w", err)
	}
	return agents, nil
}

func (s *Source) listMockResponses(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.pool.Query(ctx, `SELECT agent_id, payload FROM marketplace_mock_responses`)
	if err != nil {
		return nil, fmt.Errorf("querying mock responses: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning mock response: %w", err)
		}
		out[id] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mock responses: %w", err)
	}
	return out, nil
}

// Seed replaces the stored catalog with d in a single transaction. Mock
// responses are keyed by agent id but need not match a listed agent.
func (s *Source) Seed(ctx context.Context, d domaincatalog.Data) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM marketplace_mock_responses`); err != nil {
			return fmt.Errorf("clearing mock responses: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM marketplace_agents`); err != nil {
			return fmt.Errorf("clearing agents: %w", err)
		}

		for i, a := range d.Agents {
			tags := a.Tags
			if tags == nil {
				tags = []string{}
			}
			prompts := a.SamplePrompts
			if prompts == nil {
				prompts = []string{}
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO marketplace_agents (id, position, name, description, tags, icon,
					category, popularity_score, usage_count, result_kind, sample_prompts)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
				a.ID, i, a.Name, a.Description, tags, string(a.Icon),
				a.Category, a.PopularityScore, a.UsageCount, string(a.Kind()), prompts,
			); err != nil {
				return fmt.Errorf("inserting agent %s: %w", a.ID, err)
			}
		}

		for id, payload := range d.MockResponses {
			if _, err := tx.Exec(ctx,
				`INSERT INTO marketplace_mock_responses (agent_id, payload) VALUES ($1, $2)`,
				id, []byte(payload),
			); err != nil {
				return fmt.Errorf("inserting mock response %s: %w", id, err)
			}
		}
		return nil
	})
}
