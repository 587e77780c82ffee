package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/metrics"
)

// Schema создаёт таблицы запусков и найденных возможностей.
const Schema = `
CREATE TABLE IF NOT EXISTS lead_runs (
	id          UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	total       INT NOT NULL
);
CREATE TABLE IF NOT EXISTS lead_opportunities (
	run_id       UUID NOT NULL REFERENCES lead_runs(id) ON DELETE CASCADE,
	url          TEXT NOT NULL,
	subreddit    TEXT NOT NULL,
	intent       TEXT NOT NULL,
	score        INT NOT NULL,
	include_link BOOLEAN NOT NULL,
	posted_at    TIMESTAMPTZ NOT NULL,
	payload      JSONB NOT NULL,
	PRIMARY KEY (run_id, url)
);
CREATE INDEX IF NOT EXISTS lead_opportunities_score_idx ON lead_opportunities (run_id, score DESC);
`

// Postgres реализует domain.OpportunityRepo на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.OpportunityRepo = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицы, если их ещё нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, Schema)
	metrics.ObserveNetworkRequest("postgres", "ensure_schema", "lead_runs", start, err)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type opportunityRow struct {
	URL         string
	Subreddit   string
	Intent      string
	Score       int
	IncludeLink bool
	PostedAt    time.Time
	Payload     []byte
}

func toRow(opp domain.Opportunity) (opportunityRow, error) {
	payload, err := json.Marshal(opp)
	if err != nil {
		return opportunityRow{}, fmt.Errorf("marshal opportunity: %w", err)
	}
	return opportunityRow{
		URL:         opp.URL,
		Subreddit:   opp.Subreddit,
		Intent:      string(opp.Score.Intent),
		Score:       opp.Score.TotalScore,
		IncludeLink: opp.IncludeLink,
		PostedAt:    opp.CreatedAt,
		Payload:     payload,
	}, nil
}

func fromPayload(payload []byte) (domain.Opportunity, error) {
	var opp domain.Opportunity
	if err := json.Unmarshal(payload, &opp); err != nil {
		return domain.Opportunity{}, fmt.Errorf("decode opportunity: %w", err)
	}
	if opp.RiskFlags == nil {
		opp.RiskFlags = domain.NewRiskFlagSet()
	}
	return opp, nil
}

// SaveRun сохраняет запуск и его возможности в одной транзакции.
func (p *Postgres) SaveRun(ctx context.Context, run domain.Run) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	metrics.ObserveNetworkRequest("postgres", "begin_tx", "lead_runs", start, err)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	start = time.Now()
	_, err = tx.Exec(ctx, `
INSERT INTO lead_runs (id, started_at, finished_at, total)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET finished_at=EXCLUDED.finished_at, total=EXCLUDED.total
`, run.ID, run.StartedAt, run.FinishedAt, len(run.Opportunities))
	metrics.ObserveNetworkRequest("postgres", "lead_runs_insert", "lead_runs", start, err)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, opp := range run.Opportunities {
		row, err := toRow(opp)
		if err != nil {
			return err
		}
		batch.Queue(`
INSERT INTO lead_opportunities (run_id, url, subreddit, intent, score, include_link, posted_at, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id, url) DO NOTHING
`, run.ID, row.URL, row.Subreddit, row.Intent, row.Score, row.IncludeLink, row.PostedAt, row.Payload)
	}
	if batch.Len() > 0 {
		start = time.Now()
		err = tx.SendBatch(ctx, batch).Close()
		metrics.ObserveNetworkRequest("postgres", "lead_opportunities_insert", "lead_opportunities", start, err)
		if err != nil {
			return fmt.Errorf("insert opportunities: %w", err)
		}
	}

	start = time.Now()
	err = tx.Commit(ctx)
	metrics.ObserveNetworkRequest("postgres", "commit", "lead_runs", start, err)
	return err
}

// ListLatest возвращает возможности последнего запуска по убыванию оценки.
func (p *Postgres) ListLatest(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	if limit <= 0 {
		limit = 25
	}

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT o.payload
FROM lead_opportunities o
WHERE o.run_id = (SELECT id FROM lead_runs ORDER BY started_at DESC LIMIT 1)
ORDER BY o.score DESC, o.posted_at DESC
LIMIT $1
`, limit)
	metrics.ObserveNetworkRequest("postgres", "lead_opportunities_list_latest", "lead_opportunities", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Opportunity
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		opp, err := fromPayload(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, opp)
	}
	return out, rows.Err()
}
