package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/domain/repository"
)

// PostgresSnapshotStore persists full sync results to Postgres.
// Each run writes one snapshot row plus its position and sentiment rows
// inside a single transaction.
type PostgresSnapshotStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshotStore creates the Postgres-backed persistence gateway.
func NewPostgresSnapshotStore(pool *pgxpool.Pool) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{pool: pool}
}

var _ repository.PersistenceGateway = (*PostgresSnapshotStore)(nil)

// Init creates the schema if missing.
func (s *PostgresSnapshotStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			run_id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			account JSONB,
			errors JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_user_time
			ON portfolio_snapshots (user_id, completed_at DESC)`,
		`CREATE TABLE IF NOT EXISTS snapshot_positions (
			run_id UUID NOT NULL REFERENCES portfolio_snapshots (run_id) ON DELETE CASCADE,
			ord INT NOT NULL,
			symbol TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL,
			average_price DOUBLE PRECISION NOT NULL,
			current_price DOUBLE PRECISION NOT NULL,
			market_value DOUBLE PRECISION NOT NULL,
			unrealized_pnl DOUBLE PRECISION NOT NULL,
			unrealized_pnl_pct DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, ord)
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_sentiment (
			run_id UUID NOT NULL REFERENCES portfolio_snapshots (run_id) ON DELETE CASCADE,
			symbol TEXT NOT NULL,
			news_count INT NOT NULL,
			vader_score DOUBLE PRECISION NOT NULL,
			textblob_polarity DOUBLE PRECISION NOT NULL,
			textblob_subjectivity DOUBLE PRECISION NOT NULL,
			overall_score DOUBLE PRECISION NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, symbol)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init snapshot schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresSnapshotStore) Write(ctx context.Context, result *models.AggregateResult) error {
	accountJSON, err := marshalNullable(result.Account)
	if err != nil {
		return storageErr(err)
	}
	errorsJSON, err := json.Marshal(result.Errors)
	if err != nil {
		return storageErr(err)
	}
	if result.Errors == nil {
		errorsJSON = []byte("[]")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storageErr(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO portfolio_snapshots (run_id, user_id, completed_at, account, errors)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.RunID, result.UserID, result.CompletedAt, accountJSON, errorsJSON,
	)
	if err != nil {
		return storageErr(err)
	}

	for i, p := range result.Positions {
		_, err = tx.Exec(ctx,
			`INSERT INTO snapshot_positions
			 (run_id, ord, symbol, quantity, average_price, current_price, market_value, unrealized_pnl, unrealized_pnl_pct)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			result.RunID, i, p.Symbol, p.Quantity, p.AveragePrice, p.CurrentPrice,
			p.MarketValue, p.UnrealizedPnL, p.UnrealizedPnLPct,
		)
		if err != nil {
			return storageErr(err)
		}
	}

	for _, symbol := range result.SymbolsInOrder() {
		rec, ok := result.Sentiments[symbol]
		if !ok {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO snapshot_sentiment
			 (run_id, symbol, news_count, vader_score, textblob_polarity, textblob_subjectivity, overall_score, computed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			result.RunID, rec.Symbol, rec.NewsCount, rec.VaderScore, rec.TextBlobPolarity,
			rec.TextBlobSubjectivity, rec.OverallScore, rec.ComputedAt,
		)
		if err != nil {
			return storageErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *PostgresSnapshotStore) ReadLatest(ctx context.Context, userID string) (*models.AggregateResult, error) {
	result := &models.AggregateResult{UserID: userID}

	var accountJSON, errorsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, completed_at, account, errors
		 FROM portfolio_snapshots
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT 1`, userID,
	).Scan(&result.RunID, &result.CompletedAt, &accountJSON, &errorsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewFetchError("storage", models.ErrNotFound, fmt.Errorf("no snapshot for user %s", userID))
	}
	if err != nil {
		return nil, storageErr(err)
	}

	if len(accountJSON) > 0 {
		var account models.AccountSummary
		if err := json.Unmarshal(accountJSON, &account); err != nil {
			return nil, storageErr(err)
		}
		result.Account = &account
	}
	if len(errorsJSON) > 0 {
		if err := json.Unmarshal(errorsJSON, &result.Errors); err != nil {
			return nil, storageErr(err)
		}
	}

	rows, err := s.pool.Query(ctx,
		`SELECT symbol, quantity, average_price, current_price, market_value, unrealized_pnl, unrealized_pnl_pct
		 FROM snapshot_positions WHERE run_id = $1 ORDER BY ord`, result.RunID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.PositionRecord
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.AveragePrice, &p.CurrentPrice,
			&p.MarketValue, &p.UnrealizedPnL, &p.UnrealizedPnLPct); err != nil {
			return nil, storageErr(err)
		}
		result.Positions = append(result.Positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	srows, err := s.pool.Query(ctx,
		`SELECT symbol, news_count, vader_score, textblob_polarity, textblob_subjectivity, overall_score, computed_at
		 FROM snapshot_sentiment WHERE run_id = $1`, result.RunID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer srows.Close()
	result.Sentiments = make(map[string]models.SentimentRecord)
	for srows.Next() {
		var rec models.SentimentRecord
		if err := srows.Scan(&rec.Symbol, &rec.NewsCount, &rec.VaderScore, &rec.TextBlobPolarity,
			&rec.TextBlobSubjectivity, &rec.OverallScore, &rec.ComputedAt); err != nil {
			return nil, storageErr(err)
		}
		result.Sentiments[rec.Symbol] = rec
	}
	if err := srows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return result, nil
}

func marshalNullable(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if acc, ok := v.(*models.AccountSummary); ok && acc == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func storageErr(err error) error {
	return models.NewFetchError("storage", models.ErrStorageFailure, err)
}
