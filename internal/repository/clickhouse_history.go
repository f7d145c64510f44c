package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/domain/repository"
)

const sentimentHistoryDDL = `CREATE TABLE IF NOT EXISTS sentiment_history (
	run_id String,
	symbol String,
	news_count UInt32,
	vader_score Float64,
	textblob_polarity Float64,
	textblob_subjectivity Float64,
	overall_score Float64,
	computed_at DateTime64(3, 'UTC')
) ENGINE = MergeTree()
ORDER BY (symbol, computed_at)`

// ClickHouseSentimentHistory appends per-run sentiment rows to ClickHouse
// for long-range trend queries.
type ClickHouseSentimentHistory struct {
	db *sql.DB
}

// NewClickHouseSentimentHistory creates the ClickHouse-backed history store.
func NewClickHouseSentimentHistory(db *sql.DB) repository.SentimentHistory {
	return &ClickHouseSentimentHistory{db: db}
}

// SchemaDDL returns the table definition for pkg-level schema init.
func SchemaDDL() string {
	return sentimentHistoryDDL
}

func (h *ClickHouseSentimentHistory) Append(ctx context.Context, runID string, records []models.SentimentRecord) error {
	if len(records) == 0 {
		return nil
	}

	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*8)
	for _, rec := range records {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			runID,
			rec.Symbol,
			uint32(rec.NewsCount),
			rec.VaderScore,
			rec.TextBlobPolarity,
			rec.TextBlobSubjectivity,
			rec.OverallScore,
			rec.ComputedAt,
		)
	}

	q := fmt.Sprintf(
		"INSERT INTO sentiment_history (run_id, symbol, news_count, vader_score, textblob_polarity, textblob_subjectivity, overall_score, computed_at) VALUES %s",
		strings.Join(values, ","),
	)
	if _, err := h.db.ExecContext(ctx, q, args...); err != nil {
		return models.NewFetchError("clickhouse", models.ErrStorageFailure, err)
	}
	return nil
}
