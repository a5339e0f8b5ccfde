package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verte-zerg/typetest/internal/model"
)

const ddlTypingResults = `
CREATE TABLE IF NOT EXISTS typing_results (
    id              UUID         PRIMARY KEY,
    user_id         TEXT         NOT NULL,
    wpm             INTEGER      NOT NULL,
    raw_wpm         INTEGER      NOT NULL,
    accuracy        NUMERIC(5,2) NOT NULL,
    test_mode       TEXT         NOT NULL,
    test_duration   INTEGER      NOT NULL,
    word_count      INTEGER,
    correct_chars   INTEGER      NOT NULL,
    incorrect_chars INTEGER      NOT NULL,
    created_at      TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_typing_results_wpm
    ON typing_results (test_mode, test_duration, wpm DESC);
`

// Remote publishes results to a shared PostgreSQL typing_results table.
type Remote struct {
	pool *pgxpool.Pool
}

// OpenRemote connects to dsn and ensures the results table exists.
func OpenRemote(ctx context.Context, dsn string) (*Remote, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("remote store: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("remote store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("remote store: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, ddlTypingResults); err != nil {
		pool.Close()
		return nil, fmt.Errorf("remote store: migrate: %w", err)
	}
	return &Remote{pool: pool}, nil
}

// Close releases the connection pool.
func (r *Remote) Close() {
	r.pool.Close()
}

// Submit inserts one row for res.
func (r *Remote) Submit(ctx context.Context, res model.Result) error {
	row := remoteRowFor(res)
	_, err := r.pool.Exec(ctx,
		`INSERT INTO typing_results (id, user_id, wpm, raw_wpm, accuracy, test_mode, test_duration, word_count, correct_chars, incorrect_chars, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		row.ID, row.UserID, row.WPM, row.RawWPM, row.Accuracy, row.TestMode,
		row.TestDuration, row.WordCount, row.CorrectChars, row.IncorrectChars, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("remote store: insert result: %w", err)
	}
	return nil
}

// remoteRow is the leaderboard shape of a result: integer speeds, accuracy
// to two decimals and a duration column that holds the time limit for timed
// tests and the rounded elapsed seconds otherwise.
type remoteRow struct {
	ID             uuid.UUID
	UserID         string
	WPM            int
	RawWPM         int
	Accuracy       float64
	TestMode       string
	TestDuration   int
	WordCount      *int
	CorrectChars   int
	IncorrectChars int
	CreatedAt      time.Time
}

func remoteRowFor(res model.Result) remoteRow {
	id, err := uuid.Parse(res.ID)
	if err != nil {
		id = uuid.New()
	}
	row := remoteRow{
		ID:             id,
		UserID:         res.User,
		WPM:            int(math.Round(res.WPM)),
		RawWPM:         int(math.Round(res.RawWPM)),
		Accuracy:       math.Round(res.Accuracy*100) / 100,
		TestMode:       string(res.Mode),
		TestDuration:   int(math.Round(res.Elapsed)),
		CorrectChars:   res.Correct,
		IncorrectChars: res.Incorrect,
		CreatedAt:      res.EndedAt.UTC(),
	}
	switch res.Mode {
	case model.ModeTime:
		row.TestDuration = res.ModeLimit
	case model.ModeWords:
		count := res.ModeLimit
		row.WordCount = &count
	}
	return row
}
