package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestRemoteRowForTimedResult(t *testing.T) {
	res := model.Result{
		ID:        "6f1c7a52-8a9c-4a57-9d37-0c5c8d4f1e2a",
		User:      "ana",
		Mode:      model.ModeTime,
		ModeLimit: 60,
		WPM:       71.5,
		RawWPM:    80.49,
		Accuracy:  96.456,
		Correct:   358,
		Incorrect: 12,
		Elapsed:   60,
		EndedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	row := remoteRowFor(res)
	if row.ID.String() != res.ID {
		t.Fatalf("expected id to be kept, got %s", row.ID)
	}
	if row.WPM != 72 || row.RawWPM != 80 {
		t.Fatalf("expected rounded speeds, got %d/%d", row.WPM, row.RawWPM)
	}
	if row.Accuracy != 96.46 {
		t.Fatalf("expected accuracy 96.46, got %v", row.Accuracy)
	}
	if row.TestDuration != 60 || row.WordCount != nil {
		t.Fatalf("expected duration=limit and no word count, got %d %v", row.TestDuration, row.WordCount)
	}
}

func TestRemoteRowForWordsAndQuote(t *testing.T) {
	words := remoteRowFor(model.Result{ID: "not-a-uuid", Mode: model.ModeWords, ModeLimit: 25, Elapsed: 41.6})
	if words.WordCount == nil || *words.WordCount != 25 {
		t.Fatalf("expected word count 25, got %v", words.WordCount)
	}
	if words.TestDuration != 42 {
		t.Fatalf("expected rounded elapsed 42, got %d", words.TestDuration)
	}
	if words.ID == uuid.Nil {
		t.Fatalf("expected generated id for invalid input")
	}
	quote := remoteRowFor(model.Result{Mode: model.ModeQuote, Elapsed: 12.2})
	if quote.WordCount != nil || quote.TestDuration != 12 || quote.TestMode != "quote" {
		t.Fatalf("unexpected quote row: %+v", quote)
	}
}

func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TYPETEST_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TYPETEST_TEST_POSTGRES_DSN not set; skipping PostgreSQL integration tests")
	}
	return dsn
}

func TestRemoteSubmitIntegration(t *testing.T) {
	dsn := testDSN(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS typing_results"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	remote, err := OpenRemote(ctx, dsn)
	if err != nil {
		t.Fatalf("open remote: %v", err)
	}
	t.Cleanup(remote.Close)

	res := model.Result{
		ID:        uuid.NewString(),
		User:      "ana",
		Mode:      model.ModeWords,
		ModeLimit: 10,
		WPM:       55.4,
		RawWPM:    60.2,
		Accuracy:  97.5,
		Correct:   50,
		Incorrect: 1,
		Elapsed:   11.3,
		EndedAt:   time.Now(),
	}
	if err := remote.Submit(ctx, res); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var wpm, duration, wordCount int
	err = pool.QueryRow(ctx, "SELECT wpm, test_duration, word_count FROM typing_results WHERE id = $1", uuid.MustParse(res.ID)).
		Scan(&wpm, &duration, &wordCount)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if wpm != 55 || duration != 11 || wordCount != 10 {
		t.Fatalf("unexpected stored row: wpm=%d duration=%d words=%d", wpm, duration, wordCount)
	}
}
