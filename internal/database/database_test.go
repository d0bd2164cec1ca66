package database

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

func openTestDB(t *testing.T) (*sql.DB, *Queries) {
	t.Helper()
	db, queries, err := OpenDB(MemoryDSN)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, queries
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db, _ := openTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	migrations, err := listMigrations()
	if err != nil {
		t.Fatalf("listMigrations() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("expected %d applied migrations, got %d", len(migrations), count)
	}

	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].version >= migrations[i].version {
			t.Errorf("migrations not sorted: %v before %v", migrations[i-1], migrations[i])
		}
	}
}

func TestSettingsUpsert(t *testing.T) {
	_, q := openTestDB(t)
	ctx := context.Background()

	if _, err := q.GetSetting(ctx, "server_url"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows for missing setting, got %v", err)
	}

	for _, value := range []string{"http://a:5000", "http://b:5000"} {
		if err := q.SetSetting(ctx, SetSettingParams{Key: "server_url", Value: value}); err != nil {
			t.Fatalf("SetSetting() error = %v", err)
		}
	}

	setting, err := q.GetSetting(ctx, "server_url")
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if setting.Value != "http://b:5000" {
		t.Errorf("expected last value to win, got %q", setting.Value)
	}
}

func TestURLHistoryCountsResubmissions(t *testing.T) {
	_, q := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 4, 8, 12, 0, 0, 0, time.UTC)

	submissions := []string{
		"https://www.youtube.com/watch?v=aaa",
		"https://www.youtube.com/watch?v=bbb",
		"https://www.youtube.com/watch?v=aaa",
	}
	for i, u := range submissions {
		err := q.AddURLHistory(ctx, AddURLHistoryParams{UrlText: u, SubmittedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("AddURLHistory(%q) error = %v", u, err)
		}
	}

	history, err := q.GetRecentURLHistory(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentURLHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", len(history))
	}
	if history[0].UrlText != submissions[0] {
		t.Errorf("expected most recent entry first, got %q", history[0].UrlText)
	}
	if history[0].SubmitCount != 2 {
		t.Errorf("expected submit count 2, got %d", history[0].SubmitCount)
	}
}

func TestLogMessages(t *testing.T) {
	_, q := openTestDB(t)
	ctx := context.Background()

	for _, msg := range []string{"first", "second"} {
		err := q.CreateLogMessage(ctx, CreateLogMessageParams{
			Level:     "INFO",
			Message:   msg,
			Timestamp: sql.NullTime{Time: time.Now(), Valid: true},
		})
		if err != nil {
			t.Fatalf("CreateLogMessage() error = %v", err)
		}
	}

	logs, err := q.GetLogMessages(ctx, 1)
	if err != nil {
		t.Fatalf("GetLogMessages() error = %v", err)
	}
	if len(logs) != 1 || logs[0].Message != "second" {
		t.Fatalf("expected newest message only, got %+v", logs)
	}

	if err := q.DeleteAllLogMessages(ctx); err != nil {
		t.Fatalf("DeleteAllLogMessages() error = %v", err)
	}
	logs, err = q.GetLogMessages(ctx, 10)
	if err != nil {
		t.Fatalf("GetLogMessages() error = %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected no logs after delete, got %d", len(logs))
	}
}
