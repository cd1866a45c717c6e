package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 2; i++ {
		database, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		var n int
		if err := database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if n != 1 {
			t.Errorf("applied migrations = %d, want 1", n)
		}
		database.Close()
	}
}

func TestClipLifecycle_Complete(t *testing.T) {
	database := openTestDB(t)

	id, err := InsertClip(database, NewClip{
		InputPath:    "/videos/match.mp4",
		OutputPath:   "downloads/match_clip_01-30_to_03-00.mp4",
		StartSeconds: 90,
		EndSeconds:   180,
		AudioCodec:   "auto",
		Command:      "ffmpeg -i /videos/match.mp4",
	}, time.Now())
	if err != nil {
		t.Fatalf("InsertClip: %v", err)
	}

	c, err := SelectClipByID(database, id)
	if err != nil {
		t.Fatalf("SelectClipByID: %v", err)
	}
	if c.Status != StatusProcessing {
		t.Errorf("Status = %q, want %q", c.Status, StatusProcessing)
	}
	if c.Filesize != nil {
		t.Errorf("Filesize = %v, want nil before completion", *c.Filesize)
	}
	if c.Duration() != 90 {
		t.Errorf("Duration() = %v, want 90", c.Duration())
	}

	if err := MarkClipComplete(database, id, time.Now(), 2048, true); err != nil {
		t.Fatalf("MarkClipComplete: %v", err)
	}

	c, err = SelectClipByID(database, id)
	if err != nil {
		t.Fatalf("SelectClipByID: %v", err)
	}
	if c.Status != StatusComplete {
		t.Errorf("Status = %q, want %q", c.Status, StatusComplete)
	}
	if c.Filesize == nil || *c.Filesize != 2048 {
		t.Errorf("Filesize = %v, want 2048", c.Filesize)
	}
	if !c.UsedFallback {
		t.Error("UsedFallback = false, want true")
	}
	if c.FinishedAt == nil {
		t.Error("FinishedAt = nil, want set")
	}
	if c.Command != "ffmpeg -i /videos/match.mp4" {
		t.Errorf("Command = %q", c.Command)
	}
}

func TestClipLifecycle_UnknownSize(t *testing.T) {
	database := openTestDB(t)

	id, err := InsertClip(database, NewClip{InputPath: "a.mp4", OutputPath: "b.mp4", StartSeconds: 0, EndSeconds: 5, AudioCodec: "copy"}, time.Now())
	if err != nil {
		t.Fatalf("InsertClip: %v", err)
	}
	if err := MarkClipComplete(database, id, time.Now(), -1, false); err != nil {
		t.Fatalf("MarkClipComplete: %v", err)
	}
	c, err := SelectClipByID(database, id)
	if err != nil {
		t.Fatalf("SelectClipByID: %v", err)
	}
	if c.Filesize != nil {
		t.Errorf("Filesize = %v, want nil for unknown size", *c.Filesize)
	}
}

func TestClipLifecycle_Error(t *testing.T) {
	database := openTestDB(t)

	id, err := InsertClip(database, NewClip{InputPath: "a.mp4", OutputPath: "b.mp4", StartSeconds: 1, EndSeconds: 2, AudioCodec: "aac"}, time.Now())
	if err != nil {
		t.Fatalf("InsertClip: %v", err)
	}
	if err := MarkClipError(database, id, time.Now(), "ffmpeg failed: Permission denied"); err != nil {
		t.Fatalf("MarkClipError: %v", err)
	}

	c, err := SelectClipByID(database, id)
	if err != nil {
		t.Fatalf("SelectClipByID: %v", err)
	}
	if c.Status != StatusError {
		t.Errorf("Status = %q, want %q", c.Status, StatusError)
	}
	if c.Log != "ffmpeg failed: Permission denied" {
		t.Errorf("Log = %q", c.Log)
	}
	if c.ErrorAt == nil {
		t.Error("ErrorAt = nil, want set")
	}
}

func TestSelectClipByID_NotFound(t *testing.T) {
	database := openTestDB(t)

	_, err := SelectClipByID(database, 42)
	if !errors.Is(err, ErrClipNotFound) {
		t.Errorf("error = %v, want ErrClipNotFound", err)
	}
}

func TestSelectRecentClips(t *testing.T) {
	database := openTestDB(t)

	for i := 0; i < 5; i++ {
		_, err := InsertClip(database, NewClip{
			InputPath:    "in.mp4",
			OutputPath:   "out.mp4",
			StartSeconds: float64(i),
			EndSeconds:   float64(i + 10),
			AudioCodec:   "auto",
		}, time.Now())
		if err != nil {
			t.Fatalf("InsertClip #%d: %v", i, err)
		}
	}

	clips, err := SelectRecentClips(database, 3)
	if err != nil {
		t.Fatalf("SelectRecentClips: %v", err)
	}
	if len(clips) != 3 {
		t.Fatalf("len = %d, want 3", len(clips))
	}
	if clips[0].StartSeconds != 4 || clips[2].StartSeconds != 2 {
		t.Errorf("order = %v, %v, want newest first", clips[0].StartSeconds, clips[2].StartSeconds)
	}
}
