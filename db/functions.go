package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrClipNotFound is returned by SelectClipByID when no row matches.
var ErrClipNotFound = errors.New("clip not found")

// NewClip holds the fields recorded when a clip run starts.
type NewClip struct {
	InputPath    string
	OutputPath   string
	StartSeconds float64
	EndSeconds   float64
	AudioCodec   string
	Command      string
}

// InsertClip records a clip run in processing status and returns its ID.
func InsertClip(db *sql.DB, c NewClip, startedAt time.Time) (int64, error) {
	result, err := db.Exec(InsertClipSQL, c.InputPath, c.OutputPath, c.StartSeconds, c.EndSeconds, c.AudioCodec, c.Command, StatusProcessing, startedAt)
	if err != nil {
		return 0, fmt.Errorf("insert clip: %w", err)
	}
	return result.LastInsertId()
}

// MarkClipComplete updates a clips row to complete status. A negative
// filesize is stored as NULL (size unknown).
func MarkClipComplete(db *sql.DB, clipID int64, finishedAt time.Time, filesize int64, usedFallback bool) error {
	var size interface{}
	if filesize >= 0 {
		size = filesize
	}
	_, err := db.Exec(MarkClipCompleteSQL, finishedAt, size, usedFallback, clipID)
	if err != nil {
		return fmt.Errorf("mark clip complete: %w", err)
	}
	return nil
}

// MarkClipError updates a clips row to error status with the given error time and log message.
func MarkClipError(db *sql.DB, clipID int64, errorAt time.Time, logMsg string) error {
	_, err := db.Exec(MarkClipErrorSQL, errorAt, logMsg, clipID)
	if err != nil {
		return fmt.Errorf("mark clip error: %w", err)
	}
	return nil
}

// SelectClipByID returns a single clips row by ID.
func SelectClipByID(db *sql.DB, id int64) (*Clip, error) {
	c, err := scanClip(db.QueryRow(SelectClipByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ID %d", ErrClipNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select clip: %w", err)
	}
	return c, nil
}

// SelectRecentClips returns up to limit clips, newest first.
func SelectRecentClips(db *sql.DB, limit int) ([]Clip, error) {
	rows, err := db.Query(SelectRecentClipsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent clips: %w", err)
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return clips, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClip(r rowScanner) (*Clip, error) {
	var c Clip
	var command, logMsg sql.NullString
	err := r.Scan(&c.ID, &c.InputPath, &c.OutputPath, &c.StartSeconds, &c.EndSeconds, &c.AudioCodec,
		&command, &c.Status, &c.UsedFallback, &c.Filesize, &logMsg, &c.StartedAt, &c.FinishedAt, &c.ErrorAt)
	if err != nil {
		return nil, err
	}
	c.Command = command.String
	c.Log = logMsg.String
	return &c, nil
}
