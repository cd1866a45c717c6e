package db

import "time"

// Clip status values stored in clips.status.
const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Clip represents a row in the clips table.
type Clip struct {
	ID           int64
	InputPath    string
	OutputPath   string
	StartSeconds float64
	EndSeconds   float64
	AudioCodec   string
	Command      string
	Status       string
	UsedFallback bool
	Filesize     *int64
	Log          string
	StartedAt    *time.Time
	FinishedAt   *time.Time
	ErrorAt      *time.Time
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return c.EndSeconds - c.StartSeconds
}
