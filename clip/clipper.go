// Package clip turns a clip request into an ffmpeg run and records the result.
package clip

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/user/video-clip-cli/db"
	"github.com/user/video-clip-cli/deps"
	"github.com/user/video-clip-cli/ffmpeg"
	"github.com/user/video-clip-cli/pkg/timeutil"
)

// Request is a clip request as entered by the user. Start and End are raw
// time expressions.
type Request struct {
	Input           string
	Start           string
	End             string
	OutputDir       string // overrides Clipper.OutputDir when set
	Audio           ffmpeg.AudioCodec
	PreserveQuality bool
}

// Plan is a parsed and validated request, ready to run.
type Plan struct {
	Input        string
	Output       string
	StartSeconds float64
	EndSeconds   float64
	Duration     float64
	Command      ffmpeg.Command
}

// Result describes a finished clip.
type Result struct {
	Plan
	SizeBytes    int64 // -1 when the output could not be stat'ed
	UsedFallback bool
}

// SizeMB returns the output size in megabytes, or false if unknown.
func (r Result) SizeMB() (float64, bool) {
	if r.SizeBytes < 0 {
		return 0, false
	}
	return float64(r.SizeBytes) / (1024 * 1024), true
}

// SizeLabel renders the output size for display.
func (r Result) SizeLabel() string {
	mb, ok := r.SizeMB()
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%.1f MB", mb)
}

// Clipper runs clip requests. The zero value is usable: it writes to
// "downloads", runs ffmpeg from PATH and keeps no history.
type Clipper struct {
	OutputDir string
	Ffmpeg    string
	Runner    ffmpeg.Runner
	Probe     func() error
	DB        *sql.DB // optional clip history
}

func (c *Clipper) outputDir(req Request) string {
	if req.OutputDir != "" {
		return req.OutputDir
	}
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return "downloads"
}

func (c *Clipper) runner() ffmpeg.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return ffmpeg.ExecRunner{Binary: c.Ffmpeg}
}

func (c *Clipper) probe() error {
	if c.Probe != nil {
		return c.Probe()
	}
	return deps.CheckFfmpeg(c.Ffmpeg)
}

// Prepare parses and validates req and computes the output path and
// ffmpeg command. It touches neither the filesystem nor ffmpeg.
func (c *Clipper) Prepare(req Request) (Plan, error) {
	start, err := timeutil.Parse(req.Start)
	if err != nil {
		return Plan{}, fmt.Errorf("start time: %w", err)
	}
	end, err := timeutil.Parse(req.End)
	if err != nil {
		return Plan{}, fmt.Errorf("end time: %w", err)
	}
	duration, err := timeutil.ValidateRange(start, end)
	if err != nil {
		return Plan{}, err
	}

	output := OutputPath(c.outputDir(req), req.Input, start, end)
	cmd := ffmpeg.Command{
		Binary:          c.Ffmpeg,
		Input:           req.Input,
		Output:          output,
		Start:           start,
		Duration:        duration,
		Audio:           req.Audio,
		PreserveQuality: req.PreserveQuality,
	}

	return Plan{
		Input:        req.Input,
		Output:       output,
		StartSeconds: start,
		EndSeconds:   end,
		Duration:     duration,
		Command:      cmd,
	}, nil
}

// Clip validates req, runs ffmpeg with the audio fallback protocol and
// returns the finished clip.
func (c *Clipper) Clip(ctx context.Context, req Request) (Result, error) {
	plan, err := c.Prepare(req)
	if err != nil {
		return Result{}, err
	}

	if err := c.probe(); err != nil {
		return Result{}, err
	}

	input, err := resolveInput(req.Input, c.outputDir(req), fileExists)
	if err != nil {
		return Result{}, err
	}
	if input != plan.Input {
		slog.Debug("input resolved", "requested", plan.Input, "resolved", input)
		plan.Input = input
		plan.Command.Input = input
	}

	outDir := filepath.Dir(plan.Output)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	historyID := c.recordStart(plan, req.Audio)

	outcome, err := ffmpeg.RunWithFallback(ctx, c.runner(), plan.Command)
	if err != nil {
		c.recordError(historyID, err)
		return Result{}, err
	}

	result := Result{Plan: plan, SizeBytes: -1, UsedFallback: outcome.UsedFallback}
	if info, err := os.Stat(plan.Output); err == nil {
		result.SizeBytes = info.Size()
	} else {
		slog.Debug("stat output", "path", plan.Output, "error", err)
	}

	c.recordComplete(historyID, result)
	return result, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// History writes are best effort: a broken database never fails a clip.

func (c *Clipper) recordStart(plan Plan, audio ffmpeg.AudioCodec) int64 {
	if c.DB == nil {
		return 0
	}
	id, err := db.InsertClip(c.DB, db.NewClip{
		InputPath:    plan.Input,
		OutputPath:   plan.Output,
		StartSeconds: plan.StartSeconds,
		EndSeconds:   plan.EndSeconds,
		AudioCodec:   audio.String(),
		Command:      plan.Command.String(),
	}, time.Now())
	if err != nil {
		slog.Warn("record clip history", "error", err)
		return 0
	}
	return id
}

func (c *Clipper) recordComplete(id int64, r Result) {
	if c.DB == nil || id == 0 {
		return
	}
	if err := db.MarkClipComplete(c.DB, id, time.Now(), r.SizeBytes, r.UsedFallback); err != nil {
		slog.Warn("record clip history", "error", err)
	}
}

func (c *Clipper) recordError(id int64, runErr error) {
	if c.DB == nil || id == 0 {
		return
	}
	if err := db.MarkClipError(c.DB, id, time.Now(), runErr.Error()); err != nil {
		slog.Warn("record clip history", "error", err)
	}
}
