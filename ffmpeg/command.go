// Package ffmpeg builds and runs the ffmpeg invocations used to cut clips.
package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// AudioCodec selects how the audio stream is written.
type AudioCodec int

const (
	// AudioAuto stream-copies audio; callers retry with FallbackArgs on an audio failure.
	AudioAuto AudioCodec = iota
	AudioCopy
	AudioAAC
	AudioMP3
)

// fallbackBitrate is used for every re-encode that preserves quality.
const fallbackBitrate = "128k"

var audioCodecNames = map[AudioCodec]string{
	AudioAuto: "auto",
	AudioCopy: "copy",
	AudioAAC:  "aac",
	AudioMP3:  "mp3",
}

func (c AudioCodec) String() string {
	if name, ok := audioCodecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("AudioCodec(%d)", int(c))
}

// ParseAudioCodec maps a flag or config value to an AudioCodec.
func ParseAudioCodec(s string) (AudioCodec, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range audioCodecNames {
		if n == name {
			return c, nil
		}
	}
	return AudioAuto, fmt.Errorf("unknown audio codec %q (expected auto, copy, aac or mp3)", s)
}

// Command describes a single clip extraction. It is a value type and is
// never modified after construction.
type Command struct {
	Binary          string // shown by String; empty means "ffmpeg"
	Input           string
	Output          string
	Start           float64
	Duration        float64
	Audio           AudioCodec
	PreserveQuality bool
}

// New returns a Command using the default audio policy (auto, preserve quality).
func New(input, output string, start, duration float64) Command {
	return Command{
		Input:           input,
		Output:          output,
		Start:           start,
		Duration:        duration,
		Audio:           AudioAuto,
		PreserveQuality: true,
	}
}

// Args returns the primary ffmpeg argument list.
func (c Command) Args() []string {
	return c.build(c.audioArgs())
}

// FallbackArgs returns the argument list with audio forced to AAC at 128k,
// whatever the configured policy.
func (c Command) FallbackArgs() []string {
	return c.build([]string{"-c:a", "aac", "-b:a", fallbackBitrate})
}

// String renders the primary invocation for display. Paths are not quoted.
func (c Command) String() string {
	bin := c.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	return bin + " " + strings.Join(c.Args(), " ")
}

func (c Command) audioArgs() []string {
	switch c.Audio {
	case AudioAAC:
		return c.encode("aac")
	case AudioMP3:
		return c.encode("mp3")
	default:
		// copy and auto
		return []string{"-c:a", "copy"}
	}
}

func (c Command) encode(codec string) []string {
	args := []string{"-c:a", codec}
	if c.PreserveQuality {
		args = append(args, "-b:a", fallbackBitrate)
	}
	return args
}

func (c Command) build(audio []string) []string {
	args := []string{
		"-i", c.Input,
		"-ss", formatSeconds(c.Start),
		"-t", formatSeconds(c.Duration),
		// "?" keeps single-stream inputs from failing the mapping
		"-map", "0:v?",
		"-map", "0:a?",
		"-c:v", "copy",
	}
	args = append(args, audio...)
	args = append(args,
		"-avoid_negative_ts", "make_zero",
		"-async", "1",
		"-vsync", "2",
		"-y", c.Output,
	)
	return args
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
