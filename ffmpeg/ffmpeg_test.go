package ffmpeg

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestCommand_Args_FixedOrder(t *testing.T) {
	c := New("input.mp4", "output.mp4", 15, 45)

	want := []string{
		"-i", "input.mp4",
		"-ss", "15",
		"-t", "45",
		"-map", "0:v?",
		"-map", "0:a?",
		"-c:v", "copy",
		"-c:a", "copy",
		"-avoid_negative_ts", "make_zero",
		"-async", "1",
		"-vsync", "2",
		"-y", "output.mp4",
	}
	if got := c.Args(); !slices.Equal(got, want) {
		t.Errorf("Args() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestCommand_Args_AudioPolicy(t *testing.T) {
	tests := []struct {
		name     string
		codec    AudioCodec
		preserve bool
		want     []string
	}{
		{"copy", AudioCopy, true, []string{"-c:a", "copy"}},
		{"copy ignores preserve", AudioCopy, false, []string{"-c:a", "copy"}},
		{"auto", AudioAuto, true, []string{"-c:a", "copy"}},
		{"aac preserve", AudioAAC, true, []string{"-c:a", "aac", "-b:a", "128k"}},
		{"aac no preserve", AudioAAC, false, []string{"-c:a", "aac"}},
		{"mp3 preserve", AudioMP3, true, []string{"-c:a", "mp3", "-b:a", "128k"}},
		{"mp3 no preserve", AudioMP3, false, []string{"-c:a", "mp3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Command{Input: "in.mp4", Output: "out.mp4", Start: 10, Duration: 30, Audio: tc.codec, PreserveQuality: tc.preserve}
			args := c.Args()

			// audio tokens sit between "-c:v copy" and "-avoid_negative_ts"
			from := slices.Index(args, "-c:v") + 2
			to := slices.Index(args, "-avoid_negative_ts")
			if got := args[from:to]; !slices.Equal(got, tc.want) {
				t.Errorf("audio tokens = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCommand_FallbackArgs_ForcesAAC(t *testing.T) {
	for _, codec := range []AudioCodec{AudioAuto, AudioCopy, AudioAAC, AudioMP3} {
		for _, preserve := range []bool{true, false} {
			c := Command{Input: "in.mp4", Output: "out.mp4", Start: 1, Duration: 2, Audio: codec, PreserveQuality: preserve}
			joined := strings.Join(c.FallbackArgs(), " ")
			if !strings.Contains(joined, "-c:v copy -c:a aac -b:a 128k -avoid_negative_ts") {
				t.Errorf("%s/preserve=%v fallback = %q, want forced aac 128k", codec, preserve, joined)
			}
			if !strings.HasSuffix(joined, "-y out.mp4") {
				t.Errorf("fallback args should end with output, got %q", joined)
			}
		}
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{
		Input:    "/tmp/test input.mp4",
		Output:   "/tmp/test output.mp4",
		Start:    5.5,
		Duration: 25.75,
		Audio:    AudioAAC,
	}

	want := "ffmpeg -i /tmp/test input.mp4 -ss 5.5 -t 25.75 -map 0:v? -map 0:a? -c:v copy -c:a aac " +
		"-avoid_negative_ts make_zero -async 1 -vsync 2 -y /tmp/test output.mp4"
	if got := c.String(); got != want {
		t.Errorf("String() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestCommand_String_ZeroStart(t *testing.T) {
	s := New("input.mp4", "output.mp4", 0, 60).String()
	if !strings.Contains(s, "-ss 0 -t 60") {
		t.Errorf("String() = %q, want -ss 0 -t 60", s)
	}
}

func TestCommand_String_Binary(t *testing.T) {
	c := New("in.mp4", "out.mp4", 0, 5)
	c.Binary = "/opt/ffmpeg6/bin/ffmpeg"
	if s := c.String(); !strings.HasPrefix(s, "/opt/ffmpeg6/bin/ffmpeg -i in.mp4 ") {
		t.Errorf("String() = %q, want configured binary prefix", s)
	}
}

func TestParseAudioCodec(t *testing.T) {
	tests := []struct {
		in   string
		want AudioCodec
	}{
		{"auto", AudioAuto},
		{"copy", AudioCopy},
		{"AAC", AudioAAC},
		{" mp3 ", AudioMP3},
	}
	for _, tc := range tests {
		got, err := ParseAudioCodec(tc.in)
		if err != nil {
			t.Fatalf("ParseAudioCodec(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseAudioCodec(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.String() != strings.ToLower(strings.TrimSpace(tc.in)) {
			t.Errorf("%v.String() = %q", got, got.String())
		}
	}

	if _, err := ParseAudioCodec("opus"); err == nil {
		t.Error("ParseAudioCodec(opus) expected error")
	}
}

func TestIsAudioFailure(t *testing.T) {
	tests := []struct {
		stderr string
		want   bool
	}{
		{"Could Not Find Codec Parameters For Stream 1", true},
		{"[mp4 @ 0x1] codec not currently supported in container", true},
		{"Tag [3][0][0][0] incompatible: Invalid codec tag", true},
		{"Unsupported audio codec", true},
		{"Error while opening stream copy", true},
		{"muxer does not support codec pcm_s16le", true},
		{"Permission denied", false},
		{"No such file or directory", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsAudioFailure(tc.stderr); got != tc.want {
			t.Errorf("IsAudioFailure(%q) = %v, want %v", tc.stderr, got, tc.want)
		}
	}
}

type fakeRunner struct {
	results []fakeResult
	calls   [][]string
}

type fakeResult struct {
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, args []string) (string, error) {
	f.calls = append(f.calls, args)
	r := f.results[len(f.calls)-1]
	return r.stderr, r.err
}

var errExit = errors.New("exit status 1")

func TestRunWithFallback(t *testing.T) {
	c := New("in.mkv", "out.mp4", 90, 90)

	t.Run("primary succeeds", func(t *testing.T) {
		r := &fakeRunner{results: []fakeResult{{stderr: "ok"}}}
		out, err := RunWithFallback(context.Background(), r, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.UsedFallback {
			t.Error("UsedFallback = true, want false")
		}
		if len(r.calls) != 1 {
			t.Errorf("calls = %d, want 1", len(r.calls))
		}
	})

	t.Run("audio failure retries once and succeeds", func(t *testing.T) {
		r := &fakeRunner{results: []fakeResult{
			{stderr: "Could not find codec parameters for stream 1", err: errExit},
			{stderr: ""},
		}}
		out, err := RunWithFallback(context.Background(), r, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.UsedFallback {
			t.Error("UsedFallback = false, want true")
		}
		if len(r.calls) != 2 {
			t.Fatalf("calls = %d, want 2", len(r.calls))
		}
		if !slices.Equal(r.calls[1], c.FallbackArgs()) {
			t.Errorf("second call = %q, want fallback args", r.calls[1])
		}
	})

	t.Run("audio failure then fallback failure", func(t *testing.T) {
		r := &fakeRunner{results: []fakeResult{
			{stderr: "invalid codec tag", err: errExit},
			{stderr: "still broken", err: errExit},
		}}
		_, err := RunWithFallback(context.Background(), r, c)
		if !errors.Is(err, ErrFailed) {
			t.Fatalf("error = %v, want ErrFailed", err)
		}
		var ee *ExecError
		if !errors.As(err, &ee) {
			t.Fatalf("error type = %T, want *ExecError", err)
		}
		if !ee.Fallback || ee.Stderr != "still broken" {
			t.Errorf("ExecError = %+v, want fallback failure with second stderr", ee)
		}
		if !strings.Contains(err.Error(), "even with fallback") {
			t.Errorf("message = %q", err.Error())
		}
		if len(r.calls) != 2 {
			t.Errorf("calls = %d, want 2", len(r.calls))
		}
	})

	t.Run("non audio failure is not retried", func(t *testing.T) {
		r := &fakeRunner{results: []fakeResult{
			{stderr: "in.mkv: Permission denied", err: errExit},
		}}
		_, err := RunWithFallback(context.Background(), r, c)
		var ee *ExecError
		if !errors.As(err, &ee) {
			t.Fatalf("error type = %T, want *ExecError", err)
		}
		if ee.Fallback {
			t.Error("Fallback = true, want false")
		}
		if !strings.Contains(err.Error(), "Permission denied") {
			t.Errorf("message %q should embed the diagnostic", err.Error())
		}
		if !errors.Is(err, errExit) {
			t.Error("ExecError should unwrap to the runner error")
		}
		if len(r.calls) != 1 {
			t.Errorf("calls = %d, want 1", len(r.calls))
		}
	})
}

// blockingRunner waits for cancellation and then fails the way a killed
// process does, with an audio diagnostic that would otherwise trigger a retry.
type blockingRunner struct {
	calls int
}

func (b *blockingRunner) Run(ctx context.Context, _ []string) (string, error) {
	b.calls++
	<-ctx.Done()
	return "Could not find codec parameters", errors.New("signal: killed")
}

func TestRunWithFallback_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	r := &blockingRunner{}
	_, err := RunWithFallback(ctx, r, New("in.mkv", "out.mp4", 0, 10))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrFailed) {
		t.Error("cancelled run reported as ffmpeg failure")
	}
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancel)", r.calls)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := ExecRunner{Binary: "video-clip-no-such-binary"}
	if _, err := r.Run(context.Background(), []string{"-version"}); err == nil {
		t.Error("expected error for missing binary")
	}
}
