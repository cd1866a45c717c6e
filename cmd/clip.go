package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/user/video-clip-cli/clip"
	"github.com/user/video-clip-cli/db"
	"github.com/user/video-clip-cli/ffmpeg"
	"github.com/user/video-clip-cli/mpv"
	"github.com/user/video-clip-cli/pkg/timeutil"
	"github.com/user/video-clip-cli/tui"
	"github.com/user/video-clip-cli/tui/forms"
	"github.com/user/video-clip-cli/tui/styles"
)

// errCancelled is returned when the user declines to overwrite an existing clip.
var errCancelled = errors.New("cancelled")

var clipCmd = &cobra.Command{
	Use:   "clip [video-file]",
	Short: "Extract a clip from a video file",
	Long: `Extract the range between --start and --end from a video file.

Missing values are prompted for when running in a terminal. The clip is
written to <output-dir>/<name>_clip_<MM-SS>_to_<MM-SS>.mp4.`,
	Example: `  video-clip clip match.mp4 -s 36:07 -e 37:19
  video-clip clip match.mp4 -s 1h2m -e 1h3m30s --audio-codec aac
  video-clip clip match.mkv -s 90 -e 180 --dry-run
  video-clip clip --from-mpv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClip,
}

func runClip(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	interactive := isInteractive()

	req, err := collectRequest(cmd, args, interactive)
	if err != nil {
		return err
	}

	clipper := &clip.Clipper{
		OutputDir: cfg.OutputDir,
		Ffmpeg:    cfg.Ffmpeg,
	}

	plan, err := clipper.Prepare(req)
	if err != nil {
		return err
	}

	printBanner(out)
	printPlan(out, req, plan)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, plan.Command.String())
		return nil
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			// history is optional; carry on without it
			slog.Warn("clip history unavailable", "path", cfg.DBPath, "error", err)
		} else {
			defer database.Close()
			clipper.DB = database
		}
	}

	if interactive {
		if _, err := os.Stat(plan.Output); err == nil {
			overwrite := false
			if err := forms.NewConfirmOverwriteForm(plan.Output, &overwrite).Run(); err != nil {
				return err
			}
			if !overwrite {
				return errCancelled
			}
		}
	}

	var res clip.Result
	job := func(ctx context.Context) error {
		var runErr error
		res, runErr = clipper.Clip(ctx, req)
		return runErr
	}

	if interactive {
		err = tui.RunWithSpinner(cmd.Context(), "Processing...", job)
	} else {
		fmt.Fprintln(out, styles.Header.Render("Processing..."))
		err = job(cmd.Context())
	}
	if err != nil {
		return err
	}

	printResult(out, res)

	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		if err := mpv.Preview(res.Output); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return nil
}

// collectRequest merges arguments, flags, the mpv loop range, prompts and
// config defaults into a clip request.
func collectRequest(cmd *cobra.Command, args []string, interactive bool) (clip.Request, error) {
	form := forms.ClipFormResult{}
	if len(args) > 0 {
		form.Input = forms.CleanPath(args[0])
	}
	form.Start, _ = cmd.Flags().GetString("start")
	form.End, _ = cmd.Flags().GetString("end")

	if fromMpv, _ := cmd.Flags().GetBool("from-mpv"); fromMpv {
		socket, _ := cmd.Flags().GetString("socket")
		if err := fillFromMpv(&form, socket); err != nil {
			return clip.Request{}, err
		}
	}

	audio := cfg.AudioCodec
	if cmd.Flags().Changed("audio-codec") {
		name, _ := cmd.Flags().GetString("audio-codec")
		codec, err := ffmpeg.ParseAudioCodec(name)
		if err != nil {
			return clip.Request{}, err
		}
		audio = codec
	}

	if f := forms.NewClipForm(&form); f != nil {
		if !interactive {
			if form.Input == "" {
				return clip.Request{}, errors.New("no video file given")
			}
			if form.End == "" {
				return clip.Request{}, errors.New("end time required (--end)")
			}
		} else {
			if err := f.Run(); err != nil {
				return clip.Request{}, err
			}
			if !cmd.Flags().Changed("audio-codec") {
				if err := forms.NewAudioCodecForm(&audio).Run(); err != nil {
					return clip.Request{}, err
				}
			}
		}
	}

	preserve, _ := cmd.Flags().GetBool("preserve-quality")
	outDir, _ := cmd.Flags().GetString("output-dir")

	return clip.Request{
		Input:           forms.CleanPath(form.Input),
		Start:           form.Start,
		End:             form.End,
		OutputDir:       outDir,
		Audio:           audio,
		PreserveQuality: preserve,
	}, nil
}

// fillFromMpv takes any of input, start and end not already set from the
// A-B loop of a running mpv.
func fillFromMpv(form *forms.ClipFormResult, socket string) error {
	client := mpv.NewClient(socket)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to mpv: %w\n(Start it with 'video-clip open <file>')", err)
	}
	defer client.Close()

	r, err := client.GetLoopRange()
	if err != nil {
		return err
	}
	if form.Input == "" {
		form.Input = r.Path
	}
	if form.Start == "" {
		form.Start = strconv.FormatFloat(r.Start, 'f', -1, 64)
	}
	if form.End == "" {
		form.End = strconv.FormatFloat(r.End, 'f', -1, 64)
	}
	return nil
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, styles.Banner.Render("🎬 VIDEO CLIPPER"))
	fmt.Fprintln(w)
}

func printPlan(w io.Writer, req clip.Request, plan clip.Plan) {
	fmt.Fprintln(w, styles.Header.Render("✂️  Creating clip:"))
	fmt.Fprintln(w, styles.KeyValue("Input:", plan.Input))
	fmt.Fprintln(w, styles.KeyValue("Start:", fmt.Sprintf("%s (%s)", req.Start, timeutil.FormatReadable(plan.StartSeconds))))
	fmt.Fprintln(w, styles.KeyValue("End:", fmt.Sprintf("%s (%s)", req.End, timeutil.FormatReadable(plan.EndSeconds))))
	fmt.Fprintln(w, styles.KeyValue("Audio:", req.Audio.String()))
	fmt.Fprintln(w, styles.KeyValue("Output:", plan.Output))
}

func printResult(w io.Writer, res clip.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Success.Render("✅ SUCCESS!"))
	fmt.Fprintln(w, styles.KeyValue("Saved:", res.Output))
	fmt.Fprintln(w, styles.KeyValue("Size:", res.SizeLabel()))
	fmt.Fprintln(w, styles.KeyValue("Duration:", fmt.Sprintf("%.1fs", res.Duration)))
	if res.UsedFallback {
		fmt.Fprintln(w, styles.Notice.Render("   Audio could not be copied; re-encoded to AAC 128k."))
	}
	fmt.Fprintln(w, styles.Muted.Render("   "+res.Command.String()))
}

func init() {
	clipCmd.Flags().StringP("start", "s", "", "Start time (e.g. 36:07, 2167, 36m7s)")
	clipCmd.Flags().StringP("end", "e", "", "End time (e.g. 37:19, 2239, 37m19s)")
	clipCmd.Flags().StringP("output-dir", "o", "", "Output directory (default from VIDEO_CLIP_OUTPUT_DIR or downloads)")
	clipCmd.Flags().String("audio-codec", "auto", "Audio handling: auto, copy, aac or mp3")
	clipCmd.Flags().Bool("preserve-quality", true, "Use 128k bitrate when re-encoding audio")
	clipCmd.Flags().Bool("dry-run", false, "Print the ffmpeg command without running it")
	clipCmd.Flags().Bool("no-history", false, "Do not record this clip in the history database")
	clipCmd.Flags().Bool("preview", false, "Play the finished clip in mpv")
	clipCmd.Flags().Bool("from-mpv", false, "Take file and range from the A-B loop of a running mpv")
	clipCmd.Flags().String("socket", mpv.DefaultSocketPath, "mpv IPC socket path (with --from-mpv)")

	rootCmd.AddCommand(clipCmd)
}
