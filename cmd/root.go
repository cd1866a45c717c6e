package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/user/video-clip-cli/config"
	"github.com/user/video-clip-cli/deps"
	"github.com/user/video-clip-cli/mpv"
	"github.com/user/video-clip-cli/tui/styles"
)

var Version = "0.1.0"

// cfg is loaded once before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "video-clip",
	Short: "Cut clips out of video files with ffmpeg",
	Long: `video-clip extracts a time range from a video file using ffmpeg.

Times can be given as seconds (2167), MM:SS (36:07), HH:MM:SS (1:36:07)
or with units (1h36m7s, 90m). Video is stream-copied; audio is copied
when the container allows it and re-encoded to AAC otherwise.

Defaults can be set in the environment or a .env file:
  VIDEO_CLIP_OUTPUT_DIR   output directory (default: downloads)
  VIDEO_CLIP_AUDIO_CODEC  auto, copy, aac or mp3 (default: auto)
  VIDEO_CLIP_FFMPEG       ffmpeg binary (default: ffmpeg)
  VIDEO_CLIP_DB           clip history database`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)

		envFile, _ := cmd.Flags().GetString("env-file")
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		loaded, err := config.Load(files...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		slog.Debug("config loaded", "output_dir", cfg.OutputDir, "audio_codec", cfg.AudioCodec, "ffmpeg", cfg.Ffmpeg, "db", cfg.DBPath)
		return nil
	},
}

// setupLogging sends diagnostics to stderr; user-facing output goes to stdout.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("video-clip version %s\n", Version)
	},
}

var openCmd = &cobra.Command{
	Use:   "open <video-file>",
	Short: "Open a video in mpv to mark a clip range",
	Long: `Open a video file in mpv with IPC enabled. Press "l" once at the clip
start and again at the clip end to set an A-B loop, then run
"video-clip clip --from-mpv" from another terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		info, err := os.Stat(absPath)
		if os.IsNotExist(err) {
			return fmt.Errorf("video file not found: %s", absPath)
		}
		if err != nil {
			return fmt.Errorf("failed to access video file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("path is a directory, not a video file: %s", absPath)
		}

		socket, _ := cmd.Flags().GetString("socket")
		fmt.Printf("Opening video: %s\n", filepath.Base(absPath))
		process, err := mpv.Launch(absPath, socket)
		if err != nil {
			return fmt.Errorf("failed to launch mpv: %w", err)
		}

		// Wait briefly for socket to be ready
		client := mpv.NewClient(socket)
		var connectErr error
		for i := 0; i < 50; i++ { // Wait up to 5 seconds
			time.Sleep(100 * time.Millisecond)
			connectErr = client.Connect()
			if connectErr == nil {
				break
			}
		}
		if connectErr != nil {
			if process.Process != nil {
				process.Process.Kill()
			}
			return fmt.Errorf("failed to connect to mpv: %w", connectErr)
		}
		client.Close()

		fmt.Println(styles.Muted.Render(`Mark the range with "l" in mpv, then run: video-clip clip --from-mpv`))
		return process.Wait()
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that ffmpeg (required) and mpv (optional, for --from-mpv and --preview) are installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printDoctor(cmd.OutOrStdout(), deps.CheckAll(cfg.Ffmpeg))
	},
}

// printDoctor reports the result of deps.CheckAll and returns the first
// missing required dependency.
func printDoctor(w io.Writer, missing []error) error {
	fmt.Fprintln(w, "Checking dependencies...")
	fmt.Fprintln(w)

	var required error
	ffmpegOK, mpvOK := true, true
	for _, err := range missing {
		var de *deps.DependencyError
		if !errors.As(err, &de) {
			return err
		}
		if de.Optional {
			mpvOK = false
			fmt.Fprintln(w, styles.Notice.Render("- "+de.Name+": not found (optional)"))
		} else {
			ffmpegOK = false
			fmt.Fprintln(w, styles.Warning.Render("✗ "+de.Name+": NOT FOUND"))
			if required == nil {
				required = err
			}
		}
		fmt.Fprintf(w, "  Install from: %s\n", de.InstallURL)
	}
	if ffmpegOK {
		fmt.Fprintln(w, styles.Success.Render("✓ ffmpeg: OK"))
	}
	if mpvOK {
		fmt.Fprintln(w, styles.Success.Render("✓ mpv: OK"))
	}

	fmt.Fprintln(w)
	if required != nil {
		return required
	}
	fmt.Fprintln(w, "All required dependencies are installed!")
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().String("env-file", "", "Read defaults from this file instead of ./.env")

	openCmd.Flags().String("socket", mpv.DefaultSocketPath, "mpv IPC socket path")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(doctorCmd)
}

// isInteractive reports whether prompts and the spinner can be shown.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, styles.Warning.Render("Error: ")+err.Error())
		os.Exit(exitCode(err))
	}
}
