package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/user/video-clip-cli/db"
	"github.com/user/video-clip-cli/pkg/timeutil"
	"github.com/user/video-clip-cli/tui/styles"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently created clips",
	Long:  `Display the most recent clip runs as a table, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", limit)
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		clips, err := db.SelectRecentClips(database, limit)
		if err != nil {
			return err
		}
		return printHistory(cmd.OutOrStdout(), clips)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one clip run in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid clip ID %q", args[0])
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		c, err := db.SelectClipByID(database, id)
		if err != nil {
			return err
		}
		printClip(cmd.OutOrStdout(), c)
		return nil
	},
}

func printClip(out io.Writer, c *db.Clip) {
	status := c.Status
	if c.Status == db.StatusProcessing && c.FinishedAt == nil && c.ErrorAt == nil {
		status += " (interrupted or still running)"
	}

	fmt.Fprintln(out, styles.KeyValue("Clip:", strconv.FormatInt(c.ID, 10)))
	fmt.Fprintln(out, styles.KeyValue("Status:", status))
	fmt.Fprintln(out, styles.KeyValue("Input:", c.InputPath))
	fmt.Fprintln(out, styles.KeyValue("Output:", c.OutputPath))
	fmt.Fprintln(out, styles.KeyValue("Range:", fmt.Sprintf("%s → %s (%.1fs)",
		timeutil.FormatReadable(c.StartSeconds), timeutil.FormatReadable(c.EndSeconds), c.Duration())))

	audio := c.AudioCodec
	if c.UsedFallback {
		audio += " (re-encoded to AAC)"
	}
	fmt.Fprintln(out, styles.KeyValue("Audio:", audio))
	if c.Filesize != nil {
		fmt.Fprintln(out, styles.KeyValue("Size:", humanize.IBytes(uint64(*c.Filesize))))
	}
	if c.StartedAt != nil {
		fmt.Fprintln(out, styles.KeyValue("Started:", c.StartedAt.Local().Format("2006-01-02 15:04:05")))
	}
	if c.Command != "" {
		fmt.Fprintln(out, styles.KeyValue("Command:", c.Command))
	}
	if c.Log != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Warning.Render("ffmpeg output:"))
		fmt.Fprintln(out, c.Log)
	}
}

func printHistory(out io.Writer, clips []db.Clip) error {
	if len(clips) == 0 {
		fmt.Fprintln(out, "No clips recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tInput\tStart\tEnd\tDuration\tAudio\tStatus\tSize\tWhen")
	fmt.Fprintln(w, "--\t-----\t-----\t---\t--------\t-----\t------\t----\t----")

	for _, c := range clips {
		audio := c.AudioCodec
		if c.UsedFallback {
			audio += "→aac"
		}

		size := "-"
		if c.Filesize != nil {
			size = humanize.IBytes(uint64(*c.Filesize))
		}

		when := "-"
		if c.StartedAt != nil {
			when = humanize.Time(*c.StartedAt)
		}

		input := filepath.Base(c.InputPath)
		if len(input) > 30 {
			input = input[:27] + "..."
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1fs\t%s\t%s\t%s\t%s\n",
			c.ID, input,
			timeutil.FormatReadable(c.StartSeconds), timeutil.FormatReadable(c.EndSeconds),
			c.Duration(), audio, c.Status, size, when)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d clip(s) shown.\n", len(clips))
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of clips to show")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
