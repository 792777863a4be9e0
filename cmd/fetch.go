package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/cricsheet"
)

// fetchKeep is the path the downloaded archive is copied to; empty discards it.
var fetchKeep string

// fetchCmd is the cobra command for downloading and ingesting the upstream archive.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the Cricsheet IPL archive and ingest it",
	Long: `Downloads the match archive from source_url (default the Cricsheet IPL
bundle), then ingests it exactly like 'cricmetrics ingest'. A transport failure
or timeout aborts the run before anything is stored.

Examples:
  cricmetrics fetch
  cricmetrics fetch --from 2020 --to 2023 --max 200
  cricmetrics fetch --url https://cricsheet.org/downloads/ipl_json.zip --keep ipl.zip`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	addFilterFlags(fetchCmd)
	fetchCmd.Flags().String("url", "", "archive URL (default source_url)")
	fetchCmd.Flags().Duration("timeout", 0, "download timeout (default fetch_timeout)")
	fetchCmd.Flags().StringVar(&fetchKeep, "keep", "", "also save the downloaded archive to this path")

	filterPreRun := fetchCmd.PreRunE
	fetchCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		_ = settings.BindPFlag("source_url", cmd.Flags().Lookup("url"))
		_ = settings.BindPFlag("fetch_timeout", cmd.Flags().Lookup("timeout"))
		return filterPreRun(cmd, args)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	tmpDir, err := os.MkdirTemp("", "cricmetrics-*")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archive := filepath.Join(tmpDir, "matches.zip")
	if fetchKeep != "" {
		archive = fetchKeep
	}
	if err := download(cmd.Context(), cfg.SourceURL, archive); err != nil {
		return err
	}

	src, err := cricsheet.OpenArchive(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return runPipeline(cmd.Context(), db, src, cfg.SourceURL)
}

// download saves url to path within the configured fetch timeout.
func download(ctx context.Context, url, path string) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(os.Stdout, "Downloading %s (timeout %s)...\n", url, cfg.FetchTimeout)
	n, err := cricsheet.NewClient(cfg.FetchTimeout).Download(ctx, url, f)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("download archive: %w", err)
	}
	log.WithField("bytes", n).WithField("url", url).Info("archive downloaded")
	fmt.Fprintf(os.Stdout, "Downloaded %s\n", humanize.Bytes(uint64(n)))
	return nil
}
