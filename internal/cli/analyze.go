package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credibly/internal/config"
	"github.com/ppiankov/credibly/internal/logging"
	"github.com/ppiankov/credibly/internal/model"
)

var (
	analyzeName    string
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single video URL and print the claim report",
	Long: `Analyze runs the full pipeline for one URL: download, transcode,
transcribe, per-frame OCR, sentence segmentation, bias scoring and
verification dispatch, then prints the aggregate as JSON.

Verification is asynchronous; claims analyzed for the first time are
printed before their accuracy judgments arrive. Re-run the command to
see committed judgments (the completed item is served from cache).

Example:
  credibly analyze https://www.tiktok.com/@user/video/123
  credibly analyze https://example.com/clip --name "breaking news clip"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "display name for the media item (defaults to the URL)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 10*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	name := analyzeName
	if name == "" {
		name = url
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Init(verbose || cfg.Output.Verbose)

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	deps, err := buildDependencies(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	deps.pool.Start()

	result, err := deps.analyzer.Analyze(ctx, url, name)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	// Give dispatched verification jobs a chance to land before printing.
	deps.pool.Drain()

	claims, err := deps.store.ListClaims(ctx, result.Media.ID)
	if err != nil {
		return fmt.Errorf("list claims: %w", err)
	}

	report := model.MediaReport{
		Name:     result.Media.Name,
		URL:      result.Media.URL,
		Complete: result.Media.Complete,
		Content:  claims,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
