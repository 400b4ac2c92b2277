package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ppiankov/credibly/internal/config"
	"github.com/ppiankov/credibly/internal/logging"
	"github.com/ppiankov/credibly/internal/media"
	"github.com/ppiankov/credibly/internal/ocr"
	"github.com/ppiankov/credibly/internal/pipeline"
	"github.com/ppiankov/credibly/internal/server"
	"github.com/ppiankov/credibly/internal/store"
	"github.com/ppiankov/credibly/internal/transcribe"
	"github.com/ppiankov/credibly/internal/verify"
	"github.com/ppiankov/credibly/internal/worker"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the credibility analysis server",
	Long: `Serve starts the HTTP/WebSocket server that accepts {name, url}
analysis requests, runs the extraction pipeline and returns per-claim
bias and accuracy results.

Example:
  credibly serve
  credibly serve --addr :9090
  CREDIBLY_DATABASE_DSN=postgres://... credibly serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := logging.Init(verbose || cfg.Output.Verbose)

	deps, err := buildDependencies(cmd.Context(), logger, cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	deps.pool.Start()

	srv := server.New(logger, deps.analyzer, deps.store, cfg.Server.Addr,
		cfg.Server.SummaryTTL, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server shutdown incomplete")
	}

	// Let queued verification jobs finish before the process exits.
	deps.pool.Drain()
	return nil
}

// dependencies bundles the wired collaborators behind one close call
type dependencies struct {
	analyzer *pipeline.Analyzer
	store    store.Store
	pool     *worker.Pool
	closers  []func()
}

func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDependencies wires the store, adapters, verifier and analyzer from
// configuration. API keys fall back to the conventional environment
// variables when not set in the config file.
func buildDependencies(ctx context.Context, logger zerolog.Logger, cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.Database.DSN != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		deps.store = pg
		deps.closers = append(deps.closers, pg.Close)
	} else {
		logger.Warn().Msg("no database DSN configured, using in-memory store")
		deps.store = store.NewMemory()
	}

	extractor, err := media.NewYtDlp(logger, cfg.Media.YtDlpPath, cfg.Media.FFmpegPath, cfg.Media.WorkDir, cfg.Media.Timeout)
	if err != nil {
		return nil, err
	}

	transcribeKey := cfg.Transcribe.APIKey
	if transcribeKey == "" {
		transcribeKey = os.Getenv("OPENAI_API_KEY")
	}
	transcriber, err := transcribe.NewWhisper(logger, transcribeKey, cfg.Transcribe.BaseURL, cfg.Transcribe.Model)
	if err != nil {
		return nil, err
	}

	frameReader, err := ocr.NewTesseract(logger, cfg.OCR.TesseractPath, cfg.OCR.Language)
	if err != nil {
		return nil, err
	}

	judgeKey := cfg.Verify.APIKey
	if judgeKey == "" {
		judgeKey = os.Getenv("OPENAI_API_KEY")
	}
	judge, err := verify.NewJudge(verify.Config{
		Provider:  cfg.Verify.Provider,
		Model:     cfg.Verify.Model,
		APIKey:    judgeKey,
		BaseURL:   cfg.Verify.BaseURL,
		Timeout:   int(cfg.Verify.Timeout.Seconds()),
		MaxTokens: cfg.Verify.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if judge == nil {
		logger.Warn().Msg("no judge provider configured, claims will stay unverified")
	}

	verifier := verify.NewVerifier(logger, deps.store, judge, cfg.Verify.RatePerSecond, cfg.Verify.RateBurst)
	deps.pool = worker.NewPool(logger, cfg.Verify.Workers)
	deps.analyzer = pipeline.NewAnalyzer(logger, deps.store, extractor, transcriber, frameReader, verifier, deps.pool)

	return deps, nil
}
