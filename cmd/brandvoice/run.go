package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spacesedan/brandvoice/internal/clients"
	"github.com/spacesedan/brandvoice/internal/clients/kafka_client"
	"github.com/spacesedan/brandvoice/internal/export"
	"github.com/spacesedan/brandvoice/internal/pipeline"
	"github.com/spacesedan/brandvoice/internal/sentiment"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the corpus for every keyword and export SoV and SPV",
	RunE: func(cmd *cobra.Command, args []string) error {
		keywordsFile, _ := cmd.Flags().GetString("keywords-file")
		topN, _ := cmd.Flags().GetInt("top-n")
		days, _ := cmd.Flags().GetInt("days")
		outDir, _ := cmd.Flags().GetString("out")

		topN = resolveTopN(topN, cfg.MaxResults)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runPipeline(ctx, cmd.OutOrStdout(), keywordsFile, topN, days, outDir)
	},
}

func init() {
	runCmd.Flags().String("keywords-file", "data/keywords.txt", "file with one search keyword per line")
	runCmd.Flags().Int("top-n", 0, "videos fetched per keyword; 0 uses MAX_RESULTS")
	runCmd.Flags().Int("days", 365, "lookback window for video publish date; 0 disables it")
	runCmd.Flags().String("out", "reports", "output directory")
}

func runPipeline(ctx context.Context, stdout io.Writer, keywordsFile string, topN, days int, outDir string) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	keywords, err := readKeywords(keywordsFile)
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords found in %s", keywordsFile)
	}

	exporter, err := export.NewExporter(outDir)
	if err != nil {
		return err
	}

	quota, closeQuota, err := newQuotaTracker(ctx)
	if err != nil {
		return err
	}
	defer closeQuota()

	yt, err := clients.NewYouTubeClient(ctx, cfg.YouTubeAPIKey, quota)
	if err != nil {
		return err
	}

	labeler, err := sentiment.NewLabeler(cfg.Thresholds, sentiment.WithMarkupStripping(cfg.StripMarkup))
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(yt, labeler, pipeline.Options{
		Brands:              cfg.Brands,
		FocalBrand:          cfg.FocalBrand,
		Weights:             cfg.Weights,
		MaxCommentsPerVideo: cfg.MaxCommentsPerVideo,
		Concurrency:         cfg.FetchConcurrency,
	})
	if err != nil {
		return err
	}

	result, err := pipe.Run(ctx, pipeline.Params{Keywords: keywords, TopN: topN, Days: days})
	if err != nil {
		return err
	}

	runConfig, err := exporter.Write(result)
	if err != nil {
		return err
	}

	publishSummary(ctx, result)

	if used, err := quota.Used(ctx); err == nil {
		slog.Info("[Main] YouTube quota used today", slog.Int64("units", used))
	}

	fmt.Fprintln(stdout, "Run complete. Exports:")
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(runConfig.Exports)
}

// resolveTopN falls back to the configured MAX_RESULTS when the flag is unset.
func resolveTopN(flagValue, maxResults int) int {
	if flagValue > 0 {
		return flagValue
	}
	return maxResults
}

// readKeywords returns the trimmed, non-blank lines of path.
func readKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keywords file: %w", err)
	}
	defer f.Close()

	return parseKeywords(f)
}

func parseKeywords(r io.Reader) ([]string, error) {
	var keywords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			keywords = append(keywords, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keywords: %w", err)
	}
	return keywords, nil
}

// newQuotaTracker shares the quota through Valkey when it is configured and
// falls back to a per-process counter otherwise.
func newQuotaTracker(ctx context.Context) (clients.QuotaTracker, func(), error) {
	if cfg.ValkeyAddress == "" {
		return clients.NewMemoryQuota(cfg.DailyQuota), func() {}, nil
	}

	vc, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		TLS:      cfg.ValkeyTLS,
	})
	if err != nil {
		return nil, nil, err
	}
	return clients.NewValkeyQuota(vc, cfg.DailyQuota), vc.Close, nil
}

func publishSummary(ctx context.Context, result *pipeline.Result) {
	if cfg.KafkaBroker == "" {
		return
	}

	publisher, err := kafka_client.NewRunPublisher(kafka_client.NewKafkaConfig(cfg.KafkaBroker, cfg.KafkaResultTopic))
	if err != nil {
		slog.Warn("[Main] Kafka unavailable, run summary not published",
			slog.String("error", err.Error()))
		return
	}
	defer publisher.Close()

	if err := publisher.Publish(ctx, result.Summary()); err != nil {
		slog.Warn("[Main] Failed to publish run summary",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()))
	}
}
