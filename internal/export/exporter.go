package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spacesedan/brandvoice/internal/models"
	"github.com/spacesedan/brandvoice/internal/pipeline"
)

const (
	EXPORTS_DIR         = "exports"
	POSTS_FILE          = "posts.csv"
	BRAND_COMMENTS_FILE = "brand_comments.csv"
	SOV_FILE            = "sov.csv"
	SPV_FILE            = "spv.csv"
	RUN_CONFIG_FILE     = "run_config.json"
	INSIGHTS_FILE       = "insights.md"
	INSIGHTS_HTML_FILE  = "insights.html"
	CHARTS_FILE         = "charts.html"
)

// Exporter writes the flat artifacts of a run under one output directory.
type Exporter struct {
	OutDir string
}

func NewExporter(outDir string) (*Exporter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("[Export] output directory is required")
	}
	if err := os.MkdirAll(filepath.Join(outDir, EXPORTS_DIR), 0o755); err != nil {
		return nil, fmt.Errorf("[Export] failed to create output directory: %w", err)
	}
	return &Exporter{OutDir: outDir}, nil
}

func (e *Exporter) Paths() models.ExportPaths {
	exportsDir := filepath.Join(e.OutDir, EXPORTS_DIR)
	return models.ExportPaths{
		Posts:    filepath.Join(exportsDir, POSTS_FILE),
		Comments: filepath.Join(exportsDir, BRAND_COMMENTS_FILE),
		SoV:      filepath.Join(exportsDir, SOV_FILE),
		SPV:      filepath.Join(exportsDir, SPV_FILE),
		Insights: filepath.Join(e.OutDir, INSIGHTS_FILE),
		Charts:   filepath.Join(e.OutDir, CHARTS_FILE),
	}
}

// Write exports the tables, run config, insights and charts of a run and
// returns the run config that was written.
func (e *Exporter) Write(res *pipeline.Result) (models.RunConfig, error) {
	paths := e.Paths()

	if err := WritePosts(paths.Posts, res.Posts); err != nil {
		return models.RunConfig{}, err
	}
	if err := WriteBrandComments(paths.Comments, res.BrandComments); err != nil {
		return models.RunConfig{}, err
	}
	if err := WriteSoV(paths.SoV, res.SoV); err != nil {
		return models.RunConfig{}, err
	}
	if err := WriteSPV(paths.SPV, res.SPV); err != nil {
		return models.RunConfig{}, err
	}

	cfg := models.RunConfig{
		RunID:      res.RunID,
		RunTime:    res.RunTime,
		FocalBrand: res.FocalBrand,
		Brands:     res.Brands,
		Params:     res.Params,
		Keywords:   res.Keywords,
		Exports:    paths,
	}
	if err := writeJSON(filepath.Join(e.OutDir, RUN_CONFIG_FILE), cfg); err != nil {
		return models.RunConfig{}, err
	}

	insights := ComposeInsights(res.SoV, res.SPV)
	if err := os.WriteFile(paths.Insights, []byte(insights), 0o644); err != nil {
		return models.RunConfig{}, fmt.Errorf("[Export] failed to write insights: %w", err)
	}
	if err := os.WriteFile(filepath.Join(e.OutDir, INSIGHTS_HTML_FILE), RenderInsightsHTML(insights), 0o644); err != nil {
		return models.RunConfig{}, fmt.Errorf("[Export] failed to write insights html: %w", err)
	}

	if err := WriteCharts(paths.Charts, res.SoV, res.SPV); err != nil {
		return models.RunConfig{}, err
	}

	slog.Info("[Export] Run exported",
		slog.String("run_id", res.RunID),
		slog.String("out_dir", e.OutDir),
		slog.Int("posts", len(res.Posts)),
		slog.Int("brand_comments", len(res.BrandComments)))

	return cfg, nil
}

// RenderChartsFromExports rebuilds charts.html from the SoV and SPV tables of
// an earlier run.
func (e *Exporter) RenderChartsFromExports() (string, error) {
	paths := e.Paths()

	sov, err := ReadSoV(paths.SoV)
	if err != nil {
		return "", err
	}
	spv, err := ReadSPV(paths.SPV)
	if err != nil {
		return "", err
	}

	if err := WriteCharts(paths.Charts, sov, spv); err != nil {
		return "", err
	}

	slog.Info("[Export] Charts rendered", slog.String("path", paths.Charts))
	return paths.Charts, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("[Export] failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("[Export] failed to write %s: %w", path, err)
	}
	return nil
}
