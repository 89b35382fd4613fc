package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fbx2json/internal/batch"
	"fbx2json/internal/config"
	"fbx2json/internal/preview"
	"fbx2json/internal/texture"
)

var batchFlags struct {
	output        string
	workers       int
	indent        int
	noDerive      bool
	bestEffort    bool
	saveFormat    string
	previewFormat string
	previewSize   int
	previewSource string
	textureDir    string
	limit         int
}

var batchCmd = &cobra.Command{
	Use:   "batch <input>...",
	Short: "Export many scene documents with a worker pool",
	Long: `Processes every input file, and every .json/.yaml file below input
directories: derive tangents, export JSON, optionally save a converted copy
and render a preview. A manifest.json describing each file is written to the
output directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{
			OutputDir:     batchFlags.output,
			TextureDir:    batchFlags.textureDir,
			Workers:       batchFlags.workers,
			BestEffort:    batchFlags.bestEffort,
			NoDerive:      batchFlags.noDerive,
			Indent:        batchFlags.indent,
			SaveFormat:    batchFlags.saveFormat,
			PreviewFormat: batchFlags.previewFormat,
			PreviewSize:   batchFlags.previewSize,
			PreviewSource: batchFlags.previewSource,
		})
		if err != nil {
			return err
		}
		src, err := preview.ParseSource(cfg.Preview.Source)
		if err != nil {
			return err
		}

		inputs, err := batch.Inputs(args)
		if err != nil {
			return err
		}
		// Limit for testing
		if batchFlags.limit > 0 && batchFlags.limit < len(inputs) {
			inputs = inputs[:batchFlags.limit]
		}
		if len(inputs) == 0 {
			logger.Info("no inputs")
			return nil
		}

		bcfg := batch.Config{
			OutputDir:     cfg.OutputDir,
			Workers:       cfg.Workers,
			Derive:        cfg.DeriveTangents(),
			BestEffort:    cfg.BestEffort,
			Indent:        cfg.JSONIndent(),
			SaveFormat:    cfg.SaveFormat,
			PreviewFormat: cfg.Preview.Format,
			Preview: preview.Options{
				Size:        cfg.Preview.Size,
				Supersample: cfg.Preview.Supersample,
				Yaw:         cfg.Preview.Yaw,
				Pitch:       cfg.Preview.Pitch,
				Source:      src,
				Channel:     cfg.Preview.Channel,
			},
			Metrics: recorder,
			Logger:  logger,
		}
		if cfg.TextureDir != "" {
			idx := texture.BuildIndex(cfg.TextureDir)
			bcfg.Textures = texture.NewCache(idx)
			logger.Info("textures indexed", "count", idx.Len())
		}

		logger.Info("batch", "inputs", len(inputs), "workers", cfg.Workers, "output", cfg.OutputDir)
		start := time.Now()
		results := batch.Run(cmd.Context(), bcfg, inputs)
		success, failed := batch.Summary(results)
		logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond), "exported", success, "failed", failed)

		limit := 20
		for _, r := range results {
			if r.Success || limit == 0 {
				continue
			}
			logger.Warn("failed", "input", r.Input, "error", r.Error)
			limit--
		}

		if err := batch.WriteManifest(filepath.Join(cfg.OutputDir, "manifest.json"), results); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchFlags.output, "output", "o", "", "Output directory (default out)")
	f.IntVar(&batchFlags.workers, "workers", 0, "Number of worker goroutines (default NumCPU)")
	f.IntVar(&batchFlags.indent, "indent", -1, "JSON indent width, 0 for compact (default 4)")
	f.BoolVar(&batchFlags.noDerive, "no-derive", false, "Export without deriving tangents")
	f.BoolVar(&batchFlags.bestEffort, "best-effort", false, "Export files even when a mesh has an unsupported mapping mode")
	f.StringVar(&batchFlags.saveFormat, "save", "", "Also save each scene as json or yaml")
	f.StringVar(&batchFlags.previewFormat, "preview", "", "Render previews as webp, png or bmp")
	f.IntVar(&batchFlags.previewSize, "preview-size", 0, "Preview width and height (default 256)")
	f.StringVar(&batchFlags.previewSource, "preview-source", "", "Preview coloring: shaded, color, tangent, uv")
	f.StringVar(&batchFlags.textureDir, "textures", "", "Directory of preview textures, matched by file name")
	f.IntVar(&batchFlags.limit, "test", 0, "Process only the first N inputs")
	rootCmd.AddCommand(batchCmd)
}
