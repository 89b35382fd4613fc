package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fbx2json/internal/config"
	"fbx2json/internal/export"
	"fbx2json/internal/scenefile"
)

var exportFlags struct {
	input      string
	output     string
	indent     int
	workers    int
	noDerive   bool
	bestEffort bool
}

var exportCmd = &cobra.Command{
	Use:   "export [input]",
	Short: "Derive tangents and write the scene graph as a JSON document",
	Long: `Loads a scene document, converts the OutlineNormal vertex color channel of
every mesh into a tangent channel and writes the exported scene graph as JSON.
Output "-" or no output writes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := exportFlags.input
		if input == "" && len(args) > 0 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("input file is required")
		}
		cfg, err := loadConfig(config.Flags{
			Workers:    exportFlags.workers,
			BestEffort: exportFlags.bestEffort,
			NoDerive:   exportFlags.noDerive,
			Indent:     exportFlags.indent,
		})
		if err != nil {
			return err
		}
		return runExport(cmd, &cfg, input, exportFlags.output)
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.input, "input", "i", "", "Input scene document (.json, .yaml)")
	f.StringVarP(&exportFlags.output, "output", "o", "", "Output JSON file (default stdout)")
	f.IntVar(&exportFlags.indent, "indent", -1, "JSON indent width, 0 for compact (default 4)")
	f.IntVar(&exportFlags.workers, "workers", 0, "Meshes processed concurrently (default NumCPU)")
	f.BoolVar(&exportFlags.noDerive, "no-derive", false, "Export without deriving tangents")
	f.BoolVar(&exportFlags.bestEffort, "best-effort", false, "Export even when a mesh has an unsupported mapping mode")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, cfg *config.Config, input, output string) error {
	ctx := cmd.Context()

	start := time.Now()
	s, err := scenefile.Load(input)
	recorder.Since("load", start)
	if err != nil {
		recorder.File(false)
		return err
	}
	if err := derive(ctx, s, cfg); err != nil {
		recorder.File(false)
		return err
	}

	start = time.Now()
	root, err := export.ExportSceneParallel(ctx, s, cfg.Workers)
	if err != nil {
		recorder.File(false)
		return err
	}
	doc := &export.Document{RootNode: root}

	if output == "" || output == "-" {
		err = export.Encode(cmd.OutOrStdout(), doc, cfg.JSONIndent())
	} else {
		err = scenefile.WriteDocument(doc, output, scenefile.FormatJSON, cfg.JSONIndent())
	}
	recorder.Since("export", start)
	recorder.File(err == nil)
	if err != nil {
		return err
	}
	logger.Info("exported", "input", input, "output", output)
	return nil
}
