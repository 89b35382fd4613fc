package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fbx2json/internal/config"
	"fbx2json/internal/scenefile"
)

var convertFlags struct {
	format     string
	noDerive   bool
	bestEffort bool
	embedMedia bool
}

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output]",
	Short: "Derive tangents and save the scene in another document format",
	Long: `Loads a scene document, converts the OutlineNormal vertex color channel into a
tangent channel and saves the scene again. Without an output path the result is
written next to the input as <name>_converted.<format>.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{
			BestEffort: convertFlags.bestEffort,
			NoDerive:   convertFlags.noDerive,
			SaveFormat: convertFlags.format,
			Indent:     -1,
		})
		if err != nil {
			return err
		}

		input := args[0]
		var output string
		if len(args) > 1 {
			output = args[1]
		} else {
			format := cfg.SaveFormat
			if format == "" {
				format = scenefile.FormatJSON
			}
			stem := strings.TrimSuffix(input, filepath.Ext(input))
			output = fmt.Sprintf("%s_converted.%s", stem, format)
		}

		s, err := scenefile.Load(input)
		if err != nil {
			recorder.File(false)
			return err
		}
		if err := derive(cmd.Context(), s, &cfg); err != nil {
			recorder.File(false)
			return err
		}
		if err := scenefile.Save(s, output, cfg.SaveFormat, convertFlags.embedMedia); err != nil {
			recorder.File(false)
			return err
		}
		recorder.File(true)
		logger.Info("converted", "input", input, "output", output)
		return nil
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.format, "format", "f", "", "Output format: json or yaml (default from extension)")
	f.BoolVar(&convertFlags.noDerive, "no-derive", false, "Save without deriving tangents")
	f.BoolVar(&convertFlags.bestEffort, "best-effort", false, "Save even when a mesh has an unsupported mapping mode")
	f.BoolVar(&convertFlags.embedMedia, "embed-media", false, "Embed media in the output (documents carry none)")
	rootCmd.AddCommand(convertCmd)
}
