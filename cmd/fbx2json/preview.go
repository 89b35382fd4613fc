package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fbx2json/internal/config"
	"fbx2json/internal/preview"
	"fbx2json/internal/scenefile"
	"fbx2json/internal/texture"
)

var previewFlags struct {
	output    string
	size      int
	source    string
	channel   string
	yaw       float64
	pitch     float64
	texture   string
	uvChannel string
	unlit     bool
	derive    bool
}

var previewCmd = &cobra.Command{
	Use:   "preview <input>",
	Short: "Render a thumbnail colored by a geometry channel",
	Long: `Renders every mesh of a scene document with an orthographic camera. Surfaces
are colored by the selected channel: shaded (none), color, tangent or uv.
The output format follows the extension: .webp, .png or .bmp.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{
			PreviewSize:   previewFlags.size,
			PreviewSource: previewFlags.source,
			Indent:        -1,
		})
		if err != nil {
			return err
		}
		src, err := preview.ParseSource(cfg.Preview.Source)
		if err != nil {
			return err
		}

		input := args[0]
		output := previewFlags.output
		if output == "" {
			format := cfg.Preview.Format
			if format == "" {
				format = preview.FormatWebP
			}
			output = fmt.Sprintf("%s.%s", strings.TrimSuffix(input, filepath.Ext(input)), format)
		}

		s, err := scenefile.Load(input)
		if err != nil {
			return err
		}
		if previewFlags.derive {
			if err := derive(cmd.Context(), s, &cfg); err != nil {
				return err
			}
		}

		opts := preview.Options{
			Size:        cfg.Preview.Size,
			Supersample: cfg.Preview.Supersample,
			Yaw:         cfg.Preview.Yaw,
			Pitch:       cfg.Preview.Pitch,
			Source:      src,
			Channel:     cfg.Preview.Channel,
			UVChannel:   previewFlags.uvChannel,
			Unlit:       previewFlags.unlit,
		}
		if previewFlags.channel != "" {
			opts.Channel = previewFlags.channel
		}
		if cmd.Flags().Changed("yaw") {
			opts.Yaw = previewFlags.yaw
		}
		if cmd.Flags().Changed("pitch") {
			opts.Pitch = previewFlags.pitch
		}
		if previewFlags.texture != "" {
			if opts.Texture, err = texture.Load(previewFlags.texture); err != nil {
				return err
			}
		}

		start := time.Now()
		res := preview.Render(s, opts)
		for _, fb := range res.Fallbacks {
			logger.Warn("drawn without channel", "node", fb.NodeName, "mesh", fb.MeshName, "error", fb.Err)
		}
		if err := preview.WriteFile(output, res.Image, ""); err != nil {
			return err
		}
		recorder.Since("preview", start)
		logger.Info("preview written", "output", output, "source", src)
		return nil
	},
}

func init() {
	f := previewCmd.Flags()
	f.StringVarP(&previewFlags.output, "output", "o", "", "Output image (.webp, .png, .bmp)")
	f.IntVar(&previewFlags.size, "size", 0, "Image width and height (default 256)")
	f.StringVar(&previewFlags.source, "source", "", "Surface coloring: shaded, color, tangent, uv")
	f.StringVar(&previewFlags.channel, "channel", "", "Channel name (default first of its kind)")
	f.Float64Var(&previewFlags.yaw, "yaw", 30, "Camera yaw in degrees")
	f.Float64Var(&previewFlags.pitch, "pitch", 20, "Camera pitch in degrees")
	f.StringVar(&previewFlags.texture, "texture", "", "Texture image (.tga, .png, .jpg, .bmp)")
	f.StringVar(&previewFlags.uvChannel, "uv", "", "UV channel the texture is sampled with")
	f.BoolVar(&previewFlags.unlit, "unlit", false, "Show channel colors without lighting")
	f.BoolVar(&previewFlags.derive, "derive", false, "Derive tangents before rendering")
	rootCmd.AddCommand(previewCmd)
}
