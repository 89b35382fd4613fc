package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fbx2json/internal/channel"
	"fbx2json/internal/scene"
	"fbx2json/internal/scenefile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "List meshes and channels of a scene document and validate them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenefile.Load(args[0])
		if err != nil {
			return err
		}
		invalid := inspectScene(cmd.OutOrStdout(), s)
		if invalid > 0 {
			return fmt.Errorf("%d invalid channels", invalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// inspectScene prints one row per channel and returns the number of
// channels that fail validation.
func inspectScene(out io.Writer, s *scene.Scene) int {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tMESH\tKIND\tCHANNEL\tMAPPING\tREFERENCE\tDIRECT\tINDEX\tSTATUS")

	invalid := 0
	for _, mn := range s.Meshes() {
		m := mn.Mesh
		cps, pvs := len(m.ControlPoints), m.PolygonVertexCount()
		fmt.Fprintf(w, "%s\t%s\tmesh\t\t\t\t%d cp\t%d pv\t%d polygons\n", mn.Node.Name, m.Name, cps, pvs, len(m.Polygons))

		row := func(kind, name string, mp scene.MappingMode, ref scene.ReferenceMode, direct, index int, err error) {
			status := "ok"
			if err != nil {
				status = err.Error()
				invalid++
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n", mn.Node.Name, m.Name, kind, name, mp, ref, direct, index, status)
		}
		for i := range m.Colors {
			e := &m.Colors[i]
			row("color", e.Name, e.Mapping, e.Reference, len(e.Direct), len(e.Index), channel.Validate(e, cps, pvs))
		}
		for i := range m.UVs {
			e := &m.UVs[i]
			row("uv", e.Name, e.Mapping, e.Reference, len(e.Direct), len(e.Index), channel.Validate(e, cps, pvs))
		}
		for i := range m.Tangents {
			e := &m.Tangents[i]
			row("tangent", e.Name, e.Mapping, e.Reference, len(e.Direct), len(e.Index), channel.Validate(e, cps, pvs))
		}
	}
	w.Flush()
	return invalid
}
