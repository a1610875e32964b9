package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRegionsCommand(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the voxel count of every region in the label map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, stderr)
			if err != nil {
				return err
			}

			ids := env.atlas.Labels.Distinct()
			if all {
				ids = mergeIDs(ids, env.atlas.Table.IDs())
			}

			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRegion\tVoxels")
			for _, id := range ids {
				count, name := env.atlas.CountAndName(id)
				fmt.Fprintf(tw, "%d\t%s\t%d\n", id, name, count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include table regions without voxels")

	return cmd
}

func newSizesCommand(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "Render the histogram of voxels per region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, stderr)
			if err != nil {
				return err
			}

			art, err := env.renderer.RegionSizes()
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Region size histogram saved to %s\n", art.Path)
			return nil
		},
	}
}

// mergeIDs merges two ascending ID lists without duplicates.
func mergeIDs(a, b []int) []int {
	merged := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			merged = append(merged, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}
	return merged
}
