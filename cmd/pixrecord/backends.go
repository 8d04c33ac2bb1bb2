package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tauraamui/pixrecord/pkg/config"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoset"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the record backends which can be instantiated and their codecs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.DefaultResolver().Resolve()
			if err != nil {
				return err
			}
			reg, set, err := buildSet(cfg)
			if err != nil {
				return err
			}
			defer set.Close() //nolint
			printCatalog(cmd.OutOrStdout(), set.RebuildCatalog())
			for _, id := range disabled(reg, set) {
				fmt.Fprintf(cmd.OutOrStdout(), "-\t-\t%s\tdisabled\n", id)
			}
			return nil
		},
	}
}

func printCatalog(w io.Writer, catalog []videoset.CodecEntry) {
	for _, e := range catalog {
		desc := e.Description
		if e.Implicit {
			desc = "(implicit)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Index, e.Codec, e.BackendID, desc)
	}
}

// disabled lists registered backends which could not be instantiated.
func disabled(reg *videobackend.Registry, set *videoset.Set) []string {
	var missing []string
	for _, id := range reg.IDs() {
		found := false
		for _, e := range set.All() {
			if e.ID == id {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, id)
		}
	}
	return missing
}
