package main

import (
	"context"
	"fmt"
	"io"
	"os"

	vidsync "github.com/alfredjeanlab/vidstore/internal/sync"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export [<file>]",
	Short:   "Export all video records as a JSONL snapshot",
	GroupID: "videos",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := videoClient.ListVideos(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var w io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}

		if err := vidsync.WriteJSONL(resp.Videos, w); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		if len(args) == 1 {
			fmt.Fprintf(os.Stderr, "exported %d videos to %s\n", len(resp.Videos), args[0])
		}
		return nil
	},
}
