package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <video-id>",
	Short:   "Replace a video's metadata",
	GroupID: "videos",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawMetadata, _ := cmd.Flags().GetString("metadata")
		fieldPairs, _ := cmd.Flags().GetStringArray("field")

		metadata, err := parseMetadata(rawMetadata, fieldPairs)
		if err != nil {
			return err
		}
		if metadata == nil {
			return fmt.Errorf("nothing to update: provide --metadata or -f key=value")
		}

		resp, err := videoClient.UpdateVideo(context.Background(), args[0], metadata)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			data, _ := jsonIndent(resp)
			fmt.Println(string(data))
		} else {
			fmt.Printf("Updated video %s\n", resp.VideoID)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().String("metadata", "", "metadata as a raw JSON object")
	updateCmd.Flags().StringArrayP("field", "f", nil, "metadata field as key=value (repeatable)")
}
