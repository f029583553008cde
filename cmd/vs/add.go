package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/vidstore/internal/client"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add [<video-id>]",
	Short:   "Add a video metadata record",
	GroupID: "videos",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var videoID string
		if len(args) == 1 {
			videoID = args[0]
		}

		rawMetadata, _ := cmd.Flags().GetString("metadata")
		fieldPairs, _ := cmd.Flags().GetStringArray("field")

		metadata, err := parseMetadata(rawMetadata, fieldPairs)
		if err != nil {
			return err
		}

		video, err := videoClient.CreateVideo(context.Background(), &client.CreateVideoRequest{
			VideoID:  videoID,
			Metadata: metadata,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printVideoJSON(video)
		} else {
			fmt.Printf("Added video %s\n", video.VideoID)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().String("metadata", "", "metadata as a raw JSON object")
	addCmd.Flags().StringArrayP("field", "f", nil, "metadata field as key=value (repeatable)")
}
