package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <video-id>",
	Aliases: []string{"get"},
	Short:   "Show a video metadata record",
	GroupID: "videos",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		video, err := videoClient.GetVideo(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printVideoJSON(video)
		} else {
			printVideoTable(video)
		}
		return nil
	},
}
