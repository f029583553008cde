package main

import (
	"os"

	"github.com/alfredjeanlab/vidstore/internal/client"
	"github.com/alfredjeanlab/vidstore/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL     string
	authToken   string
	jsonOutput  bool
	noColorFlag bool

	videoClient client.VideoClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("VIDSTORE_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("VIDSTORE_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "vs <command>",
	Short: "CLI client for the vidstore video metadata service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlag || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		videoClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if videoClient != nil {
			videoClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authenticated servers")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "videos", Title: "Videos:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Videos
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
