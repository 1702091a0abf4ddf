/*
Copyright © 2025 etui contributors
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davrell/etui/internal/ui"
	"github.com/davrell/etui/pkg/emby"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the media library",
	Long: `
Browse your media library using an interactive TUI.

Navigate with arrow keys or hjkl, Enter to open, Esc to go back.
The home screen shows Continue Watching, Next Up, Recently Added
and, when a trending API key is configured, a Trending row.`,
	Run: func(cmd *cobra.Command, args []string) {
		client, err := emby.ConnectFromConfig(func(key string) string {
			return viper.GetString(key)
		})
		if err != nil {
			fmt.Printf("❌ Error connecting to server: %v\n", err)
			os.Exit(1)
		}

		ui.Run(client)
	},
}

func init() {
	RootCmd.AddCommand(browseCmd)
}
