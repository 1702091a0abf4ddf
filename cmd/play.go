/*
Copyright © 2025 etui contributors
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davrell/etui/internal/config"
	"github.com/davrell/etui/internal/logging"
	"github.com/davrell/etui/internal/player"
	"github.com/davrell/etui/pkg/emby"
)

var playCmd = &cobra.Command{
	Use:   "play <title>",
	Short: "Search for a title and play the first match",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		client, err := emby.ConnectFromConfig(func(key string) string {
			return viper.GetString(key)
		})
		if err != nil {
			fmt.Printf("❌ Error connecting to server: %v\n", err)
			os.Exit(1)
		}

		results, err := client.Search.Quick(query)
		if err != nil {
			fmt.Printf("❌ Search failed: %v\n", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Printf("No match for %q\n", query)
			os.Exit(1)
		}
		item := results[0]
		fmt.Printf("▶ Playing %s\n", item.Name)

		prefs := config.PlaybackPreferences()
		controller := player.New(
			player.NewSessionAPI(client),
			player.NewMPVEngine(logging.Logger),
			player.Preferences{Quality: prefs.Quality, AudioLanguage: prefs.AudioLanguage},
			logging.Logger,
		)
		defer controller.Teardown()

		if err := controller.LoadItem(item.ID); err != nil {
			fmt.Printf("❌ Playback failed: %v\n", err)
			os.Exit(1)
		}
		if controller.State() == player.StateSourcePending {
			// Headless playback cannot prompt; take the first offered source.
			sources := controller.Sources()
			if err := controller.SelectSource(sources[0].ID); err != nil {
				fmt.Printf("❌ Playback failed: %v\n", err)
				os.Exit(1)
			}
		}

		for {
			time.Sleep(time.Second)
			switch controller.State() {
			case player.StateStopped, player.StateIdle:
				return
			case player.StateErrored:
				fmt.Printf("❌ %s\n", controller.Err())
				os.Exit(1)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(playCmd)
}
