/*
Copyright © 2025 etui contributors
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davrell/etui/internal/config"
	"github.com/davrell/etui/internal/logging"
)

var RootCmd = &cobra.Command{
	Use:   "etui",
	Short: "Browse and play media from an Emby server in your terminal",
	Long: `
etui is a terminal client for Emby-compatible media servers.

It provides a remote-friendly browsing UI with directional focus
navigation and an mpv-backed playback session with server-side
progress tracking.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initConfigAndLogger()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help() // nolint:errcheck
	},
}

func initConfigAndLogger() {
	configDir, err := config.GetConfigDirPath()
	if err != nil {
		fmt.Printf("❌ Failed to prepare config directory: %v\n", err)
		os.Exit(1)
	}
	configPath := filepath.Join(configDir, "config.yaml")
	config.CreateDefaultConfigFile(configPath)

	logPath := filepath.Join(xdg.StateHome, "etui", "etui.log")
	logging.Initialize(logging.ParseLevel(viper.GetString("loglevel")), logPath)

	if err := config.ReadConfig(configPath); err != nil {
		fmt.Printf("❌ Failed to read config: %v\n", err)
		os.Exit(1)
	}
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
