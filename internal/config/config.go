package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davrell/etui/internal/logging"
)

type Config struct {
	Emby     EmbyConfig     `yaml:"emby"`
	Playback PlaybackConfig `yaml:"playback"`
	Trending TrendingConfig `yaml:"trending"`
}

type EmbyConfig struct {
	ServerURL string `yaml:"server_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

type PlaybackConfig struct {
	Quality       string `yaml:"quality"`
	AudioLanguage string `yaml:"audio_language"`
}

type TrendingConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// CreateDefaultConfigFile writes the YAML config file with defaults, leaving
// an existing file untouched.
func CreateDefaultConfigFile(filePath string) {
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("emby", map[string]interface{}{
		"server_url": "http://localhost:8096",
		"username":   "",
		"password":   "",
	})
	viper.SetDefault("playback", map[string]interface{}{
		"quality":        "highest",
		"audio_language": "",
	})
	viper.SetDefault("trending", map[string]interface{}{
		"api_key":  "",
		"base_url": "https://api.themoviedb.org/3",
	})
	viper.SetConfigType("yaml")
	viper.SafeWriteConfigAs(filePath) // nolint:all
}

func GetConfigDirPath() (string, error) {
	configDirPath := filepath.Join(xdg.ConfigHome, "etui")
	if err := os.MkdirAll(configDirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return configDirPath, nil
}

func ReadConfig(filePath string) error {
	viper.SetConfigFile(filePath)
	logging.Logger.Debug("Reading config file...", zap.String("filePath", filePath))
	if err := viper.ReadInConfig(); err != nil {
		logging.Logger.Error("Failed to read config file.", zap.Error(err))
		return fmt.Errorf("failed to read config file: %v", err)
	}
	return nil
}

// PlaybackPreferences reads the persisted playback preferences. The playback
// controller treats these as read-only input at session start.
func PlaybackPreferences() PlaybackConfig {
	return PlaybackConfig{
		Quality:       viper.GetString("playback.quality"),
		AudioLanguage: viper.GetString("playback.audio_language"),
	}
}
