// This file defines the configuration structure for the application.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application. It maps
// directly to the structure of bancheck.yml. It is built once at
// process start and passed explicitly into the store, providers, and
// updater; there is no process-wide singleton.
type Config struct {
	Storage struct {
		ProgramsFile string `mapstructure:"programs_file"`
		OutputDir    string `mapstructure:"output_dir"`
	} `mapstructure:"storage"`
	Cache struct {
		Dir        string `mapstructure:"dir"`
		TTLSeconds int    `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	SeasonDetection struct {
		Threshold  int `mapstructure:"threshold"`
		MaxSeasons int `mapstructure:"max_seasons"`
	} `mapstructure:"season_detection"`
	Extractor struct {
		Path           string  `mapstructure:"path"`
		TimeoutSeconds int     `mapstructure:"timeout"`
		RatePerSecond  float64 `mapstructure:"rate_limit"`
	} `mapstructure:"extractor"`
	URLs struct {
		AbemaBase          string `mapstructure:"abema_base"`
		AbemaEpisodeBase   string `mapstructure:"abema_episode_base"`
		AbemaSeasonPattern string `mapstructure:"abema_season_pattern"`
		TVerSeriesBase     string `mapstructure:"tver_series_base"`
		TVerEpisodeBase    string `mapstructure:"tver_episode_base"`
		NicoChannelBase    string `mapstructure:"nico_channel_base"`
		NicoWatchBase      string `mapstructure:"nico_watch_base"`
	} `mapstructure:"urls"`
}

// Load reads configuration from a file named "bancheck.yml" in the
// current directory and unmarshals it into a Config struct. A missing
// config file is not an error; defaults and environment variables
// still apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("bancheck")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// Environment variable overrides with a "BANCHECK_" prefix, e.g.
	// BANCHECK_STORAGE_PROGRAMS_FILE overrides `storage.programs_file`.
	v.SetEnvPrefix("BANCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults.
		} else {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.programs_file", "programs.json")
	v.SetDefault("storage.output_dir", "output")
	v.SetDefault("cache.dir", ".cache")
	v.SetDefault("cache.ttl", 3600)
	v.SetDefault("season_detection.threshold", 12)
	v.SetDefault("season_detection.max_seasons", 10)
	v.SetDefault("extractor.path", "yt-dlp")
	v.SetDefault("extractor.timeout", 120)
	v.SetDefault("extractor.rate_limit", 1.0)
	v.SetDefault("urls.abema_base", "https://abema.tv/video/title")
	v.SetDefault("urls.abema_episode_base", "https://abema.tv/video/episode")
	v.SetDefault("urls.abema_season_pattern", "https://abema.tv/video/title/%[1]s?s=%[1]s_s%[2]d&eg=%[1]s_eg0")
	v.SetDefault("urls.tver_series_base", "https://tver.jp/series")
	v.SetDefault("urls.tver_episode_base", "https://tver.jp/episodes")
	v.SetDefault("urls.nico_channel_base", "https://ch.nicovideo.jp")
	v.SetDefault("urls.nico_watch_base", "https://www.nicovideo.jp/watch")
}
