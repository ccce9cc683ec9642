package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config interface {
	BasePath() string
	Stages() []string
}

// LoadConfig resolves the board configuration from a .standup file (cwd or
// home), STANDUP_* environment variables, or the built-in defaults.
func LoadConfig() (Config, error) {
	viper.SetDefault("basepath", "~/.standup.db")
	viper.SetDefault("stages", []string{"Todo", "Doing", "Done"})
	viper.SetConfigName(".standup") // .yaml is implicit
	viper.SetEnvPrefix("STANDUP")
	viper.AutomaticEnv()

	if override := os.Getenv("STANDUP_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	base, err := homedir.Expand(viper.GetString("basepath"))
	if err != nil {
		return nil, fmt.Errorf("store: expand base path: %w", err)
	}

	return &fileConfig{Path: base, Board: viper.GetStringSlice("stages")}, nil
}

type fileConfig struct {
	Path  string   `json:"basepath"`
	Board []string `json:"stages"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Stages() []string {
	return f.Board
}
