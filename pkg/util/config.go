package util

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ReadConfig loads config.{yaml,json,toml} from the given directories, ./data/ when
// none is given. a missing config file is not an error, every key has a default.
func ReadConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"./data/"}
	}
	viper.SetConfigName("config")
	for _, p := range paths {
		viper.AddConfigPath(p)
	}
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
