package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/autopeer-io/carstock/pkg/log"
)

// dotEnvFile is read from the working directory when present.
var dotEnvFile = ".env"

// loadDotEnv exports the variables of dotEnvFile without overriding the real environment.
func loadDotEnv() error {
	err := godotenv.Load(dotEnvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
}

// watchConfig applies log.level changes from the config file without a restart.
// Other keys are read once at start.
func watchConfig(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		applyLogLevel(v.GetString("log.level"), e.Name)
	})
	v.WatchConfig()
}

func applyLogLevel(level, source string) {
	if level == "" || level == log.CurrentLevel() {
		return
	}
	if err := log.SetLevel(level); err != nil {
		log.Error(err, "Ignoring log level from config file", "file", source)
		return
	}
	log.Info("Log level changed", "level", level, "file", source)
}
