package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"pricewatch/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PW_LOG_LEVEL")
	viper.BindEnv("database.dsn", "PW_DATABASE_DSN")
	viper.BindEnv("pushover.token", "PW_PUSHOVER_TOKEN")
	viper.BindEnv("refresh.hour", "PW_REFRESH_HOUR")
	viper.BindEnv("scraper.mode", "PW_SCRAPER_MODE")
	viper.BindEnv("cache.enabled", "PW_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PW_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PriceWatch"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
