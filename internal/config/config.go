package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn   string        `mapstructure:"POSTGRES_CONN"`
	MigrationURL   string        `mapstructure:"MIGRATION_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	NotifyBuffer   int           `mapstructure:"NOTIFY_BUFFER"`
}

// LoadConfig загружает конфигурацию из файла app.env
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("NOTIFY_BUFFER", 128)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}
