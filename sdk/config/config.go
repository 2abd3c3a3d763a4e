package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the top-level configuration tree.
type Config struct {
	Application *Application `mapstructure:"application"`
	HTTP        *HTTPConfig  `mapstructure:"http" json:"http"`
	Logger      *Logger      `mapstructure:"logger"`
	SSL         *SSL         `mapstructure:"ssl"`
	JWT         *JWT         `mapstructure:"jwt"`
	Database    *Database    `mapstructure:"database"`
	Tenants     *Tenants     `mapstructure:"tenants"`
	Provision   *Provision   `mapstructure:"provision"`
}

var AppConfig = &Config{
	Application: ApplicationConfig,
	Logger:      LoggerConfig,
	HTTP:        HttpConfig,
	SSL:         SslConfig,
	JWT:         JwtConfig,
	Database:    DatabaseConfig,
	Tenants:     TenantsConfig,
	Provision:   ProvisionConfig,
}

// Setup reads the yaml config file and unmarshals it into AppConfig.
func Setup(configYml string) error {
	v := viper.New()
	v.SetConfigFile(configYml)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", configYml, err)
	}

	if err := v.Unmarshal(AppConfig); err != nil {
		return fmt.Errorf("unmarshalling config file %s: %w", configYml, err)
	}

	return nil
}
