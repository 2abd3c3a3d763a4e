package config

// HTTPConfig configures the gin HTTP server.
type HTTPConfig struct {
	Enabled        bool      `mapstructure:"enabled" json:"enabled"`
	Host           string    `mapstructure:"host" json:"host"`
	Port           int       `mapstructure:"port" json:"port"`
	ReadTimeout    int       `mapstructure:"readtimeout" json:"readtimeout"`       // seconds
	WriteTimeout   int       `mapstructure:"writetimeout" json:"writetimeout"`     // seconds
	IdleTimeout    int       `mapstructure:"idletimeout" json:"idletimeout"`       // seconds
	MaxHeaderBytes int       `mapstructure:"maxheaderbytes" json:"maxheaderbytes"` // MB
	SSL            SSLConfig `mapstructure:"ssl" json:"ssl"`
}

// SSLConfig holds inline TLS material for the HTTP server.
type SSLConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	KeyStr  string `mapstructure:"key_str"` // private key, PEM text
	Pem     string `mapstructure:"pem"`     // certificate, PEM text
	Domain  string `mapstructure:"domain"`
}

var HttpConfig = new(HTTPConfig)
