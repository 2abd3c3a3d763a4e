package config

type SSL struct {
	KeyStr string `mapstructure:"key_str"` // private key, PEM text
	Pem    string `mapstructure:"pem"`     // certificate, PEM text
	Enable bool   `mapstructure:"enable"`
	Domain string `mapstructure:"domain"`
}

var SslConfig = new(SSL)
