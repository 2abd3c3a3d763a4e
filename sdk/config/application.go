package config

// Application holds process-wide application settings.
type Application struct {
	Mode          string `mapstructure:"mode" json:"mode"`
	Host          string `mapstructure:"host" json:"host"`
	Name          string `mapstructure:"name" json:"name"`
	Port          int    `mapstructure:"port" json:"port"`
	ReadTimeout   int    `mapstructure:"readtimeout" json:"readtimeout"`
	WriterTimeout int    `mapstructure:"writertimeout" json:"writetimeout"`
}

var ApplicationConfig = new(Application)
