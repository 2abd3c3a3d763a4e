package config

type Logger struct {
	Path            string // log file directory
	Level           string // debug, info, warn, error
	Stdout          bool   // also write to stdout
	MaxSize         int    // max size per log file in MB
	ErrorMaxAge     int    // error log retention in days
	InfoMaxAge      int    // info log retention in days
	MaxBackups      int    // number of rotated files to keep
	EnabledDB       bool   // log SQL statements through the gorm adapter
	GormLoggerLevel int    // 4 Info, 3 Warn, 2 Error, 1 Silent
}

var LoggerConfig = new(Logger)
