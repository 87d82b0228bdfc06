package main

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,default=4096"`
	DefaultPageSize      int           `env:"DEFAULT_PAGE_SIZE,default=50"`
	MaxPageSize          int           `env:"MAX_PAGE_SIZE,default=200"`
	BufferSize           int           `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=128"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=500ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=15s"`
	CensoredWords        string        `env:"CENSORED_WORDS"`
	CharacterReplacement string        `env:"CHARACTER_REPLACEMENT,default=*"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS"`
	LogEvents            bool          `env:"LOG_EVENTS,default=false"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// censoredWords splits the comma separated CENSORED_WORDS list.
func (c Config) censoredWords() []string {
	return splitList(c.CensoredWords)
}

func (c Config) allowedOrigins() []string {
	return splitList(c.AllowedOrigins)
}

func (c Config) replacement() rune {
	r, _ := utf8.DecodeRuneInString(c.CharacterReplacement)
	if r == utf8.RuneError {
		return '*'
	}
	return r
}

func splitList(value string) []string {
	items := lo.Map(strings.Split(value, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	return lo.Compact(items)
}
