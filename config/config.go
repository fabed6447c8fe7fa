package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// ListenAddr is the host:port the HTTP/WebSocket server binds to.
	ListenAddr string `mapstructure:"listen_addr"`

	// TickInterval is the per-poll broadcast/eviction cadence.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// IdleTimeout is how long a poll survives without any mutation.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// MailboxSize bounds each poll actor's request queue.
	MailboxSize int `mapstructure:"mailbox_size"`

	// ViewerBuffer is the snapshot channel capacity per connection.
	ViewerBuffer int `mapstructure:"viewer_buffer"`

	// SessionCookie names the cookie carrying the opaque session token.
	SessionCookie string `mapstructure:"session_cookie"`

	// TrustForwardedFor enables client address extraction from the
	// X-Forwarded-For header. Only turn this on behind a proxy you own.
	TrustForwardedFor bool `mapstructure:"trust_forwarded_for"`

	LogLevel string `mapstructure:"log_level"`

	levelVar *slog.LevelVar
}

// Level is the live handler level; hot reloads adjust it in place.
func (c *Config) Level() *slog.LevelVar { return c.levelVar }

func LoadConfig() (*Config, error) {
	// A .env next to the binary is a dev convenience, not a requirement.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("listen_addr", "0.0.0.0:3000")
	v.SetDefault("tick_interval", 500*time.Millisecond)
	v.SetDefault("idle_timeout", 15*time.Minute)
	v.SetDefault("mailbox_size", 256)
	v.SetDefault("viewer_buffer", 16)
	v.SetDefault("session_cookie", "lps_session")
	v.SetDefault("trust_forwarded_for", false)
	v.SetDefault("log_level", "info")

	fs := pflag.NewFlagSet("live-poll-service", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("listen_addr", "", "host:port to serve HTTP on")
	fs.String("config_file", "", "path to the configuration file")
	fs.String("log_level", "", "debug, info, warn or error")
	_ = fs.Parse(os.Args[1:])
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("LPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config_file"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{levelVar: new(slog.LevelVar)}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.levelVar.Set(ParseLevel(cfg.LogLevel))

	// Hot reload: the log level is the only knob safe to change at
	// runtime, everything else is fixed at startup.
	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(_ fsnotify.Event) {
			cfg.levelVar.Set(ParseLevel(v.GetString("log_level")))
		})
		v.WatchConfig()
	}

	return cfg, nil
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
