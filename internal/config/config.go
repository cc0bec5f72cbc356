package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/analysis"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/mcts"
)

const EnvPrefix = "UTTT"

type Engine struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
	// Think time of the local search, used when URL is empty
	Movetime        time.Duration `mapstructure:"movetime" validate:"min=0"`
	analysis.Limits `mapstructure:",squash"`
}

type Session struct {
	Backend   string        `mapstructure:"backend" validate:"oneof=memory redis"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	TTL       time.Duration `mapstructure:"ttl" validate:"min=0"`
}

type Archive struct {
	// sqlite dsn, empty disables the archive
	Path string `mapstructure:"path"`
}

type Log struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type Config struct {
	Engine  Engine            `mapstructure:"engine"`
	Session Session           `mapstructure:"session"`
	Archive Archive           `mapstructure:"archive"`
	Log     Log               `mapstructure:"log"`
	Headers map[string]string `mapstructure:"headers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.url", "")
	v.SetDefault("engine.timeout", 30*time.Second)
	v.SetDefault("engine.movetime", mcts.DefaultMovetime)
	v.SetDefault("engine.depth", analysis.DefaultDepth)
	v.SetDefault("engine.threads", analysis.DefaultThreads)
	v.SetDefault("engine.sizemb", analysis.DefaultSizeMB)
	v.SetDefault("engine.multipv", analysis.DefaultMultiPv)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("archive.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("headers", map[string]string{})
}

// Setup reads the configuration: defaults, then the file at cfgPath (if
// given), then UTTT_* environment variables, e.g. UTTT_ENGINE_URL.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("config: %w", err)
	}

	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fmt.Sprintf("%s failed %s=%s validation (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config: invalid configuration: %s", strings.Join(details, "; "))
}
