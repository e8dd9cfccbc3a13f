// Package config loads supplyask settings from defaults, an optional YAML
// file, SUPPLYASK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"supplyask/internal/query"
	"supplyask/internal/telemetry"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "SUPPLYASK_"

// DefaultFiles are looked up in the working directory when no file is given.
var DefaultFiles = []string{"supplyask.yaml", "supplyask.yml"}

// Config is the resolved configuration.
type Config struct {
	Endpoint     string        `koanf:"endpoint" validate:"required,url"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	Role         string        `koanf:"role" validate:"required,role"`
	Region       string        `koanf:"region" validate:"required,region"`
	LogFile      string        `koanf:"log_file"`
	LogLevel     string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	MetricsAddr  string        `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
	OTLPEndpoint string        `koanf:"otlp_endpoint"`
	ServiceName  string        `koanf:"service_name"`

	// File is the config file that was read, empty when none.
	File string `koanf:"-"`
}

// Defaults returns the values used when nothing else sets a key.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"endpoint":      query.DefaultEndpoint,
		"timeout":       query.DefaultTimeout.String(),
		"role":          query.RoleFinance.String(),
		"region":        query.RegionGlobal.String(),
		"log_level":     "info",
		"service_name":  telemetry.DefaultServiceName,
		"log_file":      "",
		"metrics_addr":  "",
		"otlp_endpoint": "",
	}
}

// Load resolves configuration. Precedence, highest first:
// flags that were set, environment, config file, defaults.
// An explicit cfgFile must exist; the default files are optional.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", used, err)
		}
	}

	// SUPPLYASK_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// QueryRole returns the configured default role.
func (c *Config) QueryRole() query.Role {
	r, _ := query.ParseRole(c.Role)
	return r
}

// QueryRegion returns the configured default region.
func (c *Config) QueryRegion() query.Region {
	r, _ := query.ParseRegion(c.Region)
	return r
}

// Telemetry returns the tracing settings.
func (c *Config) Telemetry() telemetry.Config {
	return telemetry.Config{OTLPEndpoint: c.OTLPEndpoint, ServiceName: c.ServiceName}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := query.ParseRole(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		_, err := query.ParseRegion(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	key := fieldKeys[fe.Field()]
	if key == "" {
		key = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "url":
		return fmt.Sprintf("%s %q is not a URL", key, fe.Value())
	case "role":
		return fmt.Sprintf("%s %q is not one of %s", key, fe.Value(), joinStrings(query.Roles()))
	case "region":
		return fmt.Sprintf("%s %q is not one of %s", key, fe.Value(), joinStrings(query.Regions()))
	case "oneof":
		return fmt.Sprintf("%s %q is not one of %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be positive", key)
	case "hostname_port":
		return fmt.Sprintf("%s %q is not host:port", key, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

var fieldKeys = map[string]string{
	"Endpoint":    "endpoint",
	"Timeout":     "timeout",
	"Role":        "role",
	"Region":      "region",
	"LogLevel":    "log_level",
	"MetricsAddr": "metrics_addr",
}

func joinStrings[T fmt.Stringer](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
