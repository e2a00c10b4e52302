package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warekit/position-calculator/internal/calculator"
	"github.com/warekit/position-calculator/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultPalletLength   = 48.0
	defaultPalletWidth    = 40.0
	defaultClearance      = 4.0
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	PalletLength         float64
	PalletWidth          float64
	Clearance            float64
	PositionTypes        []calculator.PositionType
	Boxes                []calculator.Box
	PositionTypesFile    string
	BoxesFile            string
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string             `yaml:"port"`
	Pallet               yamlPallet         `yaml:"pallet"`
	PositionTypes        []yamlPositionType `yaml:"position_types"`
	Boxes                []yamlBox          `yaml:"boxes"`
	CatalogFiles         yamlCatalogFiles   `yaml:"catalog_files"`
	LogLevel             string             `yaml:"log_level"`
	ShutdownGracePeriod  string             `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string             `yaml:"read_header_timeout"`
	WriteTimeout         string             `yaml:"write_timeout"`
	IdleTimeout          string             `yaml:"idle_timeout"`
	EnableRequestLogging bool               `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit      `yaml:"rate_limit"`
}

// yamlPallet represents the pallet geometry section in YAML.
type yamlPallet struct {
	Length    float64  `yaml:"length"`
	Width     float64  `yaml:"width"`
	Clearance *float64 `yaml:"clearance"`
}

type yamlPositionType struct {
	Aisle          scalarString `yaml:"aisle"`
	Level          scalarString `yaml:"level"`
	MaxHeight      float64      `yaml:"max_height"`
	WidthCapacity  float64      `yaml:"width_capacity"`
	WeightCapacity float64      `yaml:"weight_capacity"`
}

type yamlBox struct {
	SKU        string  `yaml:"sku"`
	Length     float64 `yaml:"length"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Weight     float64 `yaml:"weight"`
	TotalBoxes int     `yaml:"total_boxes"`
}

// yamlCatalogFiles points at CSV/XLSX files used to seed the catalogs.
type yamlCatalogFiles struct {
	PositionTypes string `yaml:"position_types"`
	Boxes         string `yaml:"boxes"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// scalarString accepts both quoted and bare scalars, so aisles and levels
// may be written as numbers in YAML ("level: 1").
type scalarString string

func (s *scalarString) UnmarshalYAML(value *yaml.Node) error {
	*s = scalarString(value.Value)
	return nil
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile        string
	Port              *string
	PalletLength      *float64
	PalletWidth       *float64
	Clearance         *float64
	PositionTypesFile *string
	BoxesFile         *string
	LogLevel          *string
	RateLimitRPS      *float64
	RateLimitBurst    *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		PalletLength:         defaultPalletLength,
		PalletWidth:          defaultPalletWidth,
		Clearance:            defaultClearance,
		PositionTypes:        storage.DefaultPositionTypes(),
		Boxes:                storage.DefaultBoxes(),
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.Pallet.Length > 0 {
		cfg.PalletLength = yamlCfg.Pallet.Length
	}
	if yamlCfg.Pallet.Width > 0 {
		cfg.PalletWidth = yamlCfg.Pallet.Width
	}
	if yamlCfg.Pallet.Clearance != nil && *yamlCfg.Pallet.Clearance >= 0 {
		cfg.Clearance = *yamlCfg.Pallet.Clearance
	}

	if len(yamlCfg.PositionTypes) > 0 {
		positions := make([]calculator.PositionType, 0, len(yamlCfg.PositionTypes))
		for _, p := range yamlCfg.PositionTypes {
			positions = append(positions, calculator.PositionType{
				Aisle:          string(p.Aisle),
				Level:          string(p.Level),
				MaxHeight:      p.MaxHeight,
				WidthCapacity:  p.WidthCapacity,
				WeightCapacity: p.WeightCapacity,
			})
		}
		cfg.PositionTypes = positions
	}

	if len(yamlCfg.Boxes) > 0 {
		boxes := make([]calculator.Box, 0, len(yamlCfg.Boxes))
		for _, b := range yamlCfg.Boxes {
			boxes = append(boxes, calculator.Box{
				SKU:        b.SKU,
				Length:     b.Length,
				Width:      b.Width,
				Height:     b.Height,
				Weight:     b.Weight,
				TotalBoxes: b.TotalBoxes,
			})
		}
		cfg.Boxes = boxes
	}

	if yamlCfg.CatalogFiles.PositionTypes != "" {
		cfg.PositionTypesFile = yamlCfg.CatalogFiles.PositionTypes
	}
	if yamlCfg.CatalogFiles.Boxes != "" {
		cfg.BoxesFile = yamlCfg.CatalogFiles.Boxes
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if raw := strings.TrimSpace(os.Getenv("PALLET_LENGTH")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.PalletLength = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("PALLET_WIDTH")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.PalletWidth = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CLEARANCE")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value >= 0 {
			cfg.Clearance = value
		}
	}

	if path := strings.TrimSpace(os.Getenv("POSITION_TYPES_FILE")); path != "" {
		cfg.PositionTypesFile = path
	}

	if path := strings.TrimSpace(os.Getenv("BOXES_FILE")); path != "" {
		cfg.BoxesFile = path
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.PalletLength != nil && *overrides.PalletLength > 0 {
		cfg.PalletLength = *overrides.PalletLength
	}

	if overrides.PalletWidth != nil && *overrides.PalletWidth > 0 {
		cfg.PalletWidth = *overrides.PalletWidth
	}

	if overrides.Clearance != nil && *overrides.Clearance >= 0 {
		cfg.Clearance = *overrides.Clearance
	}

	if overrides.PositionTypesFile != nil && *overrides.PositionTypesFile != "" {
		cfg.PositionTypesFile = *overrides.PositionTypesFile
	}

	if overrides.BoxesFile != nil && *overrides.BoxesFile != "" {
		cfg.BoxesFile = *overrides.BoxesFile
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.PalletLength <= 0 || cfg.PalletWidth <= 0 {
		return fmt.Errorf("pallet length and width must be positive")
	}
	if cfg.Clearance < 0 {
		return fmt.Errorf("clearance must not be negative")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if len(cfg.PositionTypes) > 0 {
		if err := storage.ValidatePositionTypes(cfg.PositionTypes); err != nil {
			return fmt.Errorf("position types: %w", err)
		}
	}
	if len(cfg.Boxes) > 0 {
		if err := storage.ValidateBoxes(cfg.Boxes); err != nil {
			return fmt.Errorf("boxes: %w", err)
		}
	}
	return nil
}
