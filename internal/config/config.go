// Package config defines the backtest run configuration: the YAML document a
// quantx run is driven by, its validation rules, and its JSON schema.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quantx-lab/quantx/internal/indicator"
	"github.com/quantx-lab/quantx/internal/strategy"
	"github.com/quantx-lab/quantx/internal/version"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// Config is the root backtest configuration document.
type Config struct {
	// Version is the config schema version, checked against the engine version.
	Version string `yaml:"version" json:"version" jsonschema:"title=Config Version,description=Schema version this config was written for,required" validate:"required"`

	Tickers []string `yaml:"tickers" json:"tickers" jsonschema:"title=Tickers,description=Instruments to backtest,required" validate:"required,min=1,dive,required"`

	Data      DataConfig      `yaml:"data" json:"data" validate:"required"`
	Features  FeaturesConfig  `yaml:"features" json:"features"`
	Strategy  strategy.Config `yaml:"strategy" json:"strategy" validate:"required"`
	Portfolio PortfolioConfig `yaml:"portfolio" json:"portfolio" validate:"required"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// DataConfig locates the bar store.
type DataConfig struct {
	// Format selects the bar source: a directory of TICKER.csv files or a
	// DuckDB database file.
	Format string `yaml:"format" json:"format" jsonschema:"title=Data Format,enum=csv,enum=duckdb,required" validate:"required,oneof=csv duckdb"`
	Path   string `yaml:"path" json:"path" jsonschema:"title=Data Path,description=Directory of CSV files or path to a DuckDB database,required" validate:"required"`
}

// FeaturesConfig selects indicator periods. Zero values take the defaults.
type FeaturesConfig struct {
	FastEMA   int `yaml:"fast_ema" json:"fastEma" jsonschema:"title=Fast EMA Span" validate:"omitempty,gt=0"`
	SlowEMA   int `yaml:"slow_ema" json:"slowEma" jsonschema:"title=Slow EMA Span" validate:"omitempty,gt=0"`
	RSILength int `yaml:"rsi_length" json:"rsiLength" jsonschema:"title=RSI Length" validate:"omitempty,gt=1"`
	VolWindow int `yaml:"vol_window" json:"volWindow" jsonschema:"title=Volatility Window" validate:"omitempty,gt=1"`
}

// PortfolioConfig parameterizes the portfolio simulation.
type PortfolioConfig struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initialCapital" jsonschema:"title=Initial Capital,required" validate:"required,gt=0"`
	// Slippage is applied per leg as a price fraction: buys fill at
	// price*(1+slippage), sells at price*(1-slippage).
	Slippage   float64 `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage Fraction" validate:"gte=0,lt=1"`
	Commission float64 `yaml:"commission" json:"commission" jsonschema:"title=Commission Per Trade" validate:"gte=0"`
	// Weights maps ticker to the fraction of current cash allocated on entry.
	// When empty, every configured ticker gets 1/N.
	Weights map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty" jsonschema:"title=Allocation Weights"`
}

// OutputConfig locates run artifacts.
type OutputConfig struct {
	// Dir is the directory run artifacts are written to. Defaults to "results".
	Dir string `yaml:"dir" json:"dir" jsonschema:"title=Output Directory"`
	// ExcelReport enables the per-ticker trade workbook.
	ExcelReport bool `yaml:"excel_report" json:"excelReport" jsonschema:"title=Write Excel Report"`
}

// DefaultOutputDir is used when the config omits output.dir.
const DefaultOutputDir = "results"

// LoadConfig reads, parses and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "cannot read config file %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML config document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "cannot parse config YAML", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
}

// Validate checks structural rules, the weight table and the schema version.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return err
	}

	return c.validateWeights()
}

// validateWeights requires every weight key to be a configured ticker, every
// weight to be positive, and the total to stay within fully invested.
func (c *Config) validateWeights() error {
	if len(c.Portfolio.Weights) == 0 {
		return nil
	}

	configured := make(map[string]bool, len(c.Tickers))
	for _, ticker := range c.Tickers {
		configured[ticker] = true
	}

	sum := 0.0

	for ticker, weight := range c.Portfolio.Weights {
		if !configured[ticker] {
			return errors.Newf(errors.ErrCodeInvalidWeights, "weight for unknown ticker %s", ticker)
		}

		if weight <= 0 {
			return errors.Newf(errors.ErrCodeInvalidWeights, "weight for ticker %s must be positive, got %v", ticker, weight)
		}

		sum += weight
	}

	if sum > 1+1e-9 {
		return errors.Newf(errors.ErrCodeInvalidWeights, "weights sum to %v, must not exceed 1", sum)
	}

	return nil
}

// FeatureConfig converts the YAML feature selection into the indicator
// configuration, filling defaults for unset periods. The optional indicator
// groups needed by the configured strategy are always enabled.
func (c *Config) FeatureConfig() indicator.FeatureConfig {
	fc := indicator.DefaultFeatureConfig()

	if c.Features.FastEMA > 0 {
		fc.FastEMA = c.Features.FastEMA
	}

	if c.Features.SlowEMA > 0 {
		fc.SlowEMA = c.Features.SlowEMA
	}

	if c.Features.RSILength > 0 {
		fc.RSILength = c.Features.RSILength
	}

	if c.Features.VolWindow > 0 {
		fc.VolWindow = c.Features.VolWindow
	}

	return fc
}
