// Package config loads and validates the comparator's run configuration,
// grounded on pkg/config/config.go's spf13/viper + mapstructure loading
// idiom, with structural validation via xeipuuv/gojsonschema as in
// cmd/uast/validate.go.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FilterClause is one analyse_patterns filter entry: the attribute it reads,
// the infix filter expression, and the set of scalar transforms to apply
// before feeding the filter VM (delta/abs/percent).
type FilterClause struct {
	Attribute string   `mapstructure:"attribute"`
	Filter    string   `mapstructure:"filter"`
	Type      []string `mapstructure:"type"`
}

// Pattern is one analyse_patterns entry: a named classification rule over a
// path, cell arc, or net arc target.
type Pattern struct {
	Name    string         `mapstructure:"name"`
	Target  string         `mapstructure:"target"`
	Filters []FilterClause `mapstructure:"filters"`
}

// Tuple names one (key, value) report-id pair to compare, from
// analyse_tuples.
type Tuple struct {
	Key   string
	Value string
}

// Config is the full decoded shape of a compare run's YAML configuration,
// covering every key in spec section 6.2.
type Config struct {
	Mode             string     `mapstructure:"mode"`
	Type             []string   `mapstructure:"type"`
	Rpts             []string   `mapstructure:"rpts"`
	CompareMode      string     `mapstructure:"compare_mode"`
	OutputDir        string     `mapstructure:"output_dir"`
	AnalyseTuples    [][]string `mapstructure:"analyse_tuples"`
	AnalysePatterns  []Pattern  `mapstructure:"analyse_patterns"`
	SlackFilter      string     `mapstructure:"slack_filter"`
	FanoutFilter     string     `mapstructure:"fanout_filter"`
	DelayFilter      string     `mapstructure:"delay_filter"`
	AllowUnplacedPin bool       `mapstructure:"allow_unplaced_pins"`
	EnableMBFF       bool       `mapstructure:"enable_mbff"`
	EnableSuperArc   bool       `mapstructure:"enable_super_arc"`
	EnableIgnore     bool       `mapstructure:"enable_ignore_filter"`
	EnableRiseFall   bool       `mapstructure:"enable_rise_fall"`
}

// ConfigError wraps a configuration loading or validation failure with the
// source path, mirroring pkg/config's named error type idiom.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %s: %v", e.Path, e.Reason, e.Err)
	}

	return fmt.Sprintf("config: %s: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Tuples converts the raw [key,value] pairs in AnalyseTuples into Tuple
// values, skipping any malformed (not exactly 2-element) entries.
func (c *Config) Tuples() []Tuple {
	tuples := make([]Tuple, 0, len(c.AnalyseTuples))

	for _, pair := range c.AnalyseTuples {
		if len(pair) != 2 {
			continue
		}

		tuples = append(tuples, Tuple{Key: pair[0], Value: pair[1]})
	}

	return tuples
}

// Load reads and decodes a YAML config file at path into a Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("output_dir", "output")
	v.SetDefault("allow_unplaced_pins", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Path: path, Reason: "read config", Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Reason: "decode config", Err: err}
	}

	if err := Validate(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Reason: "validate config", Err: err}
	}

	return &cfg, nil
}
