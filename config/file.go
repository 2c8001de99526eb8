package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings of the pumpsim command.
//
// Values are resolved from, in order of precedence: command-line flags,
// PUMPSIM_* environment variables, the config file and the defaults.
type Root struct {
	MaxSteps   int  `mapstructure:"max_steps"`
	MaxSamples int  `mapstructure:"max_samples"`
	Verbose    bool `mapstructure:"verbose"`
	// Time derived unless set explicitly
	Seed int64 `mapstructure:"seed"`

	ExploreDepth int `mapstructure:"explore_depth"`
	// Listen address of the oracle service
	OracleAddr string `mapstructure:"oracle_addr"`
	// Largest max_steps and max_samples accepted by the oracle's Simulate
	OracleMaxSteps   int `mapstructure:"oracle_max_steps"`
	OracleMaxSamples int `mapstructure:"oracle_max_samples"`
}

const (
	DefaultMaxSteps     = 20
	DefaultMaxSamples   = 10000
	DefaultExploreDepth = 4
	DefaultOracleAddr   = "localhost:50051"

	DefaultOracleMaxSteps   = 1000
	DefaultOracleMaxSamples = 100000
)

// NewViper creates a viper instance with the defaults set and environment
// variables with the PUMPSIM_ prefix bound.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("max_steps", DefaultMaxSteps)
	v.SetDefault("max_samples", DefaultMaxSamples)
	v.SetDefault("verbose", false)
	v.SetDefault("explore_depth", DefaultExploreDepth)
	v.SetDefault("oracle_addr", DefaultOracleAddr)
	v.SetDefault("oracle_max_steps", DefaultOracleMaxSteps)
	v.SetDefault("oracle_max_samples", DefaultOracleMaxSamples)
	v.SetEnvPrefix("PUMPSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags defines the config flags on fs and binds them to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.Int("max-steps", DefaultMaxSteps, "maximum number of steps in a trace")
	fs.Int("max-samples", DefaultMaxSamples, "number of traces to simulate")
	fs.Int64("seed", 0, "seed of the random source (default time derived)")
	fs.BoolP("verbose", "v", false, "print every state of the first trace")
	fs.Int("depth", DefaultExploreDepth, "maximum depth of an exhaustive exploration")
	fs.String("addr", DefaultOracleAddr, "listen address of the oracle service")
	fs.Int("oracle-max-steps", DefaultOracleMaxSteps, "largest trace length a remote simulation may request")
	fs.Int("oracle-max-samples", DefaultOracleMaxSamples, "largest number of traces a remote simulation may request")

	bindings := map[string]string{
		"max_steps":     "max-steps",
		"max_samples":   "max-samples",
		"seed":          "seed",
		"verbose":       "verbose",
		"explore_depth": "depth",
		"oracle_addr":   "addr",

		"oracle_max_steps":   "oracle-max-steps",
		"oracle_max_samples": "oracle-max-samples",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile merges the config file at path into v. The format is derived from the extension.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	return v.ReadInConfig()
}

// Load resolves the settings held by v.
//
// Negative counts, and oracle limits below 1, are replaced by their defaults.
func Load(v *viper.Viper) (Root, error) {
	var c Root
	if err := v.Unmarshal(&c); err != nil {
		return Root{}, err
	}
	orDefault(&c.MaxSteps, 0, DefaultMaxSteps)
	orDefault(&c.MaxSamples, 0, DefaultMaxSamples)
	orDefault(&c.ExploreDepth, 0, DefaultExploreDepth)
	orDefault(&c.OracleMaxSteps, 1, DefaultOracleMaxSteps)
	orDefault(&c.OracleMaxSamples, 1, DefaultOracleMaxSamples)
	if v.IsSet("seed") {
		c.Seed = v.GetInt64("seed")
	} else {
		c.Seed = time.Now().UnixNano()
	}
	return c, nil
}

func orDefault(n *int, least, def int) {
	if *n < least {
		*n = def
	}
}

// ReadConfig reads the config file at path on top of the defaults and the environment.
func ReadConfig(path string) (Root, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return Root{}, err
	}
	return Load(v)
}
