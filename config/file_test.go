package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Unable to write config file: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}
	if c.MaxSteps != DefaultMaxSteps || c.MaxSamples != DefaultMaxSamples || c.Verbose || c.ExploreDepth != DefaultExploreDepth || c.OracleAddr != DefaultOracleAddr {
		t.Errorf("Unexpected defaults: %+v", c)
	}
	if c.Seed == 0 {
		t.Errorf("Expected a time derived seed")
	}
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, "pumpsim.yaml", "max_steps: 50\nseed: 0\nverbose: true\noracle_addr: \":6000\"\n")
	c, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}
	if c.MaxSteps != 50 || c.MaxSamples != DefaultMaxSamples || !c.Verbose || c.OracleAddr != ":6000" {
		t.Errorf("Unexpected config: %+v", c)
	}
	if c.Seed != 0 {
		t.Errorf("Expected the seed from the file to be used. Got %v", c.Seed)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestPrecedence(t *testing.T) {
	path := writeConfig(t, "pumpsim.json", `{"max_steps": 50, "max_samples": 60, "explore_depth": 2}`)
	t.Setenv("PUMPSIM_MAX_STEPS", "70")
	t.Setenv("PUMPSIM_MAX_SAMPLES", "80")

	v := NewViper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(v, fs); err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}
	if err := fs.Parse([]string{"--max-steps=90", "--seed=7", "-v"}); err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}
	// flag > env > file > default
	if c.MaxSteps != 90 || c.MaxSamples != 80 || c.ExploreDepth != 2 || c.Seed != 7 || !c.Verbose {
		t.Errorf("Unexpected config: %+v", c)
	}
}

var fallbackTests = []struct {
	args []string
	want Root
}{
	{[]string{"--max-steps=-1"}, Root{MaxSteps: DefaultMaxSteps, MaxSamples: DefaultMaxSamples, ExploreDepth: DefaultExploreDepth, OracleMaxSteps: DefaultOracleMaxSteps, OracleMaxSamples: DefaultOracleMaxSamples}},
	{[]string{"--max-samples=-5", "--depth=-2"}, Root{MaxSteps: DefaultMaxSteps, MaxSamples: DefaultMaxSamples, ExploreDepth: DefaultExploreDepth, OracleMaxSteps: DefaultOracleMaxSteps, OracleMaxSamples: DefaultOracleMaxSamples}},
	{[]string{"--max-steps=0", "--max-samples=0", "--oracle-max-steps=0", "--oracle-max-samples=-1"}, Root{MaxSteps: 0, MaxSamples: 0, ExploreDepth: DefaultExploreDepth, OracleMaxSteps: DefaultOracleMaxSteps, OracleMaxSamples: DefaultOracleMaxSamples}},
	{[]string{"--oracle-max-steps=30", "--oracle-max-samples=40"}, Root{MaxSteps: DefaultMaxSteps, MaxSamples: DefaultMaxSamples, ExploreDepth: DefaultExploreDepth, OracleMaxSteps: 30, OracleMaxSamples: 40}},
}

func TestNegativeValuesUseDefaults(t *testing.T) {
	for i, test := range fallbackTests {
		v := NewViper()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		if err := BindFlags(v, fs); err != nil {
			t.Fatalf("Received unexpected error: %v", err)
		}
		if err := fs.Parse(test.args); err != nil {
			t.Fatalf("%v: Received unexpected error: %v", i, err)
		}
		c, err := Load(v)
		if err != nil {
			t.Fatalf("%v: Received unexpected error: %v", i, err)
		}
		c.Seed = 0
		test.want.OracleAddr = DefaultOracleAddr
		if c != test.want {
			t.Errorf("%v: Unexpected config.\nGot:  %+v\nWant: %+v", i, c, test.want)
		}
	}
}
