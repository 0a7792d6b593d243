package config

import (
	"os"
	"path/filepath"

	"code.pegsim.io/pegsim/agents"
	"code.pegsim.io/pegsim/fee"
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/matching"
	"code.pegsim.io/pegsim/metrics"
	"code.pegsim.io/pegsim/mint"
	"code.pegsim.io/pegsim/settlement"
	"code.pegsim.io/pegsim/simulation"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

// Config ties together all other application configuration types.
type Config struct {
	Simulation simulation.Config `group:"Simulation" namespace:"simulation"`
	Ledger     ledger.Config     `group:"Ledger" namespace:"ledger"`
	Matching   matching.Config   `group:"Matching" namespace:"matching"`
	Settlement settlement.Config `group:"Settlement" namespace:"settlement"`
	Fee        fee.Config        `group:"Fee" namespace:"fee"`
	Mint       mint.Config       `group:"Mint" namespace:"mint"`
	Agents     agents.Config     `group:"Agents" namespace:"agents"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all packages,
// as specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Simulation: simulation.NewDefaultConfig(),
		Ledger:     ledger.NewDefaultConfig(),
		Matching:   matching.NewDefaultConfig(),
		Settlement: settlement.NewDefaultConfig(),
		Fee:        fee.NewDefaultConfig(),
		Mint:       mint.NewDefaultConfig(),
		Agents:     agents.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
	}
}

// Read loads the configuration file under rootPath on top of the
// defaults, so a partial file is valid.
func Read(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, configFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as TOML under rootPath, used by the
// init command to seed an editable default file.
func Save(cfg *Config, rootPath string) error {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(rootPath, configFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
