package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// NetworkConfig describes a deploy target network known to the IDE.
type NetworkConfig struct {
	Name       string `koanf:"name" json:"name"`
	RpcURL     string `koanf:"rpc_url" json:"rpcUrl"`
	Passphrase string `koanf:"passphrase" json:"passphrase"`
}

// Validate ensures the NetworkConfig is valid
func (n NetworkConfig) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ToolchainConfig configures the external contract CLI invoked for
// scaffolding, builds and deploys.
type ToolchainConfig struct {
	Command        string `koanf:"command"`
	Target         string `koanf:"target"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// AutosaveConfig tunes the editor's debounced autosave behavior.
type AutosaveConfig struct {
	Enabled    *bool `koanf:"enabled"`
	DebounceMs int   `koanf:"debounce_ms"`
}

// LocalConfig represents the local configuration file structure
type LocalConfig struct {
	Toolchain ToolchainConfig `koanf:"toolchain,omitempty"`
	Autosave  AutosaveConfig  `koanf:"autosave,omitempty"`
	Networks  []NetworkConfig `koanf:"networks,omitempty"`
	AgentURL  string          `koanf:"agent_url,omitempty"`
}

const (
	DefaultToolchainCommand = "stellar"
	DefaultToolchainTarget  = "wasm32-unknown-unknown"
	DefaultTimeoutSeconds   = 300
	DefaultDebounceMs       = 1000
)

// WithDefaults fills unset fields with their default values.
func (c LocalConfig) WithDefaults() LocalConfig {
	if c.Toolchain.Command == "" {
		c.Toolchain.Command = DefaultToolchainCommand
	}
	if c.Toolchain.Target == "" {
		c.Toolchain.Target = DefaultToolchainTarget
	}
	if c.Toolchain.TimeoutSeconds <= 0 {
		c.Toolchain.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Autosave.DebounceMs <= 0 {
		c.Autosave.DebounceMs = DefaultDebounceMs
	}
	if c.AgentURL == "" {
		c.AgentURL = GetAgentURL()
	}
	if len(c.Networks) == 0 {
		c.Networks = []NetworkConfig{
			{Name: "testnet", RpcURL: "https://soroban-testnet.stellar.org", Passphrase: "Test SDF Network ; September 2015"},
			{Name: "futurenet", RpcURL: "https://rpc-futurenet.stellar.org", Passphrase: "Test SDF Future Network ; October 2022"},
		}
	}
	return c
}

// Validate ensures the LocalConfig is valid
func (c LocalConfig) Validate() error {
	for _, n := range c.Networks {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("invalid network config: %w", err)
		}
	}
	return nil
}

// GetSolderConfig loads the solder configuration from the given file path.
// If the config file doesn't exist, returns a config with defaults only.
// The config file is expected to be in YAML format.
func GetSolderConfig(configPath string) (LocalConfig, error) {
	k := koanf.New(".")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return LocalConfig{}.WithDefaults(), nil
	}

	// Load YAML config
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return LocalConfig{}, fmt.Errorf("error loading config: %w", err)
	}

	var config LocalConfig
	if err := k.Unmarshal("", &config); err != nil {
		return LocalConfig{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return LocalConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	return config.WithDefaults(), nil
}

// GetDefaultConfigPath returns the default path for the solder config file
func GetDefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "solder", "config.yaml")
}
