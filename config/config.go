package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"snake-game/game/types"

	"gopkg.in/yaml.v3"
)

// Frontends that main knows how to start
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendSSH      = "ssh"
)

type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKeyFile        string `yaml:"host_key_file"`
	Password           string `yaml:"password"`
	AuthorizedKeysFile string `yaml:"authorized_keys_file"`
}

type Config struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Tick     time.Duration `yaml:"tick"`
	CellSize int           `yaml:"cell_size"`
	Frontend string        `yaml:"frontend"`
	Seed     uint64        `yaml:"seed"`
	SSH      SSHConfig     `yaml:"ssh"`
}

func Default() Config {
	return Config{
		Width:    20,
		Height:   20,
		Tick:     50 * time.Millisecond,
		CellSize: 30,
		Frontend: FrontendWindow,
		SSH: SSHConfig{
			Address: "localhost:2222",
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string, cfg Config) (Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse builds the config from args. Values from -config are
// applied first and explicitly set flags override them.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()

	configFile := fs.String("config", "", "path to a YAML config file")
	width := fs.Int("width", cfg.Width, "grid width in cells")
	height := fs.Int("height", cfg.Height, "grid height in cells")
	speed := fs.Int("speed", int(cfg.Tick/time.Millisecond), "milliseconds between ticks")
	cellSize := fs.Int("cell", cfg.CellSize, "cell size in pixels (window frontend)")
	frontend := fs.String("frontend", cfg.Frontend, "one of window, terminal, ssh")
	seed := fs.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	addr := fs.String("addr", cfg.SSH.Address, "listen address (ssh frontend)")
	hostKey := fs.String("host-key", cfg.SSH.HostKeyFile, "ssh host private key, required for the ssh frontend")
	password := fs.String("password", "", "ssh password; empty disables password logins")
	authorizedKeys := fs.String("authorized-keys", "", "ssh authorized_keys file")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configFile != "" {
		loaded, err := Load(*configFile, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "speed":
			cfg.Tick = time.Duration(*speed) * time.Millisecond
		case "cell":
			cfg.CellSize = *cellSize
		case "frontend":
			cfg.Frontend = *frontend
		case "seed":
			cfg.Seed = *seed
		case "addr":
			cfg.SSH.Address = *addr
		case "host-key":
			cfg.SSH.HostKeyFile = *hostKey
		case "password":
			cfg.SSH.Password = *password
		case "authorized-keys":
			cfg.SSH.AuthorizedKeysFile = *authorizedKeys
		}
	})

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, cfg.Validate()
}

func (c Config) Grid() types.Grid {
	return types.Grid{Width: c.Width, Height: c.Height}
}

func (c Config) Validate() error {
	if err := c.Grid().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("invalid config: tick must be positive, got %v", c.Tick)
	}
	switch c.Frontend {
	case FrontendWindow:
		if c.CellSize < 1 {
			return fmt.Errorf("invalid config: cell size must be positive, got %d", c.CellSize)
		}
	case FrontendTerminal:
	case FrontendSSH:
		if c.SSH.Address == "" || c.SSH.HostKeyFile == "" {
			return fmt.Errorf("invalid config: ssh frontend needs an address and a host key")
		}
		if c.SSH.Password == "" && c.SSH.AuthorizedKeysFile == "" {
			return fmt.Errorf("invalid config: ssh frontend needs a password or an authorized keys file")
		}
	default:
		return fmt.Errorf("invalid config: unknown frontend %q", c.Frontend)
	}
	return nil
}
