package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ServerConfig is the "server" block of the configuration file.
type ServerConfig struct {
	Addr   string
	Thread int
}

// Config is the proxy's full, effective configuration: the parsed
// routing table sources plus process-wide server settings.
type Config struct {
	Server ServerConfig
	Hosts  map[string][]string
}

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// DefaultConfigPath is where the proxy looks for its configuration
// file absent a CONFIG_PATH override.
const DefaultConfigPath = "config.yml"

// Get returns the process-wide Config, loading it from disk on first
// call. Subsequent calls return the same instance.
func Get() (*Config, error) {
	once.Do(func() {
		path := getEnv("CONFIG_PATH", DefaultConfigPath)
		instance, loadErr = Load(path)
	})
	return instance, loadErr
}

// Load reads and parses the configuration file at path, applying any
// environment overrides on top of it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	root, err := ParseFile(f)
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg, err := fromLevel(root)
	if err != nil {
		return nil, fmt.Errorf("config: interpreting %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func fromLevel(root Level) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Addr: "0.0.0.0:8080", Thread: 8},
		Hosts:  make(map[string][]string),
	}

	if server, err := root.Child("server"); err == nil {
		if addrLevel, err := server.Child("addr"); err == nil {
			if v, err := addrLevel.ScalarValue(); err == nil {
				if s, err := v.String(); err == nil {
					cfg.Server.Addr = s
				}
			}
		}
		if threadLevel, err := server.Child("thread"); err == nil {
			if v, err := threadLevel.ScalarValue(); err == nil {
				if n, err := v.Int(); err == nil {
					cfg.Server.Thread = n
				}
			}
		}
	}

	if hosts, err := root.Child("hosts"); err == nil {
		for _, host := range hosts.Children {
			if host.Kind != LevelNode {
				continue
			}
			routing, err := host.Child("routing")
			if err != nil {
				continue
			}
			values, err := routing.List()
			if err != nil {
				continue
			}
			addrs := make([]string, 0, len(values))
			for _, v := range values {
				if s, err := v.String(); err == nil {
					addrs = append(addrs, s)
				}
			}
			cfg.Hosts[host.Name] = addrs
		}
	}

	return cfg, nil
}

// applyEnvOverrides layers EDGEPROXY_ADDR / EDGEPROXY_THREADS over
// whatever the file specified, the way the teacher's configuration
// loader layers PORT / OCX_ENV over its own YAML.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Addr = getEnv("EDGEPROXY_ADDR", cfg.Server.Addr)
	cfg.Server.Thread = getEnvInt("EDGEPROXY_THREADS", cfg.Server.Thread)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
