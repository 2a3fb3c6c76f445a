package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/utils"
)

// ServerConfig holds the deploy-time knobs that are awkward as flat env
// vars (CORS origin lists in particular). Values read from the YAML file
// pointed at by BARANGAYLINK_CONFIG; individual env vars win over the file.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	LogMode      string   `yaml:"log_mode"`
	CORSOrigins  []string `yaml:"cors_origins"`
	BarangayName string   `yaml:"barangay_name"`
	Municipality string   `yaml:"municipality"`
}

func defaultConfig() ServerConfig {
	return ServerConfig{
		Port:    "8080",
		LogMode: "development",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		BarangayName: "Barangay",
		Municipality: "Municipality",
	}
}

func Load(log *logger.Logger) (ServerConfig, error) {
	cfg := defaultConfig()

	path := strings.TrimSpace(os.Getenv("BARANGAYLINK_CONFIG"))
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}

	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
	if origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); origins != "" {
		cfg.CORSOrigins = splitAndTrim(origins)
	}
	cfg.BarangayName = utils.GetEnv("BARANGAY_NAME", cfg.BarangayName, log)
	cfg.Municipality = utils.GetEnv("MUNICIPALITY_NAME", cfg.Municipality, log)
	return cfg, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
