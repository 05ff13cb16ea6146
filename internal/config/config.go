// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines the connector configuration schema.
type Config struct {
	Broker    BrokerConfig    `yaml:"broker"`
	Metastore MetastoreConfig `yaml:"metastore"`
	Planner   PlannerConfig   `yaml:"planner"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type BrokerConfig struct {
	// Nodes are the cluster addresses any of which can answer a topology
	// query.
	Nodes    []string `yaml:"nodes"`
	ClientID string   `yaml:"client_id"`
}

type MetastoreConfig struct {
	// Enabled switches planning from the live brokers to the external
	// metadata store. The choice is fixed for the life of the process.
	Enabled               bool     `yaml:"enabled"`
	Endpoints             []string `yaml:"endpoints"`
	Username              string   `yaml:"username"`
	Password              string   `yaml:"password"`
	Namespace             string   `yaml:"namespace"`
	Index                 string   `yaml:"index"`
	DialTimeoutSeconds    int      `yaml:"dial_timeout_seconds"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	// WindowCacheSize bounds the decoded-window cache in member records.
	// Zero disables caching.
	WindowCacheSize int `yaml:"window_cache_size"`
}

type PlannerConfig struct {
	FetchConcurrency int `yaml:"fetch_concurrency"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads a YAML config file, applies defaults and environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if len(cfg.Broker.Nodes) == 0 {
		return Config{}, fmt.Errorf("broker.nodes is required")
	}
	if cfg.Metastore.Enabled && len(cfg.Metastore.Endpoints) == 0 {
		return Config{}, fmt.Errorf("metastore.endpoints is required when the metastore is enabled")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Broker.ClientID == "" {
		cfg.Broker.ClientID = "kafquery"
	}
	if cfg.Metastore.DialTimeoutSeconds == 0 {
		cfg.Metastore.DialTimeoutSeconds = 5
	}
	if cfg.Metastore.RequestTimeoutSeconds == 0 {
		cfg.Metastore.RequestTimeoutSeconds = 3
	}
	if cfg.Planner.FetchConcurrency == 0 {
		cfg.Planner.FetchConcurrency = 8
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9090"
	}
}

func applyEnvOverrides(cfg *Config) {
	setCSV(&cfg.Broker.Nodes, "KAFQUERY_BROKER_NODES")
	setString(&cfg.Broker.ClientID, "KAFQUERY_BROKER_CLIENT_ID")

	setBool(&cfg.Metastore.Enabled, "KAFQUERY_METASTORE_ENABLED")
	setCSV(&cfg.Metastore.Endpoints, "KAFQUERY_METASTORE_ENDPOINTS")
	setString(&cfg.Metastore.Username, "KAFQUERY_METASTORE_USERNAME")
	setString(&cfg.Metastore.Password, "KAFQUERY_METASTORE_PASSWORD")
	setString(&cfg.Metastore.Namespace, "KAFQUERY_METASTORE_NAMESPACE")
	setString(&cfg.Metastore.Index, "KAFQUERY_METASTORE_INDEX")
	setInt(&cfg.Metastore.WindowCacheSize, "KAFQUERY_METASTORE_WINDOW_CACHE_SIZE")

	setInt(&cfg.Planner.FetchConcurrency, "KAFQUERY_PLANNER_FETCH_CONCURRENCY")
	setString(&cfg.Metrics.Listen, "KAFQUERY_METRICS_LISTEN")
}

func setString(target *string, envKey string) {
	if value := os.Getenv(envKey); value != "" {
		*target = value
	}
}

func setInt(target *int, envKey string) {
	if value := os.Getenv(envKey); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func setBool(target *bool, envKey string) {
	if value := os.Getenv(envKey); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func setCSV(target *[]string, envKey string) {
	if value := os.Getenv(envKey); value != "" {
		parts := strings.Split(value, ",")
		out := parts[:0]
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		*target = out
	}
}
