/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the engine configuration from a local JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/carverauto/tcptest/pkg/logger"
)

// Duration unmarshals JSON duration strings like "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == "" {
		*d = Duration(0)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(dur)

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config carries the tunables of the communication engine. Every field has a
// working default; an absent config file is not an error.
type Config struct {
	// ProbeTimeout bounds each scan probe's connect attempt.
	ProbeTimeout Duration `json:"probe_timeout,omitempty"`
	// ProbeRateLimit caps probe dispatch in probes/second; 0 means no cap.
	ProbeRateLimit int `json:"probe_rate_limit,omitempty"`
	// EventCap is the main event log's retention; oldest entries drop first.
	EventCap int `json:"event_cap,omitempty"`
	// CommandQueueSize bounds the manager's command queue.
	CommandQueueSize int `json:"command_queue_size,omitempty"`
	// ScanLogFile, when set, receives a CSV dump of the scan log after each
	// scan. Write failures are reported through the event sink, never fatal.
	ScanLogFile string `json:"scan_log_file,omitempty"`

	Logger *logger.Config `json:"logger,omitempty"`
}

const (
	defaultProbeTimeout = 500 * time.Millisecond
	defaultEventCap     = 1000
	defaultQueueSize    = 16
)

func Default() *Config {
	return &Config{
		ProbeTimeout:     Duration(defaultProbeTimeout),
		EventCap:         defaultEventCap,
		CommandQueueSize: defaultQueueSize,
		Logger:           logger.DefaultConfig(),
	}
}

// Load reads and unmarshals a JSON config file over the defaults. A missing
// path (or an empty one) yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = Duration(defaultProbeTimeout)
	}

	if cfg.EventCap <= 0 {
		cfg.EventCap = defaultEventCap
	}

	if cfg.CommandQueueSize <= 0 {
		cfg.CommandQueueSize = defaultQueueSize
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.DefaultConfig()
	}

	return cfg, nil
}
