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

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, time.Duration(cfg.ProbeTimeout))
	assert.Equal(t, 1000, cfg.EventCap)
	assert.Equal(t, 16, cfg.CommandQueueSize)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"probe_timeout": "2s",
		"probe_rate_limit": 200,
		"event_cap": 50,
		"scan_log_file": "/tmp/scan.csv"
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, time.Duration(cfg.ProbeTimeout))
	assert.Equal(t, 200, cfg.ProbeRateLimit)
	assert.Equal(t, 50, cfg.EventCap)
	assert.Equal(t, "/tmp/scan.csv", cfg.ScanLogFile)
	// Untouched fields keep defaults.
	assert.Equal(t, 16, cfg.CommandQueueSize)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"probe_timeout": `), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"500ms"`, 500 * time.Millisecond, false},
		{`"1m30s"`, 90 * time.Second, false},
		{`""`, 0, false},
		{`"forever"`, 0, true},
		{`42`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(250 * time.Millisecond)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"250ms"`, string(data))

	var back Duration
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}
