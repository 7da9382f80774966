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

package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAppliesLevel(t *testing.T) {
	require.NoError(t, Init(&Config{Level: "warn"}))
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	// Debug forces the level regardless of the configured one.
	require.NoError(t, Init(&Config{Level: "error", Debug: true}))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestInitRejectsBadLevel(t *testing.T) {
	require.Error(t, Init(&Config{Level: "chatty"}))
}

func TestInitWithDefaults(t *testing.T) {
	require.NoError(t, InitWithDefaults())
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestSetLevelAndSetDebug(t *testing.T) {
	require.NoError(t, InitWithDefaults())

	SetLevel(zerolog.ErrorLevel)
	assert.Equal(t, zerolog.ErrorLevel, GetLogger().GetLevel())

	SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestNewWithDefaults(t *testing.T) {
	log, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, log)

	// Must not panic on the common paths.
	log.Info().Str("k", "v").Msg("hello")
	componentLog := log.WithComponent("test")
	componentLog.Debug().Msg("component scoped")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "chatty"})
	require.Error(t, err)
}

func TestNewDebugOverridesLevel(t *testing.T) {
	log, err := New(&Config{Level: "error", Debug: true})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestTestLoggerIsSilent(t *testing.T) {
	log := NewTestLogger()

	log.Trace().Msg("x")
	log.Error().Msg("x")
	log.SetDebug(true)
	log.SetLevel(0)
}
