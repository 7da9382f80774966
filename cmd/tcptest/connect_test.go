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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/tcptest/pkg/event"
	"github.com/carverauto/tcptest/pkg/logger"
	"github.com/carverauto/tcptest/pkg/models"
	"github.com/carverauto/tcptest/pkg/session"
)

type shellFixture struct {
	mgr     *session.Manager
	mode    *models.EncodingCell
	sink    event.Sink
	history *event.Log
	out     *bytes.Buffer
}

func newShellFixture() *shellFixture {
	out := &bytes.Buffer{}
	history := event.NewLog(0)
	sink := event.Tee{event.NewWriterSink(out), history}
	mode := &models.EncodingCell{}

	return &shellFixture{
		mgr:     session.NewManager(sink, mode, 0, logger.NewTestLogger()),
		mode:    mode,
		sink:    sink,
		history: history,
		out:     out,
	}
}

func (f *shellFixture) dispatch(t *testing.T, line string) bool {
	t.Helper()

	quit, err := dispatchLine(context.Background(), f.mgr, f.mode, f.sink, f.history, f.out, line)
	require.NoError(t, err)

	return quit
}

func TestDispatchLineQuit(t *testing.T) {
	f := newShellFixture()

	assert.True(t, f.dispatch(t, "/quit"))
}

func TestDispatchLineLogReplaysHistory(t *testing.T) {
	f := newShellFixture()

	f.sink.Append("10:00:00", "connected to 127.0.0.1:9000")
	f.sink.Append("10:00:01", "sent (UTF-8): hello")
	f.out.Reset()

	assert.False(t, f.dispatch(t, "/log"))

	got := f.out.String()
	assert.Contains(t, got, "[10:00:00] connected to 127.0.0.1:9000")
	assert.Contains(t, got, "[10:00:01] sent (UTF-8): hello")
}

func TestDispatchLineLogHonorsRetentionCap(t *testing.T) {
	out := &bytes.Buffer{}
	history := event.NewLog(1)
	sink := event.Tee{event.NewWriterSink(out), history}
	mode := &models.EncodingCell{}
	mgr := session.NewManager(sink, mode, 0, logger.NewTestLogger())

	sink.Append("10:00:00", "first")
	sink.Append("10:00:01", "second")
	out.Reset()

	quit, err := dispatchLine(context.Background(), mgr, mode, sink, history, out, "/log")
	require.NoError(t, err)
	assert.False(t, quit)

	got := out.String()
	assert.NotContains(t, got, "first")
	assert.Contains(t, got, "[10:00:01] second")
}

func TestDispatchLineEncodingSwitch(t *testing.T) {
	f := newShellFixture()

	assert.False(t, f.dispatch(t, "/hex"))
	assert.Equal(t, models.EncodingHex, f.mode.Load())
	assert.Contains(t, f.out.String(), "encoding set to hex")

	assert.False(t, f.dispatch(t, "/utf8"))
	assert.Equal(t, models.EncodingUTF8, f.mode.Load())
	assert.Contains(t, f.out.String(), "encoding set to UTF-8")
}

func TestDispatchLineRejectsMalformedHexInput(t *testing.T) {
	f := newShellFixture()
	f.mode.Store(models.EncodingHex)

	assert.False(t, f.dispatch(t, "zz"))
	assert.Contains(t, f.out.String(), "invalid hex input")
}

func TestDispatchLineConnectUsage(t *testing.T) {
	f := newShellFixture()

	assert.False(t, f.dispatch(t, "/connect onlyhost"))
	assert.Contains(t, f.out.String(), "usage: /connect HOST PORT")

	f.out.Reset()

	assert.False(t, f.dispatch(t, "/connect host 70000"))
	assert.Contains(t, f.out.String(), `invalid port "70000"`)
}
