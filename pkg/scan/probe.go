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

package scan

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/carverauto/tcptest/pkg/logger"
)

// DefaultProbeTimeout is used when a scan request carries no timeout.
const DefaultProbeTimeout = 500 * time.Millisecond

// Prober tests a single (host, port) pair for openness. An open result
// requires a full successful connection handshake; raw SYN probing is out of
// scope here.
type Prober interface {
	Probe(ctx context.Context, host string, port uint16, timeout time.Duration) bool
}

// ConnectProber probes with a bounded-timeout TCP connect attempt.
type ConnectProber struct {
	logger logger.Logger
}

var _ Prober = (*ConnectProber)(nil)

func NewConnectProber(log logger.Logger) *ConnectProber {
	return &ConnectProber{logger: log}
}

func (p *ConnectProber) Probe(ctx context.Context, host string, port uint16, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	// Per-probe timeout context that respects both parent context and timeout
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(probeCtx, "tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err != nil {
		return false
	}

	defer func(conn net.Conn) {
		if err := conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("failed to close probe connection")
		}
	}(conn)

	return true
}
