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

package session

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/carverauto/tcptest/pkg/event"
	"github.com/carverauto/tcptest/pkg/logger"
	"github.com/carverauto/tcptest/pkg/models"
)

const defaultQueueSize = 16

// Manager consumes the command stream and drives the connection slot and
// receiver. Commands are processed strictly in submission order by a single
// consumer; events from the receiver interleave by completion time only.
type Manager struct {
	cmds chan models.Command
	slot *Slot
	sink event.Sink
	mode *models.EncodingCell
	log  logger.Logger

	dialer net.Dialer

	// mu guards conn and connected between the command loop and tests that
	// inspect state. The command loop is the only writer.
	mu        sync.Mutex
	conn      net.Conn
	connected bool

	receivers sync.WaitGroup
}

func NewManager(sink event.Sink, mode *models.EncodingCell, queueSize int, log logger.Logger) *Manager {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &Manager{
		cmds: make(chan models.Command, queueSize),
		slot: &Slot{},
		sink: sink,
		mode: mode,
		log:  log,
	}
}

// Submit queues a command for the manager loop. It blocks when the queue is
// full, which is the submission backpressure the UI sees.
func (m *Manager) Submit(ctx context.Context, cmd models.Command) error {
	select {
	case m.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connected reports the manager's connection flag. Note that a failed send
// discards the handle without clearing this flag; a subsequent explicit
// reconnect is required either way.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.connected
}

// Slot exposes the connection slot. Tests hold the handle through it to
// exercise the busy path.
func (m *Manager) Slot() *Slot {
	return m.slot
}

// Run processes commands until ctx is cancelled. It is the single consumer
// of the command queue.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.teardown()
			return
		case cmd := <-m.cmds:
			switch cmd.Type {
			case models.CommandConnect:
				m.handleConnect(ctx, cmd.Host, cmd.Port)
			case models.CommandDisconnect:
				m.handleDisconnect()
			case models.CommandSend:
				m.handleSend(cmd.Payload, cmd.Encoding)
			}
		}
	}
}

func (m *Manager) handleConnect(ctx context.Context, host string, port uint16) {
	// A new connect abandons any current connection first.
	m.dropConnection()

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		m.sink.Append(event.Timestamp(), fmt.Sprintf("connection failed: %v", err))
		m.log.Warn().Err(err).Str("addr", addr).Msg("connect failed")

		return
	}

	m.mu.Lock()
	m.conn = conn
	m.connected = true
	m.mu.Unlock()

	m.slot.Put(conn)

	m.sink.Append(event.Timestamp(), fmt.Sprintf("connected to %s", addr))
	m.log.Info().Str("addr", addr).Msg("connected")

	receiver := NewReceiver(m.sink, m.mode, m.log)

	m.receivers.Add(1)

	go func() {
		defer m.receivers.Done()

		receiver.Run(conn)
	}()
}

func (m *Manager) handleDisconnect() {
	m.dropConnection()

	// Emitted exactly once per disconnect command, connected or not.
	m.sink.Append(event.Timestamp(), "disconnected")
}

func (m *Manager) handleSend(payload string, encoding models.EncodingMode) {
	if !m.Connected() {
		m.sink.Append(event.Timestamp(), "cannot send: not connected")
		return
	}

	conn, ok := m.slot.Take()
	if !ok {
		// Another send holds the handle; report and drop, no queueing.
		m.sink.Append(event.Timestamp(), "connection busy, retry later")
		return
	}

	go m.send(conn, payload, encoding)
}

// send runs off the command loop so a slow peer never stalls command
// processing. The handle goes back into the slot only on success; a failed
// send means the connection is broken and needs an explicit reconnect. The
// connected flag deliberately stays set on that path.
func (m *Manager) send(conn net.Conn, payload string, encoding models.EncodingMode) {
	data := EncodePayload(payload, encoding)

	if _, err := conn.Write(data); err != nil {
		m.sink.Append(event.Timestamp(), fmt.Sprintf("send failed: %v", err))
		m.log.Warn().Err(err).Msg("send failed")

		if cerr := conn.Close(); cerr != nil {
			m.log.Debug().Err(cerr).Msg("failed to close broken connection")
		}

		return
	}

	m.mu.Lock()
	current := conn == m.conn
	m.mu.Unlock()

	if current {
		m.slot.Put(conn)
	} else {
		// A reconnect landed while this send was in flight; the slot
		// belongs to the new connection, so the superseded handle is
		// dropped instead of displacing it.
		if cerr := conn.Close(); cerr != nil {
			m.log.Debug().Err(cerr).Msg("failed to close superseded connection")
		}
	}

	m.sink.Append(event.Timestamp(), fmt.Sprintf("sent (%s): %s", encoding, payload))
}

// dropConnection drains the slot, closes the live socket if any, and clears
// the connected flag. The receiver observes the close and winds down on its
// own.
func (m *Manager) dropConnection() {
	m.slot.Drain()

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.connected = false
	m.mu.Unlock()

	if conn == nil {
		return
	}

	if err := conn.Close(); err != nil {
		m.log.Debug().Err(err).Msg("failed to close connection")
	}
}

func (m *Manager) teardown() {
	m.dropConnection()
	m.receivers.Wait()
}
