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
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"unicode/utf8"

	"github.com/carverauto/tcptest/pkg/event"
	"github.com/carverauto/tcptest/pkg/logger"
	"github.com/carverauto/tcptest/pkg/models"
)

const readBufferSize = 1024

// readErrorKind classifies read failures for event reporting. Fatal kinds
// additionally surface a "connection interrupted" event; every kind ends the
// read loop (transient kinds are not retried here, reconnecting is the
// caller's call).
type readErrorKind int

const (
	kindReset readErrorKind = iota
	kindAborted
	kindTimedOut
	kindWouldBlock
	kindInterrupted
	kindBrokenPipe
	kindLocalClose
	kindOther
)

func classifyReadError(err error) readErrorKind {
	switch {
	case errors.Is(err, syscall.ECONNRESET):
		return kindReset
	case errors.Is(err, syscall.ECONNABORTED):
		return kindAborted
	case errors.Is(err, syscall.ETIMEDOUT):
		return kindTimedOut
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EWOULDBLOCK):
		return kindWouldBlock
	case errors.Is(err, syscall.EINTR):
		return kindInterrupted
	case errors.Is(err, syscall.EPIPE):
		return kindBrokenPipe
	case errors.Is(err, net.ErrClosed):
		return kindLocalClose
	default:
		return kindOther
	}
}

func (k readErrorKind) message(err error) string {
	switch k {
	case kindReset:
		return "connection reset by server"
	case kindAborted:
		return "connection aborted"
	case kindTimedOut:
		return "read timed out"
	case kindWouldBlock:
		return "operation would block"
	case kindInterrupted:
		return "operation interrupted"
	case kindBrokenPipe:
		return "broken pipe"
	default:
		return fmt.Sprintf("read error: %v", err)
	}
}

func (k readErrorKind) fatal() bool {
	return k == kindReset || k == kindAborted || k == kindBrokenPipe
}

// Receiver drains one connection's read capability until EOF or error,
// decoding each read by the encoding mode in effect at that moment.
type Receiver struct {
	sink   event.Sink
	mode   *models.EncodingCell
	logger logger.Logger
}

func NewReceiver(sink event.Sink, mode *models.EncodingCell, log logger.Logger) *Receiver {
	return &Receiver{sink: sink, mode: mode, logger: log}
}

// Run blocks until the connection stops yielding data. It never closes the
// connection itself; ownership of the socket stays with the manager.
func (r *Receiver) Run(conn net.Conn) {
	r.sink.Append(event.Timestamp(), "receive channel established")

	defer r.sink.Append(event.Timestamp(), "receive channel closed")

	buf := make([]byte, readBufferSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			r.deliver(buf[:n])
		}

		if err == nil {
			continue
		}

		if errors.Is(err, io.EOF) {
			r.sink.Append(event.Timestamp(), "server closed connection")
			return
		}

		kind := classifyReadError(err)
		if kind == kindLocalClose {
			// The manager closed the socket under us on disconnect or
			// reconnect; nothing to report beyond channel closure.
			return
		}

		r.sink.Append(event.Timestamp(), kind.message(err))

		if kind.fatal() {
			r.sink.Append(event.Timestamp(), "connection interrupted")
		}

		r.logger.Debug().Err(err).Msg("read loop terminated")

		return
	}
}

// deliver renders one read's bytes by the current encoding mode. Hex mode
// always shows a hex dump; UTF-8 mode falls back to a hex dump when the
// bytes do not decode.
func (r *Receiver) deliver(data []byte) {
	switch r.mode.Load() {
	case models.EncodingHex:
		r.sink.Append(event.Timestamp(), fmt.Sprintf("received (hex): %s", FormatHex(data)))
	default:
		if utf8.Valid(data) {
			r.sink.Append(event.Timestamp(), fmt.Sprintf("received (UTF-8): %s", string(data)))
			return
		}

		r.sink.Append(event.Timestamp(), fmt.Sprintf("received (non-UTF-8): %s", FormatHex(data)))
	}
}
