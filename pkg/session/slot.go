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

// Package session implements the connection manager: a single live outbound
// TCP connection driven by a command stream, with the write capability held
// in a single-permit slot and a background receiver draining reads.
package session

import (
	"net"
	"sync"
)

// Slot holds at most one live connection's write capability. Taking the
// handle out and putting it back is the only way to write, which enforces
// at-most-one concurrent send. A sender that finds the slot empty reports
// busy rather than waiting.
type Slot struct {
	mu   sync.Mutex
	conn net.Conn
}

// Put stores the handle, replacing whatever was there. Non-blocking.
func (s *Slot) Put(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn = conn
}

// Take removes and returns the handle if present. Non-blocking.
func (s *Slot) Take() (net.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn := s.conn
	s.conn = nil

	return conn, conn != nil
}

// Drain empties the slot, returning the dropped handle if any so the caller
// can close it.
func (s *Slot) Drain() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn := s.conn
	s.conn = nil

	return conn
}
