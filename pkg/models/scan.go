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

package models

import (
	"sync/atomic"
	"time"
)

// ScanRequest describes one scanner invocation: the cross product of an
// inclusive IPv4 range and an inclusive port range, probed with a per-probe
// connect timeout.
type ScanRequest struct {
	StartIP   string        `json:"start_ip"`
	EndIP     string        `json:"end_ip"`
	StartPort uint16        `json:"start_port"`
	EndPort   uint16        `json:"end_port"`
	Timeout   time.Duration `json:"timeout"`
}

// ScanStatus carries the shared counters and flags for a scan in flight.
// Counters are updated by the batch workers; the cancelled flag is
// cooperative and only observed at IP and chunk boundaries.
type ScanStatus struct {
	scanned   atomic.Uint64
	open      atomic.Uint64
	cancelled atomic.Bool
	running   atomic.Bool
}

// Reset prepares the status for a new scan.
func (s *ScanStatus) Reset() {
	s.scanned.Store(0)
	s.open.Store(0)
	s.cancelled.Store(false)
	s.running.Store(true)
}

// AddScanned records one fully probed IP and returns the new total.
func (s *ScanStatus) AddScanned(n uint64) uint64 {
	return s.scanned.Add(n)
}

// AddOpen records one open port found.
func (s *ScanStatus) AddOpen() uint64 {
	return s.open.Add(1)
}

func (s *ScanStatus) Scanned() uint64 { return s.scanned.Load() }
func (s *ScanStatus) Open() uint64    { return s.open.Load() }

// Cancel requests cooperative cancellation. Batches observe it at the next
// IP or chunk boundary; in-flight probes complete within their own timeout.
func (s *ScanStatus) Cancel() {
	s.cancelled.Store(true)
}

func (s *ScanStatus) Cancelled() bool { return s.cancelled.Load() }

func (s *ScanStatus) SetRunning(v bool) { s.running.Store(v) }
func (s *ScanStatus) Running() bool     { return s.running.Load() }
