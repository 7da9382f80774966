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

//go:generate mockgen -destination=mock_sink.go -package=event github.com/carverauto/tcptest/pkg/event Sink

// Package event provides the ordered, timestamped sinks consumed by the UI
// collaborator: the main event log, per-scan result and diagnostic logs, and
// an optional file-backed log.
package event

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TimeLayout is the timestamp format carried on every entry.
const TimeLayout = "15:04:05"

// Timestamp returns the current wall clock in HH:MM:SS form.
func Timestamp() string {
	return time.Now().Format(TimeLayout)
}

// Entry is one timestamped log line. Ordering is arrival order at the sink,
// not global wall-clock order across independent tasks.
type Entry struct {
	Time    string
	Message string
}

// Sink accepts timestamped messages from the engines. Implementations must
// be safe for concurrent producers; appends hold no lock across blocking
// operations.
type Sink interface {
	Append(timestamp, message string)
}

// Log is an in-memory append-only Sink with an optional retention cap.
// When the cap is exceeded the oldest entries are dropped, which is the UI
// collaborator's documented retention policy.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

var _ Sink = (*Log)(nil)

// NewLog creates a Log retaining at most capacity entries. A capacity of 0
// means unbounded.
func NewLog(capacity int) *Log {
	return &Log{cap: capacity}
}

func (l *Log) Append(timestamp, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Time: timestamp, Message: message})

	if l.cap > 0 && len(l.entries) > l.cap {
		drop := len(l.entries) - l.cap
		l.entries = append(l.entries[:0], l.entries[drop:]...)
	}
}

// Clear empties the log. Scan sinks are cleared at the start of each scan;
// the log itself stays live.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = l.entries[:0]
}

// Entries returns a snapshot copy of the current entries.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Messages returns a snapshot of just the message strings.
func (l *Log) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Message
	}

	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// WriterSink renders entries to an io.Writer as they arrive. Used by the CLI
// shell to mirror the event stream to the terminal.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sink = (*WriterSink)(nil)

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Append(timestamp, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "[%s] %s\n", timestamp, message)
}

// Tee fans one append out to several sinks in order.
type Tee []Sink

var _ Sink = (Tee)(nil)

func (t Tee) Append(timestamp, message string) {
	for _, s := range t {
		s.Append(timestamp, message)
	}
}
