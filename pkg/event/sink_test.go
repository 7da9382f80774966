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

package event

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendAndSnapshot(t *testing.T) {
	l := NewLog(0)

	l.Append("10:00:00", "first")
	l.Append("10:00:01", "second")

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "10:00:01", entries[1].Time)
	assert.Equal(t, []string{"first", "second"}, l.Messages())
}

func TestLogRetentionDropsOldest(t *testing.T) {
	l := NewLog(3)

	for i := 0; i < 5; i++ {
		l.Append("10:00:00", fmt.Sprintf("msg-%d", i))
	}

	assert.Equal(t, []string{"msg-2", "msg-3", "msg-4"}, l.Messages())
}

func TestLogClearKeepsLogUsable(t *testing.T) {
	l := NewLog(10)
	l.Append("10:00:00", "stale")

	l.Clear()
	assert.Zero(t, l.Len())

	l.Append("10:00:01", "fresh")
	assert.Equal(t, []string{"fresh"}, l.Messages())
}

func TestLogConcurrentAppends(t *testing.T) {
	l := NewLog(0)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				l.Append("10:00:00", fmt.Sprintf("w%d-%d", n, j))
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 1000, l.Len())
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer

	s := NewWriterSink(&buf)
	s.Append("10:00:00", "hello")

	assert.Equal(t, "[10:00:00] hello\n", buf.String())
}

func TestTeeFansOut(t *testing.T) {
	a := NewLog(0)
	b := NewLog(0)

	Tee{a, b}.Append("10:00:00", "both")

	assert.Equal(t, []string{"both"}, a.Messages())
	assert.Equal(t, []string{"both"}, b.Messages())
}

func TestFileLogAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")
	f := NewFileLog(path)

	require.NoError(t, f.AppendLine("one"))
	require.NoError(t, f.AppendLine("two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestFileLogWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.csv")
	f := NewFileLog(path)

	err := f.WriteAll([]Entry{
		{Time: "10:00:00", Message: "scan started"},
		{Time: "10:00:05", Message: "scan complete"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "time,message\n10:00:00,scan started\n10:00:05,scan complete\n", string(data))
}

func TestFileLogUnwritablePathReturnsError(t *testing.T) {
	f := NewFileLog(filepath.Join(t.TempDir(), "missing", "scan.log"))

	err := f.AppendLine("line")
	require.Error(t, err)
}
