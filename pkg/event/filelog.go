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
	"fmt"
	"os"
	"sync"
)

// FileLog appends log lines to a file. Failures are non-fatal to the engine:
// callers report them through the event sink and carry on with the network
// operation in progress.
type FileLog struct {
	mu   sync.Mutex
	path string
}

func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// AppendLine writes one line, creating the file on first use.
func (f *FileLog) AppendLine(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, message); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	return nil
}

// WriteAll replaces the file contents with a CSV dump of the entries,
// "time,message" with a header row.
func (f *FileLog) WriteAll(entries []Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, "time,message"); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(file, "%s,%s\n", e.Time, e.Message); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	return nil
}
