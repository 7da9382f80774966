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
	"fmt"
	"strconv"
	"strings"

	"github.com/carverauto/tcptest/pkg/models"
)

// EncodePayload turns outgoing text into wire bytes according to the mode.
// UTF-8 sends the text's bytes as-is. Hex strips spaces, pairs the remaining
// characters, and best-efforts the bytes it can parse: a trailing unpaired
// character and invalid pairs are dropped silently. Callers are expected to
// pre-validate with ipv4.IsValidHex; the engine never rejects at send time.
func EncodePayload(payload string, mode models.EncodingMode) []byte {
	if mode != models.EncodingHex {
		return []byte(payload)
	}

	return decodeHex(payload)
}

func decodeHex(s string) []byte {
	s = strings.ReplaceAll(s, " ", "")

	bytes := make([]byte, 0, len(s)/2)

	for i := 0; i+1 < len(s); i += 2 {
		b, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			continue
		}

		bytes = append(bytes, byte(b))
	}

	return bytes
}

// IsValidHex reports whether s is well formed hex input for the send path:
// after removing spaces, every character is a hex digit and the count is
// even. The engine never rejects malformed hex at send time; this is the
// pre-validation check the UI runs first.
func IsValidHex(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return false
	}

	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}

	return true
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}

// FormatHex renders bytes as an uppercase space-separated hex string, the
// display form used for hex-mode and non-UTF-8 received data.
func FormatHex(data []byte) string {
	var b strings.Builder

	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}

		fmt.Fprintf(&b, "%02X", c)
	}

	return b.String()
}
