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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carverauto/tcptest/pkg/models"
)

func TestEncodePayloadUTF8(t *testing.T) {
	assert.Equal(t, []byte("héllo"), EncodePayload("héllo", models.EncodingUTF8))
	assert.Empty(t, EncodePayload("", models.EncodingUTF8))
}

func TestEncodePayloadHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"plain pairs", "48656C6C6F", []byte("Hello")},
		{"lowercase", "dead", []byte{0xDE, 0xAD}},
		{"spaces stripped", "48 65 6C", []byte{0x48, 0x65, 0x6C}},
		{"trailing odd char dropped", "4865A", []byte{0x48, 0x65}},
		{"invalid pair dropped", "48GG65", []byte{0x48, 0x65}},
		{"all invalid", "ZZZZ", []byte{}},
		{"empty", "", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodePayload(tt.in, models.EncodingHex))
		})
	}
}

func TestIsValidHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"DEADBEEF", true},
		{"deadbeef", true},
		{"DE AD BE EF", true},
		{"ABC", false},
		{"GG", false},
		{"0x41", false},
		{"41 4", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidHex(tt.in))
		})
	}
}

func TestFormatHex(t *testing.T) {
	assert.Equal(t, "48 65 6C", FormatHex([]byte{0x48, 0x65, 0x6C}))
	assert.Equal(t, "00", FormatHex([]byte{0}))
	assert.Equal(t, "", FormatHex(nil))
}

// Decoding an even-length, space-free hex string and re-encoding it as
// uppercase hex reproduces the original, case-normalized.
func TestHexRoundTrip(t *testing.T) {
	inputs := []string{"00", "DEADBEEF", "cafebabe", "0123456789abcdef"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			decoded := EncodePayload(in, models.EncodingHex)
			out := strings.ReplaceAll(FormatHex(decoded), " ", "")
			assert.Equal(t, strings.ToUpper(in), out)
		})
	}
}
