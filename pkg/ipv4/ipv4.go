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

// Package ipv4 provides pure conversions between dotted IPv4 strings and a
// 32-bit ordinal, plus the range-size validation used by the scanner.
package ipv4

import (
	"errors"
	"fmt"
	"net/netip"
)

// MaxSpan is the largest inclusive range (end - start) accepted for both the
// IP axis and the port axis of a scan.
const MaxSpan = 1000

var ErrInvalidIPv4 = errors.New("invalid IPv4 address")

// Ordinal is the 32-bit unsigned representation of an IPv4 address, used for
// range arithmetic.
type Ordinal uint32

// Parse converts a dotted IPv4 string into its ordinal.
func Parse(s string) (Ordinal, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIPv4, s)
	}

	o := addr.As4()

	return Ordinal(o[0])<<24 | Ordinal(o[1])<<16 | Ordinal(o[2])<<8 | Ordinal(o[3]), nil
}

// String formats the ordinal back into dotted form.
func (o Ordinal) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(o>>24), byte(o>>16), byte(o>>8), byte(o))
}

// IsValid reports whether s parses as a dotted IPv4 address.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// ValidateRange reports whether start and end both parse, start <= end, and
// the inclusive span does not exceed maxSpan ordinals.
func ValidateRange(start, end string, maxSpan uint32) bool {
	s, err := Parse(start)
	if err != nil {
		return false
	}

	e, err := Parse(end)
	if err != nil {
		return false
	}

	return s <= e && uint32(e-s) <= maxSpan
}

// ValidatePortRange applies the same span rule to a port range.
func ValidatePortRange(start, end uint16, maxSpan uint32) bool {
	return start <= end && uint32(end-start) <= maxSpan
}
