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

// Package models defines the shared data model for the connection manager
// and scanner engines.
package models

import "sync/atomic"

// CommandType discriminates the Command variants.
type CommandType int

const (
	CommandConnect CommandType = iota
	CommandDisconnect
	CommandSend
)

func (t CommandType) String() string {
	switch t {
	case CommandConnect:
		return "connect"
	case CommandDisconnect:
		return "disconnect"
	case CommandSend:
		return "send"
	default:
		return "unknown"
	}
}

// Command is submitted by the UI collaborator and consumed exactly once, in
// submission order, by the connection manager. Only the fields relevant to
// the Type are populated.
type Command struct {
	Type     CommandType
	Host     string
	Port     uint16
	Payload  string
	Encoding EncodingMode
}

// ConnectCommand builds a Connect command for host:port.
func ConnectCommand(host string, port uint16) Command {
	return Command{Type: CommandConnect, Host: host, Port: port}
}

// DisconnectCommand builds a Disconnect command.
func DisconnectCommand() Command {
	return Command{Type: CommandDisconnect}
}

// SendCommand builds a Send command. The encoding is captured at submission
// time; the receiver side reads the shared EncodingCell instead.
func SendCommand(payload string, encoding EncodingMode) Command {
	return Command{Type: CommandSend, Payload: payload, Encoding: encoding}
}

// EncodingMode governs how outgoing text becomes bytes and how incoming
// bytes are rendered for the event log.
type EncodingMode int32

const (
	EncodingUTF8 EncodingMode = iota
	EncodingHex
)

func (m EncodingMode) String() string {
	if m == EncodingHex {
		return "hex"
	}

	return "UTF-8"
}

// EncodingCell is the shared encoding mode cell: single writer (the UI),
// multiple readers (sender and receiver tasks). Last writer wins; readers
// get no consistency guarantee across a single operation.
type EncodingCell struct {
	v atomic.Int32
}

func (c *EncodingCell) Store(m EncodingMode) {
	c.v.Store(int32(m))
}

func (c *EncodingCell) Load() EncodingMode {
	return EncodingMode(c.v.Load())
}
