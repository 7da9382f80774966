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

// echoserver is a throwaway TCP echo server for exercising the test client
// by hand.
package main

import (
	"flag"
	"io"
	"net"

	"github.com/carverauto/tcptest/pkg/logger"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8888", "listen address")
	flag.Parse()

	log, err := logger.New(nil)
	if err != nil {
		panic(err)
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("listen failed")
	}

	log.Info().Str("addr", *addr).Msg("echo server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Error().Err(err).Msg("accept failed")
			continue
		}

		log.Info().Str("peer", conn.RemoteAddr().String()).Msg("client connected")

		go func(c net.Conn) {
			defer c.Close()

			if _, err := io.Copy(c, c); err != nil {
				log.Debug().Err(err).Msg("echo loop ended")
			}

			log.Info().Str("peer", c.RemoteAddr().String()).Msg("client disconnected")
		}(conn)
	}
}
