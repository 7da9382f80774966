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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carverauto/tcptest/pkg/event"
	"github.com/carverauto/tcptest/pkg/models"
	"github.com/carverauto/tcptest/pkg/session"
)

func connectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect HOST PORT",
		Short: "Open a TCP connection and exchange data interactively",
		Long: `Opens a TCP connection and reads lines from stdin to send.
Lines starting with / are shell commands:

  /hex         switch encoding to hex (input like "48 65 6C")
  /utf8        switch encoding to UTF-8
  /disconnect  drop the connection
  /connect H P reconnect to H:P
  /log         replay the retained event history
  /quit        exit`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			port, err := strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				return fmt.Errorf("invalid port %q: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			history := event.NewLog(cfg.EventCap)
			sink := event.Tee{event.NewWriterSink(out), history}

			mode := &models.EncodingCell{}
			mgr := session.NewManager(sink, mode, cfg.CommandQueueSize, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			go mgr.Run(ctx)

			if err := mgr.Submit(ctx, models.ConnectCommand(args[0], uint16(port))); err != nil {
				return err
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())

			for scanner.Scan() {
				line := scanner.Text()

				quit, err := dispatchLine(ctx, mgr, mode, sink, history, out, line)
				if err != nil {
					return err
				}

				if quit || ctx.Err() != nil {
					break
				}
			}

			return scanner.Err()
		},
	}

	return cmd
}

func dispatchLine(ctx context.Context, mgr *session.Manager, mode *models.EncodingCell, sink event.Sink, history *event.Log, out io.Writer, line string) (quit bool, err error) {
	switch {
	case line == "/quit":
		return true, nil

	case line == "/log":
		// Replay the retained tail; scrollback may have lost earlier lines.
		for _, e := range history.Entries() {
			fmt.Fprintf(out, "[%s] %s\n", e.Time, e.Message)
		}

		return false, nil

	case line == "/hex":
		mode.Store(models.EncodingHex)
		sink.Append(event.Timestamp(), "encoding set to hex")

		return false, nil

	case line == "/utf8":
		mode.Store(models.EncodingUTF8)
		sink.Append(event.Timestamp(), "encoding set to UTF-8")

		return false, nil

	case line == "/disconnect":
		return false, mgr.Submit(ctx, models.DisconnectCommand())

	case strings.HasPrefix(line, "/connect "):
		fields := strings.Fields(line)
		if len(fields) != 3 {
			sink.Append(event.Timestamp(), "usage: /connect HOST PORT")
			return false, nil
		}

		port, perr := strconv.ParseUint(fields[2], 10, 16)
		if perr != nil {
			sink.Append(event.Timestamp(), fmt.Sprintf("invalid port %q", fields[2]))
			return false, nil
		}

		return false, mgr.Submit(ctx, models.ConnectCommand(fields[1], uint16(port)))

	default:
		m := mode.Load()
		if m == models.EncodingHex && !session.IsValidHex(line) {
			// The engine would silently drop the malformed bytes; the shell
			// pre-validates the way the UI panels do.
			sink.Append(event.Timestamp(), "invalid hex input: need an even count of hex digits")
			return false, nil
		}

		return false, mgr.Submit(ctx, models.SendCommand(line, m))
	}
}
