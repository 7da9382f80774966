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
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/carverauto/tcptest/pkg/event"
	"github.com/carverauto/tcptest/pkg/models"
	"github.com/carverauto/tcptest/pkg/scan"
)

func scanCmd() *cobra.Command {
	var (
		startIP, endIP     string
		startPort, endPort uint16
		timeout            time.Duration
		verbose            bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan an IPv4 range for open TCP ports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			sink := event.NewWriterSink(cmd.OutOrStdout())
			results := event.NewLog(0)
			scanLog := event.NewLog(0)

			scanner := scan.NewScanner(sink, results, scanLog, scan.NewConnectProber(log), log)
			scanner.SetRateLimit(cfg.ProbeRateLimit)

			// Ctrl-C requests cooperative cancellation; a second one kills
			// the process the usual way.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			go func() {
				<-ctx.Done()
				scanner.Stop()
			}()

			if timeout == 0 {
				timeout = time.Duration(cfg.ProbeTimeout)
			}

			err = scanner.Run(ctx, models.ScanRequest{
				StartIP:   startIP,
				EndIP:     endIP,
				StartPort: startPort,
				EndPort:   endPort,
				Timeout:   timeout,
			})
			if err != nil {
				return err
			}

			if verbose {
				for _, e := range scanLog.Entries() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", e.Time, e.Message)
				}
			}

			if cfg.ScanLogFile != "" {
				if werr := event.NewFileLog(cfg.ScanLogFile).WriteAll(scanLog.Entries()); werr != nil {
					sink.Append(event.Timestamp(), fmt.Sprintf("could not write scan log: %v", werr))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startIP, "start-ip", "", "first IPv4 address of the range")
	cmd.Flags().StringVar(&endIP, "end-ip", "", "last IPv4 address of the range")
	cmd.Flags().Uint16Var(&startPort, "start-port", 0, "first port of the range")
	cmd.Flags().Uint16Var(&endPort, "end-port", 0, "last port of the range")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-probe connect timeout (default from config, 500ms)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the full scan log after the scan")

	_ = cmd.MarkFlagRequired("start-ip")
	_ = cmd.MarkFlagRequired("end-ip")
	_ = cmd.MarkFlagRequired("start-port")
	_ = cmd.MarkFlagRequired("end-port")

	return cmd
}
