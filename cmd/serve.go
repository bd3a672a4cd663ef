// Copyright 2025 Notedown Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bracketnotes/bracketls/internal/server"
	"github.com/bracketnotes/bracketls/pkg/config"
	"github.com/bracketnotes/bracketls/pkg/log"
	"github.com/bracketnotes/bracketls/pkg/protocol"
	"github.com/bracketnotes/bracketls/pkg/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the language server",
	Long: `Start bracketls. The server communicates over stdin/stdout using the
Language Server Protocol, framed with Content-Length headers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logFormat, _ := cmd.Flags().GetString("log-format")
		logFile, _ := cmd.Flags().GetString("log-file")

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		settings, err := config.LoadSettings(cwd, config.Flags{
			LogLevel:  logLevel,
			LogFormat: logFormat,
			LogFile:   logFile,
		})
		if err != nil {
			return err
		}

		logger, err := newLogger(settings)
		if err != nil {
			return err
		}

		logger.Info("starting bracketls", "version", version.Get())

		reader := bufio.NewReader(os.Stdin)
		writer := bufio.NewWriter(os.Stdout)

		srv := server.NewServer(version.Get(), logger)
		mux := protocol.NewMux(reader, writer, version.Get(), logger)
		mux.SetServer(srv)
		if err := srv.RegisterHandlers(mux); err != nil {
			return fmt.Errorf("failed to register handlers: %w", err)
		}

		if err := mux.Run(); err != nil {
			return fmt.Errorf("language server exited: %w", err)
		}
		return nil
	},
}

func newLogger(settings *config.Settings) (*log.Logger, error) {
	level := log.ParseLevel(settings.LogLevel)
	format := log.ParseFormat(settings.LogFormat)
	if settings.LogFile != "" {
		return log.NewFile(settings.LogFile, level, format)
	}
	// stdout is reserved for LSP frames, so default logging goes to stderr.
	return log.NewWithFormat(os.Stderr, level, format), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().String("log-format", "", "Log format (text, json)")
	serveCmd.Flags().String("log-file", "", "Path to log file (default: stderr)")
}
