// Copyright © 2025 Meroxa, Inc.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/conduitio-labs/dropbox-sync/config"
	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// exitCodeError carries the process exit code for err.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string { return e.err.Error() }
func (e exitCodeError) Unwrap() error { return e.err }

func usageError(err error) error {
	return exitCodeError{code: exitUsage, err: err}
}

// validationExit maps configuration problems to exit codes: a bad local
// root exits 1, anything else is a usage error.
func validationExit(err error) error {
	var verr config.ValidationError
	if errors.As(err, &verr) && verr.Field == config.FieldLocalRoot {
		return exitCodeError{code: exitError, err: err}
	}
	return usageError(err)
}

type app struct {
	fs        afero.Fs
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	newClient func(cfg config.Config) (dropbox.FoldersClient, error)
}

func newApp() *app {
	return &app{
		fs:        afero.NewOsFs(),
		in:        os.Stdin,
		out:       os.Stdout,
		errOut:    os.Stderr,
		newClient: newHTTPClient,
	}
}

func newHTTPClient(cfg config.Config) (dropbox.FoldersClient, error) {
	// Dropbox adds up to 90 seconds of jitter to longpoll requests.
	timeout := max(5*time.Minute, cfg.LongpollTimeout+2*time.Minute)
	return dropbox.NewHTTPClient(cfg.Token,
		dropbox.WithRateLimit(cfg.RateLimit, 1),
		dropbox.WithTimeout(timeout),
	)
}

type logFlags struct {
	level  string
	format string
}

func (a *app) rootCmd() *cobra.Command {
	var lf logFlags

	cmd := &cobra.Command{
		Use:   "dropbox-sync",
		Short: "Mirror Dropbox folders into local directories",
		// Errors are printed by run together with the exit code.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.errOut, lf.level, lf.format)
			if err != nil {
				return usageError(err)
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&lf.level, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&lf.format, "log-format", "console", "log format (console, json)")

	cmd.AddCommand(a.syncCmd(), a.uploadCmd())
	return cmd
}

// run executes the command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(a.errOut, "Error:", err)
	var ec exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	return exitError
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(lo, hi)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
