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

	"github.com/conduitio-labs/dropbox-sync/config"
	"github.com/conduitio-labs/dropbox-sync/mirror"
	"github.com/conduitio-labs/dropbox-sync/pkg/prompt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type syncFlags struct {
	yes, no, def   bool
	confirmFolders bool
	watch          bool
	metricsFile    string
}

func (a *app) syncCmd() *cobra.Command {
	cfg := config.Default()
	var sf syncFlags

	cmd := &cobra.Command{
		Use:   "sync [folder] [rootdir]",
		Short: "Download new files from a Dropbox folder into a local directory",
		Long: `Walks the Dropbox folder recursively and downloads every file that has
neither a local copy nor a marker of the same name in the done directory.
Existing local files are never overwritten.`,
		Args: rangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Path = args[0]
			}
			if len(args) > 1 {
				cfg.LocalRoot = args[1]
			}
			return a.runSync(cmd, cfg, sf)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Token, "token", "", "Dropbox access token (default $"+config.TokenEnv+")")
	flags.BoolVarP(&sf.yes, "yes", "y", false, "answer yes to all questions")
	flags.BoolVarP(&sf.no, "no", "n", false, "answer no to all questions")
	flags.BoolVarP(&sf.def, "default", "d", false, "take the default answer on all questions")
	flags.BoolVar(&sf.confirmFolders, "confirm-folders", false, "ask before descending into each remote folder")
	flags.StringVar(&cfg.DoneDir, "done-dir", cfg.DoneDir, "name of the done marker directory inside each local folder")
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "maximum API requests per second, 0 for no limit")
	flags.IntVar(&cfg.ListLimit, "list-limit", cfg.ListLimit, "entries requested per listing page, 0 for the Dropbox default")
	flags.StringVar(&sf.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the pass")
	flags.BoolVarP(&sf.watch, "watch", "w", false, "keep running and sync again whenever the remote folder changes")
	flags.DurationVar(&cfg.LongpollTimeout, "longpoll-timeout", cfg.LongpollTimeout, "how long to wait for remote changes per request in watch mode")
	flags.IntVar(&cfg.Retries, "retries", cfg.Retries, "consecutive failures tolerated in watch mode")
	flags.DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "delay between retries in watch mode")

	return cmd
}

func (a *app) runSync(cmd *cobra.Command, cfg config.Config, sf syncFlags) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	mode, err := prompt.ModeFromFlags(sf.yes, sf.no, sf.def)
	if err != nil {
		return usageError(err)
	}

	cfg.ApplyEnv()
	root, err := config.ExpandHome(cfg.LocalRoot)
	if err != nil {
		return err
	}
	cfg.LocalRoot = root
	if err := cfg.Validate(a.fs); err != nil {
		return validationExit(err)
	}

	logger.Info().
		Str("folder", cfg.Path).
		Str("local_dir", cfg.LocalRoot).
		Msg("dropbox folder and local directory")

	client, err := a.newClient(cfg)
	if err != nil {
		return fmt.Errorf("create dropbox client: %w", err)
	}

	remote := mirror.NormalizePath(cfg.Path, "")
	if remote != "" {
		if _, err := client.VerifyPath(ctx, remote); err != nil {
			logger.Warn().Err(err).Str("remote_path", remote).Msg("error verifying remote path, it will be treated as empty")
		}
	}

	reg := prometheus.NewRegistry()
	opts := []mirror.Option{
		mirror.WithMetrics(mirror.NewMetrics(reg)),
		mirror.WithDoneDir(cfg.DoneDir),
		mirror.WithListLimit(cfg.ListLimit),
	}
	if sf.confirmFolders {
		opts = append(opts, mirror.WithFolderConfirmation(prompt.New(mode, cmd.InOrStdin(), cmd.OutOrStdout())))
	}

	engine := mirror.NewEngine(client, a.fs, opts...)
	sc := mirror.NewSyncContext(cfg.Path, cfg.LocalRoot)
	out := cmd.OutOrStdout()

	var syncErr error
	if sf.watch {
		syncErr = engine.Watch(ctx, sc, mirror.WatchConfig{
			LongpollTimeout: cfg.LongpollTimeout,
			Retries:         cfg.Retries,
			RetryDelay:      cfg.RetryDelay,
			OnPass: func(rep mirror.Report) {
				printReport(out, rep)
				writeMetrics(ctx, sf.metricsFile, reg)
			},
		})
	} else {
		var rep mirror.Report
		rep, syncErr = engine.SyncFolder(ctx, sc)
		printReport(out, rep)
		writeMetrics(ctx, sf.metricsFile, reg)
	}

	if errors.Is(syncErr, prompt.ErrQuit) {
		fmt.Fprintln(out, "Exit")
		return nil
	}
	return syncErr
}

func printReport(w io.Writer, rep mirror.Report) {
	fmt.Fprintf(w, "downloaded %d files (%d bytes), skipped %d present and %d done, created %d folders, declined %d folders\n",
		rep.Downloaded, rep.DownloadedBytes, rep.SkippedPresent, rep.SkippedDone, rep.FoldersCreated, rep.FoldersDeclined)
}

func writeMetrics(ctx context.Context, file string, reg *prometheus.Registry) {
	if file == "" {
		return
	}
	if err := prometheus.WriteToTextfile(file, reg); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("metrics_file", file).Msg("writing metrics failed")
	}
}
