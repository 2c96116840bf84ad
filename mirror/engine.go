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

package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultDoneDir is the directory, inside every local folder, whose files mark
// remote files as completed.
const DefaultDoneDir = "done"

// ErrAborted wraps errors that stop the whole pass instead of a single folder.
var ErrAborted = errors.New("sync pass aborted")

// Confirmer answers yes/no questions, e.g. whether to descend into a folder.
type Confirmer interface {
	Confirm(message string, defaultYes bool) (bool, error)
}

// Engine mirrors a remote Dropbox tree into a local directory tree. It walks
// the tree depth-first, one entry at a time.
type Engine struct {
	client    dropbox.FoldersClient
	fs        afero.Fs
	metrics   *Metrics
	confirm   Confirmer
	doneDir   string
	listLimit int
	chunkSize uint64
	fileMode  os.FileMode
	dirMode   os.FileMode
}

type Option func(*Engine)

// WithMetrics makes the engine report to m instead of a private registry.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithDoneDir changes the name of the done marker directory.
func WithDoneDir(name string) Option {
	return func(e *Engine) {
		e.doneDir = name
	}
}

// WithListLimit sets the page size requested from list_folder, 0 leaves it to Dropbox.
func WithListLimit(limit int) Option {
	return func(e *Engine) {
		e.listLimit = limit
	}
}

// WithUploadChunkSize sets the size above which uploads use an upload session.
func WithUploadChunkSize(size uint64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.chunkSize = size
		}
	}
}

// WithFolderConfirmation asks c before descending into every remote folder.
func WithFolderConfirmation(c Confirmer) Option {
	return func(e *Engine) {
		e.confirm = c
	}
}

func NewEngine(client dropbox.FoldersClient, fs afero.Fs, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		fs:        fs,
		doneDir:   DefaultDoneDir,
		chunkSize: DefaultUploadChunkSize,
		fileMode:  0o644,
		dirMode:   0o755,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return e
}

// Report tallies what one sync pass did.
type Report struct {
	Downloaded      int
	DownloadedBytes int64
	SkippedPresent  int
	SkippedDone     int
	FoldersCreated  int
	FoldersVisited  int
	FoldersDeclined int
	ListingFailures int
	AbortedFolders  int
}

// SyncFolder mirrors the remote folder of sc, and everything below it, into
// sc.LocalDir(). Files are downloaded only when neither the local copy nor a
// done marker exists, so a second pass over an unchanged tree downloads
// nothing.
//
// A folder that cannot be listed is treated as empty. A failed download or
// local write stops the folder it happened in; the error is returned when
// that folder is sc itself, otherwise it is logged and the walk goes on with
// the next sibling. Context cancellation and confirmation errors (a quit
// answer) stop the whole pass with ErrAborted.
func (e *Engine) SyncFolder(ctx context.Context, sc SyncContext) (Report, error) {
	var rep Report
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("remote_path", sc.RemotePath()).
		Str("local_dir", sc.LocalDir()).
		Msg("starting sync")

	err := e.syncFolder(ctx, sc, &rep)
	if err == nil && ctx.Err() != nil {
		err = fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
	}

	logger.Info().
		Int("downloaded", rep.Downloaded).
		Int64("downloaded_bytes", rep.DownloadedBytes).
		Int("skipped_present", rep.SkippedPresent).
		Int("skipped_done", rep.SkippedDone).
		Int("folders_created", rep.FoldersCreated).
		Int("folders_visited", rep.FoldersVisited).
		Int("folders_declined", rep.FoldersDeclined).
		Int("listing_failures", rep.ListingFailures).
		Int("aborted_folders", rep.AbortedFolders).
		Msg("sync finished")
	return rep, err
}

func (e *Engine) syncFolder(ctx context.Context, sc SyncContext, rep *Report) error {
	rep.FoldersVisited++
	localDir := sc.LocalDir()

	listing := e.ListFolder(ctx, sc.RemoteRoot, sc.Subfolder)
	if listing.Outcome == ListingUnavailable {
		rep.ListingFailures++
	}
	if listing.Empty() {
		return nil
	}

	var dirs []string
	for _, name := range listing.Names() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}

		entry := listing.Entries[name]
		localPath := filepath.Join(localDir, name)
		logger := zerolog.Ctx(ctx).With().
			Str("remote_path", sc.RemotePath(name)).
			Str("local_path", localPath).
			Logger()

		switch entry.Kind() {
		case dropbox.KindFile:
			if err := e.syncFile(ctx, sc, localDir, name, rep); err != nil {
				return err
			}

		case dropbox.KindFolder:
			include, err := e.includeFolder(sc, name)
			if err != nil {
				return err
			}
			if !include {
				rep.FoldersDeclined++
				logger.Debug().Msg("folder declined")
				continue
			}
			if err := e.ensureDir(localPath, rep); err != nil {
				return err
			}
			dirs = append(dirs, name)

		default:
			logger.Debug().Str("tag", entry.Tag).Msg("ignoring entry")
		}
	}

	for _, name := range dirs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}
		child := sc.Child(name)
		if err := e.syncFolder(ctx, child, rep); err != nil {
			if errors.Is(err, ErrAborted) {
				return err
			}
			rep.AbortedFolders++
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("remote_path", child.RemotePath()).
				Msg("folder sync aborted, continuing with the next folder")
		}
	}

	return nil
}

func (e *Engine) syncFile(ctx context.Context, sc SyncContext, localDir, name string, rep *Report) error {
	localPath := filepath.Join(localDir, name)
	donePath := filepath.Join(localDir, e.doneDir, name)
	logger := zerolog.Ctx(ctx).With().Str("local_path", localPath).Logger()

	exists, err := afero.Exists(e.fs, localPath)
	if err != nil {
		return fmt.Errorf("check %s failed: %w", localPath, err)
	}
	if exists {
		rep.SkippedPresent++
		e.metrics.skipped.WithLabelValues(reasonPresent).Inc()
		logger.Debug().Msg("already present")
		return nil
	}

	done, err := afero.Exists(e.fs, donePath)
	if err != nil {
		return fmt.Errorf("check %s failed: %w", donePath, err)
	}
	if done {
		rep.SkippedDone++
		e.metrics.skipped.WithLabelValues(reasonDone).Inc()
		logger.Debug().Str("done_path", donePath).Msg("already done")
		return nil
	}

	data, err := e.DownloadBytes(ctx, sc.RemoteRoot, sc.Subfolder, name)
	if err != nil {
		return err
	}
	if err := e.writeLocalFile(localPath, data); err != nil {
		logger.Error().Err(err).Msg("saving file failed")
		return err
	}

	rep.Downloaded++
	rep.DownloadedBytes += int64(len(data))
	e.metrics.downloadedBytes.Add(float64(len(data)))
	logger.Info().Int("bytes", len(data)).Msg("saved file")
	return nil
}

func (e *Engine) includeFolder(sc SyncContext, name string) (bool, error) {
	if e.confirm == nil {
		return true, nil
	}
	ok, err := e.confirm.Confirm(fmt.Sprintf("Include folder %s", sc.RemotePath(name)), true)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return ok, nil
}

func (e *Engine) ensureDir(localPath string, rep *Report) error {
	exists, err := afero.Exists(e.fs, localPath)
	if err != nil {
		return fmt.Errorf("check %s failed: %w", localPath, err)
	}
	if exists {
		return nil
	}
	if err := e.fs.Mkdir(localPath, e.dirMode); err != nil {
		return fmt.Errorf("create directory %s failed: %w", localPath, err)
	}
	rep.FoldersCreated++
	e.metrics.foldersCreated.Inc()
	return nil
}
