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
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultUploadChunkSize is the largest file sent in a single upload request.
// Bigger files go through an upload session in chunks of this size.
const DefaultUploadChunkSize uint64 = 4 * 1024 * 1024

// DownloadBytes fetches the whole content of the remote file name. A failure
// is logged and returned; there is no retry.
func (e *Engine) DownloadBytes(ctx context.Context, remoteRoot, subfolder, name string) ([]byte, error) {
	p := NormalizePath(remoteRoot, subfolder, name)
	logger := zerolog.Ctx(ctx).With().Str("remote_path", p).Logger()

	start := time.Now()
	data, err := e.download(ctx, p)
	e.metrics.observe(opDownload, start)
	if err != nil {
		e.metrics.downloads.WithLabelValues(statusError).Inc()
		logger.Error().Err(err).Msg("download failed")
		return nil, err
	}

	e.metrics.downloads.WithLabelValues(statusOK).Inc()
	logger.Debug().
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("downloaded file")
	return data, nil
}

func (e *Engine) download(ctx context.Context, p string) ([]byte, error) {
	_, reader, err := e.client.Download(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("download %s failed: %w", p, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s failed: %w", p, err)
	}
	return data, nil
}

// UploadBytes stores the local file localPath at the remote path built from
// remoteRoot, subfolder and name. Without overwrite the upload fails with
// dropbox.ErrConflict when the remote path exists. The local modification
// time is sent as client_modified, truncated to whole seconds in UTC.
func (e *Engine) UploadBytes(ctx context.Context, localPath, remoteRoot, subfolder, name string, overwrite bool) (*dropbox.FileMetadata, error) {
	p := NormalizePath(remoteRoot, subfolder, name)
	logger := zerolog.Ctx(ctx).With().
		Str("local_path", localPath).
		Str("remote_path", p).
		Logger()

	info, err := e.fs.Stat(localPath)
	if err != nil {
		logger.Error().Err(err).Msg("reading local file failed")
		return nil, fmt.Errorf("stat %s failed: %w", localPath, err)
	}
	data, err := afero.ReadFile(e.fs, localPath)
	if err != nil {
		logger.Error().Err(err).Msg("reading local file failed")
		return nil, fmt.Errorf("read %s failed: %w", localPath, err)
	}

	opts := dropbox.UploadOptions{
		Mode:           dropbox.WriteModeAdd,
		ClientModified: info.ModTime().UTC().Truncate(time.Second),
		Mute:           true,
	}
	if overwrite {
		opts.Mode = dropbox.WriteModeOverwrite
	}

	start := time.Now()
	md, err := e.upload(ctx, p, data, opts)
	e.metrics.observe(opUpload, start)
	if err != nil {
		e.metrics.uploads.WithLabelValues(statusError).Inc()
		logger.Error().Err(err).Msg("upload failed")
		return nil, err
	}

	e.metrics.uploads.WithLabelValues(statusOK).Inc()
	e.metrics.uploadedBytes.Add(float64(len(data)))
	logger.Info().
		Int("bytes", len(data)).
		Str("mode", string(opts.Mode)).
		Dur("elapsed", time.Since(start)).
		Msg("uploaded file")
	return md, nil
}

func (e *Engine) upload(ctx context.Context, p string, data []byte, opts dropbox.UploadOptions) (*dropbox.FileMetadata, error) {
	size := uint64(len(data))
	if size <= e.chunkSize {
		md, err := e.client.UploadFile(ctx, p, data, opts)
		if err != nil {
			return nil, fmt.Errorf("upload %s failed: %w", p, err)
		}
		return md, nil
	}

	sess, err := e.client.CreateSession(ctx, data[:e.chunkSize])
	if err != nil {
		return nil, fmt.Errorf("error creating upload session: %w", err)
	}

	offset := e.chunkSize
	for offset < size {
		end := min(offset+e.chunkSize, size)
		if err := e.client.UploadChunk(ctx, sess.SessionID, data[offset:end], offset); err != nil {
			return nil, fmt.Errorf("error uploading chunk at offset %d: %w", offset, err)
		}
		offset = end
	}

	md, err := e.client.CloseSession(ctx, p, sess.SessionID, offset, opts)
	if err != nil {
		return nil, fmt.Errorf("error closing upload session: %w", err)
	}
	return md, nil
}

// writeLocalFile writes data to localPath byte for byte. The content goes to
// a temporary file in the same directory first, so an interrupted write never
// leaves a file that a later pass would take as already synced.
func (e *Engine) writeLocalFile(localPath string, data []byte) (err error) {
	tmp, err := afero.TempFile(e.fs, filepath.Dir(localPath), ".dropbox-sync-*.part")
	if err != nil {
		return fmt.Errorf("create temp file failed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = e.fs.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s failed: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s failed: %w", tmp.Name(), err)
	}
	if err = e.fs.Chmod(tmp.Name(), e.fileMode); err != nil {
		return fmt.Errorf("chmod %s failed: %w", tmp.Name(), err)
	}
	if err = e.fs.Rename(tmp.Name(), localPath); err != nil {
		return fmt.Errorf("rename to %s failed: %w", localPath, err)
	}
	return nil
}
