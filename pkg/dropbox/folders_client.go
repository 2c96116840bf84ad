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

package dropbox

import (
	"context"
	"io"
	"time"
)

type FoldersClient interface {
	// List returns metadata for all files/folders in path
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder
	List(ctx context.Context, path string, recursive bool, limit int) ([]Entry, string, bool, error)

	// ListContinue retrieves additional results from a previous List call
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder-continue
	ListContinue(ctx context.Context, cursor string) ([]Entry, string, bool, error)

	// LatestCursor returns a cursor for the current state of path without listing it
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder-get_latest_cursor
	LatestCursor(ctx context.Context, path string, recursive bool) (string, error)

	// Longpoll checks for changes to folder contents (blocks until timeout or changes)
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder-longpoll
	Longpoll(ctx context.Context, cursor string, timeout time.Duration) (LongpollResult, error)

	// Download retrieves the whole content of a file together with its metadata.
	// The caller must close the returned reader.
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-download
	Download(ctx context.Context, path string) (*FileMetadata, io.ReadCloser, error)

	// UploadFile stores content at path in a single request (files up to 150MB)
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-upload
	UploadFile(ctx context.Context, path string, content []byte, opts UploadOptions) (*FileMetadata, error)

	// CreateSession starts an upload session with the first chunk
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-upload_session-start
	CreateSession(ctx context.Context, content []byte) (*SessionResponse, error)

	// UploadChunk appends content to an upload session at offset
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-upload_session-append
	UploadChunk(ctx context.Context, sessionID string, content []byte, offset uint64) error

	// CloseSession commits an upload session to path
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-upload_session-finish
	CloseSession(ctx context.Context, path, sessionID string, offset uint64, opts UploadOptions) (*FileMetadata, error)

	// VerifyPath validates if path exists and is accessible
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-get_metadata
	VerifyPath(ctx context.Context, path string) (bool, error)

	// DeleteFile removes the file or folder at path
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-delete
	DeleteFile(ctx context.Context, path string) error
}
