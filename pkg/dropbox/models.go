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

import "time"

const (
	TagFile    = "file"
	TagFolder  = "folder"
	TagDeleted = "deleted"
)

// Kind classifies a listing entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return TagFile
	case KindFolder:
		return TagFolder
	default:
		return "unknown"
	}
}

// Entry represents metadata for files, folders, or deleted items in Dropbox.
// Matches the structure returned by list_folder endpoint.
// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder
type Entry struct {
	Tag            string    `json:".tag"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PathLower      string    `json:"path_lower"`
	PathDisplay    string    `json:"path_display"`
	ClientModified time.Time `json:"client_modified,omitempty"`
	ServerModified time.Time `json:"server_modified,omitempty"`
	Rev            string    `json:"rev,omitempty"`
	Size           uint64    `json:"size,omitempty"`
	ContentHash    string    `json:"content_hash,omitempty"`
}

func (e Entry) Kind() Kind {
	switch e.Tag {
	case TagFile:
		return KindFile
	case TagFolder:
		return KindFolder
	default:
		return KindUnknown
	}
}

// FileMetadata is returned by download and upload endpoints.
// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-upload
type FileMetadata struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PathLower      string    `json:"path_lower"`
	PathDisplay    string    `json:"path_display"`
	ClientModified time.Time `json:"client_modified"`
	ServerModified time.Time `json:"server_modified"`
	Rev            string    `json:"rev"`
	Size           uint64    `json:"size"`
	ContentHash    string    `json:"content_hash"`
}

// SessionResponse contains the session ID returned when initiating an upload session.
// This ID is used to upload large files in multiple parts.
// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-upload_session-start
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// WriteMode selects what happens when an upload targets an existing path.
type WriteMode string

const (
	// WriteModeAdd fails with ErrConflict if the path already exists.
	WriteModeAdd WriteMode = "add"
	// WriteModeOverwrite replaces the existing file unconditionally.
	WriteModeOverwrite WriteMode = "overwrite"
)

// UploadOptions carries the commit info shared by files/upload and
// files/upload_session/finish.
type UploadOptions struct {
	Mode WriteMode
	// ClientModified is sent with whole-second precision, zero means unset.
	ClientModified time.Time
	Mute           bool
}

// LongpollResult is the answer of list_folder/longpoll. Backoff, when set, is
// how long to wait before polling again.
type LongpollResult struct {
	Changes bool
	Backoff time.Duration
}
