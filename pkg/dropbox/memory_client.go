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
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MemoryClient is an in-memory FoldersClient holding a Dropbox-like tree.
// Paths are matched case-insensitively like Dropbox does. It records the
// paths passed to List and Download so tests can count remote calls.
type MemoryClient struct {
	// PageSize splits listings into pages served through ListContinue, 0 means one page.
	PageSize int
	// ListErrors and DownloadErrors inject failures keyed by the exact requested path.
	ListErrors     map[string]error
	DownloadErrors map[string]error

	// LongpollHook runs at the start of every Longpoll call, a returned error
	// is passed on to the caller.
	LongpollHook func(cursor string) error

	ListCalls     []string
	DownloadCalls []string
	LongpollCalls int

	nodes    map[string]*memNode
	cursors  map[string][]Entry
	sessions map[string][]byte
	seq      int
	version  int
	now      func() time.Time
}

const latestCursorPrefix = "mock-latest-"

type memNode struct {
	entry   Entry
	content []byte
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		ListErrors:     make(map[string]error),
		DownloadErrors: make(map[string]error),
		nodes:          make(map[string]*memNode),
		cursors:        make(map[string][]Entry),
		sessions:       make(map[string][]byte),
		now:            time.Now,
	}
}

// AddFolder creates the folder at p along with its missing parents.
func (m *MemoryClient) AddFolder(p string) {
	p = cleanPath(p)
	if p == "" {
		return
	}
	m.AddFolder(path.Dir(p))
	if _, ok := m.nodes[strings.ToLower(p)]; ok {
		return
	}
	m.seq++
	m.version++
	m.nodes[strings.ToLower(p)] = &memNode{entry: Entry{
		Tag:         TagFolder,
		ID:          "id:folder" + strconv.Itoa(m.seq),
		Name:        path.Base(p),
		PathLower:   strings.ToLower(p),
		PathDisplay: p,
	}}
}

// AddFile stores content at p, creating parent folders as needed.
func (m *MemoryClient) AddFile(p string, content []byte) *FileMetadata {
	p = cleanPath(p)
	m.AddFolder(path.Dir(p))
	m.seq++
	m.version++
	now := m.now().UTC().Truncate(time.Second)
	node := &memNode{
		entry: Entry{
			Tag:            TagFile,
			ID:             "id:file" + strconv.Itoa(m.seq),
			Name:           path.Base(p),
			PathLower:      strings.ToLower(p),
			PathDisplay:    p,
			ClientModified: now,
			ServerModified: now,
			Rev:            fmt.Sprintf("%09x", m.seq),
			Size:           uint64(len(content)),
			ContentHash:    ContentHash(content),
		},
		content: append([]byte(nil), content...),
	}
	m.nodes[strings.ToLower(p)] = node
	return node.metadata()
}

// File returns the content stored at p.
func (m *MemoryClient) File(p string) ([]byte, bool) {
	n, ok := m.nodes[strings.ToLower(cleanPath(p))]
	if !ok || n.entry.Tag != TagFile {
		return nil, false
	}
	return n.content, true
}

func (m *MemoryClient) List(_ context.Context, p string, recursive bool, limit int) ([]Entry, string, bool, error) {
	m.ListCalls = append(m.ListCalls, p)
	if err, ok := m.ListErrors[p]; ok {
		return nil, "", false, err
	}

	dir := strings.ToLower(cleanPath(p))
	if dir != "" {
		n, ok := m.nodes[dir]
		if !ok {
			return nil, "", false, notFound("path/not_found/")
		}
		if n.entry.Tag != TagFolder {
			return nil, "", false, fmt.Errorf("%w: path/not_folder/", ErrDropboxAPI)
		}
	}

	var entries []Entry
	for key, n := range m.nodes {
		parent := path.Dir(key)
		if parent == "/" {
			parent = ""
		}
		if parent == dir || (recursive && strings.HasPrefix(key, dir+"/")) {
			entries = append(entries, n.entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PathLower < entries[j].PathLower })

	pageSize := m.PageSize
	if limit > 0 && (pageSize == 0 || limit < pageSize) {
		pageSize = limit
	}
	return m.page(entries, pageSize)
}

func (m *MemoryClient) ListContinue(_ context.Context, cursor string) ([]Entry, string, bool, error) {
	rest, ok := m.cursors[cursor]
	if !ok {
		return nil, "", false, ErrExpiredCursor
	}
	delete(m.cursors, cursor)
	return m.page(rest, m.PageSize)
}

func (m *MemoryClient) page(entries []Entry, size int) ([]Entry, string, bool, error) {
	m.seq++
	cursor := "mock-cursor-" + strconv.Itoa(m.seq)
	if size <= 0 || len(entries) <= size {
		return entries, cursor, false, nil
	}
	m.cursors[cursor] = entries[size:]
	return entries[:size], cursor, true, nil
}

// LatestCursor returns a cursor for the state of the whole tree, path is
// only checked for existence.
func (m *MemoryClient) LatestCursor(ctx context.Context, p string, _ bool) (string, error) {
	if _, err := m.VerifyPath(ctx, p); err != nil {
		return "", err
	}
	return latestCursorPrefix + strconv.Itoa(m.version), nil
}

// Longpoll reports whether anything changed since cursor was taken. It never
// blocks.
func (m *MemoryClient) Longpoll(_ context.Context, cursor string, _ time.Duration) (LongpollResult, error) {
	m.LongpollCalls++
	if m.LongpollHook != nil {
		if err := m.LongpollHook(cursor); err != nil {
			return LongpollResult{}, err
		}
	}

	v, err := strconv.Atoi(strings.TrimPrefix(cursor, latestCursorPrefix))
	if err != nil || !strings.HasPrefix(cursor, latestCursorPrefix) {
		return LongpollResult{}, ErrExpiredCursor
	}
	return LongpollResult{Changes: m.version > v}, nil
}

func (m *MemoryClient) Download(_ context.Context, p string) (*FileMetadata, io.ReadCloser, error) {
	m.DownloadCalls = append(m.DownloadCalls, p)
	if err, ok := m.DownloadErrors[p]; ok {
		return nil, nil, err
	}

	n, ok := m.nodes[strings.ToLower(cleanPath(p))]
	if !ok {
		return nil, nil, notFound("path/not_found/")
	}
	if n.entry.Tag != TagFile {
		return nil, nil, fmt.Errorf("%w: path/not_file/", ErrDropboxAPI)
	}

	return n.metadata(), io.NopCloser(bytes.NewReader(n.content)), nil
}

func (m *MemoryClient) UploadFile(_ context.Context, p string, content []byte, opts UploadOptions) (*FileMetadata, error) {
	return m.commit(p, content, opts)
}

func (m *MemoryClient) CreateSession(_ context.Context, content []byte) (*SessionResponse, error) {
	m.seq++
	id := "mock-session-" + strconv.Itoa(m.seq)
	m.sessions[id] = append([]byte(nil), content...)
	return &SessionResponse{SessionID: id}, nil
}

func (m *MemoryClient) UploadChunk(_ context.Context, sessionID string, content []byte, offset uint64) error {
	buf, ok := m.sessions[sessionID]
	if !ok {
		return notFound("not_found/")
	}
	if uint64(len(buf)) != offset {
		return fmt.Errorf("%w: incorrect_offset/", ErrDropboxAPI)
	}
	m.sessions[sessionID] = append(buf, content...)
	return nil
}

func (m *MemoryClient) CloseSession(_ context.Context, p, sessionID string, offset uint64, opts UploadOptions) (*FileMetadata, error) {
	buf, ok := m.sessions[sessionID]
	if !ok {
		return nil, notFound("lookup_failed/not_found/")
	}
	if uint64(len(buf)) != offset {
		return nil, fmt.Errorf("%w: lookup_failed/incorrect_offset/", ErrDropboxAPI)
	}
	delete(m.sessions, sessionID)
	return m.commit(p, buf, opts)
}

func (m *MemoryClient) VerifyPath(_ context.Context, p string) (bool, error) {
	key := strings.ToLower(cleanPath(p))
	if key == "" {
		return true, nil
	}
	n, ok := m.nodes[key]
	if !ok {
		return false, notFound("path/not_found/")
	}
	if n.entry.Tag != TagFolder {
		return false, ErrNotAFolder
	}
	return true, nil
}

func (m *MemoryClient) DeleteFile(_ context.Context, p string) error {
	key := strings.ToLower(cleanPath(p))
	if _, ok := m.nodes[key]; !ok {
		return notFound("path_lookup/not_found/")
	}
	for k := range m.nodes {
		if k == key || strings.HasPrefix(k, key+"/") {
			delete(m.nodes, k)
		}
	}
	m.version++
	return nil
}

func (m *MemoryClient) commit(p string, content []byte, opts UploadOptions) (*FileMetadata, error) {
	if n, ok := m.nodes[strings.ToLower(cleanPath(p))]; ok {
		if n.entry.Tag == TagFolder || opts.Mode != WriteModeOverwrite {
			return nil, fmt.Errorf("%w: %w: path/conflict/file/", ErrDropboxAPI, ErrConflict)
		}
	}
	md := m.AddFile(p, content)
	if !opts.ClientModified.IsZero() {
		n := m.nodes[strings.ToLower(cleanPath(p))]
		n.entry.ClientModified = opts.ClientModified.UTC()
		md = n.metadata()
	}
	return md, nil
}

func (n *memNode) metadata() *FileMetadata {
	return &FileMetadata{
		ID:             n.entry.ID,
		Name:           n.entry.Name,
		PathLower:      n.entry.PathLower,
		PathDisplay:    n.entry.PathDisplay,
		ClientModified: n.entry.ClientModified,
		ServerModified: n.entry.ServerModified,
		Rev:            n.entry.Rev,
		Size:           n.entry.Size,
		ContentHash:    n.entry.ContentHash,
	}
}

func notFound(summary string) error {
	return fmt.Errorf("%w: %w: %s", ErrDropboxAPI, ErrPathNotFound, summary)
}

// cleanPath turns p into "/a/b" form, with "" for the root.
func cleanPath(p string) string {
	p = path.Clean("/" + p)
	if p == "/" {
		return ""
	}
	return p
}
