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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient("test-token", WithEndpoints(Endpoints{API: srv.URL, Content: srv.URL, Notify: srv.URL}))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewHTTPClient_EmptyToken(t *testing.T) {
	is := is.New(t)

	_, err := NewHTTPClient("")
	is.True(errors.Is(err, ErrEmptyAccessToken))
}

func TestHTTPClient_List(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodPost)
		is.Equal(r.URL.Path, "/files/list_folder")
		is.Equal(r.Header.Get("Authorization"), "Bearer test-token")
		is.Equal(r.Header.Get("Content-Type"), "application/json")

		var req struct {
			Path      string `json:"path"`
			Recursive bool   `json:"recursive"`
		}
		is.NoErr(json.NewDecoder(r.Body).Decode(&req))
		is.Equal(req.Path, "/Movies")
		is.Equal(req.Recursive, false)

		_, _ = io.WriteString(w, `{
			"entries": [
				{".tag": "file", "name": "a.mp4", "id": "id:1", "path_display": "/Movies/a.mp4",
				 "server_modified": "2025-01-02T03:04:05Z", "size": 42, "content_hash": "abc", "rev": "015"},
				{".tag": "folder", "name": "Sub", "id": "id:2", "path_display": "/Movies/Sub"}
			],
			"cursor": "c1",
			"has_more": true
		}`)
	})

	entries, cursor, hasMore, err := c.List(ctx, "/Movies", false, 0)
	is.NoErr(err)
	is.Equal(cursor, "c1")
	is.True(hasMore)
	is.Equal(len(entries), 2)
	is.Equal(entries[0].Kind(), KindFile)
	is.Equal(entries[0].Size, uint64(42))
	is.True(entries[0].ServerModified.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	is.Equal(entries[1].Kind(), KindFolder)
}

func TestHTTPClient_List_NotFound(t *testing.T) {
	is := is.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error_summary": "path/not_found/..", "error": {".tag": "path"}}`)
	})

	_, _, _, err := c.List(context.Background(), "/missing", false, 0)
	is.True(errors.Is(err, ErrDropboxAPI))
	is.True(errors.Is(err, ErrPathNotFound))
}

func TestHTTPClient_ListContinue_ExpiredCursor(t *testing.T) {
	is := is.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/files/list_folder/continue")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error_summary": "reset/..."}`)
	})

	_, _, _, err := c.ListContinue(context.Background(), "stale")
	is.Equal(err, ErrExpiredCursor)
}

func TestHTTPClient_LatestCursor(t *testing.T) {
	is := is.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/files/list_folder/get_latest_cursor")

		var req struct {
			Path      string `json:"path"`
			Recursive bool   `json:"recursive"`
		}
		is.NoErr(json.NewDecoder(r.Body).Decode(&req))
		is.Equal(req.Path, "/Movies")
		is.True(req.Recursive)

		_, _ = io.WriteString(w, `{"cursor": "latest"}`)
	})

	cursor, err := c.LatestCursor(context.Background(), "/Movies", true)
	is.NoErr(err)
	is.Equal(cursor, "latest")
}

func TestHTTPClient_Longpoll(t *testing.T) {
	is := is.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/files/list_folder/longpoll")
		is.Equal(r.Header.Get("Authorization"), "")

		var req struct {
			Cursor  string `json:"cursor"`
			Timeout int    `json:"timeout"`
		}
		is.NoErr(json.NewDecoder(r.Body).Decode(&req))
		is.Equal(req.Cursor, "c1")
		is.Equal(req.Timeout, 30) // raised to the Dropbox minimum

		_, _ = io.WriteString(w, `{"changes": true, "backoff": 5}`)
	})

	res, err := c.Longpoll(context.Background(), "c1", time.Second)
	is.NoErr(err)
	is.Equal(res, LongpollResult{Changes: true, Backoff: 5 * time.Second})
}

func TestHTTPClient_Download(t *testing.T) {
	is := is.New(t)
	payload := []byte{0x00, 0xff, 0xfe, 0x80, 'x'}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/files/download")
		is.Equal(r.Header.Get(headerAPIArg), `{"path":"/Movies/\u00e9t\u00e9.bin"}`)

		w.Header().Set(headerAPIResult, `{"name": "\u00e9t\u00e9.bin", "path_display": "/Movies/\u00e9t\u00e9.bin", "size": 5}`)
		_, _ = w.Write(payload)
	})

	md, rc, err := c.Download(context.Background(), "/Movies/été.bin")
	is.NoErr(err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	is.NoErr(err)
	is.Equal(got, payload)
	is.Equal(md.Name, "été.bin")
	is.Equal(md.Size, uint64(5))
}

func TestHTTPClient_UploadFile(t *testing.T) {
	is := is.New(t)
	modified := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/files/upload")
		is.Equal(r.Header.Get("Content-Type"), "application/octet-stream")

		var arg commitInfo
		is.NoErr(json.Unmarshal([]byte(r.Header.Get(headerAPIArg)), &arg))
		is.Equal(arg, commitInfo{
			Path:           "/dst/file.txt",
			Mode:           "overwrite",
			ClientModified: "2024-05-06T07:08:09Z",
			Mute:           true,
		})

		body, err := io.ReadAll(r.Body)
		is.NoErr(err)
		is.Equal(string(body), "hello")

		_, _ = io.WriteString(w, `{"name": "file.txt", "path_display": "/dst/file.txt", "size": 5, "content_hash": "h"}`)
	})

	md, err := c.UploadFile(context.Background(), "/dst/file.txt", []byte("hello"), UploadOptions{
		Mode:           WriteModeOverwrite,
		ClientModified: modified,
		Mute:           true,
	})
	is.NoErr(err)
	is.Equal(md.PathDisplay, "/dst/file.txt")
	is.Equal(md.ContentHash, "h")
}

func TestHTTPClient_UploadFile_Conflict(t *testing.T) {
	is := is.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error_summary": "path/conflict/file/.."}`)
	})

	_, err := c.UploadFile(context.Background(), "/dst/file.txt", []byte("x"), UploadOptions{Mode: WriteModeAdd})
	is.True(errors.Is(err, ErrConflict))
}

func TestHTTPClient_UploadSession(t *testing.T) {
	is := is.New(t)
	var calls []string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/files/upload_session/start":
			_, _ = io.WriteString(w, `{"session_id": "s1"}`)
		case "/files/upload_session/append_v2":
			is.Equal(r.Header.Get(headerAPIArg), `{"cursor":{"session_id":"s1","offset":3},"close":false}`)
			_, _ = io.WriteString(w, `null`)
		case "/files/upload_session/finish":
			var arg struct {
				Cursor sessionCursor `json:"cursor"`
				Commit commitInfo    `json:"commit"`
			}
			is.NoErr(json.Unmarshal([]byte(r.Header.Get(headerAPIArg)), &arg))
			is.Equal(arg.Cursor.Offset, uint64(6))
			is.Equal(arg.Commit.Mode, "add")
			_, _ = io.WriteString(w, `{"name": "big.bin", "size": 6}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	sess, err := c.CreateSession(ctx, []byte("abc"))
	is.NoErr(err)
	is.Equal(sess.SessionID, "s1")
	is.NoErr(c.UploadChunk(ctx, "s1", []byte("def"), 3))
	md, err := c.CloseSession(ctx, "/big.bin", "s1", 6, UploadOptions{})
	is.NoErr(err)
	is.Equal(md.Size, uint64(6))
	is.Equal(len(calls), 3)
}

func TestHTTPClient_VerifyPath(t *testing.T) {
	is := is.New(t)
	tag := "folder"

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/files/get_metadata")
		_, _ = io.WriteString(w, `{".tag": "`+tag+`"}`)
	})

	ok, err := c.VerifyPath(context.Background(), "/Movies")
	is.NoErr(err)
	is.True(ok)

	tag = "file"
	ok, err = c.VerifyPath(context.Background(), "/Movies/a.mp4")
	is.Equal(err, ErrNotAFolder)
	is.True(!ok)
}

func TestHTTPClient_RateLimitHonoursContext(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"entries": [], "cursor": "c", "has_more": false}`)
	}))
	defer srv.Close()

	c, err := NewHTTPClient("test-token",
		WithEndpoints(Endpoints{API: srv.URL, Content: srv.URL}),
		WithRateLimit(0.001, 1),
	)
	is.NoErr(err)

	// the first request consumes the only token
	_, _, _, err = c.List(context.Background(), "", false, 0)
	is.NoErr(err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, _, err = c.List(ctx, "", false, 0)
	is.True(err != nil)
}

func TestAPIArg_EscapesNonASCII(t *testing.T) {
	is := is.New(t)

	got, err := apiArg(struct {
		Path string `json:"path"`
	}{"/a/ü😀"})
	is.NoErr(err)
	is.Equal(got, `{"path":"/a/\u00fc\ud83d\ude00"}`)
}

func TestContentHash(t *testing.T) {
	is := is.New(t)

	// empty input hashes zero blocks
	is.Equal(ContentHash(nil), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	is.True(ContentHash([]byte("a")) != ContentHash([]byte("b")))
}
