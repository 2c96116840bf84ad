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
	"testing"
	"time"

	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/conduitio-labs/dropbox-sync/pkg/testutil"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEngine_Watch_RunsPassOnChange(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(testutil.Context(t))
	defer cancel()

	client := dropbox.NewMemoryClient()
	client.AddFile("/R/a.txt", []byte("a"))
	client.LongpollHook = func(string) error {
		switch client.LongpollCalls {
		case 1:
			client.AddFile("/R/Sub/b.txt", []byte("b"))
		default:
			cancel()
		}
		return nil
	}
	fs := newLocalFs(t)

	var reports []Report
	metrics := NewMetrics(prometheus.NewRegistry())
	err := NewEngine(client, fs, WithMetrics(metrics)).Watch(ctx, NewSyncContext("R", localRoot), WatchConfig{
		OnPass: func(rep Report) { reports = append(reports, rep) },
	})
	is.NoErr(err)

	is.Equal(len(reports), 2)
	is.Equal(reports[0].Downloaded, 1)
	is.Equal(reports[1].Downloaded, 1)
	is.Equal(reports[1].SkippedPresent, 1)
	is.Equal(testutil.ReadFile(t, fs, "/local/Sub/b.txt"), []byte("b"))
	is.Equal(client.LongpollCalls, 2)
	is.Equal(promtest.ToFloat64(metrics.passes.WithLabelValues(statusOK)), float64(2))
}

func TestEngine_Watch_ExpiredCursorTriggersFullPass(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(testutil.Context(t))
	defer cancel()

	client := dropbox.NewMemoryClient()
	client.AddFile("/R/a.txt", []byte("a"))
	client.LongpollHook = func(string) error {
		if client.LongpollCalls == 1 {
			return dropbox.ErrExpiredCursor
		}
		cancel()
		return nil
	}

	passes := 0
	err := NewEngine(client, newLocalFs(t)).Watch(ctx, NewSyncContext("R", localRoot), WatchConfig{
		OnPass: func(Report) { passes++ },
	})
	is.NoErr(err)
	is.Equal(passes, 2)
	is.Equal(len(client.DownloadCalls), 1)
}

func TestEngine_Watch_RetriesExhausted(t *testing.T) {
	is := is.New(t)
	ctx := testutil.Context(t)

	client := dropbox.NewMemoryClient()
	client.AddFile("/R/a.txt", []byte("a"))
	client.DownloadErrors["/R/a.txt"] = errTransport

	metrics := NewMetrics(prometheus.NewRegistry())
	err := NewEngine(client, newLocalFs(t), WithMetrics(metrics)).Watch(ctx, NewSyncContext("R", localRoot), WatchConfig{
		Retries:    2,
		RetryDelay: time.Millisecond,
	})
	is.True(errors.Is(err, dropbox.ErrDropboxAPI))
	is.Equal(len(client.DownloadCalls), 3)
	is.Equal(client.LongpollCalls, 0)
	is.Equal(promtest.ToFloat64(metrics.passes.WithLabelValues(statusError)), float64(3))
}

func TestEngine_Watch_MissingRoot(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(testutil.Context(t))
	defer cancel()

	client := dropbox.NewMemoryClient()
	fs := newLocalFs(t)

	var reports []Report
	err := NewEngine(client, fs).Watch(ctx, NewSyncContext("Nope", localRoot), WatchConfig{
		RetryDelay: time.Millisecond,
		OnPass: func(rep Report) {
			reports = append(reports, rep)
			if len(reports) == 2 {
				cancel()
			}
		},
	})
	is.NoErr(err)

	is.Equal(len(reports), 2)
	is.Equal(reports[0].Downloaded, 0)
	is.Equal(reports[0].ListingFailures, 1)
	is.Equal(client.LongpollCalls, 0)
}

func TestEngine_Watch_RetriesResetAfterSuccess(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(testutil.Context(t))
	defer cancel()

	client := dropbox.NewMemoryClient()
	client.AddFolder("/R")
	client.LongpollHook = func(string) error {
		// fail every other round, a single retry is always enough
		if client.LongpollCalls > 6 {
			cancel()
			return nil
		}
		if client.LongpollCalls%2 == 1 {
			return errTransport
		}
		return nil
	}

	err := NewEngine(client, newLocalFs(t)).Watch(ctx, NewSyncContext("R", localRoot), WatchConfig{
		Retries:    1,
		RetryDelay: time.Millisecond,
	})
	is.NoErr(err)
	is.Equal(client.LongpollCalls, 7)
}

func TestEngine_Watch_QuitStops(t *testing.T) {
	is := is.New(t)
	ctx := testutil.Context(t)

	errQuit := errors.New("quit")
	client := dropbox.NewMemoryClient()
	client.AddFolder("/R/A")
	confirm := confirmFunc(func(string) (bool, error) { return false, errQuit })

	err := NewEngine(client, newLocalFs(t), WithFolderConfirmation(confirm)).
		Watch(ctx, NewSyncContext("R", localRoot), WatchConfig{Retries: 5})
	is.True(errors.Is(err, ErrAborted))
	is.True(errors.Is(err, errQuit))
	is.Equal(client.LongpollCalls, 0)
}
