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
	"time"

	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/rs/zerolog"
)

// DefaultLongpollTimeout is used when WatchConfig leaves LongpollTimeout unset.
const DefaultLongpollTimeout = 30 * time.Second

// WatchConfig controls Engine.Watch.
type WatchConfig struct {
	// LongpollTimeout is how long one change notification request may block.
	LongpollTimeout time.Duration
	// Retries is the number of consecutive failed rounds tolerated before
	// Watch gives up. It is reset after every successful round.
	Retries int
	// RetryDelay is the wait between a failed round and the next attempt.
	RetryDelay time.Duration
	// OnPass is called with the report of every completed pass.
	OnPass func(Report)
}

type watcher struct {
	engine *Engine
	sc     SyncContext
	cfg    WatchConfig
	cursor string
}

// Watch runs a sync pass, then waits for changes below the remote folder of
// sc and runs another pass each time something changes. It returns nil when
// ctx is cancelled, and an error when retries are exhausted or a pass is
// aborted by a confirmation error.
func (e *Engine) Watch(ctx context.Context, sc SyncContext, cfg WatchConfig) error {
	if cfg.LongpollTimeout <= 0 {
		cfg.LongpollTimeout = DefaultLongpollTimeout
	}
	w := &watcher{engine: e, sc: sc, cfg: cfg}
	return w.run(ctx)
}

func (w *watcher) run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	retries := w.cfg.Retries

	for {
		err := w.process(ctx)
		if ctx.Err() != nil {
			logger.Debug().Msg("watcher shutting down...")
			return nil
		}
		if errors.Is(err, ErrAborted) {
			return err
		}
		if err == nil {
			// Reset retries on successful operation
			retries = w.cfg.Retries
			continue
		}

		select {
		case <-ctx.Done():
			logger.Debug().Msg("watcher shutting down...")
			return nil
		case <-time.After(w.cfg.RetryDelay):
		}
		if retries == 0 {
			logger.Error().Err(err).Msg("retries exhausted, watcher shutting down...")
			return err
		}
		retries--
		logger.Warn().Err(err).Msgf("retrying... (%d attempts left)", retries)
	}
}

// process runs one round: a full pass when there is no cursor, otherwise a
// single change notification request.
func (w *watcher) process(ctx context.Context) error {
	if w.cursor == "" {
		return w.pass(ctx)
	}

	start := time.Now()
	res, err := w.engine.client.Longpoll(ctx, w.cursor, w.cfg.LongpollTimeout)
	w.engine.metrics.observe(opLongpoll, start)
	if errors.Is(err, dropbox.ErrExpiredCursor) {
		zerolog.Ctx(ctx).Info().Msg("cursor expired, running a full pass")
		w.cursor = ""
		return nil
	}
	if err != nil {
		return fmt.Errorf("longpoll failed: %w", err)
	}

	if res.Changes {
		zerolog.Ctx(ctx).Debug().Msg("remote folder changed")
		w.cursor = ""
	}
	if res.Backoff > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(res.Backoff):
		}
	}
	return nil
}

func (w *watcher) pass(ctx context.Context) error {
	// The cursor is taken before the pass so changes made during it trigger
	// the next one. Without a cursor, e.g. for a missing folder, the pass
	// still runs and the next one follows after RetryDelay.
	cursor, cursorErr := w.engine.client.LatestCursor(ctx, w.sc.RemotePath(), true)
	if cursorErr != nil {
		zerolog.Ctx(ctx).Warn().
			Err(cursorErr).
			Str("remote_path", w.sc.RemotePath()).
			Msg("get latest cursor failed, polling by full passes")
	}

	rep, err := w.engine.SyncFolder(ctx, w.sc)
	if err != nil {
		w.engine.metrics.passes.WithLabelValues(statusError).Inc()
		return err
	}
	w.engine.metrics.passes.WithLabelValues(statusOK).Inc()
	if w.cfg.OnPass != nil {
		w.cfg.OnPass(rep)
	}

	if cursorErr != nil {
		select {
		case <-ctx.Done():
		case <-time.After(w.cfg.RetryDelay):
		}
		return nil
	}
	w.cursor = cursor
	return nil
}
