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
	"sort"
	"time"

	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/rs/zerolog"
)

// ListingOutcome tells whether a listing reflects the remote folder or stands
// in for one that could not be listed.
type ListingOutcome int

const (
	// ListingOK means the remote call succeeded, Entries may still be empty.
	ListingOK ListingOutcome = iota
	// ListingUnavailable means the call failed and the folder is treated as
	// empty. A missing folder and a transport failure both end up here.
	ListingUnavailable
)

func (o ListingOutcome) String() string {
	if o == ListingUnavailable {
		return "unavailable"
	}
	return "ok"
}

// Listing is the snapshot of one remote folder, keyed by entry name.
type Listing struct {
	Path    string
	Entries map[string]dropbox.Entry
	Outcome ListingOutcome
	// Err is the cause of a ListingUnavailable outcome.
	Err error
}

// Empty reports whether there is nothing to process, whatever the outcome.
func (l Listing) Empty() bool {
	return len(l.Entries) == 0
}

// Names returns the entry names in lexical order.
func (l Listing) Names() []string {
	names := make([]string, 0, len(l.Entries))
	for name := range l.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListFolder lists the remote folder subfolder below remoteRoot, following
// pagination cursors until the listing is complete. Errors never escape: they
// produce a ListingUnavailable listing and a warning.
func (e *Engine) ListFolder(ctx context.Context, remoteRoot, subfolder string) Listing {
	p := NormalizePath(remoteRoot, subfolder)
	logger := zerolog.Ctx(ctx).With().Str("remote_path", p).Logger()

	start := time.Now()
	entries, err := e.listAll(ctx, p)
	e.metrics.observe(opListFolder, start)

	if err != nil {
		e.metrics.listingFailures.Inc()
		logger.Warn().Err(err).Msg("folder listing failed, assuming it is empty")
		return Listing{
			Path:    p,
			Entries: map[string]dropbox.Entry{},
			Outcome: ListingUnavailable,
			Err:     err,
		}
	}

	byName := make(map[string]dropbox.Entry, len(entries))
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	logger.Debug().
		Int("entries", len(byName)).
		Dur("elapsed", time.Since(start)).
		Msg("listed folder")

	return Listing{Path: p, Entries: byName, Outcome: ListingOK}
}

func (e *Engine) listAll(ctx context.Context, p string) ([]dropbox.Entry, error) {
	entries, cursor, hasMore, err := e.client.List(ctx, p, false, e.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list failed: %w", err)
	}

	for hasMore {
		var page []dropbox.Entry
		page, cursor, hasMore, err = e.client.ListContinue(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("continue list failed: %w", err)
		}
		entries = append(entries, page...)
	}

	return entries, nil
}
