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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opListFolder = "list_folder"
	opDownload   = "download"
	opUpload     = "upload"
	opLongpoll   = "longpoll"

	statusOK    = "ok"
	statusError = "error"

	reasonPresent = "present"
	reasonDone    = "done"
)

// Metrics holds the Prometheus collectors updated by an Engine.
type Metrics struct {
	downloads       *prometheus.CounterVec
	downloadedBytes prometheus.Counter
	uploads         *prometheus.CounterVec
	uploadedBytes   prometheus.Counter
	skipped         *prometheus.CounterVec
	foldersCreated  prometheus.Counter
	listingFailures prometheus.Counter
	passes          *prometheus.CounterVec
	opDuration      *prometheus.HistogramVec
}

// NewMetrics registers the sync collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		downloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropbox_sync_downloads_total",
				Help: "Total number of file downloads",
			},
			[]string{"status"},
		),
		downloadedBytes: f.NewCounter(
			prometheus.CounterOpts{
				Name: "dropbox_sync_downloaded_bytes_total",
				Help: "Total bytes written to the local tree",
			},
		),
		uploads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropbox_sync_uploads_total",
				Help: "Total number of file uploads",
			},
			[]string{"status"},
		),
		uploadedBytes: f.NewCounter(
			prometheus.CounterOpts{
				Name: "dropbox_sync_uploaded_bytes_total",
				Help: "Total bytes uploaded to Dropbox",
			},
		),
		skipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropbox_sync_skipped_files_total",
				Help: "Files not downloaded because a local copy or done marker exists",
			},
			[]string{"reason"},
		),
		foldersCreated: f.NewCounter(
			prometheus.CounterOpts{
				Name: "dropbox_sync_folders_created_total",
				Help: "Local directories created for remote folders",
			},
		),
		listingFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "dropbox_sync_listing_failures_total",
				Help: "Folder listings that failed and were treated as empty",
			},
		),
		passes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropbox_sync_passes_total",
				Help: "Sync passes run in watch mode",
			},
			[]string{"status"},
		),
		opDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dropbox_sync_operation_duration_seconds",
				Help:    "Duration of remote operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(op string, start time.Time) {
	m.opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
