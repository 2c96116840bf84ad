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

package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/conduitio-labs/dropbox-sync/pkg/dropbox"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Context returns a context carrying a debug logger that writes through t.
func Context(t *testing.T) context.Context {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// WriteFiles creates every file in files, keyed by path, along with the
// missing parent directories.
func WriteFiles(t *testing.T, fs afero.Fs, files map[string][]byte) {
	t.Helper()

	for path, content := range files {
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := afero.WriteFile(fs, path, content, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// ReadFile returns the content of path, failing the test if it is missing.
func ReadFile(t *testing.T, fs afero.Fs, path string) []byte {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func CleanupTestFiles(ctx context.Context, t *testing.T, client dropbox.FoldersClient, path string) {
	t.Helper()

	entries, _, _, err := client.List(ctx, path, false, 100)
	if err != nil {
		t.Logf("warning: failed to list test folder for cleanup: %v", err)
		return
	}

	for _, entry := range entries {
		err := client.DeleteFile(ctx, entry.PathDisplay)
		if err != nil {
			t.Logf("warning: failed to delete test file %s: %v", entry.PathDisplay, err)
		}
	}
}
