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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// TokenEnv is read when no token is given explicitly.
const TokenEnv = "DROPBOX_TOKEN"

const (
	// MaxListLimit is the largest page size accepted by list_folder.
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder
	MaxListLimit = 2000
	// MaxUploadChunkSize is the largest body accepted by a single upload request.
	MaxUploadChunkSize uint64 = 150 * 1024 * 1024

	// Dropbox accepts longpoll timeouts between 30 and 480 seconds.
	// Docs: https://www.dropbox.com/developers/documentation/http/documentation#files-list_folder-longpoll
	MinLongpollTimeout = 30 * time.Second
	MaxLongpollTimeout = 480 * time.Second
)

const (
	FieldToken     = "token"
	FieldLocalRoot = "rootdir"
	FieldDoneDir   = "done-dir"
	FieldRateLimit = "rate-limit"
	FieldListLimit = "list-limit"
	FieldChunkSize = "chunk-size"
	FieldLongpoll  = "longpoll-timeout"
	FieldRetries   = "retries"
)

// ValidationError reports a configuration value that cannot be used.
type ValidationError struct {
	Field  string
	Reason string
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Reason)
}

type Config struct {
	// Token is the Dropbox access token.
	Token string
	// Path is the remote folder to mirror, relative to the Dropbox root.
	Path string
	// LocalRoot is the existing local directory the remote folder is mirrored into.
	LocalRoot string
	// DoneDir names the marker directory inside every local folder.
	DoneDir string
	// RateLimit caps API requests per second, 0 disables the limit.
	RateLimit float64
	// ListLimit is the page size requested from list_folder, 0 leaves it to Dropbox.
	ListLimit int
	// UploadChunkSize is the size above which uploads go through a session.
	UploadChunkSize uint64

	// Timeout for Dropbox longpolling requests in watch mode.
	LongpollTimeout time.Duration
	// Maximum number of consecutive retry attempts in watch mode.
	Retries int
	// Delay between retry attempts.
	RetryDelay time.Duration
}

// Default returns the configuration used when no flag overrides a value.
func Default() Config {
	return Config{
		Path:            "",
		LocalRoot:       ".",
		DoneDir:         "done",
		UploadChunkSize: 4 * 1024 * 1024,
		LongpollTimeout: 30 * time.Second,
		Retries:         3,
		RetryDelay:      10 * time.Second,
	}
}

// ApplyEnv fills values left empty from the environment.
func (c *Config) ApplyEnv() {
	if c.Token == "" {
		c.Token = os.Getenv(TokenEnv)
	}
}

// ValidateToken checks that a token is present.
func (c Config) ValidateToken() error {
	if strings.TrimSpace(c.Token) == "" {
		return ValidationError{Field: FieldToken, Reason: fmt.Sprintf("--token or %s is mandatory", TokenEnv)}
	}
	return nil
}

// ValidateUpload checks the values used by a single upload.
func (c Config) ValidateUpload() error {
	if err := c.ValidateToken(); err != nil {
		return err
	}
	if c.UploadChunkSize == 0 || c.UploadChunkSize > MaxUploadChunkSize {
		return ValidationError{Field: FieldChunkSize, Reason: fmt.Sprintf("must be in range [1-%d]", MaxUploadChunkSize)}
	}
	return nil
}

// Validate checks the token, the tuning values and that LocalRoot is an
// existing directory on fs.
func (c Config) Validate(fs afero.Fs) error {
	if err := c.ValidateToken(); err != nil {
		return err
	}

	if c.DoneDir == "" || strings.ContainsAny(c.DoneDir, `/\`) || c.DoneDir == "." || c.DoneDir == ".." {
		return ValidationError{Field: FieldDoneDir, Reason: fmt.Sprintf("%q must be a plain directory name", c.DoneDir)}
	}
	if c.RateLimit < 0 {
		return ValidationError{Field: FieldRateLimit, Reason: "must not be negative"}
	}
	if c.ListLimit < 0 || c.ListLimit > MaxListLimit {
		return ValidationError{Field: FieldListLimit, Reason: fmt.Sprintf("must be in range [0-%d]", MaxListLimit)}
	}
	if c.LongpollTimeout < MinLongpollTimeout || c.LongpollTimeout > MaxLongpollTimeout {
		return ValidationError{Field: FieldLongpoll, Reason: fmt.Sprintf("must be between %s and %s", MinLongpollTimeout, MaxLongpollTimeout)}
	}
	if c.Retries < 0 || c.RetryDelay < 0 {
		return ValidationError{Field: FieldRetries, Reason: "retries and retry delay must not be negative"}
	}

	info, err := fs.Stat(c.LocalRoot)
	switch {
	case os.IsNotExist(err):
		return ValidationError{Field: FieldLocalRoot, Reason: fmt.Sprintf("%s does not exist on your filesystem", c.LocalRoot)}
	case err != nil:
		return ValidationError{Field: FieldLocalRoot, Reason: err.Error()}
	case !info.IsDir():
		return ValidationError{Field: FieldLocalRoot, Reason: fmt.Sprintf("%s is not a folder on your filesystem", c.LocalRoot)}
	}

	return nil
}

// ExpandHome replaces a leading ~ in p with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
