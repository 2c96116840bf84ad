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
	"path/filepath"
	"strings"
)

// NormalizePath builds the canonical Dropbox path for root, subfolder and
// the optional names below it. Local separators in subfolder become "/",
// runs of "/" collapse to one and the trailing "/" is dropped, so the
// Dropbox root comes out as "". The result is a fixed point: feeding it back
// as root yields the same path.
func NormalizePath(root, subfolder string, names ...string) string {
	var sb strings.Builder
	sb.WriteString("/")
	sb.WriteString(root)
	sb.WriteString("/")
	sb.WriteString(filepath.ToSlash(subfolder))
	for _, name := range names {
		sb.WriteString("/")
		sb.WriteString(name)
	}

	p := sb.String()
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return strings.TrimSuffix(p, "/")
}
