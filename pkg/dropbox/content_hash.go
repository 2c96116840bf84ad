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
	"crypto/sha256"
	"encoding/hex"
)

const hashBlockSize = 4 * 1024 * 1024

// ContentHash computes the Dropbox content_hash of data: the SHA-256 of the
// concatenated SHA-256 digests of every 4MB block.
// Docs: https://www.dropbox.com/developers/reference/content-hash
func ContentHash(data []byte) string {
	overall := sha256.New()
	for start := 0; start < len(data); start += hashBlockSize {
		end := min(start+hashBlockSize, len(data))
		sum := sha256.Sum256(data[start:end])
		overall.Write(sum[:])
	}
	return hex.EncodeToString(overall.Sum(nil))
}
