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

import "path/filepath"

// SyncContext is the traversal state of one recursion frame. It is a value:
// descending into a folder produces a new SyncContext through Child and never
// modifies the parent's.
type SyncContext struct {
	// RemoteRoot is the Dropbox folder being mirrored.
	RemoteRoot string
	// Subfolder is the slash separated path below RemoteRoot, "" at the top.
	Subfolder string
	// LocalRoot is the local directory RemoteRoot is mirrored into.
	LocalRoot string
}

func NewSyncContext(remoteRoot, localRoot string) SyncContext {
	return SyncContext{RemoteRoot: remoteRoot, LocalRoot: localRoot}
}

// Child returns the context of the folder name directly below this one.
func (sc SyncContext) Child(name string) SyncContext {
	child := sc
	if sc.Subfolder == "" {
		child.Subfolder = name
	} else {
		child.Subfolder = sc.Subfolder + "/" + name
	}
	return child
}

// LocalDir is the local directory mirroring this frame's remote folder.
func (sc SyncContext) LocalDir() string {
	return filepath.Join(sc.LocalRoot, filepath.FromSlash(sc.Subfolder))
}

// RemotePath is the canonical remote path of this frame, or of names below it.
func (sc SyncContext) RemotePath(names ...string) string {
	return NormalizePath(sc.RemoteRoot, sc.Subfolder, names...)
}
