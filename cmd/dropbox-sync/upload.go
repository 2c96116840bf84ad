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

package main

import (
	"fmt"
	"path/filepath"

	"github.com/conduitio-labs/dropbox-sync/config"
	"github.com/conduitio-labs/dropbox-sync/mirror"
	"github.com/spf13/cobra"
)

func (a *app) uploadCmd() *cobra.Command {
	cfg := config.Default()
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "upload <local-file> <folder> [subfolder]",
		Short: "Upload a local file into a Dropbox folder",
		Args:  rangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			localFile, folder := args[0], args[1]
			var subfolder string
			if len(args) > 2 {
				subfolder = args[2]
			}

			cfg.ApplyEnv()
			if err := cfg.ValidateUpload(); err != nil {
				return usageError(err)
			}
			client, err := a.newClient(cfg)
			if err != nil {
				return fmt.Errorf("create dropbox client: %w", err)
			}

			engine := mirror.NewEngine(client, a.fs, mirror.WithUploadChunkSize(cfg.UploadChunkSize))
			md, err := engine.UploadBytes(cmd.Context(), localFile, folder, subfolder, filepath.Base(localFile), overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "uploaded as", md.PathDisplay)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Token, "token", "", "Dropbox access token (default $"+config.TokenEnv+")")
	flags.BoolVar(&overwrite, "overwrite", false, "replace the remote file if it exists")
	flags.Uint64Var(&cfg.UploadChunkSize, "chunk-size", cfg.UploadChunkSize, "files larger than this many bytes are uploaded in chunks")

	return cmd
}
