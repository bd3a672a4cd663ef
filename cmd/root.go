// Copyright 2025 Notedown Authors
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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bracketnotes/bracketls/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "bracketls",
	Short: "Language Server Protocol implementation for wikilink/tag notes",
	Long: `bracketls is a Language Server Protocol server for a Markdown personal
knowledge base dialect built around [[wikilinks]] and frontmatter tags.
It provides completion, diagnostics, navigation, and rename across a
workspace of notes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			fmt.Println(version.GetInfo().String())
			return
		}
		fmt.Println("bracketls language server")
		fmt.Println("Use --help for available commands")
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}
