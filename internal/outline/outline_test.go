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

package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNestsHeadingsByLevel(t *testing.T) {
	content := "# Zettelkasten\n\nIntro text.\n\n## Capture\n\nBody.\n\n## Review\n\n### Weekly\n\nBody.\n\n# Appendix\n"

	symbols := Build(content)
	require.Len(t, symbols, 2)

	top := symbols[0]
	assert.Equal(t, "Zettelkasten", top.Name)
	assert.Equal(t, 0, top.Range.Start.Line)
	require.Len(t, top.Children, 2)
	assert.Equal(t, "Capture", top.Children[0].Name)
	assert.Equal(t, "Review", top.Children[1].Name)
	require.Len(t, top.Children[1].Children, 1)
	assert.Equal(t, "Weekly", top.Children[1].Children[0].Name)

	assert.Equal(t, "Appendix", symbols[1].Name)
	assert.Empty(t, symbols[1].Children)
}

func TestBuildOnFlatHeadingsReturnsFlatList(t *testing.T) {
	content := "# One\n\n# Two\n\n# Three\n"

	symbols := Build(content)
	require.Len(t, symbols, 3)
	assert.Equal(t, "One", symbols[0].Name)
	assert.Equal(t, "Two", symbols[1].Name)
	assert.Equal(t, "Three", symbols[2].Name)
	for _, s := range symbols {
		assert.Empty(t, s.Children)
	}
}

func TestBuildWithNoHeadingsReturnsEmpty(t *testing.T) {
	symbols := Build("just a paragraph, no headings here.\n")
	assert.Empty(t, symbols)
}

func TestBuildSkipsOverLevelGaps(t *testing.T) {
	// A level-3 heading directly under a level-1 heading still nests, even
	// though there's no intervening level-2 heading.
	content := "# Top\n\n### Deep\n\nBody.\n"

	symbols := Build(content)
	require.Len(t, symbols, 1)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "Deep", symbols[0].Children[0].Name)
}
