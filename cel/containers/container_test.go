// Copyright 2018 The CUE Authors
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

package containers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel/containers"
)

func TestResolveCandidateNamesOrder(t *testing.T) {
	c, err := containers.NewBuilder("a.b.c.M.N").Build()
	require.NoError(t, err)

	got := c.ResolveCandidateNames("R.s")
	assert.Equal(t, []string{
		"a.b.c.M.N.R.s",
		"a.b.c.M.R.s",
		"a.b.c.R.s",
		"a.b.R.s",
		"a.R.s",
		"R.s",
	}, got)
}

func TestResolveCandidateNamesAbsolute(t *testing.T) {
	c, err := containers.NewBuilder("a.b.c.M.N").Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"R.s"}, c.ResolveCandidateNames(".R.s"))
}

func TestAliasCollidesWithPrefix(t *testing.T) {
	_, err := containers.NewBuilder("a.b.N").AddAlias("N", "x.y").Build()
	assert.Error(t, err)
}

func TestAliasResolvesToSingleCandidate(t *testing.T) {
	c, err := containers.NewBuilder("a.b.c").AddAlias("pkg", "x.y.z").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"x.y.z.Foo"}, c.ResolveCandidateNames("pkg.Foo"))
}
