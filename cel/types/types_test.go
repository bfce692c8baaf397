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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exprlang/cel/cel/types"
)

func TestAssignableToDyn(t *testing.T) {
	assert.True(t, types.AssignableTo(types.Int, types.Dyn, types.Options{}))
	assert.True(t, types.AssignableTo(types.Dyn, types.String, types.Options{}))
}

func TestAssignableToNullable(t *testing.T) {
	nullableInt := types.NullableOf(types.Int)
	assert.True(t, types.AssignableTo(types.Int, nullableInt, types.Options{}))
	assert.True(t, types.AssignableTo(types.Null, nullableInt, types.Options{}))
	assert.False(t, types.AssignableTo(types.String, nullableInt, types.Options{}))
}

func TestNumericCrossAssignability(t *testing.T) {
	assert.False(t, types.AssignableTo(types.Int, types.Double, types.Options{}))
	assert.True(t, types.AssignableTo(types.Int, types.Double, types.Options{HeterogeneousNumericComparisons: true}))
}

func TestLeastUpperBoundHeterogeneous(t *testing.T) {
	lub := types.LeastUpperBound(types.Int, types.String, types.Options{})
	assert.Equal(t, types.Dyn, lub)
}

func TestUnifyTypeParam(t *testing.T) {
	sub := types.NewSubstitution()
	tparam := types.TypeParam("T")
	ok := types.Unify(types.ListOf(tparam), types.ListOf(types.Int), sub, types.Options{})
	assert.True(t, ok)
	assert.True(t, types.Equal(sub["T"], types.Int))

	// A second, disagreeing unification against the same substitution fails.
	ok = types.Unify(tparam, types.String, sub, types.Options{})
	assert.False(t, ok)
}

func TestSubstitute(t *testing.T) {
	sub := types.Substitution{"T": types.String}
	result := types.Substitute(types.ListOf(types.TypeParam("T")), sub)
	assert.True(t, types.Equal(result, types.ListOf(types.String)))
}
