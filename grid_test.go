// Copyright 2021 Airbus Defence and Space
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

package rasterio

import (
	"math"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridAccessors(t *testing.T) {
	g := NewGrid(3, 2)
	assert.False(t, g.Masked())
	assert.Equal(t, godal.Float32, g.DataType)
	g.Set(2, 1, 7)
	assert.Equal(t, float32(7), g.At(2, 1))
	assert.Equal(t, float32(7), g.Data[5])
	assert.Equal(t, []float32{0, 0, 7}, g.Row(1))
	assert.True(t, g.Valid(2, 1))

	g.Row(0)[1] = 4
	assert.Equal(t, float32(4), g.At(1, 0))

	g.MaskValue(7)
	assert.True(t, g.Masked())
	assert.Equal(t, 7.0, g.Fill)
	assert.False(t, g.Valid(2, 1))

	c := g.Clone()
	c.Mask[0] = true
	c.Data[0] = 1
	assert.False(t, g.Mask[0])
	assert.Equal(t, float32(0), g.Data[0])
}

func TestMaskValuePreservesMask(t *testing.T) {
	g := NewGrid(3, 1)
	copy(g.Data, []float32{float32(math.NaN()), 2, 3})
	g.MaskInvalid()
	g.MaskValue(3)
	assert.Equal(t, []bool{true, false, true}, g.Mask)
}

func TestGridArithmetic(t *testing.T) {
	a := NewGrid(2, 2)
	copy(a.Data, []float32{1, 2, 0, 4})
	a.MaskValue(0)
	b := NewGrid(2, 2)
	copy(b.Data, []float32{10, 0, 30, 2})

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 2, 30, 6}, sum.Data)
	assert.Equal(t, []bool{false, false, true, false}, sum.Mask)
	assert.Equal(t, 0.0, sum.Fill)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{-9, 2, -30, 2}, diff.Data)

	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{10, 0, 0, 8}, prod.Data)

	quo, err := a.Div(b)
	require.NoError(t, err)
	// 2/0 is infinite and gets masked, 0/30 was already masked
	assert.Equal(t, []bool{false, true, true, false}, quo.Mask)
	assert.Equal(t, float32(2), quo.At(1, 1))

	// a is left untouched
	assert.Equal(t, []float32{1, 2, 0, 4}, a.Data)

	// unmasked receiver takes the other operand's mask and fill
	r, err := b.Add(a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Fill)
	assert.Equal(t, []bool{false, false, true, false}, r.Mask)
}

func TestGridArithmeticUnmasked(t *testing.T) {
	a := NewGrid(2, 1)
	copy(a.Data, []float32{1, 2})
	r, err := a.Add(a)
	require.NoError(t, err)
	assert.False(t, r.Masked())
	assert.Equal(t, []float32{2, 4}, r.Data)
}

func TestGridShapeMismatch(t *testing.T) {
	a := NewGrid(2, 3)
	b := NewGrid(3, 2)
	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrShape)
	var serr *ShapeError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, [2]int{2, 3}, serr.Want)
	assert.Equal(t, [2]int{3, 2}, serr.Got)
	_, err = a.Div(b)
	assert.ErrorIs(t, err, ErrShape)
}

func TestGridDataTypePropagation(t *testing.T) {
	a := NewGrid(1, 1)
	a.DataType = godal.Int16
	b := NewGrid(1, 1)
	b.DataType = godal.Int16
	r, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, godal.Int16, r.DataType)

	r, err = a.Add(NewGrid(1, 1))
	require.NoError(t, err)
	assert.Equal(t, godal.Float32, r.DataType)

	b.Data[0] = 1
	r, err = a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, godal.Float32, r.DataType)

	assert.Equal(t, godal.Float32, a.Scale(0.5).DataType)
	assert.Equal(t, godal.Float32, a.Offset(1).DataType)
	assert.Equal(t, godal.Int16, a.DataType)
}

func TestScaleOffset(t *testing.T) {
	a := NewGrid(3, 1)
	copy(a.Data, []float32{1, -1, 3})
	a.MaskValue(-1)
	s := a.Scale(2).Offset(0.5)
	assert.Equal(t, []float32{2.5, -1.5, 6.5}, s.Data)
	assert.Equal(t, a.Mask, s.Mask)
	assert.Equal(t, -1.0, s.Fill)

	big := a.Scale(math.Inf(1))
	assert.True(t, big.Mask[0])
}

func TestStats(t *testing.T) {
	g := NewGrid(5, 1)
	copy(g.Data, []float32{2, 4, -1, 4, 5})
	g.MaskValue(-1)
	st := g.Stats()
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, 2.0, st.Min)
	assert.Equal(t, 5.0, st.Max)
	assert.InDelta(t, 3.75, st.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(4.75/3), st.StdDev, 1e-12)

	one := NewGrid(1, 1)
	one.Data[0] = 3
	assert.Equal(t, Statistics{Count: 1, Min: 3, Max: 3, Mean: 3}, one.Stats())

	assert.Equal(t, Statistics{}, NewGrid(0, 0).Stats())
}
