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

	"github.com/airbusgeo/godal"
)

// DefaultNoData is the nodata value assumed for bands that do not declare one
const DefaultNoData = 0

// DefaultOutputNoData is the nodata value written for unmasked grids
const DefaultOutputNoData = 9999

// Grid is a 2D row-major float32 raster with an optional validity mask.
//
// Data[y*Width+x] is the sample at column x and row y. When Mask is non nil,
// Mask[i] is true if Data[i] is invalid (nodata, NaN or infinite) and Fill is
// the nodata value that represents invalid cells.
type Grid struct {
	Width, Height int
	Data          []float32
	Mask          []bool
	Fill          float64
	// DataType is the sample type used when the grid is written: godal.Int16,
	// or godal.Float32 for anything else. Grids read from a band are always
	// Float32; Int16 output must be requested by setting it.
	DataType godal.DataType
}

// NewGrid allocates an unmasked zero-filled float32 grid
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		Data:     make([]float32, width*height),
		Fill:     DefaultOutputNoData,
		DataType: godal.Float32,
	}
}

// Masked returns whether the grid carries a mask and a fill value
func (g *Grid) Masked() bool {
	return g.Mask != nil
}

// At returns the sample at column x, row y
func (g *Grid) At(x, y int) float32 {
	return g.Data[y*g.Width+x]
}

// Set sets the sample at column x, row y
func (g *Grid) Set(x, y int, v float32) {
	g.Data[y*g.Width+x] = v
}

// Valid returns false if the sample at column x, row y is masked
func (g *Grid) Valid(x, y int) bool {
	return g.Mask == nil || !g.Mask[y*g.Width+x]
}

// Row returns the samples of line y. The returned slice aliases the grid's data.
func (g *Grid) Row(y int) []float32 {
	return g.Data[y*g.Width : (y+1)*g.Width]
}

func (g *Grid) ensureMask() {
	if g.Mask == nil {
		g.Mask = make([]bool, len(g.Data))
	}
}

// MaskValue masks every cell equal to v (compared at float32 precision) and
// sets v as the grid's fill value. Already masked cells stay masked.
func (g *Grid) MaskValue(v float64) {
	g.ensureMask()
	g.Fill = v
	fv := float32(v)
	for i, d := range g.Data {
		if d == fv {
			g.Mask[i] = true
		}
	}
}

// MaskInvalid additionally masks every NaN or infinite cell
func (g *Grid) MaskInvalid() {
	g.ensureMask()
	for i, d := range g.Data {
		f := float64(d)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			g.Mask[i] = true
		}
	}
}

// Clone returns a deep copy of g
func (g *Grid) Clone() *Grid {
	c := *g
	c.Data = append([]float32(nil), g.Data...)
	if g.Mask != nil {
		c.Mask = append([]bool(nil), g.Mask...)
	}
	return &c
}

func (g *Grid) sameShape(o *Grid) error {
	if g.Width != o.Width || g.Height != o.Height {
		return &ShapeError{Want: [2]int{g.Width, g.Height}, Got: [2]int{o.Width, o.Height}}
	}
	return nil
}

// combine applies fn cellwise. The result mask is the union of both masks
// plus any NaN or infinite result.
func (g *Grid) combine(o *Grid, fn func(a, b float32) float32) (*Grid, error) {
	if err := g.sameShape(o); err != nil {
		return nil, err
	}
	r := g.Clone()
	for i := range r.Data {
		r.Data[i] = fn(g.Data[i], o.Data[i])
	}
	if o.Mask != nil {
		r.ensureMask()
		if !g.Masked() {
			r.Fill = o.Fill
		}
		for i, m := range o.Mask {
			r.Mask[i] = r.Mask[i] || m
		}
	}
	if r.Masked() {
		r.MaskInvalid()
	}
	if o.DataType != godal.Int16 {
		r.DataType = godal.Float32
	}
	return r, nil
}

// Add returns g+o
func (g *Grid) Add(o *Grid) (*Grid, error) {
	return g.combine(o, func(a, b float32) float32 { return a + b })
}

// Sub returns g-o
func (g *Grid) Sub(o *Grid) (*Grid, error) {
	return g.combine(o, func(a, b float32) float32 { return a - b })
}

// Mul returns g*o
func (g *Grid) Mul(o *Grid) (*Grid, error) {
	return g.combine(o, func(a, b float32) float32 { return a * b })
}

// Div returns g/o. Cells where o is 0 become infinite or NaN and are masked.
func (g *Grid) Div(o *Grid) (*Grid, error) {
	r, err := g.combine(o, func(a, b float32) float32 { return a / b })
	if err != nil {
		return nil, err
	}
	r.MaskInvalid()
	r.DataType = godal.Float32
	return r, nil
}

// Scale returns g*k as a Float32 grid
func (g *Grid) Scale(k float64) *Grid {
	r := g.Clone()
	r.DataType = godal.Float32
	for i, d := range r.Data {
		r.Data[i] = float32(float64(d) * k)
	}
	if r.Masked() {
		r.MaskInvalid()
	}
	return r
}

// Offset returns g+c as a Float32 grid
func (g *Grid) Offset(c float64) *Grid {
	r := g.Clone()
	r.DataType = godal.Float32
	for i, d := range r.Data {
		r.Data[i] = float32(float64(d) + c)
	}
	if r.Masked() {
		r.MaskInvalid()
	}
	return r
}
