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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the valid cells of a grid
type Statistics struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Stats computes statistics over the unmasked cells of g. StdDev is the
// unbiased sample standard deviation. A grid without valid cells returns a zero
// Statistics.
func (g *Grid) Stats() Statistics {
	vals := g.ValidValues()
	if len(vals) == 0 {
		return Statistics{}
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = 0
	}
	return Statistics{
		Count:  len(vals),
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Mean:   mean,
		StdDev: std,
	}
}

// ValidValues returns the unmasked samples of g in row-major order
func (g *Grid) ValidValues() []float64 {
	vals := make([]float64, 0, len(g.Data))
	for i, d := range g.Data {
		if g.Mask != nil && g.Mask[i] {
			continue
		}
		vals = append(vals, float64(d))
	}
	return vals
}
