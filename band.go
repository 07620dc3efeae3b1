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
	"fmt"

	"github.com/airbusgeo/godal"
)

// ReadBand reads the 1-based band of h into a masked float32 grid.
//
// Cells equal to the band's nodata value are masked, as are NaN and infinite
// cells. A band that declares no nodata value is read with 0 as nodata; the
// dataset itself is left untouched unless PersistNoData is passed.
func ReadBand(h *Handle, band int, opts ...ReadOption) (*Grid, error) {
	o := newOptions()
	for _, opt := range opts {
		opt.setReadOpt(o)
	}
	bnd, err := h.band(band)
	if err != nil {
		return nil, err
	}

	var nodata float64
	if o.persistNoData {
		if nodata, err = EnsureNoData(h, band); err != nil {
			return nil, err
		}
	} else if nd, ok := bnd.NoData(); ok {
		nodata = nd
	} else {
		nodata = DefaultNoData
	}

	st := bnd.Structure()
	grid := NewGrid(st.SizeX, st.SizeY)
	eh := godal.ErrLogger(o.gdalErrors())
	for y := 0; y < st.SizeY; y++ {
		if err := bnd.Read(0, y, grid.Row(y), st.SizeX, 1, eh); err != nil {
			return nil, fmt.Errorf("read %s band %d line %d: %w", h.path, band, y, err)
		}
	}
	grid.MaskValue(nodata)
	grid.MaskInvalid()
	return grid, nil
}
