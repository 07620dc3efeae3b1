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
	"github.com/airbusgeo/godal"
)

// WriteBand creates a single band raster at path with the given driver, size,
// geotransform and EPSG coordinate system, and writes grid into it.
//
// The output nodata value is the grid's fill value when it is masked, 9999 otherwise;
// masked cells are written as that nodata value. Int16 grids are written as Int16,
// everything else as Float32. An epsg of 0 writes no projection, unless a WKT is
// given with the Projection option.
//
// Errors are, in order of checking: a *ShapeError if width/height do not match the
// grid, a *DriverError if driver cannot create files, then a *WriteError for any
// failure once the output has been created, in which case the partial output is
// removed. Nothing touches the filesystem before the first two checks pass.
func WriteBand(grid *Grid, path string, driver godal.DriverName, width, height int,
	geotransform [6]float64, epsg int, opts ...WriteOption) (err error) {
	o := newOptions()
	for _, opt := range opts {
		opt.setWriteOpt(o)
	}
	if grid.Width != width || grid.Height != height || len(grid.Data) != width*height {
		return &ShapeError{Want: [2]int{width, height}, Got: [2]int{grid.Width, grid.Height}}
	}
	if err := checkCreate(driver); err != nil {
		return err
	}
	nodata := float64(DefaultOutputNoData)
	if grid.Masked() {
		nodata = grid.Fill
	}
	dtype := godal.Float32
	if grid.DataType == godal.Int16 {
		dtype = godal.Int16
	}
	wkt := o.projection
	if wkt == "" {
		if wkt, err = spatialRefWKT(epsg, o); err != nil {
			return err
		}
	}

	eh := godal.ErrLogger(o.gdalErrors())
	ds, err := godal.Create(driver, path, 1, dtype, width, height,
		godal.CreationOption(o.creation...), eh)
	if err != nil {
		return &WriteError{Path: path, Op: "create", Err: err}
	}
	defer func() {
		cerr := ds.Close(eh)
		if cerr != nil && err == nil {
			err = &WriteError{Path: path, Op: "close", Err: cerr}
		}
		if err != nil {
			_ = godal.VSIUnlink(path)
		}
	}()

	if err := ds.SetGeoTransform(geotransform, eh); err != nil {
		return &WriteError{Path: path, Op: "set geotransform", Err: err}
	}
	if wkt != "" {
		if err := ds.SetProjection(wkt, eh); err != nil {
			return &WriteError{Path: path, Op: "set projection", Err: err}
		}
	}
	bnd := ds.Bands()[0]
	if err := bnd.SetNoData(nodata, eh); err != nil {
		return &WriteError{Path: path, Op: "set nodata", Err: err}
	}
	line := make([]float32, width)
	fill := float32(nodata)
	for y := 0; y < height; y++ {
		copy(line, grid.Row(y))
		if grid.Masked() {
			for x := range line {
				if !grid.Valid(x, y) {
					line[x] = fill
				}
			}
		}
		if err := bnd.Write(0, y, line, width, 1, eh); err != nil {
			return &WriteError{Path: path, Op: "write", Err: err}
		}
	}
	if o.overviews {
		if err := ds.BuildOverviews(eh); err != nil {
			return &WriteError{Path: path, Op: "build overviews", Err: err}
		}
	}
	return nil
}
