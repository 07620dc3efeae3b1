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

// DefaultGeoTransform is reported for datasets that carry no georeferencing
var DefaultGeoTransform = [6]float64{0, 1, 0, 0, 0, 1}

// Handle is an opened raster dataset. It holds no pixel data.
type Handle struct {
	path string
	ds   *godal.Dataset
	opts *options
}

// Metadata holds the dataset level attributes needed to write a derived raster
type Metadata struct {
	DriverShortName string
	DriverLongName  string
	// Width is the number of pixels along x (XSize)
	Width int
	// Height is the number of lines (YSize)
	Height int
	// Projection is the dataset's WKT projection, possibly empty
	Projection string
	// GeoTransform is the affine pixel to georeferenced coordinates mapping:
	// origin-x, pixel-width, row-rotation, origin-y, column-rotation, pixel-height
	GeoTransform [6]float64
	BandCount    int
}

// Open opens the raster at path in read-only mode. Gdal drivers must have been
// registered beforehand, e.g. with godal.RegisterAll().
//
// name may be a filename or any string supported by gdal (e.g. a /vsixxx path
// or a gs:// url once gcs.RegisterHandler has been called).
func Open(path string, opts ...OpenOption) (*Handle, error) {
	o := newOptions()
	for _, opt := range opts {
		opt.setOpenOpt(o)
	}
	gopts := []godal.OpenOption{godal.RasterOnly(), godal.ErrLogger(o.gdalErrors())}
	if o.update {
		gopts = append(gopts, godal.Update())
	}
	ds, err := godal.Open(path, gopts...)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if ds == nil {
		return nil, &OpenError{Path: path}
	}
	return &Handle{path: path, ds: ds, opts: o}, nil
}

// Path returns the name the handle was opened with
func (h *Handle) Path() string {
	return h.path
}

// BandCount returns the number of raster bands in the dataset
func (h *Handle) BandCount() int {
	return h.ds.Structure().NBands
}

// Metadata returns the driver names, size, projection and geotransform of the dataset
func (h *Handle) Metadata() Metadata {
	st := h.ds.Structure()
	drv := h.ds.Driver()
	gt, err := h.ds.GeoTransform(godal.ErrLogger(h.opts.gdalErrors()))
	if err != nil {
		gt = DefaultGeoTransform
	}
	return Metadata{
		DriverShortName: drv.ShortName(),
		DriverLongName:  drv.LongName(),
		Width:           st.SizeX,
		Height:          st.SizeY,
		Projection:      h.ds.Projection(),
		GeoTransform:    gt,
		BandCount:       st.NBands,
	}
}

// Close releases the dataset. Pending changes (e.g. from EnsureNoData) are flushed.
func (h *Handle) Close() error {
	if h.ds == nil {
		return fmt.Errorf("close %s: called more than once", h.path)
	}
	err := h.ds.Close(godal.ErrLogger(h.opts.gdalErrors()))
	h.ds = nil
	if err != nil {
		return fmt.Errorf("close %s: %w", h.path, err)
	}
	return nil
}

// band returns the 1-based band idx, or a BandIndexError
func (h *Handle) band(idx int) (godal.Band, error) {
	bands := h.ds.Bands()
	if idx < 1 || idx > len(bands) {
		return godal.Band{}, &BandIndexError{Band: idx, Count: len(bands)}
	}
	return bands[idx-1], nil
}

// EnsureNoData gives band a determinate nodata value: if it declares none, 0 is
// written as its nodata value. The returned value is the band's nodata value.
//
// With an Update() handle the value is written to the file itself. On a read-only
// handle gdal still persists it, in a .aux.xml sidecar next to the file, for
// drivers that support auxiliary metadata (e.g. GTiff).
func EnsureNoData(h *Handle, band int) (float64, error) {
	bnd, err := h.band(band)
	if err != nil {
		return 0, err
	}
	if nd, ok := bnd.NoData(); ok {
		return nd, nil
	}
	if err := bnd.SetNoData(0, godal.ErrLogger(h.opts.gdalErrors())); err != nil {
		return 0, fmt.Errorf("set nodata on %s band %d: %w", h.path, band, err)
	}
	return 0, nil
}
