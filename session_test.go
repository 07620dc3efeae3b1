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
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// open a 4x3 raster with nodata 0, read, double, write, reopen
func TestEndToEnd(t *testing.T) {
	data := []float32{
		1, 2, 0, 4,
		5, 0, 7, 8,
		9, 10, 11, 0,
	}
	gt := [6]float64{0, 1, 0, 0, 0, -1}
	src := createRaster(t, testRaster{width: 4, height: 3, data: data, nodata: nd(0), geotransform: &gt, epsg: 27700})

	h, err := Open(src)
	require.NoError(t, err)
	md := h.Metadata()
	grid, err := ReadBand(h, 1)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	epsg, err := ResolveEPSG(md.Projection)
	require.NoError(t, err)
	require.Equal(t, 27700, epsg)

	doubled, err := grid.Add(grid)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.tif")
	require.NoError(t, WriteBand(doubled, out, godal.GTiff, md.Width, md.Height, md.GeoTransform, epsg))

	oh, got := reopen(t, out)
	omd := oh.Metadata()
	assert.Equal(t, gt, omd.GeoTransform)
	code, err := ResolveEPSG(omd.Projection)
	require.NoError(t, err)
	assert.Equal(t, 27700, code)
	assert.Equal(t, grid.Mask, got.Mask)
	for i := range data {
		if grid.Mask[i] {
			continue
		}
		assert.Equal(t, 2*data[i], got.Data[i], "cell %d", i)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	data := []float32{3, -1, 5, 6}
	gt := [6]float64{500000, 30, 0, 4000000, 0, -30}
	src := createRaster(t, testRaster{width: 2, height: 2, data: data, nodata: nd(-1), geotransform: &gt, epsg: 32631})

	s, err := Load(src, 1)
	require.NoError(t, err)
	assert.Equal(t, src, s.Path)
	assert.Equal(t, 1, s.Band)
	assert.Equal(t, 32631, s.EPSG)
	assert.Equal(t, gt, s.Metadata.GeoTransform)
	assert.Equal(t, []bool{false, true, false, false}, s.Grid.Mask)

	out := DefaultFormat.OutputPath(filepath.Join(t.TempDir(), "scaled"))
	require.NoError(t, s.Write(s.Grid.Scale(10), out, DefaultFormat.Driver))

	s2, err := Load(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 32631, s2.EPSG)
	assert.Equal(t, gt, s2.Metadata.GeoTransform)
	assert.Equal(t, s.Grid.Mask, s2.Grid.Mask)
	assert.Equal(t, []float64{30, 50, 60}, s2.Grid.ValidValues())
}

func TestSessionErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tif"), 1)
	assert.ErrorIs(t, err, ErrOpen)

	src := createRaster(t, testRaster{width: 2, height: 2})
	_, err = Load(src, 2)
	assert.ErrorIs(t, err, ErrBandIndex)

	// no projection: EPSG 0, no error
	s, err := Load(src, 1, Diagnostics(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, s.EPSG)

	err = s.Write(NewGrid(3, 3), filepath.Join(t.TempDir(), "x.tif"), godal.GTiff)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSessionPersistNoData(t *testing.T) {
	src := createRaster(t, testRaster{width: 2, height: 1, data: []float32{0, 1}})
	s, err := Load(src, 1, PersistNoData())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, s.Grid.Mask)

	ds, err := godal.Open(src)
	require.NoError(t, err)
	defer ds.Close()
	ndv, ok := ds.Bands()[0].NoData()
	assert.True(t, ok)
	assert.Equal(t, 0.0, ndv)
}

func TestFormats(t *testing.T) {
	fmts := Formats()
	require.Len(t, fmts, 2)
	assert.Equal(t, Format{Name: "GeoTiff", Extension: ".tif", Driver: "GTiff"}, fmts[0])
	assert.Equal(t, Format{Name: "Erdas Imagine", Extension: ".img", Driver: "HFA"}, fmts[1])
	fmts[0].Name = "changed"
	assert.Equal(t, "GeoTiff", Formats()[0].Name)

	f, err := LookupFormat("geotiff")
	require.NoError(t, err)
	assert.Equal(t, godal.GTiff, f.Driver)
	assert.Equal(t, "out.tif", f.OutputPath("out"))
	assert.Equal(t, "out.TIF", f.OutputPath("out.TIF"))
	assert.Equal(t, "out.img.tif", f.OutputPath("out.img"))

	_, err = LookupFormat("PNG")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
