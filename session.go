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

// Session carries what a load step learned about a source raster to a later
// write step: the band grid plus the size, georeferencing and EPSG code to stamp
// on derived outputs.
type Session struct {
	Path     string
	Band     int
	Metadata Metadata
	EPSG     int
	Grid     *Grid
}

// Load opens path, reads its metadata, resolves its EPSG code and reads band.
// The dataset is closed before returning.
func Load(path string, band int, opts ...LoadOption) (s *Session, err error) {
	o := newOptions()
	for _, opt := range opts {
		opt.setLoadOpt(o)
	}
	oopts := []OpenOption{Diagnostics(o.logger)}
	if o.update {
		oopts = append(oopts, Update())
	}
	h, err := Open(path, oopts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		cerr := h.Close()
		if cerr != nil && err == nil {
			s, err = nil, cerr
		}
	}()

	md := h.Metadata()
	epsg := 0
	if md.Projection != "" {
		epsg, err = ResolveEPSG(md.Projection, Diagnostics(o.logger))
		if err != nil {
			return nil, fmt.Errorf("resolve epsg of %s: %w", path, err)
		}
	}
	ropts := []ReadOption{Diagnostics(o.logger)}
	if o.persistNoData {
		ropts = append(ropts, PersistNoData())
	}
	grid, err := ReadBand(h, band, ropts...)
	if err != nil {
		return nil, err
	}
	return &Session{
		Path:     path,
		Band:     band,
		Metadata: md,
		EPSG:     epsg,
		Grid:     grid,
	}, nil
}

// Write writes grid to path with driver, using the size, geotransform and
// EPSG code of the loaded raster
func (s *Session) Write(grid *Grid, path string, driver godal.DriverName, opts ...WriteOption) error {
	return WriteBand(grid, path, driver, s.Metadata.Width, s.Metadata.Height,
		s.Metadata.GeoTransform, s.EPSG, opts...)
}
