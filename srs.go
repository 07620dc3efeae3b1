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
	"strconv"

	"github.com/airbusgeo/godal"
)

// ResolveEPSG returns the EPSG code of the coordinate system described by wkt.
//
// For projected systems the PROJCS authority code is returned. If it is missing
// or not numeric a diagnostic is emitted and 0 is returned.
//
// Other systems are treated as geographic and their GEOGCS authority code is
// returned as-is: a missing code is an error, there is no fallback to 0.
func ResolveEPSG(wkt string, opts ...ResolveOption) (int, error) {
	o := newOptions()
	for _, opt := range opts {
		opt.setResolveOpt(o)
	}
	sr, err := godal.NewSpatialRefFromWKT(wkt, godal.ErrLogger(o.gdalErrors()))
	if err != nil {
		return 0, fmt.Errorf("parse wkt: %w", err)
	}
	defer sr.Close()

	if sr.Projected() {
		code, err := strconv.Atoi(sr.AuthorityCode("PROJCS"))
		if err != nil {
			o.logger.Printf("projected EPSG code not found, defaulting to 0")
			return 0, nil
		}
		return code, nil
	}
	// no fallback to 0 here, unlike the projected case
	ac := sr.AuthorityCode("GEOGCS")
	code, err := strconv.Atoi(ac)
	if err != nil {
		return 0, &EPSGError{Target: "GEOGCS", Code: ac}
	}
	return code, nil
}

// spatialRefWKT returns the WKT of the coordinate system identified by epsg.
// EPSG 0 maps to an empty projection.
func spatialRefWKT(epsg int, o *options) (string, error) {
	if epsg == 0 {
		return "", nil
	}
	sr, err := godal.NewSpatialRefFromEPSG(epsg, godal.ErrLogger(o.gdalErrors()))
	if err != nil {
		return "", fmt.Errorf("epsg:%d: %w", epsg, err)
	}
	defer sr.Close()
	return sr.WKT(godal.ErrLogger(o.gdalErrors()))
}
