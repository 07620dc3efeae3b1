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
	"bytes"
	"log"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wgs84NoAuthority = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],` +
		`PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`
	customTM = `PROJCS["custom tm",` + wgs84NoAuthority + `,PROJECTION["Transverse_Mercator"],` +
		`PARAMETER["latitude_of_origin",12.5],PARAMETER["central_meridian",1.234],` +
		`PARAMETER["scale_factor",0.9991],PARAMETER["false_easting",123456],` +
		`PARAMETER["false_northing",7890],UNIT["metre",1]]`
)

func epsgWKT(t *testing.T, code int) string {
	t.Helper()
	sr, err := godal.NewSpatialRefFromEPSG(code)
	require.NoError(t, err)
	defer sr.Close()
	wkt, err := sr.WKT()
	require.NoError(t, err)
	return wkt
}

func TestResolveEPSGProjected(t *testing.T) {
	var buf bytes.Buffer
	code, err := ResolveEPSG(epsgWKT(t, 27700), Diagnostics(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Equal(t, 27700, code)
	assert.Empty(t, buf.String())
}

func TestResolveEPSGProjectedUnresolved(t *testing.T) {
	var buf bytes.Buffer
	code, err := ResolveEPSG(customTM, Diagnostics(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "projected EPSG code not found, defaulting to 0")
}

func TestResolveEPSGGeographic(t *testing.T) {
	var buf bytes.Buffer
	code, err := ResolveEPSG(epsgWKT(t, 4326), Diagnostics(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Equal(t, 4326, code)
	assert.Empty(t, buf.String())
}

func TestResolveEPSGGeographicUnresolved(t *testing.T) {
	var buf bytes.Buffer
	_, err := ResolveEPSG(wgs84NoAuthority, Diagnostics(log.New(&buf, "", 0)))
	assert.ErrorIs(t, err, ErrEPSG)
	var eerr *EPSGError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "GEOGCS", eerr.Target)
	assert.Empty(t, buf.String())
}

func TestResolveEPSGInvalidWKT(t *testing.T) {
	_, err := ResolveEPSG("not a wkt", Diagnostics(nil))
	assert.Error(t, err)
}

func TestSpatialRefWKT(t *testing.T) {
	o := newOptions()
	wkt, err := spatialRefWKT(0, o)
	require.NoError(t, err)
	assert.Empty(t, wkt)

	wkt, err = spatialRefWKT(27700, o)
	require.NoError(t, err)
	code, err := ResolveEPSG(wkt)
	require.NoError(t, err)
	assert.Equal(t, 27700, code)

	_, err = spatialRefWKT(-12, o)
	assert.Error(t, err)
}
