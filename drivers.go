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
	"strings"

	"github.com/airbusgeo/godal"
)

// CanCreate returns whether the named raster driver is registered and supports
// creating new datasets (DCAP_CREATE=YES)
func CanCreate(driver godal.DriverName) bool {
	drv, ok := godal.RasterDriver(driver)
	if !ok {
		return false
	}
	return strings.EqualFold(drv.Metadata("DCAP_CREATE"), "YES")
}

func checkCreate(driver godal.DriverName) error {
	if !CanCreate(driver) {
		return &DriverError{Driver: string(driver)}
	}
	return nil
}
