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
	"path/filepath"
	"strings"

	"github.com/airbusgeo/godal"
)

// Format is a user facing output format
type Format struct {
	Name      string
	Extension string
	Driver    godal.DriverName
}

var formats = []Format{
	{Name: "GeoTiff", Extension: ".tif", Driver: godal.GTiff},
	{Name: "Erdas Imagine", Extension: ".img", Driver: godal.HFA},
}

// DefaultFormat is used when no output format is requested
var DefaultFormat = formats[0]

// Formats returns the supported output formats
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// LookupFormat returns the output format called name (case insensitive)
func LookupFormat(name string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// OutputPath appends the format's extension to name unless it already ends with it
func (f Format) OutputPath(name string) string {
	if strings.EqualFold(filepath.Ext(name), f.Extension) {
		return name
	}
	return name + f.Extension
}
