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
	"io"
	"os"

	"github.com/airbusgeo/cogger"
)

// COGCreationOptions are the GTiff creation options a file must be written with
// before being handed to RewriteCOG
var COGCreationOptions = []string{
	"TILED=YES",
	"BLOCKXSIZE=256",
	"BLOCKYSIZE=256",
	"COMPRESS=LZW",
	"BIGTIFF=YES",
}

// RewriteCOG rewrites the tiled GeoTIFF at src as a cloud optimized GeoTIFF into w
func RewriteCOG(src string, w io.Writer) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()
	if err := cogger.Rewrite(w, f); err != nil {
		return fmt.Errorf("cogger.rewrite %s: %w", src, err)
	}
	return nil
}
