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
	"io"
	"log"
	"os"
)

// stderrLogger is the default diagnostics channel
var stderrLogger = log.New(os.Stderr, "rasterio: ", 0)

type options struct {
	logger        *log.Logger
	update        bool
	persistNoData bool
	creation      []string
	overviews     bool
	projection    string
}

func newOptions() *options {
	return &options{logger: stderrLogger}
}

// OpenOption is an option that can be passed to Open
//
// Available OpenOptions are:
//
// • Update
//
// • Diagnostics
type OpenOption interface {
	setOpenOpt(o *options)
}

// ReadOption is an option that can be passed to ReadBand
//
// Available ReadOptions are:
//
// • PersistNoData
//
// • Diagnostics
type ReadOption interface {
	setReadOpt(o *options)
}

// ResolveOption is an option that can be passed to ResolveEPSG
//
// Available ResolveOptions are:
//
// • Diagnostics
type ResolveOption interface {
	setResolveOpt(o *options)
}

// WriteOption is an option that can be passed to WriteBand or Session.Write
//
// Available WriteOptions are:
//
// • CreationOption
//
// • Overviews
//
// • Projection
//
// • Diagnostics
type WriteOption interface {
	setWriteOpt(o *options)
}

// LoadOption is an option that can be passed to Load
//
// Available LoadOptions are:
//
// • PersistNoData
//
// • Diagnostics
type LoadOption interface {
	setLoadOpt(o *options)
}

type diagnosticsOpt struct {
	l *log.Logger
}

// Diagnostics redirects warnings (unresolved projected EPSG codes, gdal warnings)
// to l instead of stderr. A nil logger silences them.
func Diagnostics(l *log.Logger) interface {
	OpenOption
	ReadOption
	ResolveOption
	WriteOption
	LoadOption
} {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	return diagnosticsOpt{l}
}

func (d diagnosticsOpt) setOpenOpt(o *options)    { o.logger = d.l }
func (d diagnosticsOpt) setReadOpt(o *options)    { o.logger = d.l }
func (d diagnosticsOpt) setResolveOpt(o *options) { o.logger = d.l }
func (d diagnosticsOpt) setWriteOpt(o *options)   { o.logger = d.l }
func (d diagnosticsOpt) setLoadOpt(o *options)    { o.logger = d.l }

type updateOpt struct{}

// Update opens the dataset in update mode, so that EnsureNoData writes the
// nodata value into the file rather than into a .aux.xml sidecar.
func Update() interface {
	OpenOption
} {
	return updateOpt{}
}

func (updateOpt) setOpenOpt(o *options) { o.update = true }

type persistNoDataOpt struct{}

// PersistNoData makes ReadBand call EnsureNoData before reading, i.e. a band
// without a declared nodata value gets 0 written back as its nodata value.
// Load opens the dataset in update mode when this option is set.
func PersistNoData() interface {
	ReadOption
	LoadOption
} {
	return persistNoDataOpt{}
}

func (persistNoDataOpt) setReadOpt(o *options) { o.persistNoData = true }
func (persistNoDataOpt) setLoadOpt(o *options) {
	o.persistNoData = true
	o.update = true
}

type creationOpt struct {
	creation []string
}

// CreationOption are options to pass to the output driver when creating a dataset, to be
// passed in the form KEY=VALUE
//
// Examples are: TILED=YES, COMPRESS=LZW, BLOCKXSIZE=256
func CreationOption(opts ...string) interface {
	WriteOption
} {
	return creationOpt{opts}
}

func (co creationOpt) setWriteOpt(o *options) {
	o.creation = append(o.creation, co.creation...)
}

type overviewsOpt struct{}

// Overviews builds power of two overview levels once the band has been written,
// down to the output's block size. Use with tiled creation options, e.g.
// COGCreationOptions.
func Overviews() interface {
	WriteOption
} {
	return overviewsOpt{}
}

func (overviewsOpt) setWriteOpt(o *options) { o.overviews = true }

type projectionOpt struct {
	wkt string
}

// Projection writes wkt as the output projection instead of the one derived from
// the EPSG code, e.g. for coordinate systems without an authority code.
func Projection(wkt string) interface {
	WriteOption
} {
	return projectionOpt{wkt}
}

func (po projectionOpt) setWriteOpt(o *options) { o.projection = po.wkt }
