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
	"errors"
	"fmt"

	"github.com/airbusgeo/godal"
)

var (
	// ErrOpen is returned when a raster could not be opened
	ErrOpen = errors.New("resource not openable")
	// ErrBandIndex is returned when a band index is outside [1,BandCount]
	ErrBandIndex = errors.New("band index out of range")
	// ErrDriverCapability is returned when an output driver is unknown or cannot create files
	ErrDriverCapability = errors.New("driver does not support file creation")
	// ErrWrite is returned when an output raster could not be created, written or flushed
	ErrWrite = errors.New("output raster not writable")
	// ErrShape is returned when grid dimensions do not match
	ErrShape = errors.New("shape mismatch")
	// ErrUnknownFormat is returned by LookupFormat for names outside the format table
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrEPSG is returned when a geographic authority code cannot be resolved
	ErrEPSG = errors.New("epsg code not resolvable")
)

// OpenError wraps the gdal error raised when opening Path
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("open %s: %v", e.Path, ErrOpen)
	}
	return fmt.Sprintf("open %s: %v: %v", e.Path, ErrOpen, e.Err)
}

func (e *OpenError) Unwrap() []error { return []error{ErrOpen, e.Err} }

// BandIndexError reports a band request outside of the dataset's band range
type BandIndexError struct {
	Band  int
	Count int
}

func (e *BandIndexError) Error() string {
	return fmt.Sprintf("band %d: %v (dataset has %d bands)", e.Band, ErrBandIndex, e.Count)
}

func (e *BandIndexError) Unwrap() error { return ErrBandIndex }

// DriverError reports an output driver that is missing or lacks DCAP_CREATE
type DriverError struct {
	Driver string
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver %s: %v", e.Driver, ErrDriverCapability)
}

func (e *DriverError) Unwrap() error { return ErrDriverCapability }

// WriteError wraps a failure to create, populate or flush Path
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

// ShapeError reports mismatching grid dimensions
type ShapeError struct {
	Want, Got [2]int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: expected %dx%d, got %dx%d", ErrShape, e.Want[0], e.Want[1], e.Got[0], e.Got[1])
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// EPSGError reports an authority code that could not be parsed from a spatial reference
type EPSGError struct {
	Target string
	Code   string
}

func (e *EPSGError) Error() string {
	return fmt.Sprintf("%s authority code %q: %v", e.Target, e.Code, ErrEPSG)
}

func (e *EPSGError) Unwrap() error { return ErrEPSG }

// gdalErrors returns a godal.ErrorHandler that only treats failures as errors.
// Lower severity messages are forwarded to the diagnostics logger.
func (o *options) gdalErrors() godal.ErrorHandler {
	return func(ec godal.ErrorCategory, code int, msg string) error {
		if ec >= godal.CE_Failure {
			return errors.New(msg)
		}
		if ec == godal.CE_Warning {
			o.logger.Printf("gdal warning %d: %s", code, msg)
		}
		return nil
	}
}
