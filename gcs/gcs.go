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

// Package gcs lets rasterio read rasters from and write rasters to google cloud
// storage buckets, addressed as gs://bucket/object.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/godal"
	"github.com/airbusgeo/osio"
	osiogcs "github.com/airbusgeo/osio/gcs"
	"github.com/airbusgeo/rasterio"
	"google.golang.org/api/googleapi"
)

// Scheme is the url prefix handled by this package
const Scheme = "gs://"

type gcsHandler struct {
	prefix          string
	client          *storage.Client
	blockSize       string
	numCachedBlocks int
	logging         bool
}

// Option is an option that can be passed to RegisterHandler
type Option func(o *gcsHandler)

// Prefix is the prefix that a file must have in order to be handled by this handler
// Defaults to "gs://", i.e. this handler will be used when calling rasterio.Open("gs://mybucket/myfile.tif")
func Prefix(prefix string) Option {
	return func(o *gcsHandler) {
		o.prefix = prefix
	}
}

// Client sets the cloud.google.com/go/storage.Client that will be used
// by the handler
func Client(cl *storage.Client) Option {
	return func(o *gcsHandler) {
		o.client = cl
	}
}

// BlockSize sets the size of requests that will go out to the storage API,
// e.g. "512k" or "1M". Defaults to osio's default.
func BlockSize(bs string) Option {
	return func(o *gcsHandler) {
		o.blockSize = bs
	}
}

// NumCachedBlocks sets the number of blocks to keep in the lru cache.
func NumCachedBlocks(n int) Option {
	if n < 1 {
		panic("invalid number of cached blocks")
	}
	return func(o *gcsHandler) {
		o.numCachedBlocks = n
	}
}

// Logging makes the underlying adapter log its requests to the standard logger
func Logging(enabled bool) Option {
	return func(o *gcsHandler) {
		o.logging = enabled
	}
}

// RegisterHandler registers a vsi handler to gdal in order to use cloud.google.com/go/storage
// APIs to read objects from cloud storage buckets
func RegisterHandler(ctx context.Context, opts ...Option) error {
	handler := &gcsHandler{
		prefix: Scheme,
	}
	for _, o := range opts {
		o(handler)
	}
	if handler.client == nil {
		cl, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("storage.newclient: %w", err)
		}
		handler.client = cl
	}
	gcsh, err := osiogcs.Handle(ctx, osiogcs.GCSClient(handler.client))
	if err != nil {
		return fmt.Errorf("osio gcs.handle: %w", err)
	}
	aopts := []osio.AdapterOption{}
	if handler.blockSize != "" {
		aopts = append(aopts, osio.BlockSize(handler.blockSize))
	}
	if handler.numCachedBlocks > 0 {
		aopts = append(aopts, osio.NumCachedBlocks(handler.numCachedBlocks))
	}
	if handler.logging {
		aopts = append(aopts, osio.WithLogger(osio.StdLogger))
	}
	adapter, err := osio.NewAdapter(gcsh, aopts...)
	if err != nil {
		return fmt.Errorf("osio.newadapter: %w", err)
	}
	err = godal.RegisterVSIHandler(handler.prefix, adapter, godal.VSIHandlerStripPrefix(true))
	if err != nil {
		return fmt.Errorf("godal.registervsihandler: %w", err)
	}
	return nil
}

// ParseURL splits a gs://bucket/object url. Both returned values are empty if
// url is not a gs:// url or has no object part.
func ParseURL(url string) (bucket, object string) {
	if !strings.HasPrefix(url, Scheme) {
		return
	}
	url = url[len(Scheme):]
	firstSlash := strings.Index(url, "/")
	if firstSlash == -1 {
		return
	}
	obj := strings.Trim(url[firstSlash:], "/")
	if obj == "" {
		return
	}
	bucket = url[0:firstSlash]
	object = obj
	return
}

// IsURL returns whether name addresses a cloud storage object
func IsURL(name string) bool {
	b, _ := ParseURL(name)
	return b != ""
}

type uploadOpts struct {
	cog bool
}

// UploadOption is an option that can be passed to Upload
type UploadOption func(o *uploadOpts)

// COG rewrites the uploaded file as a cloud optimized geotiff. The local file must
// have been written as a tiled GeoTIFF, see rasterio.COGCreationOptions.
func COG() UploadOption {
	return func(o *uploadOpts) {
		o.cog = true
	}
}

// Upload copies the local raster at src to the gs:// url dst. Failures are
// returned as *rasterio.WriteError.
func Upload(ctx context.Context, client *storage.Client, src, dst string, opts ...UploadOption) error {
	uo := uploadOpts{}
	for _, o := range opts {
		o(&uo)
	}
	bucket, object := ParseURL(dst)
	if bucket == "" {
		return &rasterio.WriteError{Path: dst, Op: "upload", Err: fmt.Errorf("invalid gs url")}
	}
	// closing a storage.Writer commits the object, cancelling ctx aborts it
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	var err error
	if uo.cog {
		err = rasterio.RewriteCOG(src, w)
	} else {
		err = copyFile(w, src)
	}
	if err != nil {
		cancel()
		_ = w.Close()
		return &rasterio.WriteError{Path: dst, Op: "upload", Err: err}
	}
	if err = w.Close(); err != nil {
		return &rasterio.WriteError{Path: dst, Op: "upload", Err: describe(err)}
	}
	return nil
}

func copyFile(w io.Writer, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// describe turns the common googleapi failures into shorter messages
func describe(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Errorf("permission denied: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("bucket not found: %w", err)
	}
	return err
}
