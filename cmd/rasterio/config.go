package main

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// environment variables providing flag defaults
const (
	envBlockSize = "RASTERIO_GS_BLOCKSIZE"
	envNumBlocks = "RASTERIO_GS_NUMBLOCKS"
	envLog       = "RASTERIO_LOG"
	envTmpDir    = "RASTERIO_TMPDIR"
)

type config struct {
	blockSize       string
	numCachedBlocks int
	logRequests     bool
	tmpdir          string
	quiet           bool
}

func defaultConfig() config {
	return config{
		blockSize:       blockSize(),
		numCachedBlocks: numBlocks(),
		logRequests:     logRequests(),
		tmpdir:          tmpDir(),
	}
}

func blockSize() string {
	s := strings.TrimSpace(os.Getenv(envBlockSize))
	if s == "" {
		return "512k"
	}
	return s
}

func numBlocks() int {
	s := strings.TrimSpace(os.Getenv(envNumBlocks))
	if len(s) == 0 {
		return 512
	}
	ii, err := strconv.Atoi(s)
	if err != nil || ii <= 0 {
		log.Printf("failed to parse %s %s", envNumBlocks, s)
		return 512
	}
	return ii
}

func logRequests() bool {
	s := strings.ToLower(strings.TrimSpace(os.Getenv(envLog)))
	switch s {
	case "", "0", "no", "false":
		return false
	default:
		return true
	}
}

func tmpDir() string {
	if s := strings.TrimSpace(os.Getenv(envTmpDir)); s != "" {
		return s
	}
	return os.TempDir()
}
