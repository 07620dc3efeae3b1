package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/godal"
	"github.com/airbusgeo/rasterio"
	"github.com/airbusgeo/rasterio/gcs"
	"github.com/spf13/cobra"
)

func main() {
	err := newCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the state shared by subcommands
type app struct {
	cfg    config
	client *storage.Client
	logger *log.Logger
}

func newCommand() *cobra.Command {
	a := &app{cfg: defaultConfig()}
	root := &cobra.Command{
		Use:           "rasterio",
		Short:         "read, inspect and write single band georeferenced rasters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			godal.RegisterAll()
			a.logger = log.New(cmd.ErrOrStderr(), "rasterio: ", 0)
			if a.cfg.quiet {
				a.logger = log.New(io.Discard, "", 0)
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfg.blockSize, "gs.blocksize", "b", a.cfg.blockSize, "gs:// block size")
	pf.IntVarP(&a.cfg.numCachedBlocks, "gs.numblocks", "n", a.cfg.numCachedBlocks, "number of gs:// blocks to cache")
	pf.BoolVar(&a.cfg.logRequests, "gs.log", a.cfg.logRequests, "log gs:// requests")
	pf.StringVar(&a.cfg.tmpdir, "tmp", a.cfg.tmpdir, "directory to use for temp files")
	pf.BoolVarP(&a.cfg.quiet, "quiet", "q", false, "silence diagnostics")

	root.AddCommand(a.infoCommand(), a.epsgCommand(), a.extractCommand(), a.calcCommand(), a.formatsCommand())
	return root
}

// storage lazily registers the gs:// handler the first time a gs:// name is seen
func (a *app) storage(ctx context.Context, names ...string) error {
	need := false
	for _, n := range names {
		need = need || gcs.IsURL(n)
	}
	if !need || a.client != nil {
		return nil
	}
	cl, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create gcs storage client: %w", err)
	}
	err = gcs.RegisterHandler(ctx, gcs.Client(cl),
		gcs.BlockSize(a.cfg.blockSize),
		gcs.NumCachedBlocks(a.cfg.numCachedBlocks),
		gcs.Logging(a.cfg.logRequests))
	if err != nil {
		return fmt.Errorf("gcs.registerhandler: %w", err)
	}
	a.client = cl
	return nil
}

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info file",
		Short: "print raster metadata and per band statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.storage(cmd.Context(), args[0]); err != nil {
				return err
			}
			h, err := rasterio.Open(args[0], rasterio.Diagnostics(a.logger))
			if err != nil {
				return err
			}
			defer h.Close()
			md := h.Metadata()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Driver: %s/%s\n", md.DriverShortName, md.DriverLongName)
			fmt.Fprintf(w, "Size: %d, %d\n", md.Width, md.Height)
			fmt.Fprintf(w, "GeoTransform: %v\n", md.GeoTransform)
			if md.Projection != "" {
				epsg, err := rasterio.ResolveEPSG(md.Projection, rasterio.Diagnostics(a.logger))
				if err != nil {
					a.logger.Printf("%v", err)
				} else {
					fmt.Fprintf(w, "EPSG: %d\n", epsg)
				}
			}
			fmt.Fprintf(w, "Bands: %d\n", md.BandCount)
			for b := 1; b <= md.BandCount; b++ {
				grid, err := rasterio.ReadBand(h, b, rasterio.Diagnostics(a.logger))
				if err != nil {
					return err
				}
				st := grid.Stats()
				fmt.Fprintf(w, "Band %d: nodata=%g valid=%d min=%g max=%g mean=%g stddev=%g\n",
					b, grid.Fill, st.Count, st.Min, st.Max, st.Mean, st.StdDev)
			}
			return nil
		},
	}
}

func (a *app) epsgCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "epsg file|wkt",
		Short: "print the EPSG code of a raster or of a WKT projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wkt := args[0]
			if _, err := os.Stat(args[0]); err == nil || gcs.IsURL(args[0]) {
				if err := a.storage(cmd.Context(), args[0]); err != nil {
					return err
				}
				h, err := rasterio.Open(args[0], rasterio.Diagnostics(a.logger))
				if err != nil {
					return err
				}
				wkt = h.Metadata().Projection
				_ = h.Close()
			}
			epsg, err := rasterio.ResolveEPSG(wkt, rasterio.Diagnostics(a.logger))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), epsg)
			return nil
		},
	}
}

func (a *app) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "list output formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range rasterio.Formats() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", f.Name, f.Extension, f.Driver)
			}
		},
	}
}

// outputFlags select where and how a computed grid is written
type outputFlags struct {
	out       string
	format    string
	cog       bool
	overviews bool
}

func (of *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&of.out, "out", "o", "out", "output name, the format extension is appended if missing")
	cmd.Flags().StringVarP(&of.format, "format", "f", rasterio.DefaultFormat.Name, "output format")
	cmd.Flags().BoolVar(&of.cog, "cog", false, "write a cloud optimized geotiff")
	cmd.Flags().BoolVar(&of.overviews, "ovr", true, "compute overviews when writing a cloud optimized geotiff")
}

// resolve returns the output format and path, after checking the flags are compatible
func (of *outputFlags) resolve() (rasterio.Format, string, error) {
	format, err := rasterio.LookupFormat(of.format)
	if err != nil {
		return rasterio.Format{}, "", err
	}
	if of.cog && format.Driver != godal.GTiff {
		return rasterio.Format{}, "", fmt.Errorf("--cog requires the %s format", rasterio.DefaultFormat.Name)
	}
	return format, format.OutputPath(of.out), nil
}

type extractFlags struct {
	outputFlags
	band   int
	scale  float64
	offset float64
}

func (a *app) extractCommand() *cobra.Command {
	ef := extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract [flags] infile",
		Short: "write one band of a raster as a new single band raster, optionally rescaled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.extract(cmd.Context(), args[0], ef, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&ef.band, "band", "B", 1, "1-based band to extract")
	cmd.Flags().Float64Var(&ef.scale, "scale", 1, "multiply valid cells by this factor")
	cmd.Flags().Float64Var(&ef.offset, "offset", 0, "add this value to valid cells")
	ef.register(cmd)
	return cmd
}

func (a *app) extract(ctx context.Context, infile string, ef extractFlags, stdout io.Writer) error {
	format, outfile, err := ef.resolve()
	if err != nil {
		return err
	}
	if err := a.storage(ctx, infile, outfile); err != nil {
		return err
	}
	s, err := rasterio.Load(infile, ef.band, rasterio.Diagnostics(a.logger))
	if err != nil {
		return err
	}
	grid := s.Grid
	if ef.scale != 1 {
		grid = grid.Scale(ef.scale)
	}
	if ef.offset != 0 {
		grid = grid.Offset(ef.offset)
	}
	return a.write(ctx, s, grid, format, outfile, ef.outputFlags, stdout)
}

// operand is a band of a raster, given on the command line as file[:band]
type operand struct {
	path string
	band int
}

func parseOperand(s string) operand {
	if i := strings.LastIndex(s, ":"); i > 0 {
		if b, err := strconv.Atoi(s[i+1:]); err == nil {
			return operand{path: s[:i], band: b}
		}
	}
	return operand{path: s, band: 1}
}

var calcOps = map[string]func(a, b *rasterio.Grid) (*rasterio.Grid, error){
	"add": (*rasterio.Grid).Add,
	"sub": (*rasterio.Grid).Sub,
	"mul": (*rasterio.Grid).Mul,
	"div": (*rasterio.Grid).Div,
}

type calcFlags struct {
	outputFlags
	a, b string
	op   string
}

func (a *app) calcCommand() *cobra.Command {
	cf := calcFlags{}
	cmd := &cobra.Command{
		Use:   "calc -A file[:band] -B file[:band] --op add|sub|mul|div [flags]",
		Short: "combine two bands cell by cell, writing with the georeferencing of the first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.calc(cmd.Context(), cf, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&cf.a, "a", "A", "", "first operand, file[:band]")
	cmd.Flags().StringVarP(&cf.b, "b", "B", "", "second operand, file[:band]")
	cmd.Flags().StringVar(&cf.op, "op", "add", "operation: add, sub, mul or div")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	cf.register(cmd)
	return cmd
}

func (a *app) calc(ctx context.Context, cf calcFlags, stdout io.Writer) error {
	op, ok := calcOps[cf.op]
	if !ok {
		return fmt.Errorf("unknown operation %q", cf.op)
	}
	format, outfile, err := cf.resolve()
	if err != nil {
		return err
	}
	oa, ob := parseOperand(cf.a), parseOperand(cf.b)
	if err := a.storage(ctx, oa.path, ob.path, outfile); err != nil {
		return err
	}
	sa, err := rasterio.Load(oa.path, oa.band, rasterio.Diagnostics(a.logger))
	if err != nil {
		return err
	}
	sb, err := rasterio.Load(ob.path, ob.band, rasterio.Diagnostics(a.logger))
	if err != nil {
		return err
	}
	grid, err := op(sa.Grid, sb.Grid)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", cf.a, cf.op, cf.b, err)
	}
	return a.write(ctx, sa, grid, format, outfile, cf.outputFlags, stdout)
}

// write writes grid with the georeferencing of s, locally or to gs://, optionally
// as a cloud optimized geotiff, and prints the output name
func (a *app) write(ctx context.Context, s *rasterio.Session, grid *rasterio.Grid,
	format rasterio.Format, outfile string, of outputFlags, stdout io.Writer) error {
	remote := gcs.IsURL(outfile)
	if !remote && !of.cog {
		if err := s.Write(grid, outfile, format.Driver, rasterio.Diagnostics(a.logger)); err != nil {
			return err
		}
		fmt.Fprintln(stdout, outfile)
		return nil
	}

	tmpd, err := os.MkdirTemp(a.cfg.tmpdir, "rasterio-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpd)
	tmpfname := filepath.Join(tmpd, "out"+format.Extension)
	wopts := []rasterio.WriteOption{rasterio.Diagnostics(a.logger)}
	if of.cog {
		wopts = append(wopts, rasterio.CreationOption(rasterio.COGCreationOptions...))
		if of.overviews {
			wopts = append(wopts, rasterio.Overviews())
		}
	}
	if err := s.Write(grid, tmpfname, format.Driver, wopts...); err != nil {
		return err
	}

	switch {
	case remote:
		var uopts []gcs.UploadOption
		if of.cog {
			uopts = append(uopts, gcs.COG())
		}
		if err := gcs.Upload(ctx, a.client, tmpfname, outfile, uopts...); err != nil {
			return err
		}
	default:
		outr, err := os.Create(outfile)
		if err != nil {
			return &rasterio.WriteError{Path: outfile, Op: "create", Err: err}
		}
		if err := rasterio.RewriteCOG(tmpfname, outr); err != nil {
			outr.Close()
			os.Remove(outfile)
			return &rasterio.WriteError{Path: outfile, Op: "write", Err: err}
		}
		if err := outr.Close(); err != nil {
			return &rasterio.WriteError{Path: outfile, Op: "close", Err: err}
		}
	}
	fmt.Fprintln(stdout, outfile)
	return nil
}
