// objtool is a CLI utility for inspecting and rendering Wavefront OBJ models.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scop/internal/config"
	"github.com/Faultbox/scop/internal/engine/texture"
	"github.com/Faultbox/scop/internal/loader"
	"github.com/Faultbox/scop/internal/logger"
	"github.com/Faultbox/scop/internal/raster"
	"github.com/Faultbox/scop/pkg/encoding"
)

// errFailed signals a failure that was already reported.
var errFailed = errors.New("failed")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "check":
		err = cmdCheck(args, os.Stdout, os.Stderr)
	case "dump":
		err = cmdDump(args, os.Stdout)
	case "render":
		err = cmdRender(args, os.Stdout)
	case "config":
		err = cmdConfig(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `objtool - Wavefront OBJ utility

Usage:
  objtool <command> [options]

Commands:
  info [-encoding E] <file.obj>             Show model statistics and bounds
  check [-encoding E] <file.obj>...         Parse files and report errors
  dump [-encoding E] <file.obj>             Print vertices and triangles
  render [options] <file.obj>               Render a thumbnail (webp, png, bmp)
  config [path]                             Write the default configuration

Render options:
  -o out.webp   output path (format from extension)
  -size N       image size in pixels
  -yaw R        rotation around Y, radians
  -pitch R      rotation around X, radians
  -texture P    texture image applied with the model's UVs
  -config P     config file providing render defaults

Examples:
  objtool info resources/42.obj
  objtool check models/*.obj
  objtool render -o teapot.png -size 256 teapot.obj`)
	fmt.Fprintf(w, "\nEncodings: %s\n", strings.Join(encoding.Charsets(), ", "))
}

func newManager(charset string) (*loader.Manager, error) {
	return loader.NewManager(charset, logger.Named("loader"))
}

func cmdInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	charset := fs.String("encoding", "utf-8", "Text encoding of the OBJ file")
	if err := fs.Parse(args); err != nil {
		return errFailed
	}
	if fs.NArg() < 1 {
		return errors.New("usage: objtool info <file.obj>")
	}

	mgr, err := newManager(*charset)
	if err != nil {
		return err
	}
	res, err := mgr.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	lo, hi := res.Model.Bounds()
	st := res.Stats
	fmt.Fprintf(out, "File:       %s\n", res.Path)
	fmt.Fprintf(out, "Lines:      %d\n", st.Lines)
	fmt.Fprintf(out, "Positions:  %d\n", st.Positions)
	fmt.Fprintf(out, "TexCoords:  %d\n", st.TexCoords)
	fmt.Fprintf(out, "Normals:    %d\n", st.Normals)
	fmt.Fprintf(out, "Faces:      %d\n", st.Faces)
	fmt.Fprintf(out, "Triangles:  %d\n", res.Model.TriangleCount())
	fmt.Fprintf(out, "Vertices:   %d\n", len(res.Model.Vertices))
	fmt.Fprintf(out, "Warnings:   %d\n", st.Warnings)
	fmt.Fprintf(out, "Bounds:     (%g, %g, %g) - (%g, %g, %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	fmt.Fprintf(out, "Parsed in:  %s\n", res.Duration)
	return nil
}

func cmdCheck(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	charset := fs.String("encoding", "utf-8", "Text encoding of the OBJ files")
	if err := fs.Parse(args); err != nil {
		return errFailed
	}
	if fs.NArg() < 1 {
		return errors.New("usage: objtool check <file.obj>...")
	}

	mgr, err := newManager(*charset)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range fs.Args() {
		res, err := mgr.Load(path)
		if err != nil {
			fmt.Fprintf(errOut, "FAIL %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d triangles)\n", path, res.Model.TriangleCount())
	}

	if failed > 0 {
		fmt.Fprintf(errOut, "%d of %d files failed\n", failed, fs.NArg())
		return errFailed
	}
	return nil
}

func cmdDump(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	charset := fs.String("encoding", "utf-8", "Text encoding of the OBJ file")
	if err := fs.Parse(args); err != nil {
		return errFailed
	}
	if fs.NArg() < 1 {
		return errors.New("usage: objtool dump <file.obj>")
	}

	mgr, err := newManager(*charset)
	if err != nil {
		return err
	}
	res, err := mgr.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "# %d vertices\n", len(res.Model.Vertices))
	for i, v := range res.Model.Vertices {
		fmt.Fprintf(out, "v %d pos(%g %g %g) color(%g %g %g) uv(%g %g)\n", i,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Color.X, v.Color.Y, v.Color.Z,
			v.TexCoords.X, v.TexCoords.Y)
	}
	tris := res.Model.Triangles()
	fmt.Fprintf(out, "# %d triangles\n", len(tris))
	for i, tri := range tris {
		fmt.Fprintf(out, "t %d %d %d %d\n", i, tri[0], tri[1], tri[2])
	}
	return nil
}

func cmdRender(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	output := fs.String("o", "", "Output image path (default <model>.<format>)")
	size := fs.Int("size", 0, "Image size in pixels (default from config)")
	yaw := fs.Float64("yaw", 0.6, "Rotation around Y, radians")
	pitch := fs.Float64("pitch", 0.4, "Rotation around X, radians")
	texPath := fs.String("texture", "", "Texture image")
	cfgPath := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return errFailed
	}
	if fs.NArg() < 1 {
		return errors.New("usage: objtool render [options] <file.obj>")
	}

	path := *cfgPath
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mgr, err := newManager(cfg.Loader.Encoding)
	if err != nil {
		return err
	}
	res, err := mgr.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	if *size > 0 {
		opts.Size = *size
	}
	opts.Yaw = float32(*yaw)
	opts.Pitch = float32(*pitch)
	if *texPath != "" {
		if opts.Texture, err = texture.Load(*texPath); err != nil {
			return err
		}
	}

	dst := *output
	if dst == "" {
		base := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
		dst = base + "." + cfg.Render.Format
	}

	img, err := raster.Render(res.Model, opts)
	if err != nil {
		return err
	}
	if err := raster.Save(dst, img); err != nil {
		return err
	}

	logger.Named("objtool").Debug("rendered",
		zap.String("model", res.Path),
		zap.String("output", dst),
		zap.Int("size", opts.Size),
	)
	fmt.Fprintf(out, "Wrote %s (%dx%d)\n", dst, opts.Size, opts.Size)
	return nil
}

// renderOptions maps the render and viewer config onto rasterizer options.
func renderOptions(cfg *config.Config) (raster.Options, error) {
	opts := raster.DefaultOptions()
	bg, err := cfg.Render.BackgroundColor()
	if err != nil {
		return opts, err
	}
	opts.Size = cfg.Render.Size
	opts.Distance = cfg.Render.Distance
	opts.FOV = cfg.Viewer.FOV
	opts.Background = bg
	return opts, nil
}

func cmdConfig(args []string, out io.Writer) error {
	path := filepath.Join(config.ConfigDir(), "scop.yaml")
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.Default().SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
	return nil
}
