// surftool is a CLI utility for inspecting and exporting the surface mesh.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/Faultbox/surfview/internal/config"
	"github.com/Faultbox/surfview/internal/export"
	"github.com/Faultbox/surfview/pkg/surface"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "export":
		err = cmdExport(os.Stdout, args)
	case "sample":
		err = cmdSample(os.Stdout, args)
	case "config":
		err = cmdConfig(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`surftool - pseudospherical surface mesh utility

Usage:
  surftool <command> [options]

Commands:
  info   [grid flags]                Show grid size, buffer sizes and height range
  export [grid flags] <out.gltf|glb> Write the mesh as glTF 2.0
  sample [-derivative d] <u> <v>     Print both vertices at (u, v) degrees
  config [path]                      Write the default viewer config

Grid flags:
  -step 0.5  -min -180  -max 180  -h 0.0001  -derivative legacy|radians

Examples:
  surftool info -step 1
  surftool export -step 2 surface.glb
  surftool sample 45 -30`)
}

// gridFlags registers the sampling flags on fs and returns a function that
// builds validated parameters after fs.Parse.
func gridFlags(fs *flag.FlagSet) func() (surface.Params, error) {
	def := surface.DefaultParams()
	step := fs.Float64("step", def.Step, "Sampling step in degrees")
	lo := fs.Float64("min", def.UMin, "Lower bound of u and v in degrees")
	hi := fs.Float64("max", def.UMax, "Upper bound of u and v in degrees")
	h := fs.Float64("h", def.H, "Forward-difference offset")
	mode := fs.String("derivative", def.Derivative.String(), "Derivative units: legacy or radians")

	return func() (surface.Params, error) {
		d, err := surface.ParseDerivativeMode(*mode)
		if err != nil {
			return surface.Params{}, err
		}
		p := surface.Params{
			UMin:       *lo,
			UMax:       *hi,
			VMin:       *lo,
			VMax:       *hi,
			Step:       *step,
			H:          *h,
			Derivative: d,
		}
		return p, p.Validate()
	}
}

func cmdInfo(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	params := gridFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := params()
	if err != nil {
		return err
	}

	mesh, err := surface.Generate(p)
	if err != nil {
		return err
	}
	nU, nV := surface.GridSize(p)

	zMin, zMax := math.Inf(1), math.Inf(-1)
	for i := 2; i < len(mesh.Positions); i += 3 {
		z := float64(mesh.Positions[i])
		zMin = math.Min(zMin, z)
		zMax = math.Max(zMax, z)
	}

	bytes := 4 * (len(mesh.Positions) + len(mesh.Normals) + len(mesh.TexCoords))
	fmt.Fprintf(w, "Grid:       u [%g, %g) x v [%g, %g] step %g°\n", p.UMin, p.UMax, p.VMin, p.VMax, p.Step)
	fmt.Fprintf(w, "Samples:    %d x %d\n", nU, nV)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Buffers:    %.2f MB\n", float64(bytes)/(1024*1024))
	fmt.Fprintf(w, "Height:     [%.4f, %.4f]\n", zMin, zMax)
	fmt.Fprintf(w, "Derivative: %s\n", p.Derivative)
	return nil
}

func cmdExport(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	params := gridFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: surftool export [grid flags] <out.gltf|out.glb>")
	}
	p, err := params()
	if err != nil {
		return err
	}

	mesh, err := surface.Generate(p)
	if err != nil {
		return err
	}
	out := fs.Arg(0)
	if err := export.WriteGLTF(mesh, out); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d vertices to %s\n", mesh.VertexCount(), out)
	return nil
}

func cmdSample(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	params := gridFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: surftool sample [-derivative d] <u> <v>")
	}
	u, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		return fmt.Errorf("u: %w", err)
	}
	v, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("v: %w", err)
	}
	p, err := params()
	if err != nil {
		return err
	}

	ur, vr := surface.Radians(u), surface.Radians(v)
	dfdu, dfdv := surface.Partials(ur, vr, p.H, p.Derivative)
	plus, minus := surface.Sample(p, u, v)

	fmt.Fprintf(w, "f(%g°, %g°) = %.6f\n", u, v, surface.F(ur, vr))
	fmt.Fprintf(w, "df/du = %.6f  df/dv = %.6f (%s)\n", dfdu, dfdv, p.Derivative)
	for _, s := range []struct {
		name string
		v    surface.Vertex
	}{{"+", plus}, {"-", minus}} {
		fmt.Fprintf(w, "%s position %v normal %v uv %v\n", s.name, s.v.Position, s.v.Normal, s.v.TexCoord)
	}
	return nil
}

func cmdConfig(w io.Writer, args []string) error {
	cfg := config.Default()
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote default config to %s\n", args[0])
		return nil
	}
	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote default config to %s\n", path)
	return nil
}
