// Command geomkit is the CLI tool for the geomkit geometry toolkit.
// It provides commands for converting between formats, detecting formats,
// inspecting geometries, managing a geometry store, and serving the REST API.
package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
	"github.com/geomkit/geomkit/internal/api"
	"github.com/geomkit/geomkit/internal/archive"
	"github.com/geomkit/geomkit/internal/store"
	"github.com/geomkit/geomkit/internal/validation"

	// Import the embedded registry to register all built-in codecs.
	_ "github.com/geomkit/geomkit/internal/embedded"
)

const version = "0.1.0"

// CLI defines the command-line interface for geomkit.
var CLI struct {
	Convert ConvertCmd `cmd:"" help:"Convert a geometry between formats"`
	Detect  DetectCmd  `cmd:"" help:"Detect the format of input data"`
	Info    InfoCmd    `cmd:"" help:"Inspect a geometry and print its properties"`
	Store   StoreGroup `cmd:"" help:"Geometry store operations"`
	Serve   ServeCmd   `cmd:"" help:"Start the REST API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// StoreGroup contains geometry store operations.
type StoreGroup struct {
	Put    StorePutCmd    `cmd:"" help:"Store a geometry, deduplicating by content"`
	Get    StoreGetCmd    `cmd:"" help:"Retrieve a stored geometry"`
	List   StoreListCmd   `cmd:"" help:"List stored geometries"`
	Delete StoreDeleteCmd `cmd:"" help:"Delete a stored geometry"`
	Export StoreExportCmd `cmd:"" help:"Export all stored geometries to a directory"`
	Import StoreImportCmd `cmd:"" help:"Import geometries from a tar bundle"`
	Bundle StoreBundleCmd `cmd:"" help:"Write all stored geometries to a tar bundle"`
}

// xzMagic and gzipMagic identify compressed input by its leading bytes.
var (
	xzMagic   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	gzipMagic = []byte{0x1F, 0x8B}
)

// readInput reads from path, or stdin when path is empty or "-".
// Compressed input (xz or gzip) is decompressed transparently.
func readInput(path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return decompress(data)
}

// decompress unwraps xz or gzip framing when present. Plain data passes
// through unchanged.
func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, xzMagic):
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening xz stream: %w", err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing xz stream: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing gzip stream: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// writeOutput writes data to path, or stdout when path is empty or "-".
// With compress set the output is wrapped in an xz stream.
func writeOutput(path string, data []byte, compress bool) error {
	if compress {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("creating xz stream: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("compressing output: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("closing xz stream: %w", err)
		}
		data = buf.Bytes()
	}
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// decodeInput parses data in the given format, detecting it when from is
// empty. The detection hint (e.g. hex framing) is appended to the read
// arguments so binary formats decode correctly.
func decodeInput(data []byte, from string, args []string) (geom.Geometry, string, error) {
	readArgs := args
	if from == "" {
		var hint string
		from, hint = geomio.Detect(data)
		if from == "" {
			return nil, "", fmt.Errorf("could not detect input format")
		}
		if hint != "" {
			readArgs = append(readArgs[:len(readArgs):len(readArgs)], hint)
		}
	}
	g, err := geomio.DecodeFormat(data, from, readArgs...)
	if err != nil {
		return nil, "", err
	}
	return g, from, nil
}

// ConvertCmd converts a geometry from one format to another.
type ConvertCmd struct {
	Path     string   `arg:"" optional:"" help:"Input file (default: stdin)"`
	From     string   `name:"from" short:"f" help:"Input format (default: auto-detect)"`
	To       string   `name:"to" short:"t" required:"" help:"Output format"`
	Out      string   `name:"out" short:"o" help:"Output file (default: stdout)"`
	Args     []string `name:"arg" help:"Codec argument (repeatable, e.g. hex)"`
	Compress bool     `name:"compress" help:"Compress output with xz"`
}

// Run executes the convert command.
func (c *ConvertCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}

	g, _, err := decodeInput(data, c.From, c.Args)
	if err != nil {
		return err
	}

	out, err := geomio.Encode(g, c.To, c.Args...)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, out, c.Compress)
}

// DetectCmd reports the format of input data without parsing it fully.
type DetectCmd struct {
	Path string `arg:"" optional:"" help:"Input file (default: stdin)"`
}

// Run executes the detect command.
func (d *DetectCmd) Run() error {
	data, err := readInput(d.Path)
	if err != nil {
		return err
	}

	format, hint := geomio.Detect(data)
	if format == "" {
		fmt.Printf("Format: unknown\n")
		return nil
	}
	fmt.Printf("Format: %s\n", format)
	if hint != "" {
		fmt.Printf("Variant: %s\n", hint)
	}
	return nil
}

// InfoCmd inspects a geometry and prints its properties.
type InfoCmd struct {
	Path string   `arg:"" optional:"" help:"Input file (default: stdin)"`
	From string   `name:"from" short:"f" help:"Input format (default: auto-detect)"`
	Args []string `name:"arg" help:"Codec argument (repeatable)"`
}

// Run executes the info command.
func (i *InfoCmd) Run() error {
	data, err := readInput(i.Path)
	if err != nil {
		return err
	}

	g, format, err := decodeInput(data, i.From, i.Args)
	if err != nil {
		return err
	}

	fmt.Printf("Type: %s\n", g.GeomType())
	fmt.Printf("  Format: %s\n", format)
	fmt.Printf("  SRID: %d\n", g.SRID())
	fmt.Printf("  Dimensions: %s\n", dimensions(g))
	fmt.Printf("  Empty: %t\n", g.IsEmpty())
	if bbox := g.BBox(); bbox != nil {
		fmt.Printf("  BBox: (%g %g, %g %g)\n", bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)
	}
	fp, err := geomio.Fingerprint(g)
	if err != nil {
		return err
	}
	fmt.Printf("  Fingerprint: %s\n", fp)
	return nil
}

// dimensions renders the coordinate dimensions of a geometry as XY, XYZ,
// XYM, or XYZM.
func dimensions(g geom.Geometry) string {
	d := "XY"
	if g.Is3D() {
		d += "Z"
	}
	if g.IsMeasured() {
		d += "M"
	}
	return d
}

// StorePutCmd stores a geometry in the store.
type StorePutCmd struct {
	Path string   `arg:"" optional:"" help:"Input file (default: stdin)"`
	From string   `name:"from" short:"f" help:"Input format (default: auto-detect)"`
	Args []string `name:"arg" help:"Codec argument (repeatable)"`
	DB   string   `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store put command.
func (s *StorePutCmd) Run() error {
	data, err := readInput(s.Path)
	if err != nil {
		return err
	}

	g, _, err := decodeInput(data, s.From, s.Args)
	if err != nil {
		return err
	}

	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	id, existed, err := st.Put(g)
	if err != nil {
		return err
	}

	fp, err := geomio.Fingerprint(g)
	if err != nil {
		return err
	}

	if existed {
		fmt.Printf("Already stored: %s\n", id)
	} else {
		fmt.Printf("Stored: %s\n", id)
	}
	fmt.Printf("  Type: %s\n", g.GeomType())
	fmt.Printf("  Fingerprint: %s\n", fp)
	return nil
}

// StoreGetCmd retrieves a stored geometry by ID.
type StoreGetCmd struct {
	ID     string   `arg:"" help:"Geometry ID"`
	Format string   `name:"format" default:"geojson" help:"Output format"`
	Args   []string `name:"arg" help:"Codec argument (repeatable)"`
	Out    string   `name:"out" short:"o" help:"Output file (default: stdout)"`
	DB     string   `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store get command.
func (s *StoreGetCmd) Run() error {
	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.Get(s.ID)
	if err != nil {
		return err
	}

	out, err := geomio.Encode(g, s.Format, s.Args...)
	if err != nil {
		return err
	}
	return writeOutput(s.Out, out, false)
}

// StoreListCmd lists stored geometries.
type StoreListCmd struct {
	DB string `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store list command.
func (s *StoreListCmd) Run() error {
	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List()
	if err != nil {
		return err
	}

	fmt.Printf("Geometries: %d\n", len(entries))
	for _, e := range entries {
		tag := e.Tag
		if e.IsEmpty {
			tag += " (empty)"
		}
		fmt.Printf("  %s  %-24s srid=%-6d %6d bytes  %s\n", e.ID, tag, e.SRID, e.Size, e.CreatedAt)
	}
	return nil
}

// StoreDeleteCmd deletes a stored geometry by ID.
type StoreDeleteCmd struct {
	ID string `arg:"" help:"Geometry ID"`
	DB string `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store delete command.
func (s *StoreDeleteCmd) Run() error {
	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(s.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", s.ID)
	return nil
}

// StoreExportCmd exports every stored geometry to a directory, one file
// per geometry named by its ID.
type StoreExportCmd struct {
	Dir    string   `arg:"" help:"Output directory" type:"path"`
	Format string   `name:"format" default:"geojson" help:"Export format"`
	Args   []string `name:"arg" help:"Codec argument (repeatable)"`
	DB     string   `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store export command.
func (s *StoreExportCmd) Run() error {
	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	exports, err := st.ExportAll(s.Format, s.Args...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, e := range exports {
		name := e.ID + "." + exportExtension(s.Format)
		// IDs and format tags come from the database, not this process,
		// so the derived name is checked before it reaches the filesystem.
		if err := validation.ValidateFilename(name); err != nil {
			return fmt.Errorf("export name %q: %w", name, err)
		}
		path := filepath.Join(s.Dir, name)
		if err := os.WriteFile(path, e.Data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Printf("Exported: %d geometries to %s\n", len(exports), s.Dir)
	return nil
}

// exportExtension maps a format tag to a file extension. Binary formats
// keep their tag as-is; the JSON alias maps to geojson.
func exportExtension(format string) string {
	if format == "json" {
		return "geojson"
	}
	return strings.ToLower(format)
}

// StoreImportCmd imports every geometry file in a tar bundle into the
// store. Entries that fail to parse are skipped and counted.
type StoreImportCmd struct {
	Path string `arg:"" help:"Bundle path (.tar, .tar.gz, .tgz, or .tar.xz)" type:"existingfile"`
	DB   string `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store import command.
func (s *StoreImportCmd) Run() error {
	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	var stored, existing, skipped int
	err = archive.Walk(s.Path, func(header *tar.Header, content io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg {
			return false, nil
		}
		data, err := io.ReadAll(content)
		if err != nil {
			return true, fmt.Errorf("reading %s: %w", header.Name, err)
		}

		g, _, err := decodeInput(data, "", nil)
		if err != nil {
			skipped++
			return false, nil
		}
		_, existed, err := st.Put(g)
		if err != nil {
			return true, fmt.Errorf("storing %s: %w", header.Name, err)
		}
		if existed {
			existing++
		} else {
			stored++
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported: %s\n", s.Path)
	fmt.Printf("  Stored: %d\n", stored)
	fmt.Printf("  Existing: %d\n", existing)
	fmt.Printf("  Skipped: %d\n", skipped)
	return nil
}

// StoreBundleCmd writes every stored geometry into a tar bundle, one
// entry per geometry named by its ID.
type StoreBundleCmd struct {
	Out    string   `arg:"" help:"Bundle path (.tar, .tar.gz, .tgz, or .tar.xz)" type:"path"`
	Format string   `name:"format" default:"geojson" help:"Bundle entry format"`
	Args   []string `name:"arg" help:"Codec argument (repeatable)"`
	DB     string   `name:"db" default:"geomkit.db" type:"path" help:"Store database path"`
}

// Run executes the store bundle command.
func (s *StoreBundleCmd) Run() error {
	st, err := store.Open(s.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	exports, err := st.ExportAll(s.Format, s.Args...)
	if err != nil {
		return err
	}

	w, err := archive.NewWriter(s.Out)
	if err != nil {
		return err
	}
	for _, e := range exports {
		if err := w.Add(e.ID+"."+exportExtension(s.Format), e.Data); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Printf("Bundled: %d geometries to %s\n", len(exports), s.Out)
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port    int      `name:"port" default:"8080" help:"Port to listen on"`
	DB      string   `name:"db" type:"path" help:"Store database path (store endpoints disabled when unset)"`
	Origins []string `name:"origin" help:"Allowed CORS origin (repeatable, default: all)"`
}

// Run executes the serve command.
func (s *ServeCmd) Run() error {
	cfg := api.Config{
		Port:           s.Port,
		StorePath:      s.DB,
		AllowedOrigins: s.Origins,
	}
	return api.Start(cfg)
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run executes the version command.
func (v *VersionCmd) Run() error {
	fmt.Printf("geomkit version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("geomkit"),
		kong.Description("geomkit - vector geometry conversion toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
