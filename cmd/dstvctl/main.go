// dstvctl is the command-line front end over the format engine: import an
// NC1 file to a pivot-scene summary, detect a file's format, re-emit NC1,
// and list registered formats. Exit codes: 0 clean,
// 1 success with warnings, 2 import failure, 3 unknown format,
// 4 cancelled or timed out, 5 invalid plugin.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/stubformats"
	"github.com/topsteelcad/dstv-engine/pkg/dstv"
	"github.com/topsteelcad/dstv-engine/pkg/engine"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

const (
	exitOK             = 0
	exitWarnings       = 1
	exitImportFailure  = 2
	exitUnknownFormat  = 3
	exitCancelled      = 4
	exitInvalidPlugin  = 5
)

func newEngine(cCtx *cli.Context) (*engine.Engine, error) {
	opts := engine.DefaultOptions()
	if v := cCtx.Int("max-jobs"); v > 0 {
		opts.MaxConcurrentJobs = v
	}
	if v := cCtx.String("log-level"); v != "" {
		opts.LogLevel = v
	}
	e := engine.New(opts)

	dstvOpts := dstv.DefaultOptions()
	dstvOpts.Strict = cCtx.Bool("strict")
	if err := dstv.Register(e, dstvOpts); err != nil {
		return nil, cli.Exit(fmt.Sprintf("registering dstv plugin: %v", err), exitInvalidPlugin)
	}
	if err := stubformats.RegisterAll(e); err != nil {
		return nil, cli.Exit(fmt.Sprintf("registering stub plugins: %v", err), exitInvalidPlugin)
	}
	return e, nil
}

func exitCodeFor(errs []error) int {
	code := exitImportFailure
	for _, err := range errs {
		switch e := err.(type) {
		case *diag.UnknownFormatError, *diag.CannotDetectFormatError:
			return exitUnknownFormat
		case *diag.PluginValidationError:
			return exitInvalidPlugin
		case *diag.Error:
			if e.Kind == diag.KindResource {
				return exitCancelled
			}
		}
		if err == diag.ErrCancelled || err == diag.ErrTimedOut {
			return exitCancelled
		}
	}
	return code
}

// sceneSummary is the JSON shape `dstvctl import` prints.
type sceneSummary struct {
	Designation string         `json:"designation"`
	Grade       string         `json:"grade"`
	Category    string         `json:"category"`
	Length      float64        `json:"length"`
	Features    []featureLine  `json:"features"`
	Vertices    int            `json:"vertices"`
	Warnings    []string       `json:"warnings,omitempty"`
}

type featureLine struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	Face string  `json:"face"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func summarise(scene *pivot.Scene, warnings []error) []sceneSummary {
	var out []sceneSummary
	for _, p := range scene.Parts {
		s := sceneSummary{
			Designation: p.Designation,
			Grade:       p.Grade,
			Category:    p.Category.String(),
			Length:      p.Length,
			Vertices:    p.Solid.VertexCount(),
		}
		for _, f := range p.Features {
			s.Features = append(s.Features, featureLine{
				ID: f.ID, Kind: f.Kind.String(), Face: f.Face.String(),
				X: f.Position.X, Y: f.Position.Y,
			})
		}
		for _, w := range warnings {
			s.Warnings = append(s.Warnings, w.Error())
		}
		out = append(out, s)
	}
	return out
}

func importAction(cCtx *cli.Context) error {
	path := cCtx.String("file")
	if path == "" {
		return cli.Exit("no input file given", exitImportFailure)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading %s: %v", path, err), exitImportFailure)
	}

	e, err := newEngine(cCtx)
	if err != nil {
		return err
	}
	defer e.Close()

	res := e.Import(context.Background(), data, engine.ImportOptions{
		Format:    cCtx.String("format"),
		Filename:  filepath.Base(path),
		Strict:    cCtx.Bool("strict"),
		TimeoutMS: cCtx.Int("timeout-ms"),
	})
	if !res.Success {
		for _, e := range res.Errors {
			log.Println("error:", e)
		}
		return cli.Exit(fmt.Sprintf("import of %s failed", path), exitCodeFor(res.Errors))
	}
	defer res.Scene.Release()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summarise(res.Scene, res.Warnings)); err != nil {
		return cli.Exit(err.Error(), exitImportFailure)
	}

	if out := cCtx.String("emit"); out != "" {
		exp := e.Export(context.Background(), res.Scene, "dstv", engine.ExportOptions{})
		if !exp.Success {
			return cli.Exit("re-emission failed", exitCodeFor(exp.Errors))
		}
		if err := os.WriteFile(out, exp.Data, 0o644); err != nil {
			return cli.Exit(err.Error(), exitImportFailure)
		}
	}

	if cCtx.Bool("stats") {
		snap := e.Metrics()
		fmt.Fprintf(os.Stderr, "imports: %d (avg %.1f ms)  exports: %d (avg %.1f ms)\n",
			snap.TotalImports, snap.AverageImportMillis, snap.TotalExports, snap.AverageExportMillis)
	}

	if len(res.Warnings) > 0 {
		for _, w := range res.Warnings {
			log.Println("warning:", w)
		}
		return cli.Exit("", exitWarnings)
	}
	return nil
}

func detectAction(cCtx *cli.Context) error {
	path := cCtx.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading %s: %v", path, err), exitImportFailure)
	}
	e, err := newEngine(cCtx)
	if err != nil {
		return err
	}
	defer e.Close()

	id, err := e.DetectFormat(data, filepath.Base(path))
	if err != nil {
		return cli.Exit(err.Error(), exitUnknownFormat)
	}
	fmt.Println(id)
	return nil
}

func formatsAction(cCtx *cli.Context) error {
	e, err := newEngine(cCtx)
	if err != nil {
		return err
	}
	defer e.Close()

	for _, info := range e.SupportedFormats() {
		caps, _ := e.Capabilities(info.ID)
		direction := "import"
		if caps.Export != nil {
			direction = "import+export"
		}
		fmt.Printf("%-6s %-28s %s %v\n", info.ID, info.Name, direction, info.Extensions)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "dstvctl",
		Usage: "import, detect and re-emit DSTV NC1 steel part files",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "promote validation warnings to errors"},
			&cli.IntFlag{Name: "max-jobs", Usage: "maximum concurrent import/export jobs"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "parse an NC1 file and print a pivot-scene summary",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "path to the input file", Required: true},
					&cli.StringFlag{Name: "format", Usage: "skip auto-detection and use this format id"},
					&cli.IntFlag{Name: "timeout-ms", Usage: "per-job timeout in milliseconds"},
					&cli.StringFlag{Name: "emit", Usage: "re-emit the imported scene as NC1 to this path"},
					&cli.BoolFlag{Name: "stats", Usage: "print engine counters after the job"},
				},
				Action: importAction,
			},
			{
				Name:  "detect",
				Usage: "print the detected format id of a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "path to the input file", Required: true},
				},
				Action: detectAction,
			},
			{
				Name:   "formats",
				Usage:  "list registered format plugins",
				Action: formatsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
