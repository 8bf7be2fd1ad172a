package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/xref/internal/config"
	"github.com/standardbeagle/xref/internal/debug"
	"github.com/standardbeagle/xref/internal/descriptor"
	"github.com/standardbeagle/xref/internal/indexdb"
	"github.com/standardbeagle/xref/internal/indexing"
	"github.com/standardbeagle/xref/internal/parser"
	"github.com/standardbeagle/xref/internal/version"
	"github.com/standardbeagle/xref/pkg/pathutil"
)

var Version = version.Version

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if d := c.String("descriptor"); d != "" {
		cfg.Descriptor = d
	}
	if o := c.String("output"); o != "" {
		cfg.Output.Path = o
	}
	if w := c.Int("workers"); w > 0 {
		cfg.Performance.Workers = w
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "xref",
		Usage:                  "Build a persistent cross-reference index for source code",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug logging to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.EnableDebug = "true"
				debug.SetDebugOutput(os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Parse every descriptor file and build the global index",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "descriptor",
						Aliases: []string{"d"},
						Usage:   "Build descriptor path (JSON, YAML, or TOML)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output index path",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Extraction workers (0 = one per CPU)",
					},
				},
				Action: runIndex,
			},
			{
				Name:      "dump",
				Usage:     "Print a saved index table as tab-separated resolved tuples",
				ArgsUsage: "INDEX [TABLE]",
				Action:    runDump,
			},
			{
				Name:      "info",
				Usage:     "Show table and string counts of a saved index",
				ArgsUsage: "INDEX",
				Action:    runInfo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIndex(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	records, err := descriptor.Read(cfg.Descriptor)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	extractor := indexing.NewExtractor(parser.New())
	pipeline := indexing.NewPipeline(extractor, cfg.Performance.Workers)
	global, err := pipeline.Run(c.Context, records, cfg.Output.Path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	refs := global.Table(indexing.TableRef)
	fmt.Printf("Indexed %d files, %d references -> %s\n",
		len(records), refs.Len(), pathutil.ToRelative(cfg.Output.Path, cfg.Project.Root))
	return nil
}

func runDump(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: xref dump INDEX [TABLE]", 1)
	}
	ix, err := indexdb.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	tables := ix.TableNames()
	if c.NArg() > 1 {
		tables = []string{c.Args().Get(1)}
	}
	for _, name := range tables {
		if len(tables) > 1 {
			fmt.Printf("-- %s --\n", name)
		}
		if err := ix.ExportTable(name, os.Stdout); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	return nil
}

func runInfo(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: xref info INDEX", 1)
	}
	path := c.Args().Get(0)
	ix, err := indexdb.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("%s\n", path)
	for _, name := range ix.StringTableNames() {
		fmt.Printf("  strings %-8s %d\n", name, ix.StringTable(name).Len())
	}
	for _, name := range ix.TableNames() {
		t := ix.Table(name)
		fmt.Printf("  table   %-8s %d rows x %d columns\n", name, t.Len(), t.Width())
	}
	return nil
}
