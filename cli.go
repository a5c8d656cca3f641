package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"blueprint/internal/errors"
	"blueprint/internal/project"
	"blueprint/internal/scene"
)

// newCLIApp creates the CLI application. Without a command it opens the
// editor.
func newCLIApp(cfg *Config) *cli.App {
	app := &cli.App{
		Name:      "blueprint",
		Usage:     "Draw floor plans in the terminal",
		Version:   Version,
		ArgsUsage: "[project.json]",
		Action: func(c *cli.Context) error {
			opts := editorOptions{config: cfg}
			if path := c.Args().First(); path != "" {
				doc, err := project.LoadFile(path)
				switch {
				case err == nil:
					opts.doc = doc
				case stderrors.Is(err, fs.ErrNotExist):
				default:
					return outputError(err)
				}
				opts.filename = path
				opts.projectName = stripExt(path)
			}
			return runEditor(cfg, opts)
		},
		Commands: []*cli.Command{
			renderCmd(),
			layersCmd(),
			projectsCmd(cfg),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// runEditor starts the terminal editor. Logs go to a file so the alternate
// screen stays clean.
func runEditor(cfg *Config, opts editorOptions) error {
	logFile, err := os.OpenFile(cfg.GetSavePath(logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return outputError(fmt.Errorf("open log: %w", err))
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts.logger = logger

	if opts.store == nil {
		store, err := project.OpenStore(cfg.GetStoreDirectory())
		if err != nil {
			logger.Warn("project store unavailable", slog.Any("err", err))
		} else {
			defer store.Close()
			opts.store = store
		}
	}

	m, err := newModel(opts)
	if err != nil {
		return outputError(err)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// loadEngine builds a headless engine holding doc.
func loadEngine(doc *project.Document, width, height int) (*scene.Engine, scene.ImportReport, error) {
	e, err := scene.New(scene.Options{Width: width, Height: height})
	if err != nil {
		return nil, scene.ImportReport{}, err
	}
	report, err := e.ImportData(doc)
	if err != nil {
		return nil, report, err
	}
	return e, report, nil
}

// renderCmd creates the render command.
func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a project file to PNG",
		ArgsUsage: "<project.json> <out.png>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 1200, Usage: "Image width in pixels"},
			&cli.IntFlag{Name: "height", Value: 900, Usage: "Image height in pixels"},
			&cli.BoolFlag{Name: "fit", Value: true, Usage: "Zoom to fit the drawing"},
			&cli.BoolFlag{Name: "grid", Usage: "Draw the grid (defaults to the project setting)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: blueprint render <project.json> <out.png>", 1)
			}
			doc, err := project.LoadFile(c.Args().Get(0))
			if err != nil {
				return outputError(err)
			}
			e, report, err := loadEngine(doc, c.Int("width"), c.Int("height"))
			if err != nil {
				return outputError(err)
			}
			if c.Bool("fit") {
				e.FitToScreen()
			}
			if c.IsSet("grid") {
				e.SetGridVisible(c.Bool("grid"))
			}
			out := c.Args().Get(1)
			if err := e.SavePNG(out); err != nil {
				return outputError(err)
			}
			if len(report.Skipped) > 0 {
				fmt.Fprintf(c.App.ErrWriter, "skipped %d unknown shapes: %v\n", len(report.Skipped), report.Skipped)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s (%d shapes)\n", out, report.Loaded)
			return nil
		},
	}
}

// layersCmd creates the layers command.
func layersCmd() *cli.Command {
	return &cli.Command{
		Name:      "layers",
		Usage:     "Show the layers of a project file",
		ArgsUsage: "<project.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the layer snapshot as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: blueprint layers <project.json>", 1)
			}
			doc, err := project.LoadFile(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			e, _, err := loadEngine(doc, 1, 1)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, e.Layers().Export())
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tVISIBLE\tLOCKED\tOPACITY\tSHAPES\tACTIVE")
			active := e.Layers().ActiveID()
			for _, l := range e.Layers().Layers() {
				mark := ""
				if l.ID == active {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%.2f\t%d\t%s\n", l.ID, l.Name, l.Visible, l.Locked, l.Opacity, l.Len(), mark)
			}
			return tw.Flush()
		},
	}
}

// projectsCmd creates the projects command and its subcommands.
func projectsCmd(cfg *Config) *cli.Command {
	openStore := func() (*project.Store, error) {
		return project.OpenStore(cfg.GetStoreDirectory())
	}
	return &cli.Command{
		Name:  "projects",
		Usage: "Manage projects kept in the local store",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored projects",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print as JSON"},
				},
				Action: func(c *cli.Context) error {
					store, err := openStore()
					if err != nil {
						return outputError(err)
					}
					defer store.Close()
					entries, err := store.List()
					if err != nil {
						return outputError(err)
					}
					if c.Bool("json") {
						return outputJSON(c.App.Writer, entries)
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tSIZE\tUPDATED\tID")
					for _, entry := range entries {
						fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", entry.Name, entry.Size, entry.UpdatedAt.Format("2006-01-02 15:04"), entry.ID)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "open",
				Usage:     "Open a stored project in the editor",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("usage: blueprint projects open <name>", 1)
					}
					store, err := openStore()
					if err != nil {
						return outputError(err)
					}
					defer store.Close()
					doc, err := store.Load(name)
					if err != nil {
						return outputError(err)
					}
					return runEditor(cfg, editorOptions{
						config:      cfg,
						store:       store,
						doc:         doc,
						filename:    cfg.GetSavePath(withExt(name, projectExt)),
						projectName: name,
					})
				},
			},
			{
				Name:      "import",
				Usage:     "Copy a project file into the store",
				ArgsUsage: "<project.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Stored name (defaults to the file name)"},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return cli.Exit("usage: blueprint projects import <project.json>", 1)
					}
					doc, err := project.LoadFile(path)
					if err != nil {
						return outputError(err)
					}
					name := c.String("name")
					if name == "" {
						name = stripExt(path)
					}
					store, err := openStore()
					if err != nil {
						return outputError(err)
					}
					defer store.Close()
					id, err := store.Save(name, doc)
					if err != nil {
						return outputError(err)
					}
					fmt.Fprintf(c.App.Writer, "stored %s (%s)\n", name, id)
					return nil
				},
			},
			{
				Name:      "export",
				Usage:     "Write a stored project to a file",
				ArgsUsage: "<name> <project.json>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: blueprint projects export <name> <project.json>", 1)
					}
					store, err := openStore()
					if err != nil {
						return outputError(err)
					}
					defer store.Close()
					doc, err := store.Load(c.Args().Get(0))
					if err != nil {
						return outputError(err)
					}
					if err := project.SaveFile(c.Args().Get(1), doc); err != nil {
						return outputError(err)
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", c.Args().Get(1))
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a stored project",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("usage: blueprint projects delete <name>", 1)
					}
					store, err := openStore()
					if err != nil {
						return outputError(err)
					}
					defer store.Close()
					if err := store.Delete(name); err != nil {
						return outputError(err)
					}
					fmt.Fprintf(c.App.Writer, "deleted %s\n", name)
					return nil
				},
			},
		},
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the command line.
func outputError(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return cli.Exit(fmt.Sprintf("[%s] %s", e.Code, e.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
