// Command rslogo runs Logo turtle-graphics scripts.
//
//	rslogo run <script.lg> <out.svg|out.png> <height> <width> [--palette file]
//	rslogo repl [--width n] [--height n]
//	rslogo version
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/vimbh/rslogo"
)

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	root := &cobra.Command{
		Use:           "rslogo",
		Short:         "A Logo turtle-graphics interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(), replCommand(), versionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
		os.Exit(1)
	}
}

// ───────────────────────────────── run ─────────────────────────────────────

func runCommand() *cobra.Command {
	var palettePath string

	cmd := &cobra.Command{
		Use:   "run <script> <outfile> <height> <width>",
		Short: "Execute a Logo script and write the drawing to an image file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, outfile := args[0], args[1]

			height, err := strconv.Atoi(args[2])
			if err != nil || height <= 0 {
				return fmt.Errorf("height must be a positive integer, received %q", args[2])
			}
			width, err := strconv.Atoi(args[3])
			if err != nil || width <= 0 {
				return fmt.Errorf("width must be a positive integer, received %q", args[3])
			}

			palette := rslogo.DefaultPalette()
			if palettePath != "" {
				palette, err = rslogo.LoadPalette(palettePath)
				if err != nil {
					return err
				}
			}

			save, err := saverFor(outfile)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(script)
			if err != nil {
				return fmt.Errorf("cannot read script: %w", err)
			}

			img := rslogo.NewImage(width, height, palette)
			if err := execute(string(src), rslogo.NewParser(), rslogo.NewInterpreter(img)); err != nil {
				return err
			}
			return save(img, outfile)
		},
	}
	cmd.Flags().StringVar(&palettePath, "palette", "", "TOML file overriding the 16-color palette")
	return cmd
}

// saverFor picks the output encoder from the file extension.
func saverFor(path string) (func(*rslogo.Image, string) error, error) {
	switch filepath.Ext(path) {
	case ".svg":
		return (*rslogo.Image).SaveSVG, nil
	case ".png":
		return (*rslogo.Image).SavePNG, nil
	default:
		return nil, fmt.Errorf("unsupported output extension %q: use .svg or .png", filepath.Ext(path))
	}
}

// execute runs src through the full pipeline, rendering lex and parse
// failures with a source snippet.
func execute(src string, p *rslogo.Parser, in *rslogo.Interpreter) error {
	tokens, err := rslogo.Lex(src)
	if err != nil {
		return rslogo.WrapErrorWithSource(err, src)
	}
	ast, err := p.Parse(tokens)
	if err != nil {
		return rslogo.WrapErrorWithSource(err, src)
	}
	return in.Run(ast)
}

// ───────────────────────────────── repl ────────────────────────────────────

func replCommand() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive turtle session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl(width, height)
		},
	}
	cmd.Flags().IntVar(&width, "width", 512, "canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 512, "canvas height in pixels")
	return cmd
}

// historyFile returns the REPL history path in the user's home directory,
// falling back to the temp dir when no home is known.
func historyFile() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".rslogo_history")
}

func repl(width, height int) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFile()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(bannerStyle.Render(fmt.Sprintf("rslogo %s — %dx%d canvas", rslogo.Version, width, height)))
	fmt.Println(noteStyle.Render(`type Logo statements, ":save <file>" to export, ":quit" to leave`))

	img := rslogo.NewImage(width, height, rslogo.DefaultPalette())
	parser := rslogo.NewParser()
	interp := rslogo.NewInterpreter(img)

	for {
		input, err := line.Prompt("rslogo> ")
		if err != nil {
			// liner.ErrPromptAborted on Ctrl-C, io.EOF on Ctrl-D.
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(strings.TrimSpace(input), ":") {
			if done := replCommandLine(strings.TrimSpace(input), img); done {
				return nil
			}
			continue
		}

		// Parser and interpreter persist across submissions, so
		// procedures and variables defined earlier stay usable.
		if err := execute(input, parser, interp); err != nil {
			fmt.Println(errStyle.Render(err.Error()))
			continue
		}
		x, y := interp.Position()
		fmt.Println(noteStyle.Render(fmt.Sprintf("turtle at (%g, %g) heading %g", x, y, interp.Heading())))
	}
}

// replCommandLine handles ":"-prefixed session commands. It reports whether
// the session should end.
func replCommandLine(input string, img *rslogo.Image) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":save":
		if len(fields) != 2 {
			fmt.Println(errStyle.Render("usage: :save <file.svg|file.png>"))
			return false
		}
		save, err := saverFor(fields[1])
		if err != nil {
			fmt.Println(errStyle.Render(err.Error()))
			return false
		}
		if err := save(img, fields[1]); err != nil {
			fmt.Println(errStyle.Render(err.Error()))
			return false
		}
		fmt.Println(noteStyle.Render("saved " + fields[1]))
		return false
	default:
		fmt.Println(errStyle.Render("unknown command " + fields[0]))
		return false
	}
}

// ──────────────────────────────── version ──────────────────────────────────

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rslogo version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("rslogo", rslogo.Version)
		},
	}
}
