package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/termfx/pinpoint/config"
	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/db"
	"github.com/termfx/pinpoint/editor"
)

// Version is set at build time.
var Version = "dev"

var (
	rootFlag     string
	noDataDelete bool
	noAudit      bool
	debugMode    bool

	// Descriptor flags, shared by every edit command.
	descFile      string
	descTag       string
	descElemTag   string
	descText      string
	descClass     string
	descComponent string
	descOwnerFile string
	forceGlobal   bool
)

var rootCmd = &cobra.Command{
	Use:   "pinpoint",
	Short: "Map clicked page elements back to their JSX source and edit them in place",
	Long: `Pinpoint takes the visual fingerprint of a clicked element (tag, text,
class list, owning component) and resolves it to the exact syntax node in a
React/Next.js project that produced it, then applies small, undoable edits:
text replacement, Tailwind color/font changes, and element deletion.

Every command prints a JSON result on stdout. Edits to shared component
files are blocked with a warning unless --force is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlag, "root", "r", "", "Project root (default: PINPOINT_ROOT or the working directory)")
	pf.BoolVar(&noDataDelete, "no-data-delete", false, "Never fall back to deleting entries from data-array literals")
	pf.BoolVar(&noAudit, "no-audit", false, "Skip the SQLite audit trail")
	pf.BoolVar(&debugMode, "debug", false, "Verbose logging on stderr")
	rootCmd.Version = Version

	for _, cmd := range []*cobra.Command{textCmd, colorCmd, fontSizeCmd, fontCmd, deleteCmd, resolveCmd} {
		f := cmd.Flags()
		f.StringVar(&descFile, "file", "", "Page file the click happened in, relative to the root (required)")
		f.StringVar(&descTag, "tag", "", "Rendered tag or component name, e.g. h1 or Card (required)")
		f.StringVar(&descElemTag, "element-tag", "", "Underlying HTML tag when --tag names a component")
		f.StringVar(&descText, "text", "", "Visible text of the clicked element")
		f.StringVar(&descClass, "class", "", "Rendered class attribute of the clicked element")
		f.StringVar(&descComponent, "component", "", "Owning component name, when known")
		f.StringVar(&descOwnerFile, "owner-file", "", "Owning component's file, when known")
		f.BoolVar(&forceGlobal, "force", false, "Edit shared component definitions even when risky")
		_ = cmd.MarkFlagRequired("file")
		_ = cmd.MarkFlagRequired("tag")
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(undoCmd, lastActionCmd)
}

var textCmd = &cobra.Command{
	Use:   "text <old> <new>",
	Short: "Replace the element's text content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		return emit(e.UpdateText(cmd.Context(), descriptor(), args[0], args[1]))
	},
}

var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Swap Tailwind color tokens on the element",
	Long: `Swap Tailwind color tokens on one or more axes. Each axis takes an
old=new pair of full class tokens, e.g.:

  pinpoint color --file app/page.tsx --tag h1 --text Welcome \
      --text-color text-gray-900=text-blue-600 --bg bg-white=bg-slate-50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var update editor.ColorUpdate
		var err error
		if update.Text, err = colorPair(cmd, "text-color"); err != nil {
			return err
		}
		if update.Background, err = colorPair(cmd, "bg"); err != nil {
			return err
		}
		if update.Border, err = colorPair(cmd, "border"); err != nil {
			return err
		}
		if update.Text == nil && update.Background == nil && update.Border == nil {
			return fmt.Errorf("at least one of --text-color, --bg, --border is required")
		}

		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		return emit(e.UpdateColors(cmd.Context(), descriptor(), update))
	},
}

var fontSizeCmd = &cobra.Command{
	Use:   "font-size <old> <new>",
	Short: "Replace the element's Tailwind font-size token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		return emit(e.UpdateFontSize(cmd.Context(), descriptor(), args[0], args[1]))
	},
}

var fontCmd = &cobra.Command{
	Use:   "font <old> <new>",
	Short: "Replace the element's font-family token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		return emit(e.UpdateFontFamily(cmd.Context(), descriptor(), args[0], args[1]))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the element, or its backing data-array entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		return emit(e.DeleteElement(cmd.Context(), descriptor()))
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Report where an edit would land without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		return emit(e.Resolve(cmd.Context(), descriptor()))
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the most recent edit",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		res := e.Undo()
		if err := printJSON(res); err != nil {
			return err
		}
		if !res.Success {
			os.Exit(1)
		}
		return nil
	},
}

var lastActionCmd = &cobra.Command{
	Use:   "last-action",
	Short: "Show the action currently available for undo",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := newEditor()
		if err != nil {
			return err
		}
		defer cleanup()
		if last := e.LastAction(); last != nil {
			return printJSON(last)
		}
		return printJSON(map[string]any{"success": true, "message": "nothing to undo"})
	},
}

func init() {
	colorCmd.Flags().String("text-color", "", "Text color change as old=new (full class tokens)")
	colorCmd.Flags().String("bg", "", "Background color change as old=new")
	colorCmd.Flags().String("border", "", "Border color change as old=new")
}

func descriptor() core.Descriptor {
	return core.Descriptor{
		SourceFile:         descFile,
		Tag:                descTag,
		ElementTag:         descElemTag,
		ElementIdentifier:  descText,
		ClassName:          descClass,
		OwnerComponentName: descComponent,
		OwnerFilePath:      descOwnerFile,
		ForceGlobal:        forceGlobal,
	}
}

// colorPair reads a flag holding an old=new token pair.
func colorPair(cmd *cobra.Command, name string) (*core.ColorChange, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	oldTok, newTok, ok := strings.Cut(raw, "=")
	if !ok || oldTok == "" || newTok == "" {
		return nil, fmt.Errorf("--%s expects old=new, got %q", name, raw)
	}
	return &core.ColorChange{Old: oldTok, New: newTok}, nil
}

func newEditor() (*editor.Editor, func(), error) {
	cfg := config.Load()
	if rootFlag != "" {
		cfg.ProjectRoot = rootFlag
	}
	if noDataDelete {
		cfg.AllowDataDeletion = false
	}
	if debugMode {
		cfg.Debug = true
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var cleanup = func() {}
	var gdb *gorm.DB
	if !noAudit {
		// Connect migrates the schema itself.
		conn, err := db.Connect(cfg.DatabasePath, cfg.Debug)
		if err != nil {
			log.Warn("audit database unavailable", "error", err)
		} else {
			gdb = conn
			cleanup = func() {
				if sqlDB, err := conn.DB(); err == nil {
					sqlDB.Close()
				}
			}
		}
	}

	e, err := editor.New(cfg, gdb, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return e, cleanup, nil
}

// emit prints the result and maps hard failures (not warnings) to exit 1.
func emit(res core.Result) error {
	if err := printJSON(res); err != nil {
		return err
	}
	if !res.Success && !res.Warning {
		os.Exit(1)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
