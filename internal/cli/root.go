package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Session  string // session id scoping the payload batch
	DBPath   string // sqlite session database path
	Settings string // optional tenant settings YAML
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the draftbill CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "draftbill",
		Short: "draftbill - billing payload construction and validation",
		Long: `draftbill turns partial facts about billing entities (products, rate
plans, charges) into validated API payload drafts. Missing or rejected
fields become explicit placeholders instead of blocking, cross-references
between not-yet-created entities travel as forward-reference tokens, and
the whole batch persists per session until an external executor runs it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// Configure logging based on verbose flag
			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Session, "session", "default", "session id for the payload batch")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "draftbill.db", "path to the session database")
	cmd.PersistentFlags().StringVar(&opts.Settings, "settings", "", "tenant settings YAML (currencies, billing periods, ...)")

	// Add subcommands
	cmd.AddCommand(NewConstructCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
