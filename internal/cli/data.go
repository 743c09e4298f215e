package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/newtab/internal/app"
	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/export"
	"github.com/MrSnakeDoc/newtab/internal/scheduler"
	"github.com/MrSnakeDoc/newtab/internal/utils"
)

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export, import, clear or migrate dashboard data",
	}
	cmd.AddCommand(newExportCmd(), newClearCmd(), newImportCmd(), newMigrateCmd())
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write sites, bookmarks, history and settings to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			dash, backend, err := openDashboard(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.CloseWithLog(backend, log, "storage")

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer utils.CloseWithLog(f, log, output)
				w = f
			}

			if err := export.Write(w, format, dash.Snapshot()); err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "json or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored data and reset settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := askYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), confirm.Prompt(confirm.ActionClearAll))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			dash, backend, err := openDashboard(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.CloseWithLog(backend, log, "storage")

			if err := dash.Wipe(cmd.Context()); err != nil {
				return fmt.Errorf("clearing data: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import homepage services and bookmarks once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.ServiceFile == "" && cfg.BookmarkFile == "" {
				return errors.New("set NEWTAB_SERVICE_FILE or NEWTAB_BOOKMARK_FILE to import")
			}

			dash, backend, err := openDashboard(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.CloseWithLog(backend, log, "storage")

			importer := scheduler.NewHomepageImporter(cfg.ServiceFile, cfg.BookmarkFile,
				dash.Sites, dash.Bookmarks, log, cfg.ImportInterval, nil)
			res, err := importer.Import(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sites and %d bookmarks.\n", res.Sites, res.Bookmarks)
			return err
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all data from one storage backend to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == to {
				return fmt.Errorf("source and destination are both %q", from)
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			src, err := app.OpenBackend(cmd.Context(), cfg, from, log)
			if err != nil {
				return err
			}
			defer utils.CloseWithLog(src, log, from)

			dst, err := app.OpenBackend(cmd.Context(), cfg, to, log)
			if err != nil {
				return err
			}
			defer utils.CloseWithLog(dst, log, to)

			n, err := scheduler.NewBackendSyncer(src, dst, log).Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d keys from %s to %s.\n", n, from, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "sqlite", "source backend: sqlite or redis")
	cmd.Flags().StringVar(&to, "to", "redis", "destination backend: sqlite or redis")
	return cmd
}

// askYesNo prints prompt and reads one line; only y or yes confirms.
func askYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
