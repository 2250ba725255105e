package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/landcontract-backend/internal/app"
	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

var (
	core *app.Core

	backend    string
	sqlitePath string
	verbose    bool
	asJSON     bool
)

// offline commands run without opening the store.
var offline = map[string]bool{"explain": true}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := newRoot()
	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(root.ErrOrStderr(), "error:", describe(err))
	return exitCode(err)
}

func describe(err error) string {
	code := domainagg.CodeOf(err)
	if code == "" {
		return err.Error()
	}
	msg := fmt.Sprintf("%s [%s]", domainagg.MessageOf(err), code)
	if fields := domainagg.FieldsOf(err); len(fields) > 0 {
		msg += " (" + strings.Join(fields, ", ") + ")"
	}
	return msg
}

func exitCode(err error) int {
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation, domainagg.CodeRestoreFormat:
		return 2
	case domainagg.CodeNotFound:
		return 3
	case domainagg.CodeConflict, domainagg.CodeInvalidTransition:
		return 4
	case domainagg.CodeUnauthorized, domainagg.CodeForbidden:
		return 5
	case domainagg.CodePersistence:
		return 6
	default:
		return 1
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "contractctl",
		Short:         "Operate the land-survey contract ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if offline[cmd.Name()] {
				return nil
			}
			if core != nil {
				// a previous command failed before its post-run hook
				_ = core.Close()
				core = nil
			}
			log := logger.Nop()
			if verbose {
				l, err := logger.New("development")
				if err != nil {
					return err
				}
				log = l
			}
			cfg := app.LoadConfig(log)
			if backend != "" {
				cfg.StoreBackend = backend
			}
			if sqlitePath != "" {
				cfg.SQLitePath = sqlitePath
			}
			c, err := app.NewCore(cmd.Context(), log, cfg, nil)
			if err != nil {
				return err
			}
			core = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if core == nil {
				return nil
			}
			err := core.Close()
			core.Log.Sync()
			core = nil
			return err
		},
	}

	root.PersistentFlags().StringVar(&backend, "backend", "", "gateway backend: sqlite|postgres|redis (default $STORE_BACKEND)")
	root.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "sqlite file (default $STORE_SQLITE_PATH)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		loginCmd(), logoutCmd(), whoamiCmd(),
		wardsCmd(), contractsCmd(), statsCmd(),
		backupCmd(), restoreCmd(), numberCmd(),
	)
	return root
}

// signedIn returns a context carrying the cached local user.
func signedIn(cmd *cobra.Command) (context.Context, error) {
	return core.Services.Auth.WithLocalUser(cmd.Context())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
