// Package cli implements cvtool, which works on the stored document of one
// identity without the HTTP server.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cv-editor/internal/bootstrap"
	"cv-editor/internal/cloud"
	"cv-editor/internal/editor"
	"cv-editor/internal/importer"
	"cv-editor/internal/printfit"
	"cv-editor/internal/shared/config"
)

var version = "dev"

// Deps are the collaborators commands use. Tests install their own.
type Deps struct {
	Store    *editor.Store
	Importer *importer.Pipeline
	Printer  Printer
	Cloud    *cloud.Service
	Close    func()
}

// Printer prints the page and measures it without printing.
type Printer interface {
	editor.Printer
	Measure(ctx context.Context, html string) (printfit.Result, error)
}

var (
	deps     *Deps
	identity string
)

var rootCmd = &cobra.Command{
	Use:           "cvtool",
	Short:         "Work on a stored CV from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations["offline"] == "true" {
			return nil
		}
		return ensureDeps(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if deps != nil && deps.Close != nil {
			deps.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&identity, "identity", "guest:local", "Identity whose document is used")
}

func ensureDeps(cmd *cobra.Command) error {
	if deps != nil {
		return nil
	}
	d, err := buildDeps(cmd.Context(), identity)
	if err != nil {
		return err
	}
	deps = d
	return nil
}

func buildDeps(ctx context.Context, identity string) (*Deps, error) {
	app, err := bootstrap.BuildCore(ctx, config.Load())
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	store, err := editor.Open(ctx, app.State, identity)
	if err != nil {
		app.Close()
		return nil, err
	}
	return &Deps{
		Store:    store,
		Importer: app.Importer,
		Printer:  app.Printer,
		Cloud:    app.Cloud,
		Close:    app.Close,
	}, nil
}

// Execute runs cvtool with the process arguments.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{"offline": "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("cvtool version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
