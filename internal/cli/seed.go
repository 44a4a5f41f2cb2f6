package cli

import (
	"fmt"

	seedapp "github.com/paragon/backend/internal/application/seed"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCommand(app *App) *cobra.Command {
	var opts seedapp.Options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate demonstration invoices, payments and maintenance requests",
		Long: `Generate demonstration finance and maintenance data spread across every
location with an active lease. Counts default to the [seed] section of the
configuration; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applySeedDefaults(cmd, app, &opts)
			if opts.Paid+opts.LateUnpaid > opts.Invoices {
				return fmt.Errorf("--paid (%d) + --late-unpaid (%d) cannot exceed --invoices (%d)",
					opts.Paid, opts.LateUnpaid, opts.Invoices)
			}
			if opts.Completed > opts.Maintenance {
				return fmt.Errorf("--completed (%d) cannot exceed --maintenance (%d)", opts.Completed, opts.Maintenance)
			}

			result, err := app.Container.Seed.Run(cmd.Context(), identity.SystemScope(), opts)
			if err != nil {
				return err
			}
			app.Log.Info("Seed complete",
				zap.Int("invoices", result.Invoices),
				zap.Int("maintenance", result.Maintenance),
				zap.Int64("deleted", result.Deleted))

			out := cmd.OutOrStdout()
			if result.BaseLoaded {
				fmt.Fprintln(out, "Loaded base locations, apartments, tenants and users")
			}
			if opts.Reset {
				fmt.Fprintf(out, "Removed %d existing rows\n", result.Deleted)
			}
			fmt.Fprintf(out, "Invoices:    %d (%d paid, %d late unpaid, %d upcoming)\n",
				result.Invoices, result.Paid, result.LateUnpaid, result.Upcoming)
			fmt.Fprintf(out, "Maintenance: %d (%d completed)\n", result.Maintenance, result.Completed)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Reset, "reset", false, "Delete existing payments, invoices and maintenance requests first")
	f.BoolVar(&opts.Base, "base", false, "Load base locations, apartments, tenants and users into an empty store")
	f.IntVar(&opts.Invoices, "invoices", 0, "Number of invoices to generate")
	f.IntVar(&opts.Paid, "paid", 0, "How many of the invoices are paid")
	f.IntVar(&opts.LateUnpaid, "late-unpaid", 0, "How many of the invoices are overdue and unpaid")
	f.IntVar(&opts.Maintenance, "maintenance", 0, "Number of maintenance requests to generate")
	f.IntVar(&opts.Completed, "completed", 0, "How many of the maintenance requests are completed")
	f.Int64Var(&opts.RandomSeed, "seed", 0, "Random seed, the same seed reproduces the same data")
	return cmd
}

// applySeedDefaults fills every count the user did not pass from config
func applySeedDefaults(cmd *cobra.Command, app *App, opts *seedapp.Options) {
	defaults := app.Config.Seed
	set := func(name string, dst *int, def int) {
		if !cmd.Flags().Changed(name) {
			*dst = def
		}
	}
	set("invoices", &opts.Invoices, defaults.Invoices)
	set("paid", &opts.Paid, defaults.Paid)
	set("late-unpaid", &opts.LateUnpaid, defaults.LateUnpaid)
	set("maintenance", &opts.Maintenance, defaults.Maintenance)
	set("completed", &opts.Completed, defaults.Completed)
	if !cmd.Flags().Changed("seed") {
		opts.RandomSeed = defaults.RandomSeed
	}
}
