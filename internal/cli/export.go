package cli

import (
	"fmt"
	"os"

	appfinance "github.com/paragon/backend/internal/application/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/spf13/cobra"
)

func newExportCommand(app *App) *cobra.Command {
	var location, asOf, out string
	cmd := &cobra.Command{
		Use:       "export <invoices|late|payments|summary>",
		Short:     "Write a finance report to an Excel workbook",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"invoices", "late", "payments", "summary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := appfinance.ParseReport(args[0])
			if err != nil {
				return err
			}
			loc, err := app.location(cmd.Context(), location)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s-%s.xlsx", report, shared.FormatDate(shared.Today(app.Container.Clock)))
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			err = app.Container.Finance.Export(cmd.Context(), identity.SystemScope(), appfinance.ExportRequest{
				Report:     report,
				LocationID: loc,
				AsOf:       asOf,
			}, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return err
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "City to export, empty for every location")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date for late and summary, default today")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, default <report>-<date>.xlsx")
	return cmd
}
