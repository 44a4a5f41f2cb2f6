package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	appfinance "github.com/paragon/backend/internal/application/finance"
	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BritishEnglish)

// money renders an amount with thousands separators, e.g. £1,250.50
func money(d decimal.Decimal) string {
	return printer.Sprintf("£%.2f", d.InexactFloat64())
}

func city(c *string) string {
	if c == nil {
		return finance.UnassignedCity
	}
	return *c
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func newFinanceCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Inspect invoices and payments",
	}
	cmd.AddCommand(
		newInvoicesCommand(app),
		newLateCommand(app),
		newPaymentsCommand(app),
		newSummaryCommand(app),
		newPayCommand(app),
	)
	return cmd
}

func printInvoices(w io.Writer, page shared.Paginated[finance.InvoiceView]) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTENANT\tCITY\tAMOUNT\tISSUED\tDUE\tPAID")
	for _, v := range page.Items {
		paid := "no"
		if v.Paid {
			paid = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.TenantName, city(v.City),
			money(v.AmountDue), shared.FormatDate(v.IssueDate), shared.FormatDate(v.DueDate), paid)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d invoice(s)\n", page.Total)
	return err
}

func newInvoicesCommand(app *App) *cobra.Command {
	var (
		location string
		limit    int
		unpaid   bool
	)
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List invoices, newest due date first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := app.location(cmd.Context(), location)
			if err != nil {
				return err
			}
			filter := appfinance.InvoiceFilter{Filter: shared.Filter{PageSize: limit}, LocationID: loc}
			if unpaid {
				paid := false
				filter.Paid = &paid
			}
			page, err := app.Container.Finance.ListInvoices(cmd.Context(), identity.SystemScope(), filter)
			if err != nil {
				return err
			}
			return printInvoices(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "City to list, empty for every location")
	cmd.Flags().IntVar(&limit, "limit", shared.Unpaged, "Maximum rows, -1 for all")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "Only unpaid invoices")
	return cmd
}

func newLateCommand(app *App) *cobra.Command {
	var location, asOf string
	cmd := &cobra.Command{
		Use:   "late",
		Short: "List unpaid invoices past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := app.location(cmd.Context(), location)
			if err != nil {
				return err
			}
			page, err := app.Container.Finance.ListLateUnpaid(cmd.Context(), identity.SystemScope(), appfinance.LateFilter{
				Filter:     shared.Filter{PageSize: shared.Unpaged},
				LocationID: loc,
				AsOf:       asOf,
			})
			if err != nil {
				return err
			}
			return printInvoices(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "City to list, empty for every location")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date, default today")
	return cmd
}

func newPaymentsCommand(app *App) *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := app.location(cmd.Context(), location)
			if err != nil {
				return err
			}
			page, err := app.Container.Finance.ListPayments(cmd.Context(), identity.SystemScope(), appfinance.PaymentFilter{
				Filter:     shared.Filter{PageSize: shared.Unpaged},
				LocationID: loc,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			tw := table(w)
			fmt.Fprintln(tw, "ID\tINVOICE\tTENANT\tCITY\tAMOUNT\tDATE")
			for _, p := range page.Items {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", p.ID, p.InvoiceID, p.TenantName, city(p.City),
					money(p.Amount), shared.FormatDate(p.PaymentDate))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "%d payment(s)\n", page.Total)
			return err
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "City to list, empty for every location")
	return cmd
}

func newSummaryCommand(app *App) *cobra.Command {
	var location, asOf string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show invoiced, collected and outstanding totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := app.location(cmd.Context(), location)
			if err != nil {
				return err
			}
			summary, err := app.Container.Finance.FinancialSummary(cmd.Context(), identity.SystemScope(), appfinance.SummaryFilter{
				LocationID: loc,
				AsOf:       asOf,
			})
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "SCOPE\tINVOICED\tCOLLECTED\tOUTSTANDING\tLATE")
			label := "All locations"
			if location != "" {
				label = location
			}
			printTotals(tw, label, summary.Totals)
			for _, lt := range summary.ByLocation {
				printTotals(tw, lt.City, lt.Totals)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "City to summarise, empty for every location")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date of the late count, default today")
	return cmd
}

func printTotals(w io.Writer, label string, t finance.Totals) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", label,
		money(t.TotalInvoiced), money(t.TotalCollected), money(t.Outstanding), t.LateCount)
}

func newPayCommand(app *App) *cobra.Command {
	var req appfinance.RecordPaymentRequest
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record the payment of an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payment, err := app.Container.Finance.RecordPayment(cmd.Context(), identity.SystemScope(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded payment %d of %s for invoice %d\n",
				payment.ID, money(payment.Amount), payment.InvoiceID)
			return err
		},
	}
	f := cmd.Flags()
	f.Int64Var(&req.InvoiceID, "invoice", 0, "Invoice id")
	f.Int64Var(&req.TenantID, "tenant", 0, "Paying tenant id")
	f.StringVar(&req.Amount, "amount", "", "Amount paid")
	f.StringVar(&req.PaymentDate, "date", "", "Payment date, default today")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
