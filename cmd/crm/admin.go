package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/crm-service/internal/admin"
)

var (
	adminSearch string
	adminSince  string

	adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Read-only listings of customers, products and orders",
	}

	adminCustomersCmd = &cobra.Command{
		Use:   "customers",
		Short: "List customers, newest first",
		RunE: withLister(func(cmd *cobra.Command, l admin.Lister) error {
			rows, err := l.Customers(cmd.Context(), adminSearch)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), "ID\tNAME\tEMAIL\tPHONE\tCREATED", func(w io.Writer) {
				for _, r := range rows {
					phone := ""
					if r.Phone != nil {
						phone = *r.Phone
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, phone, r.CreatedAt.Format(timeLayout))
				}
			})
		}),
	}

	adminProductsCmd = &cobra.Command{
		Use:   "products",
		Short: "List products, newest first",
		RunE: withLister(func(cmd *cobra.Command, l admin.Lister) error {
			rows, err := l.Products(cmd.Context(), adminSearch)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), "ID\tNAME\tPRICE\tSTOCK\tCREATED", func(w io.Writer) {
				for _, r := range rows {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Price.StringFixed(2), r.Stock, r.CreatedAt.Format(timeLayout))
				}
			})
		}),
	}

	adminOrdersCmd = &cobra.Command{
		Use:   "orders",
		Short: "List orders, newest first",
		RunE: withLister(func(cmd *cobra.Command, l admin.Lister) error {
			since, err := admin.ParseSince(adminSince)
			if err != nil {
				return err
			}
			rows, err := l.Orders(cmd.Context(), since)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), "ID\tCUSTOMER\tTOTAL\tORDER DATE", func(w io.Writer) {
				for _, r := range rows {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.CustomerName, r.TotalAmount.StringFixed(2), r.OrderDate.Format(timeLayout))
				}
			})
		}),
	}
)

const timeLayout = "2006-01-02 15:04:05"

func init() {
	adminCustomersCmd.Flags().StringVar(&adminSearch, "search", "", "match name or email")
	adminProductsCmd.Flags().StringVar(&adminSearch, "search", "", "match name")
	adminOrdersCmd.Flags().StringVar(&adminSince, "since", "", "only orders placed at or after this date")

	adminCmd.AddCommand(adminCustomersCmd, adminProductsCmd, adminOrdersCmd)
}

func withLister(fn func(cmd *cobra.Command, l admin.Lister) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		sqlxDB, err := admin.Open(svc.db)
		if err != nil {
			return err
		}
		return fn(cmd, admin.NewLister(sqlxDB))
	}
}

func writeTable(out io.Writer, header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}
