package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/crm-service/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo customers, products and orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		result, err := seed.Seed(cmd.Context(), svc.customers, svc.products, svc.orders)
		if errors.Is(err, seed.ErrAlreadySeeded) {
			fmt.Fprintln(cmd.OutOrStdout(), "Seed data already present, nothing to do")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %d customers, %d products and %d orders\n",
			len(result.Customers), len(result.Products), len(result.Orders))
		return nil
	},
}
