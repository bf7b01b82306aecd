package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nimburion/storefront/pkg/cli"
	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/observability/logger"
)

// Serve builds the service and runs it until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

// CheckDependencies builds the service once and runs the readiness checks.
func CheckDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Check(ctx)
}

// Commands returns the storefront specific commands.
func Commands(load cli.ConfigLoader) []*cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Order maintenance commands",
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all orders as CSV, one row per order item",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return ExportOrders(cmd.Context(), cfg, log, w)
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", `destination file, "-" or empty for stdout`)
	ordersCmd.AddCommand(exportCmd)

	return []*cobra.Command{ordersCmd}
}

// ExportOrders writes the order CSV of the configured store to w.
func ExportOrders(ctx context.Context, cfg *config.Config, log logger.Logger, w io.Writer) error {
	svc, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Repositories().Orders.Export(ctx, w)
}
