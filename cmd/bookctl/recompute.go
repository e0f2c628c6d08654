package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/infrastructure/cache"
	"github.com/margiesol/mew-bad/internal/infrastructure/postgres"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recalcula los totales derivados de las facturas",
	Long: `Recalcula total, abonado, saldo y estado de pago a partir de los
pedidos, devoluciones y abonos guardados. Sirve para reparar facturas
tras cargas masivas o correcciones manuales en la base de datos.`,
	Example: `  bookctl recompute --all
  bookctl recompute --invoice 5b7c1c52-0f8e-4d6e-9a51-3f0c2b1e8d11`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		invoiceID, _ := cmd.Flags().GetString("invoice")
		if all == (invoiceID != "") {
			return errors.New("indique --all o --invoice")
		}

		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		var invalidator billing.SummaryInvalidator
		if cfg.Redis.Enabled() {
			client, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				log.Warn().Err(err).Msg("Redis no disponible, el resumen en caché expirará por TTL")
			} else {
				defer client.Close()
				invalidator = cache.NewSummaryCache(client, cfg.Redis.SummaryTTL)
			}
		}
		svc := billing.NewRecomputeService(postgres.NewTxRunner(pool), invalidator, log)

		if all {
			n, err := svc.RecomputeAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d facturas recalculadas\n", n)
			return nil
		}
		inv, err := svc.RecomputeAndPersist(ctx, invoiceID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: total %s, abonado %s, saldo %s, %s\n",
			inv.Number, inv.GrandTotal.StringFixed(2), inv.PartialPayment.StringFixed(2),
			inv.RemainingBalance.StringFixed(2), inv.PaymentStatus)
		return nil
	},
}

func init() {
	recomputeCmd.Flags().Bool("all", false, "Recalcula todas las facturas vigentes")
	recomputeCmd.Flags().String("invoice", "", "ID de una factura")
	rootCmd.AddCommand(recomputeCmd)
}
