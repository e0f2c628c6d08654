// bookctl tareas de operación: migraciones, cuenta admin inicial y recálculo de facturas.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/margiesol/mew-bad/pkg/config"
	"github.com/margiesol/mew-bad/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bookctl",
	Short: "Herramientas de operación de mew-bad",
	Long: `bookctl agrupa las tareas de operación que no pasan por la API:
aplicar o revertir migraciones, crear la cuenta admin inicial y
recalcular los totales de las facturas.

Lee la misma configuración que el servidor (variables de entorno y .env).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		// Logs a stderr; stdout queda para la salida de los comandos.
		log = logger.New(logger.Config{App: "bookctl", Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		os.Exit(1)
	}
}
