package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/margiesol/mew-bad/internal/infrastructure/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Gestiona el esquema de la base de datos",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrations.Up(cfg.DB.ConnectionString()); err != nil {
			return err
		}
		log.Info().Msg("migraciones aplicadas")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte la última migración",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrations.Down(cfg.DB.ConnectionString()); err != nil {
			return err
		}
		log.Info().Msg("última migración revertida")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión actual del esquema",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, dirty, err := migrations.Version(cfg.DB.ConnectionString())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
