package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/margiesol/mew-bad/internal/application/auth"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/infrastructure/postgres"
)

var seedAdminCmd = &cobra.Command{
	Use:     "seed-admin",
	Short:   "Crea una cuenta con rol admin",
	Example: `  bookctl seed-admin --username admin --password 'cambia-esto'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" || password == "" {
			return errors.New("--username y --password son obligatorios")
		}

		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
			Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
		})
		user, err := uc.CreateAccount(ctx, username, password, entity.RoleAdmin)
		if err != nil {
			return err
		}
		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("cuenta admin creada")
		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().String("username", "", "Nombre de usuario")
	seedAdminCmd.Flags().String("password", "", "Contraseña (mínimo 8 caracteres)")
	rootCmd.AddCommand(seedAdminCmd)
}
