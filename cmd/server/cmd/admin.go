package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/samiti-foundation/server/internal/domain/admins"
	"github.com/samiti-foundation/server/internal/storage"
	"github.com/samiti-foundation/server/internal/storage/postgres"
)

var (
	adminUsername string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminPassword == "" {
			return fmt.Errorf("--username and --password are required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		repo, err := postgres.NewRepository(pool)
		if err != nil {
			return err
		}

		admin, err := createAdmin(ctx, repo, adminUsername, adminPassword)
		if err != nil {
			return err
		}
		cmd.Printf("created admin %q (id %d)\n", admin.Username, admin.ID)
		return nil
	},
}

// createAdmin inserts the account inside one transaction so the
// single-credential check and the insert see the same state.
func createAdmin(ctx context.Context, repo storage.Repository, username, password string) (*admins.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), admins.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var admin *admins.Admin
	err = repo.WithTx(ctx, func(ctx context.Context, r storage.Repository) error {
		count, err := r.Admins().Count(ctx)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("an admin account already exists; the site uses one shared credential")
		}
		admin, err = r.Admins().Create(ctx, username, string(hash))
		return err
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")

	adminCmd.AddCommand(adminCreateCmd)
}
