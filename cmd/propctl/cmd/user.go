package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/app"
	"github.com/nfrund/propmgr/internal/config"
	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/handlers"
	"github.com/nfrund/propmgr/internal/logging"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var newUser handlers.RegistrationRequest

// registrar is the part of the account service user create needs.
type registrar interface {
	Register(ctx context.Context, name, email, password string, meta accounts.RequestMeta) (*domain.Session, error)
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an email/password account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		a := app.New(ctx, cfg, logging.New())
		defer a.Close(ctx)

		svc, err := a.Accounts()
		if err != nil {
			return err
		}
		return createUser(ctx, cmd, svc, newUser)
	},
}

func createUser(ctx context.Context, cmd *cobra.Command, svc registrar, req handlers.RegistrationRequest) error {
	if err := handlers.NewValidator().Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid %s: %s\n", fe.Field(), fe.Tag())
			}
		}
		return fmt.Errorf("invalid account details")
	}

	sess, err := svc.Register(ctx, req.Name, req.Email, req.Password, accounts.RequestMeta{IP: "cli"})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", sess.User.Email, sess.User.ID.String())
	return nil
}

func init() {
	userCreateCmd.Flags().StringVar(&newUser.Name, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&newUser.Email, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&newUser.Password, "password", "", "initial password")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
