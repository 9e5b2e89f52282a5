package main

import (
	"fmt"
	"strings"

	"flightclaim/backend/internal/claims"
	"flightclaim/backend/internal/localization"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/notify"
	"flightclaim/backend/internal/validate"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 10

func createAdminCMD() *cobra.Command {
	var email, password, name string

	var cmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account for the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := newAdmin(email, password, name)
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.CreateAdmin(cmd.Context(), admin); err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 10 characters")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// newAdmin validates the input and hashes the password.
func newAdmin(email, password, name string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &models.AdminUser{Email: email, PasswordHash: string(hash), Name: strings.TrimSpace(name)}, nil
}

func claimStatusCMD() *cobra.Command {
	var quiet bool

	var cmd = &cobra.Command{
		Use:   "claim-status <claim-id> <status>",
		Short: "Change a claim's status and email the customer",
		Long:  "Valid statuses: " + statusList(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.ClaimStatus(strings.ToLower(args[1]))
			if !status.Valid() {
				return fmt.Errorf("%w: %q (want one of %s)", claims.ErrInvalidStatus, args[1], statusList())
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			var (
				emails claims.Renderer
				mailer notify.Mailer
			)
			if !quiet {
				loc, err := localization.NewDefault()
				if err != nil {
					return err
				}
				tpl, err := notify.NewTemplates(loc)
				if err != nil {
					return err
				}
				emails = tpl
				mailer = notify.NewLogMailer(e.log)
				if e.cfg.GmailClientID != "" && e.cfg.GmailRefreshToken != "" {
					gm, err := notify.NewGmailMailer(cmd.Context(), e.cfg.GmailClientID, e.cfg.GmailClientSecret, e.cfg.GmailRefreshToken, e.cfg.MailFrom)
					if err != nil {
						return err
					}
					mailer = gm
				}
			}

			svc := claims.NewService(e.store, emails, mailer, nil, nil, e.log)
			claim, err := svc.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "claim %s is now %s\n", claim.Reference, claim.Status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not email the customer")

	return cmd
}

func statusList() string {
	names := make([]string, len(models.ClaimStatuses))
	for i, s := range models.ClaimStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
