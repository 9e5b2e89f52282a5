package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"flightclaim/backend/internal/notify"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func gmailTokenCMD() *cobra.Command {
	var addr string

	var cmd = &cobra.Command{
		Use:   "gmail-token",
		Short: "Obtain a Gmail refresh token through the browser consent flow",
		Long:  "Reads GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET, prints the refresh token to store in GMAIL_REFRESH_TOKEN.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			clientID, secret := os.Getenv("GMAIL_CLIENT_ID"), os.Getenv("GMAIL_CLIENT_SECRET")
			if clientID == "" || secret == "" {
				return errors.New("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET must be set")
			}
			conf := notify.OAuthConfig(clientID, secret, "http://"+addr+"/oauth2callback")

			token, err := runConsentFlow(cmd.Context(), conf, addr, func(url string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Open this URL in your browser:\n%s\n", url)
			})
			if err != nil {
				return err
			}
			if token.RefreshToken == "" {
				return errors.New("no refresh token returned; revoke the app's access and retry")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nGMAIL_REFRESH_TOKEN=%s\n", token.RefreshToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8090", "callback listen address, must match the OAuth client's redirect URI")

	return cmd
}

// runConsentFlow serves the OAuth callback on addr until one code is exchanged.
func runConsentFlow(ctx context.Context, conf *oauth2.Config, addr string, show func(url string)) (*oauth2.Token, error) {
	state := uuid.NewString()
	type result struct {
		token *oauth2.Token
		err   error
	}
	done := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		token, err := conf.Exchange(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to exchange code: %v", err), http.StatusInternalServerError)
		} else {
			fmt.Fprint(w, "Authentication successful! You can close this window.")
		}
		select {
		case done <- result{token, err}:
		default:
		}
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	show(conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("exchange code: %w", res.err)
		}
		return res.token, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
