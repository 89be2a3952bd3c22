package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chunker/api/internal/auth"
	"chunker/api/internal/config"
)

func tokenCommand() *cobra.Command {
	var (
		secret  string
		subject string
		scopes  []string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the chunker API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = config.Load().TokenSecret
			}
			if secret == "" {
				return errors.New("no secret: pass --secret or set CHUNKER_TOKEN_SECRET")
			}
			token, err := auth.IssueToken([]byte(secret), subject, scopes, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to CHUNKER_TOKEN_SECRET)")
	cmd.Flags().StringVar(&subject, "sub", "", "name of the calling service")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeChunks, auth.ScopeTranslate}, "scopes to grant")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
