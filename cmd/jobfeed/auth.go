package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apierrors "github.com/pribylovaa/jobfeed/internal/errors"
	"github.com/pribylovaa/jobfeed/internal/session"
)

// credentialFlags — общие флаги login/register. Пароль без флага читается
// первой строкой stdin, чтобы не оставлять его в истории оболочки.
type credentialFlags struct {
	username string
	password string
}

func (c *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&c.password, "password", "p", "", "password (read from stdin if empty)")
	_ = cmd.MarkFlagRequired("username")
}

func (c *credentialFlags) resolve(cmd *cobra.Command) (string, string, error) {
	if c.password != "" {
		return c.username, c.password, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("read password: %w", err)
	}

	return c.username, strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(g *globals) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain and store a token pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), g.cfg, cliLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Login(cmd.Context(), username, password); err != nil {
				return errors.New(apierrors.Message(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", strings.TrimSpace(username))
			return nil
		},
	}

	creds.bind(cmd)
	return cmd
}

func newRegisterCmd(g *globals) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), g.cfg, cliLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Register(cmd.Context(), username, password); err != nil {
				return errors.New(apierrors.Message(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", strings.TrimSpace(username))
			return nil
		},
	}

	creds.bind(cmd)
	return cmd
}

func newLogoutCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), g.cfg, cliLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the session (renews the access token if needed)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), g.cfg, cliLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.session.Describe(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session: %s\n", st.Signal)
			if !st.HasTokens {
				fmt.Fprintln(out, "tokens:  none")
				return nil
			}
			if st.Expiry.IsZero() {
				fmt.Fprintln(out, "access:  unreadable")
			} else {
				fmt.Fprintf(out, "access:  expires %s (in %s)\n",
					st.Expiry.Local().Format(time.DateTime),
					time.Until(st.Expiry).Round(time.Second),
				)
			}
			if st.Signal == session.Unauthorized {
				fmt.Fprintln(out, "hint:    run `jobfeed login`")
			}
			return nil
		},
	}
}
