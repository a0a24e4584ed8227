package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"jobboard-admin/internal/delivery/http/dto"

	"github.com/spf13/cobra"
)

func (cl *cli) credentials(email, password string) (dto.CredentialsRequest, error) {
	if password == "" {
		line, err := bufio.NewReader(cl.in).ReadString('\n')
		if err != nil && line == "" {
			return dto.CredentialsRequest{}, errors.New("no password given, use --password or pipe it on stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}
	req := dto.CredentialsRequest{Email: email, Password: password}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("invalid credentials input: %w", err)
	}
	return req, nil
}

func newLoginCmd(cl *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := cl.credentials(email, password)
			if err != nil {
				return err
			}
			if err := cl.c.Session.Login(cmd.Context(), req.Email, req.Password); err != nil {
				return err
			}
			return cl.printSession("signed in")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(cl *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not sign in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := cl.credentials(email, password)
			if err != nil {
				return err
			}
			if err := cl.c.Session.Register(cmd.Context(), req.Email, req.Password); err != nil {
				return err
			}
			return cl.printSession("registered, now run `jobctl login`")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl.c.Session.Logout(cmd.Context())
			return cl.printSession("signed out")
		},
	}
}

func newStatusCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a valid session is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cl.c.Session.IsAuthenticated() {
				return cl.printSession("signed in")
			}
			return cl.printSession("signed out")
		},
	}
}

func (cl *cli) printSession(text string) error {
	if cl.jsonOut {
		return writeJSON(cl.out, cl.c.Session.State())
	}
	_, err := fmt.Fprintln(cl.out, text)
	return err
}
