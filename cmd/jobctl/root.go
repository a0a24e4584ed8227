package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"jobboard-admin/internal/app"
	"jobboard-admin/internal/config"

	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in, run `jobctl login` first")

// cli carries what every subcommand needs. newContainer is swapped in tests.
type cli struct {
	out io.Writer
	in  io.Reader

	jsonOut bool
	apiURL  string

	newContainer func(config.Config) (*app.Container, error)
	c            *app.Container
}

func newRootCmd(cl *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jobctl",
		Short:         "Job board admin client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cl.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return cl.close()
		},
	}
	cmd.SetOut(cl.out)
	cmd.SetIn(cl.in)

	cmd.PersistentFlags().BoolVar(&cl.jsonOut, "json", false, "Print JSON instead of text")
	cmd.PersistentFlags().StringVar(&cl.apiURL, "api", "", "API base URL (overrides API_BASE_URL)")

	cmd.AddCommand(newLoginCmd(cl), newRegisterCmd(cl), newLogoutCmd(cl), newStatusCmd(cl), newJobsCmd(cl))
	return cmd
}

func (cl *cli) open(cmd *cobra.Command) error {
	if cl.c != nil {
		return nil
	}
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cl.apiURL != "" {
		cfg.API.BaseURL = strings.TrimSpace(cl.apiURL)
	}
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}

	c, err := cl.newContainer(cfg)
	if err != nil {
		return err
	}
	cl.c = c
	return c.Session.Initialize(cmd.Context())
}

func (cl *cli) close() error {
	if cl.c == nil {
		return nil
	}
	err := cl.c.Close()
	cl.c = nil
	return err
}

func (cl *cli) requireSession() error {
	if !cl.c.Session.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}
