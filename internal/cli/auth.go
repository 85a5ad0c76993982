package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maintenanceManagement/internal/client"
	"maintenanceManagement/internal/session"
)

func loginCmd(app *App) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Sign in against the REST API and save the token in the session file.

Examples:
  otctl login --username ana --password secreto
  otctl --server http://ot.internal:8080 login --username ana`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(app.In)
			var err error
			if username == "" {
				if username, err = ask(in, app.Out, "Usuario: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = ask(in, app.Out, "Contraseña: "); err != nil {
					return err
				}
			}

			server := app.Config.Client.BaseURL
			c := client.NewHTTPClient(server, "")
			res, err := c.Login(context.Background(), username, password)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) {
					failure(app.Err, "Usuario o contraseña incorrectos.")
					app.logger.Debug("login rejected", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
					return errFailed
				}
				return err
			}
			if err := app.store.Login(session.Session{Name: res.Username, Role: res.Role}, res.Token, server); err != nil {
				return err
			}
			success(app.Out, fmt.Sprintf("Sesión iniciada como %s (%s).", res.Username, res.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (asked when omitted)")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.store.Logout(); err != nil {
				return err
			}
			success(app.Out, "Sesión cerrada.")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, ok := app.store.Username()
			if !ok {
				failure(app.Err, "No hay sesión iniciada.")
				return errFailed
			}
			role, _ := app.store.UserRole()
			fmt.Fprintf(app.Out, "%s (%s)\n", name, role)
			return nil
		},
	}
}

func ask(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no input")
	}
	return line, nil
}
