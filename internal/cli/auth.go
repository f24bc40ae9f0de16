package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-task-tracker/internal/client"
)

// readPassword returns the --password flag or the first line of stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("password is required")
	}
	return line, nil
}

func newLoginCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username|email>",
		Short: "Log in and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			auth, err := s.api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err = s.saveToken(auth.Token); err != nil {
				s.logger.Warn().Err(err).Msg("failed to save token")
			}

			_, _ = fmt.Fprintln(s.out, s.styles.success.Render("Logged in as "+auth.Username+"."))
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "Password (read from stdin when empty)")
	return cmd
}

func newSignupCommand(s *session) *cobra.Command {
	var payload client.SignupPayload

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			payload.Password = password

			auth, err := s.api.Signup(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if err = s.saveToken(auth.Token); err != nil {
				s.logger.Warn().Err(err).Msg("failed to save token")
			}

			_, _ = fmt.Fprintln(s.out, s.styles.success.Render("Signed up as "+auth.Username+"."))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&payload.Name, "name", "", "Display name")
	flags.StringVar(&payload.Username, "username", "", "Username")
	flags.StringVar(&payload.Email, "email", "", "Email address")
	flags.StringP("password", "p", "", "Password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.api.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := s.saveToken(""); err != nil {
				s.logger.Warn().Err(err).Msg("failed to clear token")
			}

			_, _ = fmt.Fprintln(s.out, s.styles.success.Render("Logged out."))
			return nil
		},
	}
}
