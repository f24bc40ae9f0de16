// Package cli implements the tracker command line client.
package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adanyl0v/go-task-tracker/internal/client"
	"github.com/adanyl0v/go-task-tracker/internal/store"
)

const (
	keyServer  = "server"
	keyToken   = "token"
	keyConfig  = "config"
	keyVerbose = "verbose"

	defaultServerURL = "http://localhost:8080"
	configFileName   = ".tracker.yaml"
)

// session carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type session struct {
	v      *viper.Viper
	logger zerolog.Logger
	out    io.Writer
	styles styles
	api    *client.Client
}

// NewRootCommand builds the tracker command tree. Settings are read from
// flags, TRACKER_* environment variables and an optional YAML file.
func NewRootCommand() *cobra.Command {
	s := &session{v: viper.New()}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Command line client for the task tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyServer, defaultServerURL, "API server URL")
	flags.String(keyToken, "", "Access token")
	flags.String(keyConfig, "", "Config file (default $HOME/"+configFileName+")")
	flags.BoolP(keyVerbose, "v", false, "Enable debug logging")
	for _, key := range []string{keyServer, keyToken, keyConfig, keyVerbose} {
		_ = s.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newLoginCommand(s),
		newSignupCommand(s),
		newLogoutCommand(s),
		newProjectsCommand(s),
		newTasksCommand(s),
		newNotesCommand(s),
	)
	return root
}

func (s *session) init(cmd *cobra.Command) error {
	s.out = cmd.OutOrStdout()
	s.styles = newStyles(lipgloss.NewRenderer(s.out))

	level := zerolog.InfoLevel
	if s.v.GetBool(keyVerbose) {
		level = zerolog.DebugLevel
	}
	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.TimeFormat = time.TimeOnly
	consoleWriter.Out = cmd.ErrOrStderr()
	s.logger = zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()

	s.v.SetEnvPrefix("TRACKER")
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()
	_ = s.v.BindEnv(keyServer, "TRACKER_SERVER_URL")

	if err := s.readConfig(); err != nil {
		return err
	}

	s.api = client.New(s.v.GetString(keyServer), client.WithToken(s.v.GetString(keyToken)))
	s.logger.Debug().
		Str("server", s.v.GetString(keyServer)).
		Str("config", s.v.ConfigFileUsed()).
		Bool("has_token", s.api.Token() != "").
		Msg("loaded settings")
	return nil
}

// readConfig loads the config file if there is one. A missing default file
// is not an error.
func (s *session) readConfig() error {
	path := s.v.GetString(keyConfig)
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, configFileName)
	}

	s.v.SetConfigFile(path)
	s.v.SetConfigType("yaml")
	err := s.v.ReadInConfig()
	if err == nil {
		return nil
	}

	if !explicit && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// saveToken persists the access token to the config file used by this
// session.
func (s *session) saveToken(token string) error {
	s.v.Set(keyToken, token)

	path := s.v.ConfigFileUsed()
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	file.Set(keyToken, token)
	if err := file.WriteConfigAs(path); err != nil {
		return err
	}

	s.logger.Debug().Str("path", path).Msg("saved token")
	return nil
}

// newStore returns a task store whose notifications are printed as status
// lines.
func (s *session) newStore() *store.Store {
	return store.New(s.api, store.WithNotifier(func(n store.Notification) {
		s.styles.printNotification(s.out, n)
	}))
}
