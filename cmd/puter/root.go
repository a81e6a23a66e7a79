package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/puter-go/core/config"
	"github.com/leofalp/puter-go/core/registry"
	"github.com/leofalp/puter-go/core/session"
	"github.com/leofalp/puter-go/providers/memory"
	"github.com/leofalp/puter-go/providers/memory/inmemory"
	"github.com/leofalp/puter-go/providers/memory/sqlitememory"
	"github.com/leofalp/puter-go/providers/observability/slogobs"
)

// Environment variables supplying credentials when the flags are empty.
const (
	envUsername = "PUTER_USERNAME"
	envPassword = "PUTER_PASSWORD"
	envToken    = "PUTER_TOKEN"
)

var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	username     string
	password     string
	token        string
	registryPath string
	model        string
	apiBase      string
	loginURL     string
	historyDB    string
	conversation string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "puter",
		Short: "Chat with the models behind the Puter AI gateway",
		Long: `puter talks to the Puter AI gateway: it logs in, keeps the conversation
history and resends it with every prompt so the model sees the context.

Credentials come from --username/--password or --token, falling back to
PUTER_USERNAME, PUTER_PASSWORD and PUTER_TOKEN. Gateway settings are read
from the PUTER_* environment variables and a .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.username, "username", "", "account username (env "+envUsername+")")
	pf.StringVar(&flags.password, "password", "", "account password (env "+envPassword+")")
	pf.StringVar(&flags.token, "token", "", "session token, skips login (env "+envToken+")")
	pf.StringVar(&flags.registryPath, "registry", "", "model registry file (.json, .yaml, .yml)")
	pf.StringVar(&flags.model, "model", session.DefaultModel, "default model")
	pf.StringVar(&flags.apiBase, "api-base", "", "gateway API base URL")
	pf.StringVar(&flags.loginURL, "login-url", "", "gateway login URL")
	pf.StringVar(&flags.historyDB, "history-db", "", "persist the conversation in this SQLite file")
	pf.StringVar(&flags.conversation, "conversation", "", "conversation ID inside --history-db")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newLoginCmd(flags),
		newChatCmd(flags),
		newModelsCmd(flags),
	)
	return root
}

func (f *globalFlags) credentials() (username, password, token string) {
	return firstNonEmpty(f.username, os.Getenv(envUsername)),
		firstNonEmpty(f.password, os.Getenv(envPassword)),
		firstNonEmpty(f.token, os.Getenv(envToken))
}

func (f *globalFlags) registry() (*registry.Registry, error) {
	if f.registryPath == "" {
		return registry.Builtin(), nil
	}
	return registry.LoadFile(f.registryPath)
}

func (f *globalFlags) config() *config.Config {
	cfg := config.Load()
	if f.apiBase != "" {
		cfg.Update(config.WithAPIBase(f.apiBase))
	}
	if f.loginURL != "" {
		cfg.Update(config.WithLoginURL(f.loginURL))
	}
	return cfg
}

// client is a Session together with the transcript store it writes to.
type client struct {
	session *session.Session
	records memory.Timestamped
	close   func() error
}

// newClient builds a Session from the flags. A --history-db keeps the
// transcript in SQLite; otherwise it lives in memory.
func (f *globalFlags) newClient(stderr io.Writer) (*client, error) {
	reg, err := f.registry()
	if err != nil {
		return nil, err
	}
	if !reg.Has(f.model) {
		return nil, fmt.Errorf("unknown model %q", f.model)
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	observer := slogobs.New(slogobs.WithOutput(stderr), slogobs.WithLevel(level))

	c := &client{close: func() error { return nil }}
	var store interface {
		memory.Provider
		memory.Timestamped
	} = inmemory.New()
	if f.historyDB != "" {
		db, err := sqlitememory.Open(f.historyDB, f.conversation)
		if err != nil {
			return nil, err
		}
		store, c.close = db, db.Close
	}
	c.records = store

	username, password, token := f.credentials()
	opts := []session.Option{
		session.WithConfig(f.config()),
		session.WithRegistry(reg),
		session.WithModel(f.model),
		session.WithObserver(observer),
		session.WithLogger(observer.Logger()),
		session.WithCredentials(username, password),
		session.WithMemory(store),
	}
	if token != "" {
		opts = append(opts, session.WithToken(token))
	}
	c.session = session.New(opts...)
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
