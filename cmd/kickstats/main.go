package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/kickstats/kickstats/internal/config"
	"github.com/kickstats/kickstats/internal/fakeapi"
	"github.com/kickstats/kickstats/internal/logging"
	"github.com/kickstats/kickstats/internal/tui"
	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(out, "kickstats "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(out)
		return nil
	case "", "login", "logout", "whoami", "demo":
	default:
		return fmt.Errorf("unknown command %q (see kickstats help)", cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.LogFile())
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck
	log := logging.Setup(cfg.LogLevel, logFile)

	store := session.Open(session.NewFileStorage(filepath.Join(cfg.DataDir, "session")))

	switch cmd {
	case "logout":
		return runLogout(out, store)
	case "whoami":
		return runWhoami(out, newClient(cfg, store, log), store)
	case "demo":
		return runDemo(cfg, log)
	case "login":
		return runTUI(newClient(cfg, store, log), store, log, tui.StartOnAuth())
	}
	return runTUI(newClient(cfg, store, log), store, log)
}

func newClient(cfg config.Config, store *session.Store, log zerolog.Logger) *client.Client {
	return client.New(cfg.APIURL, store, client.WithLogger(log), client.WithTimeout(cfg.Timeout))
}

// runTUI starts the dashboard. A stored token that has already expired is
// dropped first so the app opens signed out instead of failing on the
// first protected request.
func runTUI(c *client.Client, store *session.Store, log zerolog.Logger, opts ...tui.Option) error {
	if store.Expired(time.Now()) {
		if err := store.Logout(); err != nil {
			log.Warn().Err(err).Msg("clear expired session")
		}
		log.Info().Msg("stored session expired")
	}

	app := tui.NewApp(c, store, append(opts, tui.WithVersion(version))...)
	p := tea.NewProgram(app, tea.WithAltScreen())
	c.SetUnauthorizedHandler(func() { p.Send(tui.SessionExpired()) })

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogout(out io.Writer, store *session.Store) error {
	if !store.LoggedIn() {
		fmt.Fprintln(out, "Already signed out.")
		return nil
	}
	if err := store.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(out, "Signed out.")
	return nil
}

func runWhoami(out io.Writer, c *client.Client, store *session.Store) error {
	cur := store.Current()
	if cur.User == nil {
		fmt.Fprintln(out, "Not signed in. Run: kickstats login")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	me, err := c.Me(ctx)
	switch client.Classify(err) {
	case client.OutcomeOK:
		fmt.Fprintf(out, "%s <%s>\n", me.Username, me.Email)
	case client.OutcomeRejected:
		fmt.Fprintf(out, "%s (session rejected by server: %s)\nRun: kickstats login\n",
			cur.User.Username, client.Message(err, "unauthorized"))
	default:
		fmt.Fprintf(out, "%s <%s> (offline: %v)\n", cur.User.Username, cur.User.Email, err)
	}
	if claims, err := session.ParseClaims(cur.Token); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "token expires %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Demo account, created on every run of the in-process API.
const (
	demoEmail    = "demo@kickstats.dev"
	demoUsername = "demo"
	demoPassword = "kickstats"
)

// runDemo serves the bundled sample API on a loopback port and opens the
// dashboard against it, signed in as the demo user. The real session on
// disk is left alone.
func runDemo(cfg config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := fakeapi.New(fakeapi.WithLogger(log.With().Str("component", "fakeapi").Logger()))
	user, err := api.AddUser(demoEmail, demoUsername, demoPassword)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	ready := make(chan string, 1)
	errc := make(chan error, 1)
	go func() { errc <- api.Serve(ctx, "127.0.0.1:0", ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-errc:
		return fmt.Errorf("demo: %w", err)
	}
	log.Info().Str("addr", addr).Msg("demo api listening")

	store, err := demoSession(api, user)
	if err != nil {
		return err
	}
	c := client.New("http://"+addr, store, client.WithLogger(log), client.WithTimeout(cfg.Timeout))
	if err := runTUI(c, store, log); err != nil {
		return err
	}

	cancel()
	return <-errc
}

func demoSession(api *fakeapi.Server, user domain.User) (*session.Store, error) {
	token, err := api.Token(user.ID, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("demo: issue token: %w", err)
	}
	store := session.Open(session.NewMemoryStorage())
	if err := store.Login(user, token); err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	return store, nil
}
