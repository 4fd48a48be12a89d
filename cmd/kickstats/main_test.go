package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kickstats/kickstats/internal/fakeapi"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

// isolate points the CLI at a temporary home and the given API.
func isolate(t *testing.T, apiURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("KICKSTATS_HOME", home)
	t.Setenv("KICKSTATS_API_URL", apiURL)
	t.Setenv("KICKSTATS_LOG_LEVEL", "debug")
	t.Setenv("KICKSTATS_HTTP_TIMEOUT", "5s")
	return home
}

func storeAt(home string) *session.Store {
	return session.Open(session.NewFileStorage(filepath.Join(home, "session")))
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--version"}, &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "kickstats dev" {
		t.Errorf("version output = %q", got)
	}
}

func TestHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, &out); err != nil {
		t.Fatal(err)
	}
	for _, cmd := range []string{"kickstats login", "kickstats logout", "kickstats whoami", "kickstats demo", "KICKSTATS_API_URL"} {
		if !strings.Contains(out.String(), cmd) {
			t.Errorf("help missing %q:\n%s", cmd, out.String())
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	err := run([]string{"kickoff"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), `unknown command "kickoff"`) {
		t.Errorf("err = %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	isolate(t, "ftp://example.com")
	if err := run([]string{"whoami"}, &bytes.Buffer{}); err == nil {
		t.Error("expected config error for a non-http API URL")
	}
}

func TestLogout(t *testing.T) {
	home := isolate(t, "http://localhost:8000")

	var out bytes.Buffer
	if err := run([]string{"logout"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Already signed out") {
		t.Errorf("output = %q", out.String())
	}

	if err := storeAt(home).Login(domain.User{ID: 1, Username: "alice"}, "tok123"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run([]string{"logout"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Signed out.") {
		t.Errorf("output = %q", out.String())
	}
	if storeAt(home).LoggedIn() {
		t.Error("session survived logout")
	}
}

func TestWhoami(t *testing.T) {
	api := fakeapi.New(fakeapi.WithSecret([]byte("cli-test")))
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()
	home := isolate(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("output = %q", out.String())
	}

	user, err := api.AddUser("alice@example.com", "alice", "correct horse")
	if err != nil {
		t.Fatal(err)
	}
	token, err := api.Token(user.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := storeAt(home).Login(user, token); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "alice <alice@example.com>") || !strings.Contains(out.String(), "token expires") {
		t.Errorf("output = %q", out.String())
	}
}

func TestWhoamiRejectedTokenKeepsSession(t *testing.T) {
	api := fakeapi.New(fakeapi.WithSecret([]byte("cli-test")))
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()
	home := isolate(t, srv.URL)

	if err := storeAt(home).Login(domain.User{ID: 9, Username: "ghost"}, "tok123"); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "session rejected by server") {
		t.Errorf("output = %q", out.String())
	}
	// 401s on auth routes never clear the session.
	if !storeAt(home).LoggedIn() {
		t.Error("session cleared by an auth-route 401")
	}
}

func TestDemoSession(t *testing.T) {
	api := fakeapi.New()
	user, err := api.AddUser(demoEmail, demoUsername, demoPassword)
	if err != nil {
		t.Fatal(err)
	}
	store, err := demoSession(api, user)
	if err != nil {
		t.Fatal(err)
	}
	if !store.LoggedIn() || store.Expired(time.Now()) {
		t.Errorf("demo session not live: %+v", store.Current())
	}
}

func TestLogFileCreated(t *testing.T) {
	home := isolate(t, "http://localhost:8000")
	if err := run([]string{"logout"}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(home, "kickstats.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("log file mode = %v, want 0600", info.Mode().Perm())
	}
}
