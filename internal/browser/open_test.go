package browser

import (
	"runtime"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	called := false
	start = func(string, ...string) error { called = true; return nil }
	t.Cleanup(func() { start = defaultStart })

	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "://bad"} {
		if err := Open(u); err == nil {
			t.Errorf("Open(%q) = nil, want error", u)
		}
	}
	if called {
		t.Error("opener ran for a rejected url")
	}
}

func TestOpenPassesURL(t *testing.T) {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
	default:
		t.Skip("no opener on " + runtime.GOOS)
	}
	var got []string
	start = func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}
	t.Cleanup(func() { start = defaultStart })

	const u = "https://www.football-data.org"
	if err := Open(u); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got) == 0 || got[len(got)-1] != u {
		t.Errorf("opener args = %v, want url last", got)
	}
}
