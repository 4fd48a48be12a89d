package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

func defaultStart(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// start launches the platform opener. Tests replace it.
var start = defaultStart

// Open opens an http(s) URL in the user's default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("browser: refusing to open %q: not an http(s) url", rawURL)
	}
	switch runtime.GOOS {
	case "darwin":
		return start("open", rawURL)
	case "linux":
		return start("xdg-open", rawURL)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
