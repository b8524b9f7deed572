package util

import (
	"os/exec"
	"runtime"
)

// browserCommand returns the command that opens url on goos.
func browserCommand(goos, url string) []string {
	switch goos {
	case "windows":
		// rundll32 works from Windows 7 on, unlike "cmd /c start" with URLs
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	case "darwin":
		return []string{"open", url}
	}
	return []string{"xdg-open", url}
}

// fallbackBrowsers are tried on Linux when xdg-open fails.
var fallbackBrowsers = []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	args := browserCommand(runtime.GOOS, url)
	return exec.Command(args[0], args[1:]...).Start()
}

// OpenBrowserWithFallback tries OpenBrowser, then platform alternatives.
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		for _, browser := range fallbackBrowsers {
			if err := exec.Command(browser, url).Start(); err == nil {
				return nil
			}
		}
	}
	return err
}
