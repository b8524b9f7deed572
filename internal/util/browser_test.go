package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBrowserCommand(t *testing.T) {
	t.Parallel()

	url := "http://localhost:3000"
	cases := map[string][]string{
		"windows": {"rundll32", "url.dll,FileProtocolHandler", url},
		"darwin":  {"open", url},
		"linux":   {"xdg-open", url},
		"freebsd": {"xdg-open", url},
	}
	for goos, want := range cases {
		if diff := cmp.Diff(want, browserCommand(goos, url)); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", goos, diff)
		}
	}
}
