package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "1.4.0", "abc123", "2026-10-19"
	if got, want := String(), "1.4.0 (commit abc123, built 2026-10-19)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
