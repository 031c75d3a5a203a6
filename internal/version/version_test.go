package version

import "testing"

func TestString(t *testing.T) {
	origCommit, origBuild := Commit, BuildTime
	defer func() { Commit, BuildTime = origCommit, origBuild }()

	tests := []struct {
		commit string
		want   string
	}{
		{commit: "unknown", want: "eco dev (commit: unknown, built: 2026-01-02)"},
		{commit: "0123456789abcdef", want: "eco dev (commit: 0123456789, built: 2026-01-02)"},
	}

	for _, tt := range tests {
		Commit, BuildTime = tt.commit, "2026-01-02"
		if got := String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
