package cli

import (
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stdin closed") }

func TestReadBlock(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "joined args", args: []string{"Gold", "1,500", "Water", "7"}, want: "Gold 1,500 Water 7"},
		{name: "single arg", args: []string{"Gold 10\nWater 5"}, want: "Gold 10\nWater 5"},
		{name: "stdin", stdin: "Gold 10\nWater 5\n", args: []string{"-"}, want: "Gold 10\nWater 5\n"},
		{name: "dash among args", stdin: "ignored", args: []string{"Gold", "-"}, want: "Gold -"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readBlock(strings.NewReader(tt.stdin), tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadBlock_StdinError(t *testing.T) {
	_, err := readBlock(failingReader{}, []string{"-"})
	if err == nil || !strings.Contains(err.Error(), "stdin closed") {
		t.Errorf("expected stdin error, got %v", err)
	}
}

func TestValidateBackend(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		if err := validateBackend(backend); err != nil {
			t.Errorf("validateBackend(%q) unexpected error: %v", backend, err)
		}
	}
	if err := validateBackend("postgres"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestEffortCmds_Args(t *testing.T) {
	cmds := map[string]int{}
	for _, c := range EffortCmds() {
		cmds[c.Name()] = 0
	}
	for _, name := range []string{"efforts", "effort", "add", "update", "deliver", "migrate"} {
		if _, ok := cmds[name]; !ok {
			t.Errorf("missing command %s", name)
		}
	}

	if err := addCmd.Args(addCmd, []string{"SOL", "ABRAHAM LINCOLN"}); err == nil {
		t.Error("expected add to require three arguments")
	}
	if err := deliverCmd.Args(deliverCmd, []string{"1"}); err == nil {
		t.Error("expected deliver to require a material block")
	}
}
