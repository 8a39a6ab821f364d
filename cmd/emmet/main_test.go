package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

// writeConfig writes an emmet.json into a fresh directory and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emmet.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExpandCommand(t *testing.T) {
	cfg := writeConfig(t, `{}`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "argument",
			args: []string{"expand", "ul>li"},
			want: "<ul>\n  <li></li>\n</ul>\n",
		},
		{
			name: "arguments joined with spaces",
			args: []string{"expand", "a{Hello", "world}"},
			want: "<a>Hello world</a>\n",
		},
		{
			name:  "stdin lines",
			stdin: "p\n\n  span  \n",
			args:  []string{"expand"},
			want:  "<p></p>\n<span></span>\n",
		},
		{
			name: "indent flag",
			args: []string{"expand", "--indent=\t", "ul>li"},
			want: "<ul>\n\t<li></li>\n</ul>\n",
		},
		{
			name: "shorthand",
			args: []string{"expand", "input:email"},
			want: "<input type=\"email\">\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg}, tt.args...)
			got, err := run(t, tt.stdin, args...)
			if err != nil {
				t.Fatalf("expand failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandCommand_Errors(t *testing.T) {
	cfg := writeConfig(t, `{"expand": {"maxInputLength": 100, "maxDepth": 10, "maxMultiplier": 50}}`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  string
	}{
		{"no input", "", []string{"expand"}, "E141"},
		{"blank stdin", "  \n\n", []string{"expand"}, "E141"},
		{"length flag", "", []string{"expand", "--max-length=3", "div>p"}, "E001"},
		{"depth flag", "", []string{"expand", "--max-depth=1", "div>p>span"}, "E002"},
		{"configured multiplier", "", []string{"expand", "li*51"}, "E004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg}, tt.args...)
			_, err := run(t, tt.stdin, args...)
			if !ierrors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExpandCommand_DisabledLimit(t *testing.T) {
	cfg := writeConfig(t, `{"expand": {"maxInputLength": 5, "maxDepth": 256, "maxMultiplier": 1000}}`)

	got, err := run(t, "", "--config", cfg, "expand", "--max-length=0", "div.long-class-name")
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if got != "<div class=\"long-class-name\"></div>\n" {
		t.Errorf("output = %q", got)
	}
}

func TestLoremCommand(t *testing.T) {
	got, err := run(t, "", "lorem", "5")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Lorem ipsum dolor sit amet.\n" {
		t.Errorf("lorem 5 = %q", got)
	}

	got, err = run(t, "", "lorem")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(strings.Fields(got)); n != 30 {
		t.Errorf("lorem without count printed %d words, want 30", n)
	}

	for _, arg := range []string{"many", "-3"} {
		if _, err := run(t, "", "lorem", "--", arg); !ierrors.HasCode(err, "E142") {
			t.Errorf("lorem %s error = %v, want E142", arg, err)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, "", "init", "--dir", dir); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "emmet.json"))
	if err != nil {
		t.Fatalf("emmet.json not written: %v", err)
	}
	if !strings.Contains(string(data), `"maxDepth": 256`) {
		t.Errorf("emmet.json lacks defaults:\n%s", data)
	}

	if _, err := run(t, "", "init", "--dir", dir); !ierrors.HasCode(err, "E140") {
		t.Errorf("second init error = %v, want E140", err)
	}
}

func TestInitCommand_YAML(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, "", "init", "--dir", dir, "--yaml", "--backend", "disk"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "emmet.yaml"))
	if err != nil {
		t.Fatalf("emmet.yaml not written: %v", err)
	}
	if !strings.Contains(string(data), "backend: disk") {
		t.Errorf("emmet.yaml lacks backend:\n%s", data)
	}

	if _, err := run(t, "", "init", "--dir", t.TempDir(), "--backend", "ftp"); !ierrors.HasCode(err, "E123") {
		t.Errorf("unknown backend error = %v, want E123", err)
	}
}

func TestSnippetCommands(t *testing.T) {
	cfg := writeConfig(t, `{"store": {"backend": "disk", "dir": "snippets"}}`)

	out, err := run(t, "", "--config", cfg, "publish", "nav>a*2")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("publish printed no id")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(cfg), "snippets", id+".json")); err != nil {
		t.Errorf("snippet file missing: %v", err)
	}

	out, err = run(t, "", "--config", cfg, "show", id)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if want := "<nav>\n  <a></a>\n  <a></a>\n</nav>\n"; out != want {
		t.Errorf("show = %q, want %q", out, want)
	}

	out, err = run(t, "", "--config", cfg, "show", "--abbreviation", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<!-- nav>a*2 -->\n") {
		t.Errorf("show --abbreviation = %q", out)
	}

	out, err = run(t, "", "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "nav>a*2") {
		t.Errorf("list output lacks the snippet:\n%s", out)
	}

	if _, err := run(t, "", "--config", cfg, "prune", "--older-than", "1h"); err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if _, err := run(t, "", "--config", cfg, "show", id); err != nil {
		t.Errorf("fresh snippet pruned: %v", err)
	}

	if _, err := run(t, "", "--config", cfg, "delete", id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := run(t, "", "--config", cfg, "show", id); !ierrors.HasCode(err, "E080") {
		t.Errorf("show after delete error = %v, want E080", err)
	}
	if _, err := run(t, "", "--config", cfg, "delete", id); !ierrors.HasCode(err, "E080") {
		t.Errorf("second delete error = %v, want E080", err)
	}
}

func TestPublishCommand_ExpansionError(t *testing.T) {
	cfg := writeConfig(t, `{"expand": {"maxInputLength": 100, "maxDepth": 10, "maxMultiplier": 2}, "store": {"backend": "disk", "dir": "snippets"}}`)

	if _, err := run(t, "", "--config", cfg, "publish", "li*3"); !ierrors.HasCode(err, "E004") {
		t.Errorf("publish error = %v, want E004", err)
	}
	entries, _ := os.ReadDir(filepath.Join(filepath.Dir(cfg), "snippets"))
	if len(entries) != 0 {
		t.Errorf("failed publish stored %d files", len(entries))
	}
}

func TestConfigErrors(t *testing.T) {
	bad := writeConfig(t, `{"server": `)
	if _, err := run(t, "", "--config", bad, "expand", "p"); !ierrors.HasCode(err, "E120") {
		t.Errorf("malformed config error = %v, want E120", err)
	}

	invalid := writeConfig(t, `{"server": {"port": 70000}}`)
	if _, err := run(t, "", "--config", invalid, "expand", "p"); !ierrors.HasCode(err, "E122") {
		t.Errorf("invalid port error = %v, want E122", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.json")
	if _, err := run(t, "", "--config", missing, "expand", "p"); !ierrors.HasCode(err, "E121") {
		t.Errorf("missing config error = %v, want E121", err)
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := run(t, "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if got != version+"\n" {
		t.Errorf("version --short = %q, want %q", got, version+"\n")
	}

	got, err = run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Go version:") {
		t.Errorf("version output lacks build info:\n%s", got)
	}
}
