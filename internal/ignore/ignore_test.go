package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRuleSet_Normalization(t *testing.T) {
	rs := NewRuleSet([]string{"^.", "node_modules", "", "^tmp"})

	want := []string{".", "node_modules", "tmp"}
	got := rs.Patterns()
	if len(got) != len(want) {
		t.Fatalf("Patterns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Patterns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "^.", []string{"^."}},
		{"multiple", "^.,node_modules, tmp", []string{"^.", "node_modules", "tmp"}},
		{"trailing comma", "dist,", []string{"dist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePatterns(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePatterns(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ParsePatterns(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMatch(t *testing.T) {
	rs := NewRuleSet([]string{"^.", "node_modules"})

	tests := []struct {
		name string
		base string
		rel  string
		want bool
	}{
		{"dotfile basename", ".env", "dist/.env", true},
		{"dot-relative", "env", ".cache/env", true},
		{"node_modules dir", "node_modules", "node_modules", true},
		{"node_modules prefix", "node_modules_backup", "node_modules_backup", true},
		{"regular file", "app.js", "dist/app.js", false},
		{"dot inside name", "app.min.js", "dist/app.min.js", false},
		{"workdir root", ".hidden-project", ".", false},
		{"parent dir", "..", "..", false},
		{"escaping rel", ".env", "../other/.env", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Match(tt.base, tt.rel); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.base, tt.rel, got, tt.want)
			}
		})
	}
}

func TestMatch_EmptyRuleSet(t *testing.T) {
	rs := NewRuleSet(nil)
	if rs.Match(".env", ".env") {
		t.Error("empty rule set should match nothing")
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.js")
	if err := os.WriteFile(file, []byte("console.log(1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "assets")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	rs := NewRuleSet(DefaultPatterns())

	tests := []struct {
		name string
		path string
		base string
		rel  string
		want Class
	}{
		{"regular file", file, "app.js", "app.js", RegularFile},
		{"directory", sub, "assets", "assets", Directory},
		{"missing", filepath.Join(dir, "nope"), "nope", "nope", NotFound},
		{"ignored dotfile", filepath.Join(dir, ".env"), ".env", ".env", Ignored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Classify(tt.path, tt.base, tt.rel, rs)
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassify_IgnoredSkipsStat(t *testing.T) {
	// An ignored path that does not exist must still classify as Ignored,
	// proving no stat happens first.
	rs := NewRuleSet([]string{"."})
	got, info, err := Classify("/definitely/not/there/.env", ".env", ".env", rs)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got != Ignored {
		t.Errorf("Classify = %v, want Ignored", got)
	}
	if info != nil {
		t.Error("ignored path should carry no FileInfo")
	}
}

func TestClassString(t *testing.T) {
	tests := []struct {
		class Class
		want  string
	}{
		{Ignored, "ignored"},
		{RegularFile, "file"},
		{Directory, "directory"},
		{NotFound, "not found"},
	}
	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.class), got, tt.want)
		}
	}
}
