package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/arbor/pkg/render/palette"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and blanks", " svg , ,dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "org.json", "org"},
		{"", "dir/org.edges", "dir/org"},
		{"", "org.layout.json", "org"},
		{"out/tree.svg", "org.json", "out/tree"},
		{"out/tree.png", "org.json", "out/tree"},
		{"out/tree", "org.json", "out/tree"},
		{"out/tree.v2", "org.json", "out/tree.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestResolveScheme(t *testing.T) {
	tests := []struct {
		in      string
		def     int
		want    int
		wantErr bool
	}{
		{"", 3, 3, false},
		{"", palette.Len() + 1, 1, false},
		{"2", 0, 2, false},
		{"-1", 0, palette.Len() - 1, false},
		{"autumn", 0, 1, false},
		{"OCEAN", 0, 6, false},
		{"plaid", 0, 0, true},
	}
	for _, tt := range tests {
		got, err := resolveScheme(tt.in, tt.def)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveScheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("resolveScheme(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "org.json")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	t.Run("MultipleFormats", func(t *testing.T) {
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"svg", "json"},
			input:     input,
		})
		if err != nil {
			t.Fatal(err)
		}
		for name, want := range map[string]string{"org.svg": "<svg/>", "org.layout.json": "{}"} {
			got, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				t.Fatalf("read %s: %v", name, err)
			}
			if string(got) != want {
				t.Errorf("%s = %q, want %q", name, got, want)
			}
		}
		if _, err := os.Stat(input); !os.IsNotExist(err) {
			t.Error("layout json overwrote the input path")
		}
	})

	t.Run("SingleFormatOutput", func(t *testing.T) {
		out := filepath.Join(dir, "custom.image")
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"svg"},
			input:     input,
			output:    out,
		})
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := os.ReadFile(out); string(got) != "<svg/>" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("MissingDir", func(t *testing.T) {
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"svg"},
			input:     filepath.Join(dir, "missing", "org.json"),
		})
		if err == nil {
			t.Error("expected an error for a missing directory")
		}
	})
}
