package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

const program = `{
  "cfg_id": 0,
  "label": "axpy",
  "nodes": [
    {
      "id": 0,
      "type": "SDFGState",
      "label": "compute",
      "nodes": [
        {"id": 0, "type": "AccessNode", "label": "x"},
        {"id": 1, "type": "AccessNode", "label": "tmp"},
        {"id": 2, "type": "Tasklet", "label": "mul", "in_connectors": ["a"], "out_connectors": ["b"]},
        {"id": 3, "type": "AccessNode", "label": "y"}
      ],
      "edges": [
        {"src": 0, "dst": 1},
        {"src": 1, "dst": 2, "dst_connector": "a"},
        {"src": 2, "dst": 3, "src_connector": "b"}
      ]
    },
    {
      "id": 1,
      "type": "LoopRegion",
      "cfg_id": 1,
      "loop": {"condition": "t < T", "init": "t = 0", "update": "t = t + 1"},
      "nodes": [{"id": 0, "type": "SDFGState", "label": "body", "nodes": []}],
      "edges": []
    }
  ],
  "edges": [{"src": 0, "dst": 1}]
}`

func writeProgram(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "axpy.sdfg")
	if err := os.WriteFile(path, []byte(program), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func layoutOf(t *testing.T, attrs sdfg.Attributes) map[string]any {
	t.Helper()
	v, ok := attrs["layout"].(map[string]any)
	if !ok {
		t.Fatalf("no layout attribute in %v", attrs)
	}
	return v
}

func TestLayoutCommand(t *testing.T) {
	input := writeProgram(t)
	out, err := execute(t, "layout", input)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "Layout complete") {
		t.Errorf("output = %q", out)
	}

	written := strings.TrimSuffix(input, ".sdfg") + ".layout.sdfg"
	g, err := sdfg.ImportJSON(written)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, b := range g.Blocks {
		l := layoutOf(t, b.Attributes)
		if l["width"].(float64) <= 0 || l["height"].(float64) <= 0 {
			t.Errorf("block %d has empty geometry: %v", b.ID, l)
		}
	}
	for _, n := range g.Blocks[0].Nodes {
		layoutOf(t, n.Attributes)
	}

	orig, err := sdfg.ImportJSON(input)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := orig.Blocks[0].Attributes["layout"]; ok {
		t.Error("input file was modified")
	}
}

func TestLayoutCommandOmitAccessNodes(t *testing.T) {
	input := writeProgram(t)
	output := filepath.Join(t.TempDir(), "out.sdfg")
	if _, err := execute(t, "layout", input, "--omit-access-nodes", "-o", output); err != nil {
		t.Fatalf("layout: %v", err)
	}
	g, err := sdfg.ImportJSON(output)
	if err != nil {
		t.Fatal(err)
	}
	var shortcuts int
	for _, e := range g.Blocks[0].Edges {
		if e.Shortcut {
			shortcuts++
			if e.Src != 0 || e.Dst != 2 || e.DstConn != "a" {
				t.Errorf("shortcut = %+v, want 0 -> 2:a", e)
			}
		}
	}
	if shortcuts != 1 {
		t.Errorf("shortcuts = %d, want 1", shortcuts)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	input := writeProgram(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad engine", []string{"layout", input, "--engine", "spring"}, errors.ErrCodeInvalidConfig},
		{"bad font size", []string{"layout", input, "--font-size", "-3"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLayoutCommandMissingInput(t *testing.T) {
	if _, err := execute(t, "layout", filepath.Join(t.TempDir(), "nope.sdfg")); err == nil {
		t.Error("expected error for missing input")
	}
	if _, err := execute(t, "layout"); err == nil {
		t.Error("expected error without arguments")
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	input := writeProgram(t)
	cfgPath := filepath.Join(t.TempDir(), "layout.toml")
	if err := os.WriteFile(cfgPath, []byte("engine = \"spring\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "inspect", input, "--config", cfgPath); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("config engine not applied: %v", err)
	}
	if _, err := execute(t, "inspect", input, "--config", cfgPath, "--engine", "layered"); err != nil {
		t.Errorf("flag should override config: %v", err)
	}
}

func TestDotCommand(t *testing.T) {
	input := writeProgram(t)

	out, err := execute(t, "dot", input)
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, "pos=") {
		t.Errorf("unexpected DOT:\n%s", out)
	}

	out, err = execute(t, "dot", input, "--cfg", "0", "--state", "0")
	if err != nil {
		t.Fatalf("dot state: %v", err)
	}
	if !strings.Contains(out, `"0/0/2"`) {
		t.Errorf("state DOT missing tasklet:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), "loop.dot")
	if _, err := execute(t, "dot", input, "--cfg", "1", "-o", file); err != nil {
		t.Fatalf("dot -o: %v", err)
	}
	if data, err := os.ReadFile(file); err != nil || !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot file: %v %q", err, data)
	}

	if _, err := execute(t, "dot", input, "--cfg", "7"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown cfg: got %v", err)
	}
	if _, err := execute(t, "dot", input, "--state", "9"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown state: got %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	input := writeProgram(t)
	out, err := execute(t, "inspect", input)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"CFG", "OWNER", "SHORTCUTS", "0/1", "layered", "2 levels"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sdfglayout") {
		t.Error("bash completion does not mention the command")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
