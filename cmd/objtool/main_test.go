package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cubeOBJ = "../../pkg/formats/testdata/cube.obj"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCmdInfo(t *testing.T) {
	var out bytes.Buffer
	if err := cmdInfo([]string{cubeOBJ}, &out); err != nil {
		t.Fatalf("cmdInfo: %v", err)
	}

	for _, want := range []string{
		"Positions:  8\n",
		"TexCoords:  4\n",
		"Normals:    6\n",
		"Faces:      6\n",
		"Triangles:  12\n",
		"Bounds:     (-0.5, -0.5, -0.5) - (0.5, 0.5, 0.5)\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCmdInfoErrors(t *testing.T) {
	if err := cmdInfo(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected usage error")
	}
	if err := cmdInfo([]string{"-encoding", "klingon", cubeOBJ}, &bytes.Buffer{}); err == nil {
		t.Error("expected unknown encoding error")
	}
	if err := cmdInfo([]string{filepath.Join(t.TempDir(), "missing.obj")}, &bytes.Buffer{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestCmdCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	bad := writeFile(t, dir, "bad.obj", "v 0 0 0\nf 1 2 3\n")

	var out, errOut bytes.Buffer
	if err := cmdCheck([]string{good}, &out, &errOut); err != nil {
		t.Fatalf("cmdCheck(good): %v", err)
	}
	if !strings.Contains(out.String(), "ok   "+good+" (1 triangles)") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	errOut.Reset()
	err := cmdCheck([]string{good, bad}, &out, &errOut)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v, want errFailed", err)
	}
	if !strings.Contains(errOut.String(), "FAIL loading "+bad+": 1:f 1 2 3 : ") {
		t.Errorf("missing formatted parse error in %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "1 of 2 files failed") {
		t.Errorf("missing summary in %q", errOut.String())
	}
}

func TestCmdDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	var out bytes.Buffer
	if err := cmdDump([]string{path}, &out); err != nil {
		t.Fatalf("cmdDump: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "# 3 vertices\n") || !strings.Contains(got, "# 1 triangles\n") {
		t.Errorf("unexpected dump:\n%s", got)
	}
	// Positions are centered on the bounding box; untextured models get
	// synthesized UVs.
	if !strings.Contains(got, "v 1 pos(0.5 -0.5 0) color(0 0 0) uv(2.0707965 0)\n") {
		t.Errorf("missing centered second vertex:\n%s", got)
	}
	if !strings.Contains(got, "t 0 0 1 2\n") {
		t.Errorf("missing triangle:\n%s", got)
	}
}

func TestCmdConfigAndRender(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "conf", "scop.yaml")

	var out bytes.Buffer
	if err := cmdConfig([]string{cfgPath}, &out); err != nil {
		t.Fatalf("cmdConfig: %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	img := filepath.Join(dir, "out", "cube.png")
	out.Reset()
	if err := cmdRender([]string{"-config", cfgPath, "-o", img, "-size", "32", cubeOBJ}, &out); err != nil {
		t.Fatalf("cmdRender: %v", err)
	}
	if !strings.Contains(out.String(), "(32x32)") {
		t.Errorf("unexpected output %q", out.String())
	}

	f, err := os.Open(img)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("image size = %v, want 32x32", b)
	}
}

func TestCmdRenderErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scop.yaml")
	if err := cmdConfig([]string{cfgPath}, &bytes.Buffer{}); err != nil {
		t.Fatalf("cmdConfig: %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"no model", []string{"-config", cfgPath}},
		{"unknown format", []string{"-config", cfgPath, "-o", filepath.Join(dir, "cube.gif"), cubeOBJ}},
		{"missing texture", []string{"-config", cfgPath, "-texture", filepath.Join(dir, "none.png"), cubeOBJ}},
		{"bad config", []string{"-config", writeFile(t, dir, "bad.yaml", "render:\n  size: -1\n"), cubeOBJ}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cmdRender(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPrintUsageListsEncodings(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out)
	if !strings.Contains(out.String(), "Encodings: utf-8, utf-16, euc-kr\n") {
		t.Errorf("usage missing encodings:\n%s", out.String())
	}
}
