package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const twoColumns = `<!DOCTYPE html>
<table id="t" style="border-spacing:0"><tr>
	<td style="padding:0">aa</td><td style="padding:0">bbbb</td>
</tr></table>
`

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--fixed-advance", "1", "--viewport", "200"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeDoc(t *testing.T, dir, name, script string) string {
	t.Helper()
	body := twoColumns
	if script != "" {
		body += "<script>" + script + "</script>"
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLayoutCommand(t *testing.T) {
	chdir(t, t.TempDir())
	src := writeDoc(t, ".", "doc.html", "")

	out, err := executeCommand(t, "layout", src)
	require.NoError(t, err)
	assert.Contains(t, out, "table 1: width 96 (min 96, max 96) at 8,8")
	assert.Contains(t, out, "DECLARED")
	assert.Contains(t, out, "auto")
	assert.Contains(t, out, "64")
}

func TestLayoutCommand_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := executeCommand(t, "layout")
	assert.Error(t, err)

	_, err = executeCommand(t, "layout", "missing.html")
	assert.ErrorContains(t, err, "reading missing.html")

	src := writeDoc(t, ".", "doc.html", "")
	_, err = executeCommand(t, "--quirks", "sometimes", "layout", src)
	assert.ErrorContains(t, err, "layout.quirks")
}

func TestLayoutCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	src := writeDoc(t, dir, "doc.html", "")
	cfg := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("layout:\n  margin: 0\n"), 0o644))

	out, err := executeCommand(t, "--config", cfg, "layout", src)
	require.NoError(t, err)
	assert.Contains(t, out, "at 0,0")
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	src := writeDoc(t, dir, "doc.html", "")
	output := filepath.Join(dir, "out.png")

	out, err := executeCommand(t, "render", src, "-o", output, "--guides")
	require.NoError(t, err)
	assert.Contains(t, out, "rendered")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 32, cfg.Height)

	// A render matches itself.
	second := filepath.Join(dir, "second.png")
	out, err = executeCommand(t, "render", src, "-o", second, "--guides", "--compare", output)
	require.NoError(t, err)
	assert.Contains(t, out, "matches")
}

func TestRenderCommand_CompareMismatch(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	src := writeDoc(t, dir, "doc.html", "")

	ref := filepath.Join(dir, "ref.png")
	f, err := os.Create(ref)
	require.NoError(t, err)
	black := image.NewRGBA(image.Rect(0, 0, 200, 32))
	for i := 3; i < len(black.Pix); i += 4 {
		black.Pix[i] = 255
	}
	require.NoError(t, png.Encode(f, black))
	require.NoError(t, f.Close())

	diff := filepath.Join(dir, "diff.png")
	_, err = executeCommand(t, "render", src, "-o", filepath.Join(dir, "out.png"), "--compare", ref, "--diff", diff)
	assert.ErrorContains(t, err, "differs from")
	assert.FileExists(t, diff)

	_, err = executeCommand(t, "render", src)
	assert.ErrorContains(t, err, "output")
}

func TestCheckCommand(t *testing.T) {
	defer goleak.VerifyNone(t)
	dir := t.TempDir()
	chdir(t, dir)
	pass := writeDoc(t, dir, "pass.html", `assert_equals(tables[0].columns, [32, 64], "columns");`)
	fail := writeDoc(t, dir, "fail.html", `assert_equals(tables[0].width, 100, "width");`)
	none := writeDoc(t, dir, "none.html", "")

	out, err := executeCommand(t, "check", pass, none)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS "+pass+" (1 assertions)")
	assert.Contains(t, out, "SKIP "+none)

	out, err = executeCommand(t, "check", "-j", "2", pass, fail)
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "FAIL "+fail)
	assert.Contains(t, out, "width: got 96, want 100")
	assert.Less(t, strings.Index(out, "PASS"), strings.Index(out, "FAIL"), "results keep argument order")

	_, err = executeCommand(t, "check", pass, filepath.Join(dir, "missing.html"))
	assert.ErrorContains(t, err, "missing.html")
}

func TestConfigCommand(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("L14T_LAYOUT_DEFAULT_SPACING", "5")

	out, err := executeCommand(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "viewport_width: 200")
	assert.Contains(t, out, "default_spacing: 5")
	assert.Contains(t, out, "fixed_advance: 1")
	assert.Contains(t, out, "service_name: louis14tables")
}
