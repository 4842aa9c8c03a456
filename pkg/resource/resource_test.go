package resource

import (
	"context"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louis14tables/pkg/js"
	"louis14tables/pkg/layout"
	"louis14tables/pkg/text"
)

const page = `<!DOCTYPE html><table style="border-spacing:0"><tr>
	<td style="padding:0">aa</td><td style="padding:0">bbbb</td>
</tr></table>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tables/one.html", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad_URL(t *testing.T) {
	srv := newServer(t)
	got, err := Load(context.Background(), NewFetcher(""), srv.URL+"/tables/one.html")
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestLoad_NotFound(t *testing.T) {
	srv := newServer(t)
	_, err := Load(context.Background(), NewFetcher(""), srv.URL+"/missing.html")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "404")
}

func TestLoad_RejectsNonText(t *testing.T) {
	srv := newServer(t)
	_, err := Load(context.Background(), NewFetcher(""), srv.URL+"/image.png")
	assert.ErrorContains(t, err, "unexpected content type")
}

func TestLoad_CanceledContext(t *testing.T) {
	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, NewFetcher(""), srv.URL+"/tables/one.html")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	got, err := Load(context.Background(), NewFetcher(""), path)
	require.NoError(t, err)
	assert.Equal(t, page, got)

	got, err = Load(context.Background(), NewFetcher(""), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, page, got)

	_, err = Load(context.Background(), NewFetcher(""), filepath.Join(t.TempDir(), "missing.html"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetch_RelativeToBase(t *testing.T) {
	srv := newServer(t)
	body, contentType, err := NewFetcher(srv.URL+"/tables/").Fetch(context.Background(), "one.html")
	require.NoError(t, err)
	assert.Equal(t, page, string(body))
	assert.Contains(t, contentType, "text/html")

	_, _, err = NewFetcher("").Fetch(context.Background(), "one.html")
	assert.ErrorContains(t, err, "non-network")
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "http://x.test/a/b.html", ResolveURL("http://x.test/a/", "b.html"))
	assert.Equal(t, "http://y.test/c", ResolveURL("http://x.test/a/", "http://y.test/c"))
}

func newTableRenderer(opts ...RendererOption) *TableRenderer {
	engine := layout.NewEngine(layout.WithMeasurer(text.FixedAdvance{Advance: 1}))
	return NewTableRenderer(engine, nil, opts...)
}

func TestTableRenderer_LayoutAndExtent(t *testing.T) {
	p, err := newTableRenderer().Layout(page, 800)
	require.NoError(t, err)
	require.Len(t, p.Tables, 1)
	assert.Equal(t, []int{32, 64}, p.Tables[0].ColumnWidths())

	w, h := p.Extent(8)
	assert.Equal(t, 8+96+8, w)
	assert.Equal(t, 8+16+8, h)
}

func TestTableRenderer_Check(t *testing.T) {
	p, err := newTableRenderer().Layout(page, 800)
	require.NoError(t, err)
	p.Doc.Scripts = []string{`assert_equals(tables[0].columns, [32, 64]); assert_equals(tables[0].width, 1);`}

	n, err := newTableRenderer().Check(p)
	assert.Equal(t, 2, n)
	assert.True(t, errors.Is(err, js.ErrAssertion))
}

func TestTableRenderer_Render(t *testing.T) {
	target := image.NewRGBA(image.Rect(0, 0, 200, 50))
	require.NoError(t, newTableRenderer(WithScripts()).Render(page, target))

	// The canvas is cleared to white.
	r, g, b, _ := target.At(150, 40).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}
