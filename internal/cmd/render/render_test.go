package render

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikitext-cli/api"
	"github.com/open-cli-collective/wikitext-cli/internal/config"
	"github.com/open-cli-collective/wikitext-cli/internal/server"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRenderOptions(output, stdin string) (*renderOptions, *bytes.Buffer) {
	var buf bytes.Buffer
	opts := &renderOptions{
		ioOptions: ioOptions{
			output:  output,
			noColor: true,
			cfg:     &config.Config{},
			stdin:   strings.NewReader(stdin),
			stdout:  &buf,
		},
		page: pageOptions{locale: "C", language: "default"},
	}
	return opts, &buf
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newWorkerClient(t *testing.T) *api.Client {
	t.Helper()
	s := server.New(server.Options{
		Settings:    wikitext.DefaultSettings(),
		Concurrency: 2,
		CacheSize:   8,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL)
}

func TestRunRender_StdinPlain(t *testing.T) {
	opts, buf := newRenderOptions("plain", "**hi**")

	err := runRender(context.Background(), opts, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>hi</strong></p>\n", buf.String())
}

func TestRunRender_JSON(t *testing.T) {
	opts, buf := newRenderOptions("json", "[[css]]\na {}\n[[/css]]\n__u__")
	opts.page.title = "My page"

	err := runRender(context.Background(), opts, []string{"-"}, nil)
	require.NoError(t, err)

	var out wikitext.Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "<p><u>u</u></p>", out.Body)
	assert.Equal(t, []string{"a {}"}, out.Styles)
	require.NotEmpty(t, out.Meta)
	assert.Equal(t, "og:title", out.Meta[0].Name)
	assert.Equal(t, "My page", out.Meta[0].Value)
}

func TestRunRender_Table(t *testing.T) {
	opts, buf := newRenderOptions("table", "[[div]]a[[/span]]")

	err := runRender(context.Background(), opts, nil, nil)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Meta")
	assert.Contains(t, output, "Warnings")
	assert.Contains(t, output, wikitext.RuleMismatchedClose)
}

func TestRunRender_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.wt", "**a**")
	b := writeFile(t, dir, "b.wt", "__b__")

	opts, buf := newRenderOptions("table", "")

	err := runRender(context.Background(), opts, []string{a, b}, nil)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "==> "+a+" <==")
	assert.Contains(t, output, "==> "+b+" <==")
	assert.Less(t, strings.Index(output, "<strong>a</strong>"), strings.Index(output, "<u>b</u>"))
}

func TestRunRender_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	small := writeFile(t, dir, "small.wt", "ok")
	large := writeFile(t, dir, "large.wt", strings.Repeat("x", 64))

	opts, buf := newRenderOptions("json", "")
	opts.cfg = &config.Config{MaxInputBytes: 16}

	err := runRender(context.Background(), opts, []string{small, large}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.NotNil(t, out[0]["output"])
	assert.Nil(t, out[0]["error"])
	assert.Contains(t, out[1]["error"], "size limit")
}

func TestRunRender_SingleFatalError(t *testing.T) {
	opts, _ := newRenderOptions("plain", strings.Repeat("x", 64))
	opts.cfg = &config.Config{MaxInputBytes: 16}

	err := runRender(context.Background(), opts, nil, nil)
	require.ErrorIs(t, err, wikitext.ErrInputTooLarge)
}

func TestRunRender_Markdown(t *testing.T) {
	opts, buf := newRenderOptions("plain", "**hi**")
	opts.markdown = true

	require.NoError(t, runRender(context.Background(), opts, nil, nil))
	assert.Equal(t, "**hi**\n", buf.String())
}

func TestRunRender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *renderOptions)
		args    []string
		wantErr string
	}{
		{"invalid format", func(o *renderOptions) { o.output = "xml" }, nil, "invalid output format"},
		{"invalid mode", func(o *renderOptions) { o.engine.mode = "wiki" }, nil, "unknown mode"},
		{"missing file", func(o *renderOptions) {}, []string{"/nonexistent/page.wt"}, "failed to read"},
		{"remote without server", func(o *renderOptions) { o.remote = true }, nil, "no render worker configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := newRenderOptions("plain", "x")
			tt.mutate(opts)

			err := runRender(context.Background(), opts, tt.args, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunRender_Remote(t *testing.T) {
	client := newWorkerClient(t)

	opts, buf := newRenderOptions("plain", "**remote**")
	opts.remote = true

	require.NoError(t, runRender(context.Background(), opts, nil, client))
	assert.Equal(t, "<p><strong>remote</strong></p>\n", buf.String())
}

func TestRunRender_RemoteBatch(t *testing.T) {
	client := newWorkerClient(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.wt", "**a**")
	b := writeFile(t, dir, "b.wt", "__b__")

	opts, buf := newRenderOptions("json", "")
	opts.remote = true
	opts.engine.mode = "forum-post"

	require.NoError(t, runRender(context.Background(), opts, []string{a, b}, client))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, a, out[0]["file"])
	assert.Equal(t, b, out[1]["file"])
}

func TestRunRender_RemoteInvalidMode(t *testing.T) {
	opts, _ := newRenderOptions("plain", "x")
	opts.remote = true
	opts.engine.mode = "wiki"

	err := runRender(context.Background(), opts, nil, api.NewClient("http://127.0.0.1:1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestPageOptions_PageFor(t *testing.T) {
	t.Run("defaults from file name", func(t *testing.T) {
		p := &pageOptions{locale: "C", language: "default"}
		info := p.pageFor("docs/intro.wt")

		assert.Equal(t, "intro", info.Slug)
		assert.Equal(t, "intro", info.Title)
		assert.Nil(t, info.AltSlug)
		assert.Nil(t, info.AltTitle)
		assert.NoError(t, info.Validate())
	})

	t.Run("explicit fields", func(t *testing.T) {
		p := &pageOptions{
			slug: "s", altSlug: "alt", title: "T", altTitle: "AT",
			locale: "en", language: "en", score: 4.5, tags: []string{"a", "b"},
		}
		info := p.pageFor("ignored.wt")

		assert.Equal(t, "s", info.Slug)
		assert.Equal(t, "T", info.Title)
		require.NotNil(t, info.AltSlug)
		assert.Equal(t, "alt", *info.AltSlug)
		require.NotNil(t, info.AltTitle)
		assert.Equal(t, "AT", *info.AltTitle)
		assert.Equal(t, 4.5, info.Score)
		assert.Equal(t, []string{"a", "b"}, info.Tags)
	})
}

func TestEngineOptions_Settings(t *testing.T) {
	cfg := &config.Config{Mode: "draft", MaxDepth: 3}

	s, err := (&engineOptions{}).settings(cfg)
	require.NoError(t, err)
	assert.Equal(t, wikitext.ModeDraft, s.Mode)
	assert.Equal(t, 3, s.MaxDepth)
	assert.False(t, s.Preprocess)

	s, err = (&engineOptions{mode: "list", preprocess: true, strict: true}).settings(cfg)
	require.NoError(t, err)
	assert.Equal(t, wikitext.ModeList, s.Mode)
	assert.True(t, s.Preprocess)
	assert.True(t, s.StrictInline)
}

func TestNewClient_SendsRequestID(t *testing.T) {
	var got []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(api.RequestIDHeader))
		_, _ = w.Write([]byte("pong"))
	}))
	defer ts.Close()

	client, err := newClient("", &config.Config{ServerURL: ts.URL})
	require.NoError(t, err)
	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Ping(context.Background()))

	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0])
	assert.Equal(t, got[0], got[1])
}
