package templates_test

import (
	"fmt"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/pkg/email/templates"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"greet.html":        {Data: []byte(`<p>Hello {{ upper .firstName }}</p>`)},
		"escape.html":       {Data: []byte(`<p>{{ .content }}</p>`)},
		"notes/summary.md":  {Data: []byte("# {{ title .type }}\n\nRating: {{ stars .rating }}")},
		"broken.html":       {Data: []byte(`{{ .unclosed `)},
		"missing-func.html": {Data: []byte(`{{ nope .x }}`)},
		"exec-fail.html":    {Data: []byte(`{{ index .list 5 }}`)},
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := templates.New(testFS())

	tests := []struct {
		name    string
		ref     string
		data    map[string]any
		want    string
		wantErr error
	}{
		{
			name: "uppercase helper",
			ref:  "greet.html",
			data: map[string]any{"firstName": "Ana"},
			want: "<p>Hello ANA</p>",
		},
		{
			name: "leading slash is ignored",
			ref:  "/greet.html",
			data: map[string]any{"firstName": "bo"},
			want: "<p>Hello BO</p>",
		},
		{
			name: "html is escaped",
			ref:  "escape.html",
			data: map[string]any{"content": "<script>x</script>"},
			want: "<p>&lt;script&gt;x&lt;/script&gt;</p>",
		},
		{
			name: "markdown converted",
			ref:  "notes/summary.md",
			data: map[string]any{"type": "feature_request", "rating": 4},
			want: "<h1>Feature Request</h1>\n<p>Rating: ★★★★☆</p>\n",
		},
		{
			name:    "missing file",
			ref:     "nope.html",
			wantErr: templates.ErrTemplateNotFound,
		},
		{
			name:    "empty reference",
			ref:     "  ",
			wantErr: templates.ErrTemplateNotFound,
		},
		{
			name:    "parse error",
			ref:     "broken.html",
			wantErr: templates.ErrRenderFailed,
		},
		{
			name:    "unknown helper",
			ref:     "missing-func.html",
			wantErr: templates.ErrRenderFailed,
		},
		{
			name:    "execution error",
			ref:     "exec-fail.html",
			data:    map[string]any{"list": []string{"a"}},
			wantErr: templates.ErrRenderFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Render(tt.ref, tt.data)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_Idempotent(t *testing.T) {
	t.Parallel()

	r := templates.New(testFS())
	data := map[string]any{"firstName": "Ana"}

	first, err := r.Render("greet.html", data)
	require.NoError(t, err)
	second, err := r.Render("greet.html", data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Cached())
}

func TestRenderer_Cache(t *testing.T) {
	t.Parallel()

	t.Run("cached template survives file change", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"a.html": {Data: []byte("v1")}}
		r := templates.New(fsys)

		got, err := r.Render("a.html", nil)
		require.NoError(t, err)
		assert.Equal(t, "v1", got)

		fsys["a.html"] = &fstest.MapFile{Data: []byte("v2")}
		got, err = r.Render("a.html", nil)
		require.NoError(t, err)
		assert.Equal(t, "v1", got)
	})

	t.Run("disabled cache reloads", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"a.html": {Data: []byte("v1")}}
		r := templates.New(fsys, templates.WithCache(false))

		_, err := r.Render("a.html", nil)
		require.NoError(t, err)

		fsys["a.html"] = &fstest.MapFile{Data: []byte("v2")}
		got, err := r.Render("a.html", nil)
		require.NoError(t, err)
		assert.Equal(t, "v2", got)
		assert.Zero(t, r.Cached())
	})

	t.Run("failed loads are not cached", func(t *testing.T) {
		t.Parallel()
		r := templates.New(testFS())
		_, err := r.Render("broken.html", nil)
		require.Error(t, err)
		assert.Zero(t, r.Cached())
	})

	t.Run("concurrent first render", func(t *testing.T) {
		t.Parallel()
		r := templates.New(testFS())

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := r.Render("greet.html", map[string]any{"firstName": fmt.Sprint(i)})
				assert.NoError(t, err)
				assert.Contains(t, got, "Hello")
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, r.Cached())
	})
}

func TestRenderer_WithFuncs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"x.html": {Data: []byte(`{{ shout .v }}`)}}
	r := templates.New(fsys, templates.WithFuncs(map[string]any{
		"shout": func(s string) string { return s + "!" },
	}))

	got, err := r.Render("x.html", map[string]any{"v": "hey"})
	require.NoError(t, err)
	assert.Equal(t, "hey!", got)
}

func TestFuncs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "★★★☆☆", templates.Stars(3))
	assert.Equal(t, "★★★★★", templates.Stars(9))
	assert.Equal(t, "☆☆☆☆☆", templates.Stars(-1))
	assert.Equal(t, "★★☆☆☆", templates.Stars("2"))

	assert.Equal(t, "In Progress", templates.Title("in_progress"))
	assert.Equal(t, "n/a", templates.Default("n/a", ""))
	assert.Equal(t, "team", templates.Default("n/a", "team"))
	assert.Equal(t, "n/a", templates.Default("n/a", nil))

	ts := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", templates.FormatDate("2006-01-02", ts))
	assert.Equal(t, "2024-03-09", templates.FormatDate("2006-01-02", "2024-03-09T10:00:00Z"))
	assert.Equal(t, "not a date", templates.FormatDate("2006-01-02", "not a date"))

	assert.Equal(t, "héll…", templates.Truncate(4, "héllo"))
	assert.Equal(t, "hi", templates.Truncate(4, "hi"))
	assert.Equal(t, "a, b", templates.Join(", ", []string{"a", "b"}))
	assert.Equal(t, "1-2", templates.Join("-", []any{1, 2}))
}
