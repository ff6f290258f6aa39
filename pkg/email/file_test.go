package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/pkg/email"
)

func TestFileProvider(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "outbox")
	p, err := email.NewFileProvider(email.ProviderConfig{"dir": dir}, testRenderer())
	require.NoError(t, err)

	v, ok := p.(email.Verifier)
	require.True(t, ok)
	require.NoError(t, v.Verify(context.Background()))

	payload := validPayload("ana@example.com")
	payload.Subject = "Thanks for the feedback!"
	payload.CC = []string{"lead@example.com"}
	payload.Attachments = []email.Attachment{{Filename: "log.txt", Content: []byte("x")}}
	require.NoError(t, p.Send(context.Background(), payload))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		assert.Contains(t, e.Name(), "thanks_for_the_feedback")

		switch {
		case strings.HasSuffix(e.Name(), ".html"):
			assert.Equal(t, "<p>Hello ANA</p>", string(data))
		case strings.HasSuffix(e.Name(), ".json"):
			var meta map[string]any
			require.NoError(t, json.Unmarshal(data, &meta))
			assert.Equal(t, "ana@example.com", meta["to"])
			assert.Equal(t, "hello.html", meta["template"])
			assert.Equal(t, []any{"log.txt"}, meta["attachments"])
		default:
			t.Fatalf("unexpected file %s", e.Name())
		}
	}
}

func TestFileProvider_MissingTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := email.NewFileProvider(email.ProviderConfig{"dir": dir}, testRenderer())
	require.NoError(t, err)

	payload := validPayload("ana@example.com")
	payload.TemplatePath = "nope.html"
	require.ErrorIs(t, p.Send(context.Background(), payload), email.ErrTemplateNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
