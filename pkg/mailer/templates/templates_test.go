package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louiecodes/auth-service/pkg/mailer/templates"
)

func TestRenderHTML_ResetPassword(t *testing.T) {
	html, err := templates.RenderHTML("reset_password", map[string]any{
		"Name":     "Louie",
		"AppName":  "auth-service",
		"ResetURL": "https://app.example.com/reset-password/tok123",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Louie!")
	assert.Contains(t, html, "auth-service")
	assert.Contains(t, html, "https://app.example.com/reset-password/tok123")

	t.Run("missing fields fall back to defaults", func(t *testing.T) {
		html, err := templates.RenderHTML("reset_password", map[string]any{
			"ResetURL": "https://x/reset-password/t",
		})
		require.NoError(t, err)
		assert.Contains(t, html, "Hi there!")
	})

	t.Run("unknown template errors", func(t *testing.T) {
		_, err := templates.RenderHTML("no_such_template", nil)
		assert.Error(t, err)
	})
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Reset your password", templates.Subject("reset_password"))
	assert.Equal(t, "Notification", templates.Subject("anything_else"))
}
