package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesAllPages(t *testing.T) {
	renderer, err := New()
	require.Nil(t, err)

	for _, name := range []string{
		"error.html",
		"products/index.html",
		"products/product_form.html",
		"contacts/index.html",
		"contacts/contact_form.html",
		"contacts/phones.html",
		"contacts/phone_form.html",
		"auth/login.html",
		"auth/register.html",
	} {
		_, ok := renderer.templates[name]
		assert.True(t, ok, "Expected template %v to be parsed", name)
	}
}

func TestRender(t *testing.T) {
	renderer, err := New()
	require.Nil(t, err)

	buffer := new(bytes.Buffer)
	err = renderer.Render(buffer, "error.html", map[string]interface{}{"status": 403, "statusText": "Forbidden"})
	assert.Nil(t, err)
	assert.Contains(t, buffer.String(), "403 Forbidden")
	assert.Contains(t, buffer.String(), "Log in", "Anonymous layout should link to log in")

	buffer.Reset()
	err = renderer.Render(buffer, "missing.html", nil)
	assert.NotNil(t, err)
	assert.Empty(t, buffer.String())
}
