package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetContactNotification_EscapesInput(t *testing.T) {
	html := GetContactNotification(ContactNotificationProps{
		Name:    "<script>alert(1)</script>",
		Email:   "lead@example.com",
		Message: "Hello",
	})
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Business Type")
	assert.Contains(t, html, "https://www.magnetomarketing.co")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(html), "<!doctype html>"))
}

func TestGetFields_EmptyValuesRenderDash(t *testing.T) {
	out := GetFields([]Field{{Label: "Business Type", Value: "  "}})
	assert.Contains(t, out, ">-</td>")
}

func TestGetButton_RejectsUnsafeInput(t *testing.T) {
	out := GetButton(ButtonProps{Text: "Go", URL: "javascript:alert(1)", BackgroundColor: "red;x"})
	assert.Contains(t, out, `href="#"`)
	assert.Contains(t, out, "#e4572e")
}

func TestContactSubject(t *testing.T) {
	assert.Equal(t, "New contact from Ana", ContactSubject("Ana", "a@b.co"))
	assert.Equal(t, "New contact from a@b.co", ContactSubject("", "a@b.co"))
}
