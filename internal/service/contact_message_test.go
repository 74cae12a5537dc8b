package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/portfolio/backend/internal/model"
)

func TestComposeContactMessage(t *testing.T) {
	email := ComposeContactMessage(model.ContactSubmission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "Hi\nthere",
	})

	assert.Equal(t, ContactSubject, email.Subject)
	assert.Contains(t, email.HTML, "<h2>New message from portfolio</h2>")
	assert.Contains(t, email.HTML, "<strong>Name:</strong> Ada")
	assert.Contains(t, email.HTML, "ada@example.com")
	assert.Contains(t, email.HTML, "Hi<br/>there")
	assert.Contains(t, email.Text, "Name: Ada")
	assert.Contains(t, email.Text, "Hi\nthere")
	assert.Equal(t, `"Ada" <ada@example.com>`, email.ReplyTo)
	assert.Empty(t, email.To)
}

func TestComposeContactMessage_EscapesMarkup(t *testing.T) {
	email := ComposeContactMessage(model.ContactSubmission{
		Name:    "Ada <Lovelace>",
		Email:   "ada@example.com",
		Message: "I use vector<int> and a<b>c\r\nTom & Jerry <script>alert(1)</script>",
	})

	assert.Contains(t, email.HTML, "<strong>Name:</strong> Ada &lt;Lovelace&gt;</p>")
	assert.Contains(t, email.HTML, "I use vector&lt;int&gt; and a&lt;b&gt;c<br/>Tom &amp; Jerry")
	assert.Contains(t, email.HTML, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, email.HTML, "<script>")
	assert.NotContains(t, email.HTML, "<b>")

	assert.Contains(t, email.Text, "Name: Ada <Lovelace>")
	assert.Contains(t, email.Text, "I use vector<int> and a<b>c\nTom & Jerry")
	assert.NotContains(t, email.Text, "\r\n")
}
