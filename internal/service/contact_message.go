package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/portfolio/backend/internal/mailer"
	"github.com/portfolio/backend/internal/model"
)

// ContactSubject is the subject line of every contact notification.
const ContactSubject = "New portfolio contact"

const contactHTML = `<h2>New message from portfolio</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Message:</strong><br/>%s</p>
`

const contactText = "New message from portfolio\nName: %s\nEmail: %s\n\n%s"

// bodyPolicy admits only the markup of contactHTML. Submitted text is
// escaped before it reaches the policy, so it survives as text.
var bodyPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h2", "p", "strong", "br")
	return p
}()

// ComposeContactMessage renders the notification for a submission. In the HTML
// body user input is escaped and message newlines become <br/>. Replies go to
// the submitter.
func ComposeContactMessage(sub model.ContactSubmission) *mailer.Email {
	message := strings.ReplaceAll(sub.Message, "\r\n", "\n")
	htmlMessage := strings.ReplaceAll(html.EscapeString(message), "\n", "<br/>")

	return &mailer.Email{
		Subject: ContactSubject,
		HTML: bodyPolicy.Sanitize(fmt.Sprintf(contactHTML,
			html.EscapeString(sub.Name),
			html.EscapeString(sub.Email),
			htmlMessage,
		)),
		Text:    fmt.Sprintf(contactText, sub.Name, sub.Email, message),
		ReplyTo: mailer.Recipient(sub.Name, sub.Email),
	}
}
