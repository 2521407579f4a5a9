package services

import (
	"bytes"
	"html/template"
)

var magicLinkTemplate = template.Must(template.New("magic_link").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome back!</h2>
  <p>You requested a secure login link for the Secret Santa exchange.</p>
  <div style="margin: 24px 0;">
    <a href="{{.Link}}" style="background-color: #d32f2f; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Click here to log in</a>
  </div>
  <p style="color: #666; font-size: 14px;">If you didn't request this, you can safely ignore this email.</p>
  <p style="color: #666; font-size: 14px;"><i>Link expires in {{.TTL}}.</i></p>
</div>`))

var assignmentTemplate = template.Must(template.New("assignment").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hi {{.Name}}, the names are drawn!</h2>
  <p>Your Secret Santa match is ready. Log in to see who you are giving to and what is on their wishlist.</p>
  <div style="margin: 24px 0;">
    <a href="{{.Link}}" style="background-color: #2e7d32; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reveal my match</a>
  </div>
</div>`))

func render(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// templates are static; a failure here is a programming error
		panic(err)
	}
	return buf.String()
}

func magicLinkEmail(link, ttl string) (subject, html string) {
	return "Login to Secret Santa", render(magicLinkTemplate, struct{ Link, TTL string }{link, ttl})
}

func assignmentEmail(name, link string) (subject, html string) {
	return "Your Secret Santa match is ready", render(assignmentTemplate, struct{ Name, Link string }{name, link})
}
