package mail

import (
	"fmt"
	"html/template"
	"strings"
)

var activationTemplate = template.Must(template.New("activation").Parse(`
<h1>Welcome to ChatterBox!</h1>
<p>Hi {{.Username}},</p>
<p>Thank you for joining ChatterBox. We're thrilled to have you on board!</p>
<p>Click <a href="{{.Link}}">here</a> to activate your account.</p>
<p>or copy and paste the following link in your browser:</p>
<p>{{.Link}}</p>
<p>The link will expire in 24 hours.</p>
<p>If you did not sign up for ChatterBox, please ignore this email.</p>
<p>Thank you!</p>
<p>The ChatterBox Team</p>
`))

var passwordResetTemplate = template.Must(template.New("passwordReset").Parse(`
<h1>Reset your Password</h1>
<p>Hi {{.Username}},</p>
<p>We received a request to reset your password.</p>
<p>Click <a href="{{.Link}}">here</a> to reset your password.</p>
<p>or copy and paste the following link in your browser:</p>
<p>{{.Link}}</p>
<p>The link will expire in 3 hours.</p>
<p>If you did not request a password reset, please ignore this email.</p>
<p>Thank you!</p>
<p>The ChatterBox Team</p>
`))

var unusualActivityTemplate = template.Must(template.New("unusualActivity").Parse(`
<h1>Unusual Sign in on ChatterBox</h1>
<p>Hi {{.Username}},</p>
<p>We have detected an unusual sign in attempt on your ChatterBox account.</p>
<p>The details of the sign in attempt are as follows:</p>
<p>IP Address: {{.IPAddress}}</p>
<p>User Agent: {{.UserAgent}}</p>
<p>If this was not you, please reset your password to secure your account.</p>
<p>Thank you!</p>
<p>The ChatterBox Team</p>
`))

type linkEmailData struct {
	Username string
	Link     string
}

type activityEmailData struct {
	Username  string
	IPAddress string
	UserAgent string
}

func activationEmail(clientURL, username, to, token string) (Email, error) {
	var body strings.Builder
	data := linkEmailData{
		Username: username,
		Link:     fmt.Sprintf("%s/auth/activate-account?token=%s", clientURL, token),
	}
	if err := activationTemplate.Execute(&body, data); err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Welcome to ChatterBox!", HTML: body.String()}, nil
}

func passwordResetEmail(clientURL, username, to, token string) (Email, error) {
	var body strings.Builder
	data := linkEmailData{
		Username: username,
		Link:     fmt.Sprintf("%s/auth/reset-password?token=%s", clientURL, token),
	}
	if err := passwordResetTemplate.Execute(&body, data); err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Reset your Password", HTML: body.String()}, nil
}

func unusualActivityEmail(username, to, ip, userAgent string) (Email, error) {
	var body strings.Builder
	data := activityEmailData{Username: username, IPAddress: ip, UserAgent: userAgent}
	if err := unusualActivityTemplate.Execute(&body, data); err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Unusual Sign in on ChatterBox", HTML: body.String()}, nil
}
