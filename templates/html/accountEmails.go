package templates

import (
	"fmt"
	"html"
)

// RenderVerifyEmail generates the HTML for the email-verification message. The
// link carries the signed verification token.
func RenderVerifyEmail(verifyLink string) string {
	safeLink := html.EscapeString(verifyLink)
	body := fmt.Sprintf(`<p>Welcome to MotoG!</p>
<p>Confirm your email address to start listing and discovering vehicles near you.</p>
<p style="text-align: center; margin: 30px 0;">
  <a href="%s" style="display: inline-block; background: linear-gradient(135deg, #1e3a8a 0%%, #2563eb 100%%); color: #fff; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 700;">Verify Email</a>
</p>
<p>If the button does not work, copy this link into your browser:</p>
<p><a href="%s">%s</a></p>
<p>This link expires in 24 hours. If you did not create a MotoG account, you can ignore this email.</p>`, safeLink, safeLink, safeLink)
	return wrapBranded("Verify your email", body)
}

// RenderPasswordReset generates the HTML for the password-reset message.
func RenderPasswordReset(resetLink string) string {
	safeLink := html.EscapeString(resetLink)
	body := fmt.Sprintf(`<p>We received a request to reset your MotoG password.</p>
<p style="text-align: center; margin: 30px 0;">
  <a href="%s" style="display: inline-block; background: linear-gradient(135deg, #1e3a8a 0%%, #2563eb 100%%); color: #fff; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 700;">Reset Password</a>
</p>
<p>If the button does not work, copy this link into your browser:</p>
<p><a href="%s">%s</a></p>
<p>This link expires in 30 minutes. If you did not request a reset, no action is needed; your password is unchanged.</p>`, safeLink, safeLink, safeLink)
	return wrapBranded("Reset your password", body)
}

func wrapBranded(title, body string) string {
	safeTitle := html.EscapeString(title)
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f5f7; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #1e3a8a 0%%, #2563eb 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(0,0,0,0.08); }
    .footer a { color: #2563eb; text-decoration: none; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      <p>&copy; MotoG | <a href="https://www.motog.app">motog.app</a></p>
      <p><a href="https://www.motog.app/contact-us">Contact Support</a></p>
    </div>
  </div>
</body>
</html>`, safeTitle, safeTitle, body)
}
