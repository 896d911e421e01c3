package emails

import (
	"fmt"
	"strings"
	"time"
)

// Brand colors for the RTL email layout.
const (
	colorApproved = "#064E43"
	colorRejected = "#7C2D12"
	colorBgBody   = "#F3F4F6"
	colorText     = "#1F2937"
)

// EscapeHTML escapes user-provided strings interpolated into templates.
func EscapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}

// Layout wraps content in the shared right-to-left HTML email frame.
// headerColor distinguishes approval (green) from rejection (brown) mails.
func Layout(headerTitle, headerSubtitle, headerColor, contentHTML string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { margin: 0; padding: 0; width: 100%% !important; background-color: %s; }
    body, td, p, a { font-family: 'Segoe UI', Tahoma, Arial, sans-serif; color: %s; }
    .content p { margin: 0 0 16px 0; font-size: 16px; line-height: 1.8; text-align: right; }
    .badir-button { display: inline-block; background-color: %s; color: #ffffff !important; padding: 12px 32px; text-decoration: none !important; border-radius: 6px; font-weight: 600; font-size: 15px; }
  </style>
</head>
<body style="margin: 0; padding: 0; background-color: %s;">
  <table role="presentation" width="100%%" border="0" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 0;">
        <table role="presentation" width="600" border="0" cellspacing="0" cellpadding="0" style="width: 600px; background-color: #FFFFFF; border-radius: 8px; overflow: hidden;">
          <tr>
            <td align="center" style="background-color: %s; padding: 32px 48px;">
              <h1 style="margin: 0; color: #FFFFFF; font-size: 26px;">%s</h1>
              <p style="margin: 8px 0 0 0; color: #D1FAE5; font-size: 15px;">%s</p>
            </td>
          </tr>
          <tr>
            <td class="content" style="padding: 32px 48px;">%s</td>
          </tr>
          <tr>
            <td align="center" style="padding: 24px 48px 32px 48px; border-top: 1px solid #E5E7EB;">
              <p style="margin: 0; font-size: 13px; color: #6B7280;">© %d منصة بادر. جميع الحقوق محفوظة.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, colorBgBody, colorText, colorApproved, colorBgBody, headerColor, EscapeHTML(headerTitle), EscapeHTML(headerSubtitle), contentHTML, year)
}
