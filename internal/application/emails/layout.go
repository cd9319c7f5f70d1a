package emails

import (
	"fmt"
	"strings"
	"time"
)

const (
	themePrimary   = "#0F4C81"
	themeTextMain  = "#1F2937"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#F3F4F6"
)

// EmailLayout wraps content in the shared HTML frame.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>AuditNet</title>
  <style>
    body { margin: 0; padding: 0; background-color: %s; font-family: -apple-system, 'Segoe UI', Tahoma, Arial, sans-serif; color: %s; }
    .card { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; padding: 32px 40px; }
    .card h1 { font-size: 22px; margin-top: 0; }
    .card p { font-size: 15px; line-height: 1.6; }
    .ar { text-align: right; border-top: 1px solid #E5E7EB; margin-top: 16px; padding-top: 16px; }
    .button { display: inline-block; background-color: %s; color: #FFFFFF !important; padding: 10px 28px; border-radius: 6px; text-decoration: none; font-weight: 600; }
    .footer { text-align: center; font-size: 12px; color: %s; padding-bottom: 32px; }
  </style>
</head>
<body>
  <div class="card">%s</div>
  <div class="footer">&copy; %d AuditNet</div>
</body>
</html>`, themeBgBody, themeTextMain, themePrimary, themeTextMuted, contentHTML, time.Now().Year())
}

// EscapeHTML escapes text for safe interpolation into email bodies.
func EscapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	return r.Replace(s)
}
