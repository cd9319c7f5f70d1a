package health

import (
	"bytes"
	"html/template"
	"sort"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>AuditNet · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --green: #0f766e; --red: #b91c1c; --bg: #f8fafc; --muted: #64748b; }
    body { background: var(--bg); font-family: system-ui, sans-serif; margin: 0; padding: 40px; color: #0f172a; }
    h1 { font-size: 22px; margin: 0 0 4px; }
    .status { font-weight: 700; text-transform: uppercase; }
    .ok { color: var(--green); } .issue { color: var(--red); }
    table { border-collapse: collapse; margin-top: 24px; min-width: 420px; }
    td, th { text-align: left; padding: 8px 16px 8px 0; border-bottom: 1px solid #e2e8f0; }
    th { color: var(--muted); font-weight: 600; font-size: 12px; text-transform: uppercase; }
  </style>
</head>
<body>
  <h1>AuditNet API</h1>
  <div class="status {{.Status}}">{{.Status}}</div>

  <table>
    <tr><th>Dependency</th><th>Status</th><th>Ping (ms)</th></tr>
    {{range .Deps}}<tr><td>{{.Name}}</td><td>{{.Status}}</td><td>{{if .PingMs}}{{.PingMs}}{{else}}-{{end}}</td></tr>
    {{end}}
  </table>

  <table>
    <tr><th>Traffic</th><th></th></tr>
    <tr><td>Total requests</td><td>{{.Traffic.TotalRequests}}</td></tr>
    <tr><td>Failed (5xx)</td><td>{{.Traffic.FailedCount}}</td></tr>
    <tr><td>Success rate</td><td>{{.Traffic.SuccessRate}}%</td></tr>
    <tr><td>Avg response (ms)</td><td>{{.Traffic.AvgResponseTime}}</td></tr>
  </table>

  <table>
    <tr><th>Runtime</th><th></th></tr>
    <tr><td>Uptime (s)</td><td>{{.Runtime.UptimeSeconds}}</td></tr>
    <tr><td>Heap in use (MB)</td><td>{{.Runtime.Memory.HeapInMB}}</td></tr>
    <tr><td>Goroutines</td><td>{{.Runtime.Goroutines}}</td></tr>
    <tr><td>Platform</td><td>{{.Runtime.Platform}} · {{.Runtime.GoVersion}}</td></tr>
  </table>
</body>
</html>`))

type dashboardDep struct {
	Name   string
	Status string
	PingMs interface{}
}

// RenderDashboardHTML returns the HTML for GET /.
func RenderDashboardHTML(health CollectResult) (string, error) {
	deps := make([]dashboardDep, 0, len(health.Dependencies))
	for name, d := range health.Dependencies {
		dep := dashboardDep{Name: name, Status: d.Status}
		if d.PingMs != nil {
			dep.PingMs = *d.PingMs
		}
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	var buf bytes.Buffer
	err := dashboardTmpl.Execute(&buf, struct {
		CollectResult
		Deps []dashboardDep
	}{health, deps})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
