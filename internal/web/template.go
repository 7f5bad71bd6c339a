package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/ring-mouse/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"held": func(pressed bool) string {
		if pressed {
			return "held"
		}
		return "released"
	},
	"percent": func(p int) string {
		if p < 0 {
			return "unknown"
		}
		return fmt.Sprintf("%d%%", p)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Config.DeviceName}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.held { color: green; font-weight: bold; }
.released { color: #888; }
.connected { color: green; }
.advertising { color: orange; }
.disconnected { color: red; }
.charging { color: green; }
</style>
</head>
<body>
<h1>{{.Config.DeviceName}}</h1>

<h2>Link</h2>
<table>
<tr><th>State</th><td class="{{if eq .Link.String "CONNECTED"}}connected{{else if eq .Link.String "ADVERTISING"}}advertising{{else}}disconnected{{end}}">{{.Link}}</td></tr>
<tr><th>Transport</th><td>{{.Config.Transport}} ({{.Config.Endpoint}})</td></tr>
<tr><th>Transitions</th><td>{{.LinkTransitions}}</td></tr>
</table>

<h2>Buttons</h2>
<table>
<tr><th>Ready</th><td>{{if .Baselined}}yes{{else}}no{{end}}</td></tr>
<tr><th>Left</th><td class="{{held (index .Pressed 0)}}">{{held (index .Pressed 0)}}</td></tr>
<tr><th>Right</th><td class="{{held (index .Pressed 1)}}">{{held (index .Pressed 1)}}</td></tr>
<tr><th>Wheel Up</th><td class="{{held (index .Pressed 2)}}">{{held (index .Pressed 2)}}</td></tr>
<tr><th>Wheel Down</th><td class="{{held (index .Pressed 3)}}">{{held (index .Pressed 3)}}</td></tr>
</table>

<h2>Battery</h2>
<table>
<tr><th>Level</th><td>{{percent .Battery.Percent}}</td></tr>
<tr><th>Voltage</th><td>{{printf "%.2f" .Battery.Voltage}}V</td></tr>
<tr><th>Charging</th><td{{if .Battery.Charging}} class="charging"{{end}}>{{if .Battery.Charging}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Reports</h2>
<table>
<tr><th>Flushed</th><td>{{.ReportsFlushed}}</td></tr>
<tr><th>Failed</th><td>{{.ReportsFailed}}</td></tr>
<tr><th>Left presses</th><td>{{index .Counts.Presses 0}}</td></tr>
<tr><th>Right presses</th><td>{{index .Counts.Presses 1}}</td></tr>
<tr><th>Wheel up presses</th><td>{{index .Counts.Presses 2}}</td></tr>
<tr><th>Wheel down presses</th><td>{{index .Counts.Presses 3}}</td></tr>
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02 15:04:05 UTC"}}</td></tr>
<tr><th>Profile</th><td>{{.Config.Profile}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.SettleMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{.Config.Heartbeat}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Template errors are programming errors; render what we can.
	_ = indexTmpl.Execute(w, snap)
}
