package reminder

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/workhours"
)

// Message is a composed reminder.
type Message struct {
	To      string
	Subject string
	HTML    string
}

var bodyTemplate = template.Must(template.New("reminder").Funcs(template.FuncMap{
	"duration": timecalc.FormatMinutes,
	"weekday":  weekday,
}).Parse(`<html><body style="font-family: sans-serif">
<h2>Your week {{.Summary.Label}}</h2>
<p>{{.Summary.Window.StartDate}} to {{.Summary.Window.EndDate}}{{if .Summary.Window.Timezone}} ({{.Summary.Window.Timezone}}){{end}}</p>
<table cellpadding="4">
<tr><th align="left">Day</th><th align="left">Location</th><th align="right">Worked</th></tr>
{{- range .Summary.Days}}
<tr><td>{{weekday .Date}} {{.Date}}</td><td>{{if .Logged}}{{.Location}}{{else}}-{{end}}</td><td align="right">{{if .Logged}}{{duration .Total}}{{end}}</td></tr>
{{- end}}
</table>
<p>Total <b>{{duration .Summary.Totals.TotalMinutes}}</b> of {{duration .Contract}} contracted:
<b>{{duration .Summary.Comparison.DeltaMinutes}}</b> {{.Summary.Comparison.Status}}.</p>
<p>Home {{duration .Summary.Totals.HomeMinutes}}, office {{duration .Summary.Totals.OfficeMinutes}}, breaks {{duration .Summary.Totals.BreakMinutes}}.</p>
{{- if lt .Summary.Totals.DaysLogged 5}}
<p>Only {{.Summary.Totals.DaysLogged}} day(s) logged so far. Remember to fill in the rest before the week closes.</p>
{{- end}}
</body></html>
`))

func weekday(date string) string {
	d, err := time.Parse(timecalc.DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()[:3]
}

// Compose renders the reminder for one user's week.
func Compose(to string, summary workhours.WeekSummary, st model.Settings) (Message, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Summary  workhours.WeekSummary
		Contract int
	}{summary, st.Contract.Minutes()})
	if err != nil {
		return Message{}, fmt.Errorf("rendering reminder: %w", err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Sojournii: your week %s (%s)", summary.Label, timecalc.FormatMinutes(summary.Totals.TotalMinutes)),
		HTML:    buf.String(),
	}, nil
}
