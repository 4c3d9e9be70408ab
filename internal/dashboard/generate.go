// Grafana dashboard for cost curves stored in GreptimeDB
package dashboard

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"membership-sim/internal/cost"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

const templateName = "cost-curves.json.tmpl"

// Panel is one chart of the dashboard.
type Panel struct {
	Title string
	Query string
	X, Y  int
}

type data struct {
	Title  string
	Table  string
	Panels []Panel
}

// Panels builds one chart per metric and disruption kind, plotting each
// scheme's curve for the selected run.
func Panels(tableName string) []Panel {
	var panels []Panel
	metrics := []cost.MetricKind{cost.Energy, cost.Communication}
	for row, status := range cost.Statuses {
		for col, metric := range metrics {
			panels = append(panels, Panel{
				Title: fmt.Sprintf("%s cost, %s devices", metric, status),
				Query: fmt.Sprintf(
					"SELECT affected, scheme, %s FROM %s WHERE run_id = '$run_id' AND disruption = '%s' ORDER BY scheme, affected",
					metric, tableName, status),
				X: col * 12,
				Y: row * 9,
			})
		}
	}
	return panels
}

// Render writes the dashboard for tableName to outDir. The datasource uid is
// read from GREPTIMEDB_DATASOURCE_UID.
func Render(outDir, tableName string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
		"add": func(a, b int) int { return a + b },
	}

	t, err := template.New(templateName).Funcs(funcMap).ParseFS(templates, "templates/"+templateName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(outDir, strings.TrimSuffix(templateName, ".tmpl"))
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	d := data{Title: "Membership scheme cost curves", Table: tableName, Panels: Panels(tableName)}
	if err := t.Execute(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
