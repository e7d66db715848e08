package engine

import (
	"html/template"
	"os"
	"path/filepath"
)

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"base": filepath.Base,
	"band": band,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; }
th { background: #f4f4f4; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.high { color: #1a7f37; }
.mid { color: #9a6700; }
.low { color: #cf222e; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Summary.Files}} files, {{.Summary.TotalSloc}} source lines, average maintainability {{printf "%.2f" .Summary.AverageMaintainability}}</p>
<table>
<thead>
<tr><th>File</th><th>Maintainability</th><th>Cyclomatic</th><th>SLOC</th><th>Effort</th><th>Functions</th></tr>
</thead>
<tbody>
{{- range .Metrics}}
<tr>
<td title="{{.File}}">{{base .File}}</td>
<td class="num {{band .Maintainability}}">{{printf "%.2f" .Maintainability}}</td>
<td class="num">{{printf "%.2f" .Cyclomatic}}</td>
<td class="num">{{.Code}}</td>
<td class="num">{{printf "%.0f" .Effort}}</td>
<td class="num">{{.Halstead.Functions}}</td>
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

func band(mi float64) string {
	switch {
	case mi >= 85:
		return "high"
	case mi >= 50:
		return "mid"
	default:
		return "low"
	}
}

func writeIndex(path string, doc reportDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := indexTemplate.Execute(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
