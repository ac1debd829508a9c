package ui

import (
	"fmt"
	"html/template"
	"io"
	"time"
	"unicode/utf8"

	"github.com/me/narabid/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"kindLabel": kindLabel,
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
	"statusColor": func(status int) string {
		switch {
		case status >= 200 && status < 300:
			return "bg-green-100 text-green-800"
		case status >= 500:
			return "bg-red-100 text-red-800"
		default:
			return "bg-yellow-100 text-yellow-800"
		}
	},
	"truncate": func(s string, n int) string {
		if utf8.RuneCountInString(s) <= n {
			return s
		}
		return string([]rune(s)[:n]) + "..."
	},
	"navClass": func(active, name string) string {
		if active == name {
			return "border-indigo-500 text-gray-900"
		}
		return "border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700"
	},
}

func kindLabel(k model.Kind) string {
	switch k {
	case model.KindBid:
		return "입찰공고"
	case model.KindAward:
		return "낙찰결과"
	case model.KindContract:
		return "계약현황"
	default:
		return string(k)
	}
}

// renderTemplate renders a page inside the shared layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	return tmpl.Execute(w, data)
}

var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="ko">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex h-16">
                <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">narabid</a>
                <div class="ml-6 flex space-x-8">
                    <a href="/" class="{{navClass .Active "search"}} inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">Search</a>
                    <a href="/fetches" class="{{navClass .Active "fetches"}} inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">Upstream calls</a>
                </div>
            </div>
        </div>
    </nav>
    <main class="max-w-7xl mx-auto py-6 px-4 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"search": `<form method="get" action="/" class="bg-white shadow rounded-lg p-4 flex flex-wrap gap-3 items-end">
    <label class="text-sm text-gray-700">Kind
        <select name="kind" class="mt-1 block border rounded px-2 py-1">
            {{range .Kinds}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>
    </label>
    <label class="text-sm text-gray-700 flex-1">Keyword
        <input type="text" name="q" value="{{.Query.Keyword}}" maxlength="60" placeholder="e.g. 도로, AI 시스템" class="mt-1 block w-full border rounded px-2 py-1">
    </label>
    <label class="text-sm text-gray-700">Filter
        <select name="filter" class="mt-1 block border rounded px-2 py-1">
            <option value="1"{{if .Query.FilterEnabled}} selected{{end}}>Keyword match</option>
            <option value="0"{{if not .Query.FilterEnabled}} selected{{end}}>Show all</option>
        </select>
    </label>
    <button type="submit" class="bg-indigo-600 text-white rounded px-4 py-1.5 text-sm font-medium hover:bg-indigo-700">Search</button>
</form>

{{with .Error}}
<div class="mt-4 rounded-md bg-red-50 p-4 text-sm text-red-800">
    <p class="font-medium">{{.Code}}: {{.Message}}</p>
    {{if .Detail}}<pre class="mt-2 whitespace-pre-wrap text-xs">{{.Detail}}</pre>{{end}}
    {{range .Details}}<p>{{.Field}}: {{.Message}}</p>{{end}}
</div>
{{end}}

{{with .Result}}
<p class="mt-6 text-sm text-gray-600">
    {{kindLabel .Kind}} · {{.Meta.DateRange}} ·
    {{.Meta.ReturnedCount}} shown of {{.Meta.TotalMatched}} matched, {{.Meta.TotalScanned}} scanned across {{.Meta.PagesFetched}} page(s)
</p>
{{if .Items}}
<div class="mt-2 bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50">
            <tr>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Date</th>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Title</th>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Organization</th>
                <th class="px-4 py-2 text-right font-medium text-gray-500">Amount</th>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Status</th>
            </tr>
        </thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Items}}
            <tr>
                <td class="px-4 py-2 whitespace-nowrap">{{.Date}}{{if .Time}} {{.Time}}{{end}}</td>
                <td class="px-4 py-2">
                    <a href="{{.DetailURL}}" target="_blank" rel="noopener" class="text-indigo-600 hover:underline">{{.Title}}</a>
                    {{if ne .DetailURL .FallbackURL}}<a href="{{.FallbackURL}}" target="_blank" rel="noopener" class="ml-2 text-xs text-gray-400">list</a>{{end}}
                    {{if .Period}}<div class="text-xs text-gray-500">{{.Period}}</div>{{end}}
                </td>
                <td class="px-4 py-2">{{.Organization}}</td>
                <td class="px-4 py-2 text-right whitespace-nowrap">{{orDash .Amount}}</td>
                <td class="px-4 py-2">{{orDash .Status}}{{if .Winner}} · {{.Winner}}{{end}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>
</div>
{{else}}
<p class="mt-4 text-gray-500">No matching records.</p>
{{end}}
{{end}}`,

	"fetches": `<h1 class="text-2xl font-semibold text-gray-900">Upstream calls</h1>
{{if .Disabled}}
<p class="mt-4 text-gray-500">The fetch log is disabled. Start the server with -db to record upstream calls.</p>
{{else}}
<div class="mt-4 bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50">
            <tr>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Time</th>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Kind</th>
                <th class="px-4 py-2 text-right font-medium text-gray-500">Page</th>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Status</th>
                <th class="px-4 py-2 text-right font-medium text-gray-500">Items</th>
                <th class="px-4 py-2 text-right font-medium text-gray-500">Duration</th>
                <th class="px-4 py-2 text-left font-medium text-gray-500">Error</th>
            </tr>
        </thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Entries}}
            <tr>
                <td class="px-4 py-2 whitespace-nowrap">{{formatTime .CreatedAt}}</td>
                <td class="px-4 py-2">{{kindLabel .Kind}}</td>
                <td class="px-4 py-2 text-right">{{.PageNo}}</td>
                <td class="px-4 py-2"><span class="rounded px-2 py-0.5 {{statusColor .Status}}">{{.Status}}</span></td>
                <td class="px-4 py-2 text-right">{{.Items}}</td>
                <td class="px-4 py-2 text-right">{{.DurationMs}} ms</td>
                <td class="px-4 py-2 text-red-700">{{truncate .Error 80}}</td>
            </tr>
            {{else}}
            <tr><td colspan="7" class="px-4 py-6 text-center text-gray-500">No upstream calls recorded.</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
<p class="mt-2 text-sm text-gray-500">{{len .Entries}} of {{.Total}} shown</p>
{{end}}`,

	"error": `<div class="rounded-md bg-red-50 p-6">
    <h1 class="text-lg font-medium text-red-800">{{.Message}}</h1>
    <a href="/" class="mt-4 inline-block text-sm text-indigo-600 hover:underline">Back to search</a>
</div>`,
}
