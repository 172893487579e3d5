package ui

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/me/procviz/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"humanize": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return humanize.Time(t)
	},
	"add": func(a, b int) int {
		return a + b
	},
	"f1": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"f2": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"policyLabel": func(p model.PolicyName) string {
		return p.Label()
	},
	"stateBadge": func(s model.ProcessState) string {
		switch s {
		case model.ProcessStateReady:
			return "bg-yellow-100 text-yellow-800"
		case model.ProcessStateRunning:
			return "bg-blue-100 text-blue-800"
		case model.ProcessStateTerminated:
			return "bg-green-100 text-green-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
}

// renderTemplate renders a page inside the layout.
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

	_, err = tmpl.New("content").Parse(content)
	if err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	// Add shared components.
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			_, err = tmpl.New(filepath.Base(compName)).Parse(compContent)
			if err != nil {
				return fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}

	return tmpl.Execute(w, data)
}

// renderStandalone renders a single component without the page layout.
func renderStandalone(w io.Writer, name string, data any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	base := filepath.Base(name)
	tmpl, err := template.New(base).Funcs(templateFuncs).Parse(content)
	if err != nil {
		return fmt.Errorf("parse component %s: %w", name, err)
	}
	return tmpl.ExecuteTemplate(w, base, data)
}

// templates holds all template content.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">
                        procviz
                    </a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-8">
                        <a href="/" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Simulator
                        </a>
                        <a href="/workspaces" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Workspaces
                        </a>
                    </div>
                </div>
                <div class="flex items-center">
                    <form method="POST" action="/workspaces/new">
                        <button type="submit" class="text-sm text-gray-500 hover:text-gray-700">New workspace</button>
                    </form>
                </div>
            </div>
        </div>
    </nav>

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"index": `{{define "content"}}
<div class="px-4 sm:px-0 space-y-6">
    <div>
        <h1 class="text-2xl font-bold text-gray-900">CPU Scheduling Simulator</h1>
        <p class="text-sm text-gray-500">Workspace {{if .Workspace.Name}}{{.Workspace.Name}}{{else}}{{.Workspace.ID}}{{end}}</p>
    </div>

    {{if .Error}}
    <div id="notice" class="rounded-md bg-red-50 p-4 text-sm text-red-700">{{.Error}}</div>
    {{end}}

    <div class="grid grid-cols-1 lg:grid-cols-3 gap-6">
        <div class="bg-white shadow rounded-lg p-6">
            <h2 class="text-lg font-medium text-gray-900 mb-4">Add Process</h2>
            <form method="POST" action="/processes" class="space-y-3">
                <div>
                    <label for="id" class="block text-sm font-medium text-gray-700">Process ID</label>
                    <input type="text" name="id" id="id" value="{{.Form.id}}" required
                           class="mt-1 block w-full rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
                </div>
                <div>
                    <label for="arrival" class="block text-sm font-medium text-gray-700">Arrival Time</label>
                    <input type="number" min="0" name="arrival" id="arrival" value="{{.Form.arrival}}" required
                           class="mt-1 block w-full rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
                </div>
                <div>
                    <label for="burst" class="block text-sm font-medium text-gray-700">Burst Time</label>
                    <input type="number" min="1" name="burst" id="burst" value="{{.Form.burst}}" required
                           class="mt-1 block w-full rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
                </div>
                <div>
                    <label for="priority" class="block text-sm font-medium text-gray-700">Priority <span class="text-gray-400">(lower runs first)</span></label>
                    <input type="number" min="0" name="priority" id="priority" value="{{.Form.priority}}"
                           class="mt-1 block w-full rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
                </div>
                <button type="submit" class="w-full py-2 px-4 rounded-md text-sm font-medium text-white bg-indigo-600 hover:bg-indigo-700">
                    Add Process
                </button>
            </form>
        </div>

        <div class="bg-white shadow rounded-lg p-6 lg:col-span-2">
            <div class="flex justify-between items-center mb-4">
                <h2 class="text-lg font-medium text-gray-900">Processes ({{len .Cards}})</h2>
                {{if .Cards}}
                <form method="POST" action="/processes/clear">
                    <button type="submit" class="text-sm text-red-600 hover:text-red-800">Clear all</button>
                </form>
                {{end}}
            </div>
            {{if .Cards}}
            <div class="grid grid-cols-1 sm:grid-cols-2 xl:grid-cols-3 gap-3">
                {{range .Cards}}
                <div class="process-card border rounded-md p-3">
                    <div class="flex justify-between items-center">
                        <span class="font-semibold text-gray-900">{{.Label}}</span>
                        <form method="POST" action="/processes/{{.ID}}/delete">
                            <button type="submit" class="text-xs text-gray-400 hover:text-red-600">Remove</button>
                        </form>
                    </div>
                    <dl class="mt-2 text-sm text-gray-600 grid grid-cols-2 gap-x-2">
                        <dt>Arrival</dt><dd>{{.ArrivalTime}}</dd>
                        <dt>Burst</dt><dd>{{.BurstTime}}</dd>
                        <dt>Priority</dt><dd>{{.Priority}}</dd>
                        {{with .Result}}
                        <dt>Waiting</dt><dd>{{.WaitingTime}}</dd>
                        <dt>Turnaround</dt><dd>{{.TurnaroundTime}}</dd>
                        <dt>Completion</dt><dd>{{.CompletionTime}}</dd>
                        {{end}}
                    </dl>
                    {{with .Result}}
                    <span class="mt-2 inline-flex px-2 py-0.5 text-xs rounded-full {{stateBadge .State}}">{{.State}}</span>
                    {{end}}
                </div>
                {{end}}
            </div>
            {{else}}
            <p class="text-sm text-gray-500">No processes yet. Add one to get started.</p>
            {{end}}
        </div>
    </div>

    <div class="bg-white shadow rounded-lg p-6">
        <h2 class="text-lg font-medium text-gray-900 mb-4">Algorithm</h2>
        <form method="POST" action="/run" class="flex flex-wrap items-end gap-4">
            <div>
                <label for="policy" class="block text-sm font-medium text-gray-700">Scheduling algorithm</label>
                <select name="policy" id="policy" class="mt-1 block rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
                    {{range .Policies}}
                    <option value="{{.Name}}"{{if eq .Name $.Workspace.Policy}} selected{{end}}>{{.Label}}{{if not .Enabled}} (not implemented yet){{end}}</option>
                    {{end}}
                </select>
            </div>
            <div>
                <label for="quantum" class="block text-sm font-medium text-gray-700">Time quantum (RR)</label>
                <input type="number" min="1" name="quantum" id="quantum" value="{{.Workspace.Quantum}}"
                       class="mt-1 block w-24 rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
            </div>
            <button type="submit" {{if not .Cards}}disabled{{end}}
                    class="py-2 px-6 rounded-md text-sm font-medium text-white bg-green-600 hover:bg-green-700 disabled:opacity-50 disabled:cursor-not-allowed">
                Run Simulation
            </button>
        </form>
    </div>

    {{with .Run}}
    <div id="results" class="bg-white shadow rounded-lg p-6 space-y-6">
        <div class="flex justify-between items-center">
            <h2 class="text-lg font-medium text-gray-900">Results: {{policyLabel .Policy}}{{if .Quantum}} (quantum {{.Quantum}}){{end}}</h2>
            <a href="/gantt.svg" class="text-sm text-indigo-600 hover:text-indigo-500">Download SVG</a>
        </div>

        <div class="overflow-x-auto">
            {{template "gantt" $.Chart}}
        </div>

        <dl class="grid grid-cols-2 md:grid-cols-4 gap-4 text-sm">
            <div><dt class="text-gray-500">Average waiting</dt><dd class="text-xl font-semibold">{{f2 .Summary.AvgWaitingTime}}</dd></div>
            <div><dt class="text-gray-500">Average turnaround</dt><dd class="text-xl font-semibold">{{f2 .Summary.AvgTurnaroundTime}}</dd></div>
            <div><dt class="text-gray-500">CPU utilization</dt><dd class="text-xl font-semibold">{{percent .Summary.CPUUtilization}}</dd></div>
            <div><dt class="text-gray-500">Makespan</dt><dd class="text-xl font-semibold">{{.Summary.Makespan}}</dd></div>
        </dl>

        <table class="min-w-full divide-y divide-gray-200 text-sm">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Process</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Arrival</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Burst</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Priority</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Start</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Completion</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Turnaround</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Waiting</th>
                    <th class="px-3 py-2 text-left font-medium text-gray-500">Response</th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-100">
                {{range .Results}}
                <tr>
                    <td class="px-3 py-2 font-medium">{{.Label}}</td>
                    <td class="px-3 py-2">{{.ArrivalTime}}</td>
                    <td class="px-3 py-2">{{.BurstTime}}</td>
                    <td class="px-3 py-2">{{.Priority}}</td>
                    <td class="px-3 py-2">{{.StartTime}}</td>
                    <td class="px-3 py-2">{{.CompletionTime}}</td>
                    <td class="px-3 py-2">{{.TurnaroundTime}}</td>
                    <td class="px-3 py-2">{{.WaitingTime}}</td>
                    <td class="px-3 py-2">{{.ResponseTime}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
        <p class="text-xs text-gray-400">{{.Summary.ContextSwitches}} context switches, {{.Summary.IdleTime}} idle units.</p>
    </div>
    {{end}}
</div>
{{end}}`,

	"workspaces": `{{define "content"}}
<div class="px-4 sm:px-0">
    <div class="flex justify-between items-center mb-6">
        <h1 class="text-2xl font-bold text-gray-900">Workspaces</h1>
        <form method="POST" action="/workspaces/new" class="flex gap-2">
            <input type="text" name="name" placeholder="Name (optional)"
                   class="rounded-md border-gray-300 shadow-sm sm:text-sm border px-3 py-2">
            <button type="submit" class="py-2 px-4 rounded-md text-sm font-medium text-white bg-indigo-600 hover:bg-indigo-700">Create</button>
        </form>
    </div>

    <div class="bg-white shadow overflow-hidden sm:rounded-md">
        {{if .Workspaces}}
        <ul class="divide-y divide-gray-200">
            {{range .Workspaces}}
            <li class="px-4 py-4 flex justify-between items-center">
                <div>
                    <p class="text-sm font-medium text-indigo-600">{{if .Name}}{{.Name}}{{else}}{{.ID}}{{end}}{{if eq .ID $.Current}} <span class="text-xs text-gray-400">(current)</span>{{end}}</p>
                    <p class="text-xs text-gray-500">{{len .Processes}} processes, {{policyLabel .Policy}}, updated {{humanize .UpdatedAt}}</p>
                </div>
                <a href="/workspaces/{{.ID}}/open" class="text-sm text-indigo-600 hover:text-indigo-500">Open</a>
            </li>
            {{end}}
        </ul>
        {{else}}
        <p class="px-4 py-6 text-sm text-gray-500">No workspaces yet.</p>
        {{end}}
    </div>

    {{with .Pagination}}
    {{if gt .Pages 1}}
    <div class="mt-4 flex justify-between text-sm text-gray-500">
        <span>Page {{.Page}} of {{.Pages}} ({{.Total}} total)</span>
        <span class="space-x-4">
            {{if .HasPrev}}<a href="/workspaces?page={{add .Page -1}}" class="text-indigo-600">Previous</a>{{end}}
            {{if .HasNext}}<a href="/workspaces?page={{add .Page 1}}" class="text-indigo-600">Next</a>{{end}}
        </span>
    </div>
    {{end}}
    {{end}}
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center">
    <div class="text-center">
        <h1 class="text-4xl font-bold text-gray-900 mb-4">Error</h1>
        <p class="text-gray-600 mb-8">{{.Message}}</p>
        <a href="/" class="text-indigo-600 hover:text-indigo-500">Return to Simulator</a>
    </div>
</div>
{{end}}`,

	"components/gantt": `{{define "gantt"}}<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" font-family="sans-serif" font-size="11">
{{- $c := .}}
{{- range .Rows}}
<text x="4" y="{{add .Y 20}}" fill="#374151">{{.Label}}</text>
{{- end}}
{{- range .Bars}}
<g class="bar"><rect x="{{f1 .X}}" y="{{f1 .Y}}" width="{{f1 .Width}}" height="{{add $c.RowHeight -8}}" rx="3" fill="{{.Color}}"><title>{{.Label}}: {{.Start}} to {{.End}}</title></rect></g>
{{- end}}
<line x1="{{.LabelWidth}}" y1="{{.AxisY}}" x2="{{.Width}}" y2="{{.AxisY}}" stroke="#9ca3af"/>
{{- range .Ticks}}
<text x="{{f1 .X}}" y="{{add $c.AxisY 16}}" fill="#6b7280" text-anchor="middle">{{.Time}}</text>
{{- end}}
</svg>{{end}}`,
}
