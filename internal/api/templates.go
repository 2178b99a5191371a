package api

import "html/template"

// pageTemplates holds the embedded UI pages. Parsed at package init so a
// broken template fails at startup, not on the first request.
var pageTemplates = template.Must(template.New("webui").Parse(pagesHTML))

const pagesHTML = `
{{define "style"}}
<style>
    :root {
        --bg: #0f1115;
        --card: #171a21;
        --border: #2a2f3a;
        --text: #e6e6e6;
        --muted: #8b93a7;
        --accent: #4f8cc9;
    }

    * { margin: 0; padding: 0; box-sizing: border-box; }

    body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
        background: var(--bg);
        color: var(--text);
        line-height: 1.6;
    }

    .container { max-width: 960px; margin: 0 auto; padding: 40px 20px; }

    h1 { font-size: 2rem; font-weight: 500; margin-bottom: 8px; color: var(--accent); }

    .subtitle { color: var(--muted); margin-bottom: 30px; }

    .card {
        background: var(--card);
        border: 1px solid var(--border);
        border-radius: 10px;
        padding: 24px;
        margin-bottom: 20px;
    }

    input[type=text] {
        width: 100%;
        padding: 12px 14px;
        border: 1px solid var(--border);
        border-radius: 8px;
        background: var(--bg);
        color: var(--text);
        font-size: 1rem;
        margin-bottom: 14px;
    }

    button, .button {
        display: inline-block;
        background: var(--accent);
        color: #fff;
        border: none;
        border-radius: 8px;
        padding: 10px 22px;
        font-size: 1rem;
        cursor: pointer;
        text-decoration: none;
    }

    button:hover, .button:hover { filter: brightness(1.1); }

    table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }

    th, td { border: 1px solid var(--border); padding: 8px 10px; text-align: left; font-size: 0.9rem; }

    th { background: var(--card); color: var(--muted); font-weight: 500; }

    .status-OPEN { color: #2ecc71; font-weight: 600; }
    .status-WARNING { color: #f1c40f; font-weight: 600; }
    .status-ERROR { color: #e74c3c; font-weight: 600; }

    .error-text { color: #e74c3c; margin-bottom: 20px; word-break: break-word; }

    .back { color: var(--muted); text-decoration: none; margin-left: 16px; }
    .back:hover { color: var(--text); }

    .hint { color: var(--muted); font-size: 0.875rem; margin-top: 14px; }
</style>
{{end}}

{{define "index.html"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>webscan</title>
    {{template "style"}}
</head>
<body>
    <div class="container">
        <h1>webscan</h1>
        <p class="subtitle">External reconnaissance for a single host</p>
        <div class="card">
            <form method="post" action="/scan">
                <input type="text" name="url" placeholder="example.com or https://example.com/path" autofocus required>
                <button type="submit">Scan</button>
            </form>
            <p class="hint">Probes common service ports, checks TLS certificate expiry and sweeps well-known admin and API paths, then writes an xlsx report.</p>
        </div>
    </div>
</body>
</html>
{{end}}

{{define "results.html"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>webscan results</title>
    {{template "style"}}
</head>
<body>
    <div class="container">
        <h1>Scan results</h1>
        <p class="subtitle">Target {{.Host}}</p>
        <div class="card">
            <table>
                <thead>
                    <tr><th>Type</th><th>Host</th><th>Details</th><th>Status</th></tr>
                </thead>
                <tbody>
                    {{range .Findings}}
                    <tr>
                        <td>{{.Kind}}</td>
                        <td>{{.Host}}</td>
                        <td>{{.Detail}}</td>
                        <td class="status-{{.Status}}">{{.Status}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            <a class="button" href="/download/{{.Filename}}">Download report</a>
            <a class="back" href="/">New scan</a>
        </div>
    </div>
</body>
</html>
{{end}}

{{define "error.html"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>webscan error</title>
    {{template "style"}}
</head>
<body>
    <div class="container">
        <h1>Scan failed</h1>
        <div class="card">
            <p class="error-text">{{.Error}}</p>
            <a class="button" href="/">Try again</a>
        </div>
    </div>
</body>
</html>
{{end}}
`
