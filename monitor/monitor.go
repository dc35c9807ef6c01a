package monitor

import (
	"os"

	"application-tracking-api/config"

	"github.com/gin-gonic/gin"
)

// RegisterMonitorPage serves a small self-contained status page that
// polls the health endpoint and tails the server log. Pass the log
// token in the page URL (?token=...) to see logs.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Application Tracking Monitor</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      background: #101418;
      color: #d7dde4;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      padding: 24px;
    }
    .container { max-width: 1100px; margin: 0 auto; }
    h1 { font-size: 1.6rem; color: #7dd3fc; margin-bottom: 1.5rem; }
    .card {
      background: #161c23;
      border: 1px solid #263140;
      border-radius: 10px;
      padding: 1.25rem;
      margin-bottom: 1.5rem;
    }
    #status { font-size: 1.1rem; font-weight: 600; }
    .logs-header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      margin-bottom: 0.75rem;
    }
    .logs-title { color: #93c5fd; font-weight: 600; }
    #logs {
      background: #0b0f13;
      border-radius: 8px;
      padding: 1rem;
      max-height: 480px;
      overflow-y: auto;
      white-space: pre-wrap;
      font-family: 'Monaco', 'Consolas', monospace;
      font-size: 0.85rem;
      line-height: 1.5;
      color: #aebacb;
    }
    button {
      padding: 0.5rem 1rem;
      background: #1d4ed8;
      color: #fff;
      border: none;
      border-radius: 6px;
      cursor: pointer;
      font-weight: 600;
      font-size: 0.85rem;
    }
    button.paused { background: #b91c1c; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Application Tracking Monitor</h1>

    <div class="card">
      <div id="status">Status: checking...</div>
    </div>

    <div class="card">
      <div class="logs-header">
        <div class="logs-title">Server Logs</div>
        <button onclick="toggleLive()" id="toggleBtn">Pause Live Logs</button>
      </div>
      <pre id="logs">Loading logs...</pre>
    </div>
  </div>

  <script>
    let liveLogs = true;
    const logsElement = document.getElementById('logs');
    const statusElement = document.getElementById('status');
    const toggleBtn = document.getElementById('toggleBtn');
    const token = new URLSearchParams(location.search).get('token') || '';

    function fetchStatus() {
      fetch('/api/v1/health')
        .then(res => res.json())
        .then(data => {
          statusElement.textContent = 'Status: ' + (data.success ? 'online' : 'offline');
        })
        .catch(() => {
          statusElement.textContent = 'Status: offline';
        });
    }

    function fetchLogs() {
      if (!liveLogs) return;
      fetch('/logs?token=' + encodeURIComponent(token))
        .then(res => res.text())
        .then(data => {
          logsElement.textContent = data;
          logsElement.scrollTop = logsElement.scrollHeight;
        });
    }

    function toggleLive() {
      liveLogs = !liveLogs;
      toggleBtn.textContent = liveLogs ? 'Pause Live Logs' : 'Resume Live Logs';
      toggleBtn.classList.toggle('paused', !liveLogs);
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`))
	})
}

// RegisterLogsRoute exposes the server log behind LOG_ACCESS_TOKEN.
// With no token configured the route stays disabled.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("LOG_ACCESS_TOKEN")
		if token == "" || c.Query("token") != token {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
