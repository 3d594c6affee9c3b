package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homePage is the minimal landing page served at /. It documents the API
// and gives a quick way to try it from the browser console.
const homePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PageLens</title>
<style>
body { font-family: -apple-system, Segoe UI, sans-serif; max-width: 42rem; margin: 3rem auto; padding: 0 1rem; color: #222; }
code, pre { background: #f4f4f4; border-radius: 4px; padding: 0.15rem 0.35rem; }
pre { padding: 0.75rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>PageLens</h1>
<p>Structured section extraction for arbitrary web pages. Static fetch
first, headless render when the page needs it.</p>
<h2>Usage</h2>
<pre>curl -X POST /scrape -H 'Content-Type: application/json' \
  -d '{"url": "https://example.com"}'</pre>
<p>Liveness: <code>GET /healthz</code></p>
</body>
</html>
`

// Home returns a handler for GET /.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(homePage))
	}
}
