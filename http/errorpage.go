package http

import (
	"fmt"
	"html"
	"net/http"
)

const errorPageHTML = `<html>
<head><title>%[1]d %[2]s</title></head>
<body>
<center><h1>%[1]d %[2]s</h1></center>
<p>%[3]s</p>
<hr><center>appshelf</center>
</body>
</html>`

func writeErrorPage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, errorPageHTML, code, http.StatusText(code), html.EscapeString(message))
}
