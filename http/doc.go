// Package http serves the appshelf catalog over HTTP.
//
// # Routes
//
//   - one GET route per configured page (by default / and /android), each
//     rendering its template with the matching app sections
//   - GET /apps/* downloads a package from the apps root
//   - GET /api/sections?appType=android returns the sections as JSON
//   - every other GET is served from the static file system, if configured
//
// HEAD is answered by the GET handlers. Page and download errors are HTML
// pages; /api errors are JSON bodies of the form
//
//	{"error": "invalid_input", "message": "appType given more than once"}
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    Pages:  appshelf.DefaultPages(),
//	    Static: store.FS(),
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":8080", handler.Router())
//
// # Middleware
//
// Every request passes through RequestID, Logger, chi's Recoverer and, when
// enabled, CORS.
package http
