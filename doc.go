// Package appshelf serves a small catalog of downloadable application
// packages as HTML pages grouped by category.
//
// A page is assembled per request from three read-only inputs: a metadata
// catalog (apps_metadata.json), the category directories under the apps root,
// and an HTML template carrying the {{apps_content}} placeholder. Nothing is
// cached; every render reloads the catalog and rescans the directories.
//
// # Key Components
//
//   - ShelfService: combines the catalog, the apps root and the templates
//   - FileStorage: interface for the sandboxed file operations it needs
//   - Catalog: ordered category and app metadata (JSON or YAML)
//   - Section/Tile: filtered, render-ready view of one category
//
// # Pages
//
// Each Page binds a route to a template and an optional app type filter. The
// defaults are "/" (all apps, index.html) and "/android" (only apps whose
// appType is "android", android.html).
//
// # Example Usage
//
//	service, err := appshelf.NewShelfService(storage, appshelf.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html, err := service.RenderPage(ctx, appshelf.DefaultPages()[0])
//
// See the http package for the HTTP router and the filesystem package for the
// storage implementation.
package appshelf
