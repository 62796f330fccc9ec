package appshelf

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PlaceholderToken is replaced in a template by the rendered fragment.
	PlaceholderToken = "{{apps_content}}"
	// DefaultDescription is shown for apps without a description.
	DefaultDescription = "No description available."
	// DefaultIcon is used for apps without an icon.
	DefaultIcon = "/static/app-icon.png"
	// PackageExt is the file extension of downloadable packages.
	PackageExt = ".apk"
	// AppsRoute is the URL prefix under which packages are downloaded.
	AppsRoute = "/apps/"
)

// App is one catalog entry of a category.
type App struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	AppType     string `json:"app_type,omitempty"`
}

// CategoryMeta is the catalog metadata of one category. Apps keep the order
// they had in the catalog file. Heading is the capitalized category key when
// the catalog gives none.
type CategoryMeta struct {
	Heading string
	Apps    []App
}

// Tile is a render-ready app entry.
type Tile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DownloadURL string `json:"download_url"`
	IconURL     string `json:"icon_url"`
}

// Section is one category after filtering. Sections are never empty.
type Section struct {
	Category string `json:"category"`
	Heading  string `json:"heading"`
	Tiles    []Tile `json:"tiles"`
}

// ObjectEntry describes a file in storage.
type ObjectEntry struct {
	Path        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Page binds a route to a template file and an optional app type filter.
// An empty AppType shows every app.
type Page struct {
	Route    string `mapstructure:"route" json:"route" validate:"required,startswith=/"`
	Template string `mapstructure:"template" json:"template" validate:"required"`
	AppType  string `mapstructure:"app_type" json:"app_type"`
}

// DefaultPages returns the index page and the android page.
func DefaultPages() []Page {
	return []Page{
		{Route: "/", Template: "index.html"},
		{Route: "/android", Template: "android.html", AppType: "android"},
	}
}

// Validate checks that the page can be mounted next to the apps route.
func (p Page) Validate() error {
	if !strings.HasPrefix(p.Route, "/") {
		return fmt.Errorf("validate page %q: %w: route must start with /", p.Route, ErrInvalidInput)
	}

	if p.Route+"/" == AppsRoute || strings.HasPrefix(p.Route, AppsRoute) {
		return fmt.Errorf("validate page %q: %w: route overlaps %s", p.Route, ErrInvalidInput, AppsRoute)
	}

	if p.Template == "" {
		return fmt.Errorf("validate page %q: %w: template cannot be empty", p.Route, ErrInvalidInput)
	}

	return nil
}

// ValidatePages validates every page and rejects duplicate routes.
func ValidatePages(pages []Page) error {
	seen := make(map[string]struct{}, len(pages))
	for _, p := range pages {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Route]; dup {
			return fmt.Errorf("validate page %q: %w: duplicate route", p.Route, ErrInvalidInput)
		}
		seen[p.Route] = struct{}{}
	}
	return nil
}

// CategoryReport describes how one category directory matches the catalog.
type CategoryReport struct {
	Category string `json:"category"`
	Heading  string `json:"heading"`
	// Listed is the number of catalog entries of the category.
	Listed int `json:"listed"`
	// Missing are catalog entries without a package on disk.
	Missing []string `json:"missing,omitempty"`
	// Unlisted are packages on disk without a catalog entry.
	Unlisted []string `json:"unlisted,omitempty"`
}

// Report is the result of ShelfService.Check.
type Report struct {
	Categories []CategoryReport `json:"categories"`
	// Orphans are catalog categories that have no directory.
	Orphans []string `json:"orphans,omitempty"`
}

// Clean reports whether the catalog and the apps root agree.
func (r Report) Clean() bool {
	if len(r.Orphans) > 0 {
		return false
	}
	for _, c := range r.Categories {
		if len(c.Missing) > 0 || len(c.Unlisted) > 0 {
			return false
		}
	}
	return true
}
