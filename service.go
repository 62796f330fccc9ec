package appshelf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
)

// FileStorage defines the read-only file operations the service needs.
// Paths are slash-separated and relative to the storage root.
//
// All methods accept a context for cancellation. Implementations should check
// it before touching the filesystem.
type FileStorage interface {
	// Get opens a regular file for reading.
	//
	// Returns:
	//   - ObjectEntry: path, size, content type and modification time
	//   - io.ReadSeekCloser: file content, closed by the caller
	//   - error: ErrNotFound if the file does not exist or is a directory
	Get(ctx context.Context, path string) (ObjectEntry, io.ReadSeekCloser, error)

	// ReadFile returns the whole content of a file.
	//
	// Returns:
	//   - error: ErrNotFound if the file does not exist
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// ListDirs returns the names of the immediate subdirectories of dir.
	// Symbolic links to directories count as directories.
	//
	// Returns:
	//   - error: ErrNotFound if dir does not exist
	ListDirs(ctx context.Context, dir string) ([]string, error)

	// ListFiles returns the regular files directly inside dir.
	//
	// Returns:
	//   - error: ErrNotFound if dir does not exist
	ListFiles(ctx context.Context, dir string) ([]ObjectEntry, error)
}

// ServiceConfig holds the locations of the service inputs inside the storage
// root. Empty fields take the defaults below.
type ServiceConfig struct {
	AppsDir      string // default: apps
	CatalogFile  string // default: apps_metadata.json
	TemplatesDir string // default: templates
}

// Default locations inside the storage root.
const (
	DefaultAppsDir      = "apps"
	DefaultCatalogFile  = "apps_metadata.json"
	DefaultTemplatesDir = "templates"
)

// ShelfService renders the catalog pages. It holds no state besides its
// configuration: every call reads the catalog and the apps root again.
type ShelfService struct {
	storage      FileStorage
	appsDir      string
	catalogFile  string
	templatesDir string
}

// NewShelfService creates a service reading from storage. Locations in cfg
// must stay inside the storage root.
func NewShelfService(storage FileStorage, cfg ServiceConfig) (*ShelfService, error) {
	if storage == nil {
		return nil, fmt.Errorf("new shelf service: %w: storage cannot be nil", ErrInvalidInput)
	}

	appsDir, err := cleanRelPath(cfg.AppsDir, DefaultAppsDir)
	if err != nil {
		return nil, fmt.Errorf("new shelf service: apps dir: %w", err)
	}
	catalogFile, err := cleanRelPath(cfg.CatalogFile, DefaultCatalogFile)
	if err != nil {
		return nil, fmt.Errorf("new shelf service: catalog file: %w", err)
	}
	templatesDir, err := cleanRelPath(cfg.TemplatesDir, DefaultTemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("new shelf service: templates dir: %w", err)
	}

	return &ShelfService{
		storage:      storage,
		appsDir:      appsDir,
		catalogFile:  catalogFile,
		templatesDir: templatesDir,
	}, nil
}

func cleanRelPath(p, def string) (string, error) {
	if p == "" {
		p = def
	}
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: %q must stay inside the storage root", ErrInvalidInput, p)
	}
	return p, nil
}

// LoadCatalog reads the metadata catalog. A missing catalog file is an empty
// catalog, not an error.
//
// Error types returned:
//   - ErrInvalidCatalog: the file exists but cannot be parsed
//   - wrapped storage errors
func (s *ShelfService) LoadCatalog(ctx context.Context) (*Catalog, error) {
	cat, err := s.readCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return &Catalog{}, nil
	}
	return cat, nil
}

// readCatalog is LoadCatalog, except that a missing file returns a nil
// catalog.
func (s *ShelfService) readCatalog(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	data, err := s.storage.ReadFile(ctx, s.catalogFile)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	cat, err := ParseCatalog(s.catalogFile, data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", s.catalogFile, err)
	}

	return cat, nil
}

// catalogFromDisk lists every package of every category with the default
// description and icon. It stands in for a missing catalog file.
func (s *ShelfService) catalogFromDisk(ctx context.Context, categories []string) (*Catalog, error) {
	cat := &Catalog{}
	for _, category := range categories {
		names, err := s.packages(ctx, category)
		if err != nil {
			return nil, err
		}

		apps := make([]App, 0, len(names))
		for _, name := range names {
			apps = append(apps, App{
				Name:        name,
				Description: DefaultDescription,
				Icon:        DefaultIcon,
			})
		}
		cat.set(category, CategoryMeta{Heading: Capitalize(category), Apps: apps})
	}
	return cat, nil
}

// packages returns the names of the packages in a category directory, without
// the extension, sorted. A directory removed since the scan has none.
func (s *ShelfService) packages(ctx context.Context, category string) ([]string, error) {
	files, err := s.storage.ListFiles(ctx, path.Join(s.appsDir, category))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list packages %s: %w", category, err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		name, ok := strings.CutSuffix(path.Base(f.Path), PackageExt)
		if ok && name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Categories returns the category directories under the apps root, sorted by
// name.
//
// Error types returned:
//   - ErrAppsRootMissing: the apps root does not exist
func (s *ShelfService) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	dirs, err := s.storage.ListDirs(ctx, s.appsDir)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("list categories %s: %w", s.appsDir, ErrAppsRootMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	slices.Sort(dirs)
	return dirs, nil
}

// Sections loads the catalog, scans the apps root and returns the categories
// that have at least one app matching appType. An empty appType matches every
// app. Without a catalog file every package on disk is listed; such apps have
// no type, so a non-empty appType matches none of them.
func (s *ShelfService) Sections(ctx context.Context, appType string) ([]Section, error) {
	cat, err := s.readCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}

	if cat == nil {
		cat, err = s.catalogFromDisk(ctx, categories)
		if err != nil {
			return nil, fmt.Errorf("sections: %w", err)
		}
	}

	return BuildSections(cat, categories, appType), nil
}

// Fragment returns the HTML fragment for appType.
func (s *ShelfService) Fragment(ctx context.Context, appType string) (string, error) {
	sections, err := s.Sections(ctx, appType)
	if err != nil {
		return "", fmt.Errorf("fragment: %w", err)
	}
	return RenderFragment(sections), nil
}

// RenderPage renders a page: the page template with its placeholder replaced
// by the fragment for the page's app type. The template is checked first, so
// a missing template is reported even when the apps root is missing too.
//
// Error types returned:
//   - ErrTemplateNotFound: the template file does not exist
//   - ErrAppsRootMissing: the apps root does not exist
//   - ErrInvalidCatalog: the catalog cannot be parsed
func (s *ShelfService) RenderPage(ctx context.Context, page Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	tmplPath := path.Join(s.templatesDir, page.Template)
	tmpl, err := s.storage.ReadFile(ctx, tmplPath)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("render page %s: %s: %w", page.Route, tmplPath, ErrTemplateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("render page %s: %w", page.Route, err)
	}

	fragment, err := s.Fragment(ctx, page.AppType)
	if err != nil {
		return nil, fmt.Errorf("render page %s: %w", page.Route, err)
	}

	return Substitute(tmpl, fragment), nil
}

// GetApp opens a file below the apps root, e.g. "games/chess.apk".
//
// Error types returned:
//   - ErrInvalidInput: the path fails IsValidPath
//   - ErrNotFound: no such file
func (s *ShelfService) GetApp(ctx context.Context, p string) (ObjectEntry, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return ObjectEntry{}, nil, fmt.Errorf("get app: %w", err)
	}

	if !IsValidPath(p) {
		return ObjectEntry{}, nil, fmt.Errorf("get app %q: %w", p, ErrInvalidInput)
	}

	entry, f, err := s.storage.Get(ctx, path.Join(s.appsDir, p))
	if err != nil {
		return ObjectEntry{}, nil, fmt.Errorf("get app: %w", err)
	}

	return entry, f, nil
}

// Check compares the catalog with the packages on disk. It reports catalog
// entries without a package, packages without a catalog entry and catalog
// categories without a directory.
func (s *ShelfService) Check(ctx context.Context) (Report, error) {
	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("check: %w", err)
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("check: %w", err)
	}

	report := Report{Categories: make([]CategoryReport, 0, len(categories))}

	for _, category := range categories {
		names, err := s.packages(ctx, category)
		if err != nil {
			return Report{}, fmt.Errorf("check: %w", err)
		}

		onDisk := make(map[string]struct{}, len(names))
		for _, name := range names {
			onDisk[name] = struct{}{}
		}

		meta, _ := cat.Category(category)

		cr := CategoryReport{
			Category: category,
			Heading:  cat.Heading(category),
			Listed:   len(meta.Apps),
		}

		listed := make(map[string]struct{}, len(meta.Apps))
		for _, app := range meta.Apps {
			listed[app.Name] = struct{}{}
			if _, ok := onDisk[app.Name]; !ok {
				cr.Missing = append(cr.Missing, app.Name)
			}
		}

		for name := range onDisk {
			if _, ok := listed[name]; !ok {
				cr.Unlisted = append(cr.Unlisted, name)
			}
		}
		slices.Sort(cr.Unlisted)

		report.Categories = append(report.Categories, cr)
	}

	for _, key := range cat.Keys() {
		if _, found := slices.BinarySearch(categories, key); !found {
			report.Orphans = append(report.Orphans, key)
		}
	}

	return report, nil
}
