package shelfcli

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed skeleton
var skeleton embed.FS

// Scaffold statuses.
const (
	StatusCreated     = "created"
	StatusOverwritten = "overwritten"
	StatusSkipped     = "skipped"
)

// ScaffoldFile is one file written by Scaffold. A nil Data with a path
// ending in "/" is a directory.
type ScaffoldFile struct {
	Path string
	Data []byte
}

// ScaffoldResult reports what Scaffold did with one file.
type ScaffoldResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// SiteConfig is the config.yaml written by Scaffold.
type SiteConfig struct {
	Server  SiteServer  `yaml:"server"`
	Storage SiteStorage `yaml:"storage"`
	Log     SiteLog     `yaml:"log"`
}

type SiteServer struct {
	Port int `yaml:"port"`
}

type SiteStorage struct {
	Path         string `yaml:"path"`
	AppsDir      string `yaml:"apps_dir"`
	Catalog      string `yaml:"catalog"`
	TemplatesDir string `yaml:"templates_dir"`
}

type SiteLog struct {
	Level string `yaml:"level"`
}

// DefaultSiteConfig returns the config written for a new site listening on
// port.
func DefaultSiteConfig(port int) SiteConfig {
	return SiteConfig{
		Server: SiteServer{Port: port},
		Storage: SiteStorage{
			Path:         ".",
			AppsDir:      "apps",
			Catalog:      "apps_metadata.json",
			TemplatesDir: "templates",
		},
		Log: SiteLog{Level: "info"},
	}
}

// SkeletonFiles returns the files of a new site: the page templates, a
// sample catalog, a stylesheet, the sample category directory and
// config.yaml.
func SkeletonFiles(cfg SiteConfig) ([]ScaffoldFile, error) {
	var files []ScaffoldFile

	err := fs.WalkDir(skeleton, "skeleton", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := skeleton.ReadFile(p)
		if err != nil {
			return err
		}

		rel := p[len("skeleton/"):]
		switch rel {
		case "apps_metadata.json":
			rel = cfg.Storage.Catalog
		default:
			if dir, name := path.Split(rel); dir == "templates/" {
				rel = path.Join(cfg.Storage.TemplatesDir, name)
			}
		}

		files = append(files, ScaffoldFile{Path: rel, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read skeleton: %w", err)
	}

	files = append(files, ScaffoldFile{Path: path.Join(cfg.Storage.AppsDir, "games") + "/"})

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	files = append(files, ScaffoldFile{Path: "config.yaml", Data: data})

	return files, nil
}

// ConfirmFunc decides whether an existing file may be overwritten.
type ConfirmFunc func(path string) (bool, error)

// Scaffold writes files below dir, creating dir if needed. Existing files are
// overwritten only when confirm returns true. Existing directories are left
// alone. A nil confirm never overwrites.
func Scaffold(dir string, files []ScaffoldFile, confirm ConfirmFunc) ([]ScaffoldResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	defer func() { _ = root.Close() }()

	results := make([]ScaffoldResult, 0, len(files))
	for _, f := range files {
		status, err := scaffoldOne(root, f, confirm)
		if err != nil {
			return results, fmt.Errorf("scaffold %s: %w", f.Path, err)
		}
		results = append(results, ScaffoldResult{Path: f.Path, Status: status})
	}

	return results, nil
}

func scaffoldOne(root *os.Root, f ScaffoldFile, confirm ConfirmFunc) (string, error) {
	name := filepath.FromSlash(path.Clean(f.Path))

	if f.Data == nil && f.Path != "" && f.Path[len(f.Path)-1] == '/' {
		if _, err := root.Stat(name); err == nil {
			return StatusSkipped, nil
		}
		if err := root.MkdirAll(name, 0o755); err != nil {
			return "", err
		}
		return StatusCreated, nil
	}

	status := StatusCreated
	_, err := root.Stat(name)
	switch {
	case err == nil:
		if confirm == nil {
			return StatusSkipped, nil
		}
		ok, err := confirm(f.Path)
		if err != nil {
			return "", err
		}
		if !ok {
			return StatusSkipped, nil
		}
		status = StatusOverwritten
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}

	if dir := filepath.Dir(name); dir != "." {
		if err := root.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := root.WriteFile(name, f.Data, 0o644); err != nil {
		return "", err
	}

	return status, nil
}
