package appshelf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps category keys to their metadata. Categories and apps keep the
// order of the file they were parsed from. The zero value is an empty catalog.
type Catalog struct {
	order      []string
	categories map[string]CategoryMeta
}

// Category returns the metadata of a category.
func (c *Catalog) Category(key string) (CategoryMeta, bool) {
	if c == nil {
		return CategoryMeta{}, false
	}
	m, ok := c.categories[key]
	return m, ok
}

// Heading returns the heading of a category. Categories without metadata are
// headed by their capitalized key.
func (c *Catalog) Heading(key string) string {
	if m, ok := c.Category(key); ok {
		return m.Heading
	}
	return Capitalize(key)
}

// Keys returns the category keys in file order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// set adds or replaces a category. A repeated key keeps its first position.
func (c *Catalog) set(key string, meta CategoryMeta) {
	if c.categories == nil {
		c.categories = make(map[string]CategoryMeta)
	}
	if _, ok := c.categories[key]; !ok {
		c.order = append(c.order, key)
	}
	c.categories[key] = meta
}

// looseString is a catalog field that accepts any value. Numbers, booleans
// and nested values keep their literal text. A null or missing field is unset.
type looseString struct {
	value string
	set   bool
	// str is true when the value was written as a string.
	str bool
}

func (l looseString) or(def string) string {
	if !l.set {
		return def
	}
	return l.value
}

func (l *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = looseString{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = looseString{value: s, set: true, str: true}
	default:
		*l = looseString{value: string(data), set: true}
	}
	return nil
}

func (l *looseString) UnmarshalYAML(node *yaml.Node) error {
	node = resolveYAML(node)
	switch {
	case isYAMLNull(node):
		*l = looseString{}
	case node.Kind == yaml.ScalarNode:
		*l = looseString{value: node.Value, set: true, str: node.ShortTag() == "!!str"}
	default:
		out, err := yaml.Marshal(node)
		if err != nil {
			return err
		}
		*l = looseString{value: strings.TrimSpace(string(out)), set: true}
	}
	return nil
}

// rawCategory is a category as written in the catalog file, minus its apps.
type rawCategory struct {
	Heading looseString `json:"heading" yaml:"heading"`
}

func (r rawCategory) heading(key string) string {
	return r.Heading.or(Capitalize(key))
}

// rawApp is an app entry as written in the catalog file.
type rawApp struct {
	Description looseString `json:"description" yaml:"description"`
	Icon        looseString `json:"icon" yaml:"icon"`
	AppType     looseString `json:"appType" yaml:"appType"`
}

// toApp applies the defaults. An appType that is not a string never matches
// a filter, so it is dropped.
func (r rawApp) toApp(name string) App {
	app := App{
		Name:        name,
		Description: r.Description.or(DefaultDescription),
		Icon:        r.Icon.or(DefaultIcon),
	}
	if r.AppType.str {
		app.AppType = r.AppType.value
	}
	return app
}

// appendApp adds an app, replacing an earlier entry with the same name in place.
func appendApp(apps []App, app App) []App {
	for i := range apps {
		if apps[i].Name == app.Name {
			apps[i] = app
			return apps
		}
	}
	return append(apps, app)
}

// ParseCatalog parses a catalog, choosing the format from the file name:
// .yaml and .yml files are YAML, anything else is JSON.
func ParseCatalog(name string, data []byte) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseCatalogYAML(data)
	default:
		return ParseCatalogJSON(data)
	}
}

// ParseCatalogJSON parses a JSON catalog. The top level must be an object
// keyed by category; each category may carry "heading" and "apps".
func ParseCatalogJSON(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	dec := json.NewDecoder(bytes.NewReader(data))

	err := decodeJSONObject(dec, func(key string) error {
		var raw struct {
			rawCategory
			Apps json.RawMessage `json:"apps"`
		}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}

		apps, err := parseAppsJSON(raw.Apps)
		if err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}

		cat.set(key, CategoryMeta{Heading: raw.heading(key), Apps: apps})
		return nil
	})
	if err == nil {
		err = expectEOF(dec)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w: %w", ErrInvalidCatalog, err)
	}

	return cat, nil
}

// expectEOF fails when anything but whitespace follows the catalog object.
func expectEOF(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("after catalog: %w", err)
	}
	return fmt.Errorf("unexpected %v after catalog", tok)
}

func parseAppsJSON(data json.RawMessage) ([]App, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var apps []App
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	err := decodeJSONObject(dec, func(name string) error {
		var raw rawApp
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("app %q: %w", name, err)
		}
		apps = appendApp(apps, raw.toApp(name))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apps: %w", err)
	}

	return apps, nil
}

// decodeJSONObject walks the members of a JSON object in order. each is
// called with the member key and must consume the member value from dec.
func decodeJSONObject(dec *json.Decoder, each func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := each(key); err != nil {
			return err
		}
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}

// ParseCatalogYAML parses a YAML catalog with the same shape as the JSON one.
// An empty document is an empty catalog.
func ParseCatalogYAML(data []byte) (*Catalog, error) {
	cat := &Catalog{}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w: %w", ErrInvalidCatalog, err)
	}

	root := resolveYAML(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return cat, nil
		}
		root = resolveYAML(root.Content[0])
	}
	if root.Kind == 0 || isYAMLNull(root) {
		return cat, nil
	}

	err := walkYAMLMapping(root, func(key string, value *yaml.Node) error {
		var raw struct {
			rawCategory `yaml:",inline"`
			Apps        yaml.Node `yaml:"apps"`
		}
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}

		apps, err := parseAppsYAML(&raw.Apps)
		if err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}

		cat.set(key, CategoryMeta{Heading: raw.heading(key), Apps: apps})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w: %w", ErrInvalidCatalog, err)
	}

	return cat, nil
}

func parseAppsYAML(node *yaml.Node) ([]App, error) {
	node = resolveYAML(node)
	if node.Kind == 0 || isYAMLNull(node) {
		return nil, nil
	}

	var apps []App
	err := walkYAMLMapping(node, func(name string, value *yaml.Node) error {
		var raw rawApp
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("app %q: %w", name, err)
		}
		apps = appendApp(apps, raw.toApp(name))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apps: %w", err)
	}

	return apps, nil
}

func walkYAMLMapping(node *yaml.Node, each func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := resolveYAML(node.Content[i])
		if err := each(key.Value, resolveYAML(node.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func resolveYAML(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isYAMLNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
