package appshelf

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"text/template"
)

// BuildSections filters the catalog against the category directories found on
// disk. Categories keep the order of the categories slice; apps keep catalog
// order. A category without metadata, or without a heading, is headed by its
// capitalized directory name. When appType is not empty only apps with exactly that type are kept,
// and categories left without apps are dropped.
func BuildSections(cat *Catalog, categories []string, appType string) []Section {
	sections := make([]Section, 0, len(categories))

	for _, category := range categories {
		meta, _ := cat.Category(category)
		heading := cat.Heading(category)

		var tiles []Tile
		for _, app := range meta.Apps {
			if appType != "" && app.AppType != appType {
				continue
			}
			tiles = append(tiles, Tile{
				Name:        app.Name,
				Description: app.Description,
				DownloadURL: DownloadURL(category, app.Name),
				IconURL:     app.Icon,
			})
		}

		if len(tiles) == 0 {
			continue
		}

		sections = append(sections, Section{
			Category: category,
			Heading:  heading,
			Tiles:    tiles,
		})
	}

	return sections
}

// DownloadURL returns the URL of an app package: /apps/{category}/{name}.apk.
func DownloadURL(category, name string) string {
	return AppsRoute + url.PathEscape(category) + "/" + url.PathEscape(name) + PackageExt
}

const sectionOpen = `
                <div class="subheading">
                    <h4>%s</h4>
                </div>
                <div class='content-row'><div class='content'>
                `

const tileBlock = `
                        <div class="item" onclick="showLightbox('%s', '%s', '%s')">
                            <div class="icon" style="background-image: url('%s');"></div>
                            <p>%s</p>
                        </div>
                    `

const sectionClose = `</div></div>`

// RenderFragment renders sections as the HTML fragment that replaces the
// placeholder token. Text is HTML-escaped; the showLightbox arguments are
// JavaScript-escaped first.
func RenderFragment(sections []Section) string {
	var sb strings.Builder

	for _, s := range sections {
		fmt.Fprintf(&sb, sectionOpen, html.EscapeString(s.Heading))

		for _, t := range s.Tiles {
			fmt.Fprintf(&sb, tileBlock,
				jsArg(t.Name),
				jsArg(t.Description),
				jsArg(t.DownloadURL),
				html.EscapeString(t.IconURL),
				html.EscapeString(t.Name),
			)
		}

		sb.WriteString(sectionClose)
	}

	return sb.String()
}

// jsArg escapes s for a single-quoted JavaScript string inside an HTML
// attribute.
func jsArg(s string) string {
	return html.EscapeString(template.JSEscapeString(s))
}
