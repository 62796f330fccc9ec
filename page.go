package appshelf

import "bytes"

// Substitute replaces the first PlaceholderToken in tmpl with fragment.
// The rest of the template is returned unchanged. A template without the
// token is returned as is.
func Substitute(tmpl []byte, fragment string) []byte {
	return bytes.Replace(tmpl, []byte(PlaceholderToken), []byte(fragment), 1)
}
