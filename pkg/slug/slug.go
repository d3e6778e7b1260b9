package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name, transliterating
// Spanish characters to ASCII equivalents.
//
// Examples:
//   - "Café Molido" → "cafe-molido"
//   - "Azúcar Añejo" → "azucar-anejo"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	)
	slug = replacer.Replace(slug)

	// Replace any non-alphanumeric characters with hyphens.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	slug = strings.Trim(slug, "-")

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return slug
}

// ProductCode derives an SKU-style product code from a product name:
// the slug, uppercased. Callers append a uniquifying suffix when needed.
//
//	"Café Molido" → "CAFE-MOLIDO"
func ProductCode(name string) string {
	return strings.ToUpper(Generate(name))
}
