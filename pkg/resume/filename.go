package resume

import (
	"strings"
	"unicode"
)

// Filename returns the download name for a person's resume, e.g.
// "Jane Doe" becomes "Jane_Doe_Resume.txt".
func Filename(name string) (filename string) {
	stem := sanitizeName(name)
	if stem == "" {
		filename = "Resume.txt"
		return filename
	}
	filename = stem + "_Resume.txt"
	return filename
}

// PreviewFilename returns the file name for the HTML preview page.
func PreviewFilename(name string) (filename string) {
	stem := sanitizeName(name)
	if stem == "" {
		filename = "Resume_Preview.html"
		return filename
	}
	filename = stem + "_Resume_Preview.html"
	return filename
}

// Title returns the preview page title.
func Title(name string) (title string) {
	name = strings.TrimSpace(name)
	if name == "" {
		title = "Resume"
		return title
	}
	title = name + " - Resume"
	return title
}

// sanitizeName keeps letters and digits and collapses everything else into
// single underscores.
func sanitizeName(name string) (sanitized string) {
	sanitized = strings.Map(func(r rune) (result rune) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result = r
			return result
		}
		result = '_'
		return result
	}, name)

	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}

	sanitized = strings.Trim(sanitized, "_")

	return sanitized
}
