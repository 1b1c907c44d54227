package main

import (
	"mime"
	"path"
	"strings"
)

// isPDFContentType reports whether a declared Content-Type names a PDF.
// Parameters (charset etc.) are ignored; an empty or unparsable value is
// not a PDF.
func isPDFContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == pdfContentType
}

// clientFilename reduces a browser-supplied filename to its base name.
// Some browsers send full Windows paths; strip those too.
func clientFilename(name string) string {
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "upload.pdf"
	}
	return path.Base(name)
}

// escapeQuotes makes a string safe inside a quoted multipart header
// parameter.
func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func looksLikeHTML(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}
