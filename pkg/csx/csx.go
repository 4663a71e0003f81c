package csx

import (
	"errors"

	"github.com/kilianc/csx/internal/csx/rewrite"
	"github.com/kilianc/csx/internal/csx/scan"
	"github.com/kilianc/csx/internal/csx/translate"
)

// TranslateFile translates a component template source into host-engine
// macro source. The generated macro is named after the file stem of path;
// ".md" sources are converted to HTML first.
func TranslateFile(path string, src []byte) ([]byte, error) {
	return translate.File(path, src)
}

// Rewrite is the best-effort variant of TranslateFile: a source that does
// not scan as component syntax is returned unchanged instead of failing,
// so ordinary host-engine templates pass through untouched.
func Rewrite(path string, src []byte) []byte {
	return translate.FileOrOriginal(path, src)
}

// PathReference renders the two-line fragment that imports the template
// at path and invokes its macro with no arguments.
func PathReference(path string) string {
	return rewrite.PathRef(path)
}

// IsParseError reports whether err is a template scan failure.
func IsParseError(err error) bool {
	var perr *scan.Error
	return errors.As(err, &perr)
}
