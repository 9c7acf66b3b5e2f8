package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/token"
)

// SourceFileRecord tracks the name and content of a single source file.
type SourceFileRecord struct {
	Name    string
	Content []rune
}

var sourceFiles []SourceFileRecord

// SetSourceFiles stores the source code for all input files so diagnostics
// can echo the offending line. It is display metadata only; library callers
// that never print diagnostics may skip it.
func SetSourceFiles(files []SourceFileRecord) {
	sourceFiles = files
}

// findFileAndLine converts a token to a file-specific location
func findFileAndLine(tok token.Token) (filename string, line, col int) {
	if tok.FileIndex < 0 || tok.FileIndex >= len(sourceFiles) {
		return "<input>", tok.Line, tok.Column
	}
	return sourceFiles[tok.FileIndex].Name, tok.Line, tok.Column
}

// sourceContext renders the source line and a caret under the token
func sourceContext(tok token.Token) string {
	if tok.FileIndex < 0 || tok.FileIndex >= len(sourceFiles) || tok.Line == 0 {
		return ""
	}

	content := sourceFiles[tok.FileIndex].Content
	lineNum := tok.Line
	lineStart := 0
	for i, r := range content {
		if lineNum <= 1 {
			break
		}
		if r == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}

	lineEnd := len(content)
	for i := lineStart; i < len(content); i++ {
		if content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s\n", string(content[lineStart:lineEnd]))
	fmt.Fprintf(&sb, "  %s^", strings.Repeat(" ", tok.Column-1))
	if tok.Len > 1 {
		sb.WriteString(strings.Repeat("~", tok.Len-1))
	}
	return sb.String()
}

// Errorf builds a positional diagnostic error for lexical and syntactic
// failures. Semantic errors do not go through here; their wording is fixed
// by the validator.
func Errorf(tok token.Token, format string, args ...interface{}) error {
	filename, line, col := findFileAndLine(tok)
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s:%d:%d: error: %s%s", filename, line, col, msg, sourceContext(tok))
}

// Warn prints a formatted warning to stderr if the warning is enabled.
// Warnings never affect the compiler's output.
func Warn(cfg *config.Config, wt config.Warning, tok token.Token, format string, args ...interface{}) {
	if cfg == nil || !cfg.IsWarningEnabled(wt) {
		return
	}
	filename, line, col := findFileAndLine(tok)
	name := cfg.Warnings[wt].Name
	fmt.Fprintf(os.Stderr, "%s:%d:%d: \033[33mwarning:\033[0m ", filename, line, col)
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintf(os.Stderr, " [-W%s]\n", name)
}

// AlignUp rounds n up to the next multiple of align.
func AlignUp(n, align int64) int64 {
	if align <= 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
