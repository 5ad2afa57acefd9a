// Package doc extracts documentation from stackpp source files.
//
// It works on raw source before preprocessing, since the comment pass
// destroys comments. Consecutive // lines immediately before a macro or
// pattern definition (no blank line gap) are attached as the doc comment
// for that definition. Lines inside a definition's blocks are never
// treated as docs.
package doc

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

// Ext is the file extension of stackpp sources.
const Ext = ".spp"

// FileDoc holds all extracted documentation for a single source file.
type FileDoc struct {
	Path     string
	Doc      string // file-level doc (first // block before any code)
	Macros   []MacroDoc
	Patterns []PatternDoc
}

// MacroDoc describes a documented macro.
type MacroDoc struct {
	Name  string
	Arity int // highest $N referenced by the body
	Doc   string
	Line  int // 1-based line number of the macro keyword
}

// PatternDoc describes a documented pattern rule.
type PatternDoc struct {
	Match   string
	Replace string
	Doc     string
	Line    int
}

var (
	macroLine   = regexp.MustCompile(`^macro\s+([A-Za-z_][A-Za-z0-9_]*)\s*\{`)
	patternLine = regexp.MustCompile(`^pattern\s*\{`)
	placeholder = regexp.MustCompile(`\$(\d+)`)
)

// ExtractFile reads a source file and extracts all documentation.
func ExtractFile(path string) (*FileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(string(data), path), nil
}

// ExtractDir reads all source files in a directory (non-recursive) and
// returns aggregated documentation. The file-level doc is taken from the
// first file that has one.
func ExtractDir(dir string) (*FileDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := &FileDoc{Path: dir}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		fd, err := ExtractFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		if result.Doc == "" {
			result.Doc = fd.Doc
		}
		result.Macros = append(result.Macros, fd.Macros...)
		result.Patterns = append(result.Patterns, fd.Patterns...)
	}
	return result, nil
}

// Extract parses raw source and returns structured documentation.
func Extract(src, path string) *FileDoc {
	fd := &FileDoc{Path: path}

	var commentBlock []string
	seenCode := false
	skipUntil := 0 // offset of the end of the last definition

	offset := 0
	for i, line := range strings.Split(src, "\n") {
		lineNum := i + 1
		lineStart := offset
		offset += len(line) + 1
		if lineStart < skipUntil {
			continue
		}

		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "//") {
			commentBlock = append(commentBlock, strings.TrimPrefix(trimmed[2:], " "))
			continue
		}

		// Blank line breaks attachment
		if trimmed == "" {
			if len(commentBlock) > 0 && !seenCode {
				fd.Doc = strings.Join(commentBlock, "\n")
				seenCode = true
			}
			commentBlock = nil
			continue
		}

		if !seenCode && len(commentBlock) > 0 {
			fd.Doc = strings.Join(commentBlock, "\n")
		}
		seenCode = true

		indent := strings.Index(line, trimmed)
		if m := macroLine.FindStringSubmatchIndex(trimmed); m != nil {
			open := lineStart + indent + m[1] - 1
			body := scanner.ExtractBlock(src, open, '{', '}')
			fd.Macros = append(fd.Macros, MacroDoc{
				Name:  trimmed[m[2]:m[3]],
				Arity: arity(body.Inner),
				Doc:   strings.Join(commentBlock, "\n"),
				Line:  lineNum,
			})
			skipUntil = body.End
		} else if m := patternLine.FindStringIndex(trimmed); m != nil {
			open := lineStart + indent + m[1] - 1
			match := scanner.ExtractBlock(src, open, '{', '}')
			pd := PatternDoc{
				Match: strings.TrimSpace(match.Inner),
				Doc:   strings.Join(commentBlock, "\n"),
				Line:  lineNum,
			}
			skipUntil = match.End
			k := match.End
			for k < len(src) && strings.IndexByte(" \t\n\v\f\r", src[k]) >= 0 {
				k++
			}
			if k < len(src) && src[k] == '{' {
				repl := scanner.ExtractBlock(src, k, '{', '}')
				pd.Replace = strings.TrimSpace(repl.Inner)
				skipUntil = repl.End
			}
			fd.Patterns = append(fd.Patterns, pd)
		}
		commentBlock = nil
	}

	return fd
}

// arity returns the highest positional placeholder in a macro body.
func arity(body string) int {
	n := 0
	for _, m := range placeholder.FindAllStringSubmatch(body, -1) {
		if v, err := strconv.Atoi(m[1]); err == nil && v > n {
			n = v
		}
	}
	return n
}

// LookupMacro finds a macro by name in a FileDoc.
func LookupMacro(fd *FileDoc, name string) (doc string, signature string, found bool) {
	for _, m := range fd.Macros {
		if m.Name == name {
			return m.Doc, macroSignature(m), true
		}
	}
	return "", "", false
}
