package doc

import (
	"fmt"
	"strings"
)

// FormatFile formats a FileDoc for terminal display. Undocumented
// definitions are listed only when all is true.
func FormatFile(fd *FileDoc, all bool) string {
	var sb strings.Builder

	if fd.Doc != "" {
		sb.WriteString(fd.Doc)
		sb.WriteString("\n\n")
	}

	for _, m := range fd.Macros {
		if m.Doc == "" && !all {
			continue
		}
		writeEntry(&sb, macroSignature(m), m.Doc)
		sb.WriteString("\n")
	}

	for _, p := range fd.Patterns {
		if p.Doc == "" && !all {
			continue
		}
		writeEntry(&sb, patternSignature(p), p.Doc)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatSymbol formats a single symbol lookup result.
func FormatSymbol(docStr, signature string) string {
	var sb strings.Builder
	writeEntry(&sb, signature, docStr)
	return sb.String()
}

func writeEntry(sb *strings.Builder, signature, docStr string) {
	sb.WriteString(signature)
	sb.WriteString("\n")
	if docStr != "" {
		sb.WriteString("    ")
		sb.WriteString(strings.ReplaceAll(docStr, "\n", "\n    "))
		sb.WriteString("\n")
	}
}

func macroSignature(m MacroDoc) string {
	if m.Arity == 0 {
		return "macro " + m.Name
	}
	params := make([]string, m.Arity)
	for i := range params {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("macro %s(%s)", m.Name, strings.Join(params, ", "))
}

func patternSignature(p PatternDoc) string {
	sig := fmt.Sprintf("pattern { %s }", p.Match)
	if p.Replace != "" {
		sig += fmt.Sprintf(" -> { %s }", p.Replace)
	}
	return sig
}
