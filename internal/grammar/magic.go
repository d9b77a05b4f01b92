package grammar

import "strings"

const magicPrefix = "#\\#CIF_2.0"

// stripBOM removes a leading UTF-8 byte order mark, if present (spec §6.1).
func stripBOM(text string) string {
	return strings.TrimPrefix(text, "\xef\xbb\xbf")
}

// hasMagicHeader reports whether the first non-blank line of text begins
// with the CIF 2.0 dialect sentinel "#\#CIF_2.0" (spec §4.2, §6.1,
// GLOSSARY). Detection is a plain textual check, independent of
// tokenization, since the sentinel looks exactly like an ordinary comment
// to the scanner.
func hasMagicHeader(text string) bool {
	for _, line := range splitLines(text) {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		return strings.HasPrefix(trimmed, magicPrefix)
	}
	return false
}

// splitLines splits text on \n, \r\n, or \r without allocating a new
// string per line beyond the slice itself.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}
