package grammar

import (
	"strings"

	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/span"
)

// scanner turns CIF source text into a token stream. It is a single
// hand-written pass (no regex table) so that the text-field rule — a ';' is
// only significant in column 1 — and CIF 1.1's "doubled-quote" convention
// can be recognised without lookahead gymnastics.
type scanner struct {
	text        string
	pos         int
	atLineStart bool
	idx         *span.Index
}

func newScanner(text string, idx *span.Index) *scanner {
	return &scanner{text: text, atLineStart: true, idx: idx}
}

func (s *scanner) parseErrorAt(offset int, cause error) error {
	line, col := s.idx.Lookup(offset)
	return ciferr.NewParseError(line, col, cause)
}

// next returns the next token, or a tokEOF token once the input is
// exhausted. It returns an error only for unterminated quoted/text-field
// constructs, which are recognition failures (spec §4.1, §7.1).
func (s *scanner) next() (token, error) {
	for {
		if s.pos >= len(s.text) {
			return token{kind: tokEOF, start: s.pos, end: s.pos}, nil
		}
		c := s.text[s.pos]

		switch {
		case c == '\n':
			s.pos++
			s.atLineStart = true
			continue
		case c == '\r':
			s.pos++
			if s.pos < len(s.text) && s.text[s.pos] == '\n' {
				s.pos++
			}
			s.atLineStart = true
			continue
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			s.pos++
			s.atLineStart = false
			continue
		case c == '#':
			s.skipToEOL()
			s.atLineStart = false
			continue
		case c == ';' && s.atLineStart:
			return s.scanTextField()
		case c == '\'' || c == '"':
			s.atLineStart = false
			return s.scanQuoted(c)
		case c == '[':
			s.pos++
			s.atLineStart = false
			return token{kind: tokListOpen, start: s.pos - 1, end: s.pos, text: "["}, nil
		case c == ']':
			s.pos++
			s.atLineStart = false
			return token{kind: tokListClose, start: s.pos - 1, end: s.pos, text: "]"}, nil
		case c == '{':
			s.pos++
			s.atLineStart = false
			return token{kind: tokTableOpen, start: s.pos - 1, end: s.pos, text: "{"}, nil
		case c == '}':
			s.pos++
			s.atLineStart = false
			return token{kind: tokTableClose, start: s.pos - 1, end: s.pos, text: "}"}, nil
		case c == ':':
			s.pos++
			s.atLineStart = false
			return token{kind: tokColon, start: s.pos - 1, end: s.pos, text: ":"}, nil
		default:
			s.atLineStart = false
			return s.scanWord()
		}
	}
}

func (s *scanner) skipToEOL() {
	for s.pos < len(s.text) && s.text[s.pos] != '\n' && s.text[s.pos] != '\r' {
		s.pos++
	}
}

// scanWord reads a run delimited by whitespace, quotes, or a composite-
// syntax character, and classifies it against
// the reserved-word leaders (spec §4.1): data_, loop_, save_, global_,
// stop_, all case-insensitive. A trailing name glued to data_/save_ belongs
// to the same token (no intervening whitespace is legal there).
func (s *scanner) scanWord() (token, error) {
	start := s.pos
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		if isWordBreak(c) {
			break
		}
		s.pos++
	}
	word := s.text[start:s.pos]
	tok := token{start: start, end: s.pos, text: word}

	lower := strings.ToLower(word)
	switch {
	case lower == "loop_":
		tok.kind = tokLoopKw
	case lower == "global_":
		tok.kind = tokGlobalKw
	case lower == "stop_":
		tok.kind = tokStopKw
	case strings.HasPrefix(lower, "data_"):
		tok.kind = tokDataHeader
	case strings.HasPrefix(lower, "save_"):
		if len(word) > len("save_") {
			tok.kind = tokSaveOpen
		} else {
			tok.kind = tokSaveClose
		}
	default:
		tok.kind = tokUnquoted
	}
	return tok, nil
}

// scanQuoted reads a ' or " delimited string using CIF's whitespace-follows
// termination rule: a closing quote only counts if the next character is
// whitespace, a structural delimiter, or end of input. This lets the CIF
// 1.1 doubled-quote convention ('' inside a '...'-quoted string) pass
// through as literal content instead of terminating early (spec §4.2, §4.4.3).
func (s *scanner) scanQuoted(delim byte) (token, error) {
	start := s.pos
	if s.pos+2 < len(s.text) && s.text[s.pos+1] == delim && s.text[s.pos+2] == delim {
		return s.scanTripleQuoted(delim)
	}
	s.pos++ // opening delimiter
	contentStart := s.pos
	for {
		idx := strings.IndexByte(s.text[s.pos:], delim)
		if idx < 0 {
			return token{}, s.parseErrorAt(start, errUnterminatedQuote(delim))
		}
		candidate := s.pos + idx
		next := candidate + 1
		if next >= len(s.text) || isQuoteTerminator(s.text[next]) {
			content := s.text[contentStart:candidate]
			s.pos = next
			kind := tokSingleQuoted
			if delim == '"' {
				kind = tokDoubleQuoted
			}
			return token{kind: kind, start: start, end: s.pos, text: content}, nil
		}
		s.pos = candidate + 1
	}
}



// isWordBreak reports whether c ends an unquoted word: whitespace, a quote
// character, or one of the 2.0 composite-syntax delimiters (spec §3.4,
// §4.2 — these cannot appear inside an unquoted value).
func isWordBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\n', '\r', '\'', '"', '[', ']', '{', '}':
		return true
	default:
		return false
	}
}

func isQuoteTerminator(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\n', '\r', ']', '}', ':':
		return true
	default:
		return false
	}
}

// scanTripleQuoted reads a '''...''' or """..."""-delimited string (CIF
// 2.0 only, spec §3.4). Triple-quoted strings have no escaping and may
// span lines.
func (s *scanner) scanTripleQuoted(delim byte) (token, error) {
	start := s.pos
	triple := s.text[s.pos : s.pos+3]
	s.pos += 3
	contentStart := s.pos
	idx := strings.Index(s.text[s.pos:], triple)
	if idx < 0 {
		return token{}, s.parseErrorAt(start, errUnterminatedQuote(delim))
	}
	contentEnd := s.pos + idx
	s.pos = contentEnd + 3
	kind := tokTripleSingleQuoted
	if delim == '"' {
		kind = tokTripleDoubleQuoted
	}
	return token{kind: kind, start: start, end: s.pos, text: s.text[contentStart:contentEnd]}, nil
}

// scanTextField reads a ;-delimited multi-line value (spec §3.4): opened
// by ';' in column 1, closed by a line whose only character is ';'. The
// leading newline right after the opening ';' is not part of the content.
func (s *scanner) scanTextField() (token, error) {
	start := s.pos
	s.pos++ // opening ';'
	contentStart := s.pos
	pos := contentStart
	for {
		lineEnd, nextLine, atEOF := scanLineBounds(s.text, pos)
		if pos < len(s.text) && s.text[pos] == ';' && pos+1 == lineEnd {
			content := s.text[contentStart:pos]
			content = strings.TrimPrefix(content, "\r\n")
			content = strings.TrimPrefix(content, "\n")
			content = strings.TrimPrefix(content, "\r")
			s.pos = pos + 1
			return token{kind: tokTextField, start: start, end: s.pos, text: content}, nil
		}
		if atEOF {
			return token{}, s.parseErrorAt(start, errUnterminatedTextField())
		}
		pos = nextLine
	}
}

// scanLineBounds finds the end of the line starting at pos (exclusive of
// the terminator) and the offset of the following line, handling \n,
// \r\n, and bare \r.
func scanLineBounds(text string, pos int) (lineEnd, nextLine int, atEOF bool) {
	for i := pos; i < len(text); i++ {
		switch text[i] {
		case '\n':
			return i, i + 1, false
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return i, i + 2, false
			}
			return i, i + 1, false
		}
	}
	return len(text), len(text), true
}
