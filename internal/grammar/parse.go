package grammar

import (
	"strings"

	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/cifraw"
	"github.com/cifkit/cif/pkg/span"
)

// Parse recognises CIF source text and builds a lossless raw tree (spec
// §3.4, §4.1, §4.2). It never consults dialect rules — that is pkg/cifrules'
// job (C7) — so the same raw tree is produced regardless of which version a
// caller later resolves against. A leading UTF-8 BOM is stripped before any
// other processing (spec §6.1).
func Parse(text string) (*cifraw.Document, *span.Index, error) {
	text = stripBOM(text)
	idx := span.NewIndex(text)
	p := &parser{idx: idx}
	p.sc = newScanner(text, idx)
	if err := p.advance(); err != nil {
		return nil, idx, err
	}

	blocks, err := p.parseFile()
	if err != nil {
		return nil, idx, err
	}

	doc := &cifraw.Document{
		Blocks:       blocks,
		Span:         idx.Span(0, len(text)),
		HasCif2Magic: hasMagicHeader(text),
	}
	return doc, idx, nil
}

type parser struct {
	sc  *scanner
	idx *span.Index
	cur token
}

func (p *parser) advance() error {
	tok, err := p.sc.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func isTagToken(t token) bool {
	return t.kind == tokUnquoted && strings.HasPrefix(t.text, "_")
}

func isValueStart(t token) bool {
	switch t.kind {
	case tokSingleQuoted, tokDoubleQuoted, tokTripleSingleQuoted, tokTripleDoubleQuoted,
		tokTextField, tokListOpen, tokTableOpen:
		return true
	case tokUnquoted:
		return !strings.HasPrefix(t.text, "_")
	default:
		return false
	}
}

func isBlockBoundary(t token) bool {
	return t.kind == tokDataHeader || t.kind == tokGlobalKw || t.kind == tokEOF
}

// parseFile recognises the top-level sequence of data/global blocks (spec
// §4.1 "file" rule).
func (p *parser) parseFile() ([]cifraw.Block, error) {
	var blocks []cifraw.Block
	for p.cur.kind != tokEOF {
		switch p.cur.kind {
		case tokDataHeader:
			b, err := p.parseBlock(false)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
		case tokGlobalKw:
			b, err := p.parseBlock(true)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
		default:
			return nil, p.sc.parseErrorAt(p.cur.start, errUnexpectedToken(p.cur.kind, "data_<name> or global_"))
		}
	}
	return blocks, nil
}

// parseBlock recognises one data block (or global block) and everything
// nested under it: loose items, loops, and save frames (spec §3.3, §4.1).
func (p *parser) parseBlock(isGlobal bool) (cifraw.Block, error) {
	header := p.cur
	var name string
	var nameSpan span.Span
	if isGlobal {
		name = ""
		nameSpan = span.Zero
	} else {
		name = header.text[len("data_"):]
		nameSpan = p.idx.Span(header.start+len("data_"), header.end)
	}
	if err := p.advance(); err != nil {
		return cifraw.Block{}, err
	}

	block := cifraw.Block{Name: name, IsGlobal: isGlobal, NameSpan: nameSpan}
	end := header.end

	for !isBlockBoundary(p.cur) {
		switch {
		case p.cur.kind == tokLoopKw:
			loop, loopEnd, err := p.parseLoop()
			if err != nil {
				return cifraw.Block{}, err
			}
			block.Loops = append(block.Loops, loop)
			end = loopEnd
		case p.cur.kind == tokSaveOpen:
			frame, frameEnd, err := p.parseFrame()
			if err != nil {
				return cifraw.Block{}, err
			}
			block.Frames = append(block.Frames, frame)
			end = frameEnd
		case isTagToken(p.cur):
			item, itemEnd, err := p.parseItem()
			if err != nil {
				return cifraw.Block{}, err
			}
			block.Items = append(block.Items, item)
			end = itemEnd
		case p.cur.kind == tokSaveClose:
			return cifraw.Block{}, p.sc.parseErrorAt(p.cur.start, errUnexpectedToken(p.cur.kind, "item, loop_, or save_<name>"))
		default:
			return cifraw.Block{}, p.sc.parseErrorAt(p.cur.start, errUnexpectedToken(p.cur.kind, "item, loop_, or save_<name>"))
		}
	}

	block.Span = p.idx.Span(header.start, end)
	return block, nil
}

// parseFrame recognises one save frame, from save_<name> to the matching
// bare save_ (spec §3.3, §4.1). Frames do not nest (spec Non-goals). It
// returns the frame's end byte offset alongside, so the caller can extend
// its own span without needing to recover an offset from a span.Span.
func (p *parser) parseFrame() (cifraw.Frame, int, error) {
	open := p.cur
	name := open.text[len("save_"):]
	nameSpan := p.idx.Span(open.start+len("save_"), open.end)
	if err := p.advance(); err != nil {
		return cifraw.Frame{}, 0, err
	}

	frame := cifraw.Frame{Name: name, NameSpan: nameSpan}
	for {
		switch {
		case p.cur.kind == tokSaveClose:
			end := p.cur.end
			if err := p.advance(); err != nil {
				return cifraw.Frame{}, 0, err
			}
			frame.Span = p.idx.Span(open.start, end)
			return frame, end, nil
		case p.cur.kind == tokLoopKw:
			loop, _, err := p.parseLoop()
			if err != nil {
				return cifraw.Frame{}, 0, err
			}
			frame.Loops = append(frame.Loops, loop)
		case isTagToken(p.cur):
			item, _, err := p.parseItem()
			if err != nil {
				return cifraw.Frame{}, 0, err
			}
			frame.Items = append(frame.Items, item)
		case isBlockBoundary(p.cur):
			return cifraw.Frame{}, 0, ciferr.NewStructureError(p.idx.Span(open.start, open.end), "save frame '"+name+"' is never closed with save_")
		default:
			return cifraw.Frame{}, 0, p.sc.parseErrorAt(p.cur.start, errUnexpectedToken(p.cur.kind, "item, loop_, or save_"))
		}
	}
}

// parseLoop recognises a loop_ tag list followed by its flattened value
// sequence (spec §3.3, §4.1). Row alignment against len(Tags) is left to
// the resolution pass (spec §4.4.4).
func (p *parser) parseLoop() (cifraw.Loop, int, error) {
	start := p.cur.start
	if err := p.advance(); err != nil { // consume loop_
		return cifraw.Loop{}, 0, err
	}

	var tags []string
	end := start + len("loop_")
	for isTagToken(p.cur) {
		tags = append(tags, p.cur.text)
		end = p.cur.end
		if err := p.advance(); err != nil {
			return cifraw.Loop{}, 0, err
		}
	}

	var values []cifraw.Value
	for isValueStart(p.cur) {
		v, valEnd, err := p.parseValue()
		if err != nil {
			return cifraw.Loop{}, 0, err
		}
		values = append(values, v)
		end = valEnd
	}

	return cifraw.Loop{Tags: tags, Values: values, Span: p.idx.Span(start, end)}, end, nil
}

// parseItem recognises one "_tag value" pair (spec §3.3, §4.1). A missing
// value yields a zero-span placeholder rather than a failure (spec §4.2),
// so the caller can continue parsing the next construct.
func (p *parser) parseItem() (cifraw.Item, int, error) {
	tagTok := p.cur
	tagSpan := p.idx.Span(tagTok.start, tagTok.end)
	if err := p.advance(); err != nil {
		return cifraw.Item{}, 0, err
	}

	var value cifraw.Value
	itemSpan := tagSpan
	end := tagTok.end
	if isValueStart(p.cur) {
		v, valEnd, err := p.parseValue()
		if err != nil {
			return cifraw.Item{}, 0, err
		}
		value = v
		itemSpan = tagSpan.Merge(v.Span)
		end = valEnd
	} else {
		value = cifraw.NewUnquoted("", span.Zero)
	}

	return cifraw.Item{Tag: tagTok.text, Value: value, ItemSpan: itemSpan, TagSpan: tagSpan}, end, nil
}

// parseValue recognises one CIF value of any syntactic shape (spec §3.4,
// §4.2), recursing into list/table interiors. It returns the value's end
// byte offset alongside, since span.Span does not itself carry offsets.
func (p *parser) parseValue() (cifraw.Value, int, error) {
	tok := p.cur
	switch tok.kind {
	case tokSingleQuoted, tokDoubleQuoted:
		quoteChar := byte('\'')
		if tok.kind == tokDoubleQuoted {
			quoteChar = '"'
		}
		doubled := strings.Contains(tok.text, string(quoteChar)+string(quoteChar))
		if err := p.advance(); err != nil {
			return cifraw.Value{}, 0, err
		}
		return cifraw.NewQuoted(tok.text, quoteChar, doubled, p.idx.Span(tok.start, tok.end)), tok.end, nil

	case tokTripleSingleQuoted, tokTripleDoubleQuoted:
		quoteChar := byte('\'')
		if tok.kind == tokTripleDoubleQuoted {
			quoteChar = '"'
		}
		if err := p.advance(); err != nil {
			return cifraw.Value{}, 0, err
		}
		return cifraw.NewTripleQuoted(tok.text, quoteChar, p.idx.Span(tok.start, tok.end)), tok.end, nil

	case tokTextField:
		if err := p.advance(); err != nil {
			return cifraw.Value{}, 0, err
		}
		return cifraw.NewTextField(tok.text, p.idx.Span(tok.start, tok.end)), tok.end, nil

	case tokListOpen:
		return p.parseList(tok)

	case tokTableOpen:
		return p.parseTable(tok)

	case tokUnquoted:
		if err := p.advance(); err != nil {
			return cifraw.Value{}, 0, err
		}
		return cifraw.NewUnquoted(tok.text, p.idx.Span(tok.start, tok.end)), tok.end, nil

	default:
		return cifraw.Value{}, 0, p.sc.parseErrorAt(tok.start, errUnexpectedToken(tok.kind, "a value"))
	}
}

// parseList recognises 2.0 `[ ... ]` syntax (spec §3.4, §4.2).
func (p *parser) parseList(open token) (cifraw.Value, int, error) {
	if err := p.advance(); err != nil {
		return cifraw.Value{}, 0, err
	}
	var elements []cifraw.Value
	for p.cur.kind != tokListClose {
		if p.cur.kind == tokEOF {
			return cifraw.Value{}, 0, p.sc.parseErrorAt(open.start, errUnexpectedToken(p.cur.kind, "]"))
		}
		v, _, err := p.parseValue()
		if err != nil {
			return cifraw.Value{}, 0, err
		}
		elements = append(elements, v)
	}
	end := p.cur.end
	if err := p.advance(); err != nil { // consume ']'
		return cifraw.Value{}, 0, err
	}
	sp := p.idx.Span(open.start, end)
	return cifraw.NewList(p.sc.text[open.start:end], elements, sp), end, nil
}

// parseTable recognises 2.0 `{ 'key':value, ... }` syntax (spec §3.4,
// §4.2). Keys are restricted to Quoted or TripleQuoted values.
func (p *parser) parseTable(open token) (cifraw.Value, int, error) {
	if err := p.advance(); err != nil {
		return cifraw.Value{}, 0, err
	}
	var entries []cifraw.TableEntry
	for p.cur.kind != tokTableClose {
		if p.cur.kind == tokEOF {
			return cifraw.Value{}, 0, p.sc.parseErrorAt(open.start, errUnexpectedToken(p.cur.kind, "}"))
		}
		if p.cur.kind != tokSingleQuoted && p.cur.kind != tokDoubleQuoted &&
			p.cur.kind != tokTripleSingleQuoted && p.cur.kind != tokTripleDoubleQuoted {
			return cifraw.Value{}, 0, p.sc.parseErrorAt(p.cur.start, errUnexpectedToken(p.cur.kind, "a quoted table key"))
		}
		key, _, err := p.parseValue()
		if err != nil {
			return cifraw.Value{}, 0, err
		}
		if p.cur.kind != tokColon {
			return cifraw.Value{}, 0, p.sc.parseErrorAt(p.cur.start, errUnexpectedToken(p.cur.kind, ":"))
		}
		if err := p.advance(); err != nil {
			return cifraw.Value{}, 0, err
		}
		val, _, err := p.parseValue()
		if err != nil {
			return cifraw.Value{}, 0, err
		}
		entries = append(entries, cifraw.TableEntry{Key: key, Value: val})
	}
	end := p.cur.end
	if err := p.advance(); err != nil { // consume '}'
		return cifraw.Value{}, 0, err
	}
	sp := p.idx.Span(open.start, end)
	return cifraw.NewTable(p.sc.text[open.start:end], entries, sp), end, nil
}
