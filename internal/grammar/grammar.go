package grammar

import (
	"bufio"
	"strings"

	"github.com/hyprlang-go/hyprlang/internal/lexer"
	"github.com/hyprlang-go/hyprlang/pkg/herr"
)

const (
	// scannerInitialBufferSize and scannerMaxLineSize size the line
	// scanner generously: a single rhs (e.g. a long bind chain or an
	// embedded expression) can exceed bufio.Scanner's 64KiB default.
	scannerInitialBufferSize = 64 * 1024
	scannerMaxLineSize       = 1024 * 1024

	hyprlangDirectivePrefix = "# hyprlang"
)

// Parse tokenizes text into an ordered Item stream. sourceLabel is attached
// to every Item's Location (a file path, or "<input>" for in-memory text).
// Parse never recurses into `source` directives; ItemSource is handed to the
// binder, which resolves inclusion, cycle detection, and depth limits.
func Parse(text, sourceLabel string) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(strings.NewReader(text))
	buf := make([]byte, 0, scannerInitialBufferSize)
	scanner.Buffer(buf, scannerMaxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		loc := herr.Location{Source: sourceLabel, Line: lineNo}
		raw := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			item, ok, err := parseDirective(trimmed, loc)
			if err != nil {
				return items, err
			}
			if ok {
				items = append(items, item)
			}
			continue
		}

		code := strings.TrimSpace(lexer.TrimComment(raw))
		if code == "" {
			continue
		}

		item, err := parseCodeLine(code, loc)
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return items, herr.Wrap(herr.KindParse, herr.Location{Source: sourceLabel}, err, "reading input")
	}
	return items, nil
}

// parseDirective handles a line whose first non-space character is '#'. It
// returns ok=false for plain and doc (##) comments, which carry no Item.
func parseDirective(trimmed string, loc herr.Location) (Item, bool, error) {
	if !strings.HasPrefix(trimmed, hyprlangDirectivePrefix) {
		return Item{}, false, nil
	}
	rest := strings.TrimSpace(trimmed[len(hyprlangDirectivePrefix):])
	switch {
	case rest == "endif":
		return Item{Kind: ItemEndIf, Loc: loc}, true, nil
	case rest == "noerror":
		return Item{Kind: ItemNoError, Loc: loc}, true, nil
	case strings.HasPrefix(rest, "if "):
		cond := strings.TrimSpace(rest[len("if "):])
		if cond == "" {
			return Item{}, false, herr.New(herr.KindParse, loc, "empty hyprlang if condition")
		}
		return Item{Kind: ItemIfDirective, Cond: cond, Loc: loc}, true, nil
	default:
		return Item{}, false, herr.New(herr.KindParse, loc, "unrecognized hyprlang directive %q", rest)
	}
}

// parseCodeLine handles every non-comment, non-blank production: category
// close, category/special-category open, variable assignment, source
// directive, and plain assignment (production 6, possibly reclassified to a
// handler call later by the binder).
func parseCodeLine(code string, loc herr.Location) (Item, error) {
	if code == "}" {
		return Item{Kind: ItemCloseCat, Loc: loc}, nil
	}

	if strings.HasSuffix(code, "{") {
		return parseOpen(strings.TrimSpace(strings.TrimSuffix(code, "{")), loc)
	}

	eq := findTopLevelEquals(code)
	if eq < 0 {
		return Item{}, herr.New(herr.KindParse, loc, "expected '=' in %q", code)
	}
	lhs := strings.TrimSpace(code[:eq])
	rhs := strings.TrimSpace(code[eq+1:])
	if lhs == "" {
		return Item{}, herr.New(herr.KindParse, loc, "empty key in %q", code)
	}

	if strings.HasPrefix(lhs, "$") {
		name := lhs[1:]
		if ident, next, ok := lexer.ReadIdent(name, 0); !ok || next != len(name) || ident != name {
			return Item{}, herr.New(herr.KindParse, loc, "invalid variable name %q", lhs)
		}
		return Item{Kind: ItemAssignVar, Name: name, RHS: rhs, Loc: loc}, nil
	}

	if lhs == "source" {
		return Item{Kind: ItemSource, Name: unquotePath(rhs), RHS: rhs, Loc: loc}, nil
	}

	segs := strings.Split(lhs, ".")
	for _, seg := range segs {
		if ident, next, ok := lexer.ReadIdent(seg, 0); !ok || next != len(seg) || ident != seg {
			return Item{}, herr.New(herr.KindParse, loc, "invalid key segment %q in %q", seg, lhs)
		}
	}
	return Item{Kind: ItemAssign, Segs: segs, RHS: rhs, Loc: loc}, nil
}

// parseOpen handles `<ident> {` and `<ident>[<key>] {` headers (productions
// 3 and 4; whether the bracket form is required is a registry-time question
// the binder answers, not the grammar).
func parseOpen(header string, loc herr.Location) (Item, error) {
	if header == "" {
		return Item{}, herr.New(herr.KindParse, loc, "missing category name before '{'")
	}
	open := strings.IndexByte(header, '[')
	if open < 0 {
		if ident, next, ok := lexer.ReadIdent(header, 0); !ok || next != len(header) || ident != header {
			return Item{}, herr.New(herr.KindParse, loc, "invalid category name %q", header)
		}
		return Item{Kind: ItemOpenCat, Name: header, Loc: loc}, nil
	}
	if !strings.HasSuffix(header, "]") {
		return Item{}, herr.New(herr.KindParse, loc, "malformed special category header %q", header)
	}
	name := header[:open]
	key := header[open+1 : len(header)-1]
	if ident, next, ok := lexer.ReadIdent(name, 0); !ok || next != len(name) || ident != name {
		return Item{}, herr.New(herr.KindParse, loc, "invalid special category name %q", name)
	}
	if key == "" {
		return Item{}, herr.New(herr.KindParse, loc, "empty special category key in %q", header)
	}
	return Item{Kind: ItemOpenSpecial, Name: name, Key: key, Loc: loc}, nil
}

// findTopLevelEquals returns the index of the first '=' not inside a
// double-quoted span, or -1 if none exists.
func findTopLevelEquals(s string) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if i == 0 || s[i-1] != '\\' {
				inQuotes = !inQuotes
			}
		case '=':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// unquotePath strips a double-quoted source path down to its escaped
// contents; a bare path is returned unchanged.
func unquotePath(rhs string) string {
	if text, next, ok := lexer.ReadQuotedString(rhs, 0); ok && next == len(rhs) {
		return text
	}
	return rhs
}
