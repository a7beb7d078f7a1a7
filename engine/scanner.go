package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// Token is a single lexical unit produced by the Scanner. Raw is the exact
// source text of the token, including any comment/string delimiters.
type Token struct {
	Type        TokenType
	Raw         string
	Start, Stop Pos
}

// paramCommentPattern recognizes a block comment as a parameter comment:
// an optional run of modifier sigils, then a name starting with a letter,
// underscore, or '%' (auxiliary-function forms: %concat, %L, %STR, %if...).
var paramCommentPattern = regexp.MustCompile(`^\s*[$&@?!]*[A-Za-z_%][\w%]*`)

// IsParameterComment reports whether the interior text of a block comment
// (without the surrounding /* */) names a parameter site per spec §4.1.
func IsParameterComment(interior string) bool {
	return paramCommentPattern.MatchString(interior)
}

// Scanner is a line-oriented tokenizer for two-way SQL templates. It never
// descends into a string literal while hunting for comments, and it never
// treats '--' or '/*' found inside a string literal as a comment opener.
type Scanner struct {
	input string
	file  FileRef
	dia   Dialect

	curIndex int

	stopLine        int // 0-indexed line of curIndex
	indexAtStopLine int // index right after the last '\n' seen
}

// NewScanner constructs a Scanner over input, reporting positions against
// file and honoring dialect's string-literal escaping rules.
func NewScanner(input string, file FileRef, dia Dialect) *Scanner {
	return &Scanner{input: input, file: file, dia: dia}
}

func (s *Scanner) posAt(index, line, indexAtLine int) Pos {
	return Pos{File: s.file, Line: line + 1, Col: index - indexAtLine + 1}
}

func (s *Scanner) bumpLine(newlineIndex int) {
	s.stopLine++
	s.indexAtStopLine = newlineIndex + 1
}

// Tokenize scans the entire input and returns the token stream, or a
// ParseError{Kind: Unterminated} if a string literal or block comment runs
// off the end of the input.
func (s *Scanner) Tokenize() ([]Token, error) {
	var tokens []Token
	var textStart int
	startLine, indexAtStartLine := 0, 0

	flushText := func(end int) {
		if end > textStart {
			tokens = append(tokens, Token{
				Type:  TextToken,
				Raw:   s.input[textStart:end],
				Start: s.posAt(textStart, startLine, indexAtStartLine),
				Stop:  s.posAt(end, s.stopLine, s.indexAtStopLine),
			})
		}
	}

	for s.curIndex < len(s.input) {
		c := s.input[s.curIndex]

		switch {
		case c == '\'':
			flushText(s.curIndex)
			tokStart := s.curIndex
			tsLine, tsIdx := s.stopLine, s.indexAtStopLine
			if err := s.scanStringLiteral(); err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{
				Type:  StringLiteralToken,
				Raw:   s.input[tokStart:s.curIndex],
				Start: s.posAt(tokStart, tsLine, tsIdx),
				Stop:  s.posAt(s.curIndex, s.stopLine, s.indexAtStopLine),
			})
			textStart, startLine, indexAtStartLine = s.curIndex, s.stopLine, s.indexAtStopLine

		case c == '-' && s.peek(1) == '-':
			flushText(s.curIndex)
			tokStart := s.curIndex
			tsLine, tsIdx := s.stopLine, s.indexAtStopLine
			s.scanLineComment()
			tokens = append(tokens, Token{
				Type:  LineCommentToken,
				Raw:   s.input[tokStart:s.curIndex],
				Start: s.posAt(tokStart, tsLine, tsIdx),
				Stop:  s.posAt(s.curIndex, s.stopLine, s.indexAtStopLine),
			})
			textStart, startLine, indexAtStartLine = s.curIndex, s.stopLine, s.indexAtStopLine

		case c == '/' && s.peek(1) == '*':
			flushText(s.curIndex)
			tokStart := s.curIndex
			tsLine, tsIdx := s.stopLine, s.indexAtStopLine
			if err := s.scanBlockComment(); err != nil {
				return nil, err
			}
			raw := s.input[tokStart:s.curIndex]
			tt := BlockCommentToken
			if IsParameterComment(raw[2 : len(raw)-2]) {
				tt = ParameterCommentToken
			}
			tokens = append(tokens, Token{
				Type:  tt,
				Raw:   raw,
				Start: s.posAt(tokStart, tsLine, tsIdx),
				Stop:  s.posAt(s.curIndex, s.stopLine, s.indexAtStopLine),
			})
			textStart, startLine, indexAtStartLine = s.curIndex, s.stopLine, s.indexAtStopLine

		case c == '\n':
			flushText(s.curIndex)
			tokStart := s.curIndex
			tsLine, tsIdx := s.stopLine, s.indexAtStopLine
			s.curIndex++
			s.bumpLine(tokStart)
			tokens = append(tokens, Token{
				Type:  NewlineToken,
				Raw:   "\n",
				Start: s.posAt(tokStart, tsLine, tsIdx),
				Stop:  s.posAt(s.curIndex, s.stopLine, s.indexAtStopLine),
			})
			textStart, startLine, indexAtStartLine = s.curIndex, s.stopLine, s.indexAtStopLine

		default:
			s.advanceRune()
		}
	}
	flushText(s.curIndex)

	tokens = append(tokens, Token{
		Type:  EOFToken,
		Start: s.posAt(s.curIndex, s.stopLine, s.indexAtStopLine),
		Stop:  s.posAt(s.curIndex, s.stopLine, s.indexAtStopLine),
	})
	return tokens, nil
}

func (s *Scanner) peek(offset int) byte {
	idx := s.curIndex + offset
	if idx < 0 || idx >= len(s.input) {
		return 0
	}
	return s.input[idx]
}

func (s *Scanner) advanceRune() {
	_, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
	if w == 0 {
		w = 1
	}
	s.curIndex += w
}

// scanStringLiteral assumes curIndex is at the opening quote.
func (s *Scanner) scanStringLiteral() error {
	startLine, startIdx := s.stopLine, s.indexAtStopLine
	s.curIndex++ // consume opening '
	for s.curIndex < len(s.input) {
		c := s.input[s.curIndex]
		switch {
		case c == '\\' && s.dia.BackslashEscapes && s.curIndex+1 < len(s.input):
			s.curIndex += 2
		case c == '\'' && s.peek(1) == '\'':
			s.curIndex += 2
		case c == '\'':
			s.curIndex++
			return nil
		case c == '\n':
			s.curIndex++
			s.bumpLine(s.curIndex - 1)
		default:
			s.advanceRune()
		}
	}
	return ParseError{Kind: Unterminated, Pos: s.posAt(s.curIndex, startLine, startIdx), Message: "unterminated string literal"}
}

// scanLineComment assumes curIndex is at the first '-' of '--'.
func (s *Scanner) scanLineComment() {
	s.curIndex += 2
	for s.curIndex < len(s.input) && s.input[s.curIndex] != '\n' {
		s.curIndex++
	}
}

// scanBlockComment assumes curIndex is at the '/' of '/*'. Block comments
// do not nest.
func (s *Scanner) scanBlockComment() error {
	startLine, startIdx := s.stopLine, s.indexAtStopLine
	s.curIndex += 2
	for s.curIndex < len(s.input) {
		if s.input[s.curIndex] == '\n' {
			s.bumpLine(s.curIndex)
		}
		if s.input[s.curIndex] == '*' && s.peek(1) == '/' {
			s.curIndex += 2
			return nil
		}
		s.curIndex++
	}
	return ParseError{Kind: Unterminated, Pos: s.posAt(s.curIndex, startLine, startIdx), Message: "unterminated block comment"}
}

// TrimmedInterior returns a parameter/block comment's interior with the
// /* */ delimiters removed and outer whitespace trimmed.
func TrimmedInterior(raw string) string {
	if !strings.HasPrefix(raw, "/*") || !strings.HasSuffix(raw, "*/") {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(raw[2 : len(raw)-2])
}

// isIdentRune reports whether r can continue a parameter/column identifier.
// Also used by directiveArgs (aux.go) to skip a directive keyword.
func isIdentRune(r rune) bool {
	return xid.Continue(r) || r == '_' || r == '#' || r == '$'
}

func isIdentStartRune(r rune) bool {
	return xid.Start(r) || r == '_' || r == '#'
}
