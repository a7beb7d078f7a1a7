package engine

// TokenType classifies a single token produced by the Scanner while
// splitting a two-way SQL template into its tokenizer-level pieces
// (spec §4.1).
type TokenType int

const (
	TextToken TokenType = iota + 1
	StringLiteralToken
	LineCommentToken
	BlockCommentToken
	ParameterCommentToken
	NewlineToken
	WhitespaceToken

	EOFToken

	UnterminatedStringErrorToken
	UnterminatedCommentErrorToken
)

func (tt TokenType) String() string {
	return tokenToDescription[tt]
}

func (tt TokenType) GoString() string {
	return tokenToDescription[tt]
}

func init() {
	// Make sure we panic during development if a description is missing,
	// rather than silently printing an empty string somewhere.
	for tt := TokenType(1); tt != EOFToken; tt++ {
		if tokenToDescription[tt] == "" {
			panic("engine: tokenToDescription is missing an entry")
		}
	}
}

var tokenToDescription = map[TokenType]string{
	TextToken:             "TextToken",
	StringLiteralToken:    "StringLiteralToken",
	LineCommentToken:      "LineCommentToken",
	BlockCommentToken:     "BlockCommentToken",
	ParameterCommentToken: "ParameterCommentToken",
	NewlineToken:          "NewlineToken",
	WhitespaceToken:       "WhitespaceToken",

	EOFToken: "EOFToken",

	UnterminatedStringErrorToken:  "UnterminatedStringErrorToken",
	UnterminatedCommentErrorToken: "UnterminatedCommentErrorToken",
}
