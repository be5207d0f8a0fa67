package pathutil

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// pathAST represents the parsed AST of a path
type pathAST struct {
	Root     string        `parser:"@Ident"`
	Segments []*segmentAST `parser:"@@*"`
}

// segmentAST is either a property access or a bracketed subscript
type segmentAST struct {
	Property  *string       `parser:"  '.' @Ident"`
	Subscript *subscriptAST `parser:"| '[' @@ ']'"`
}

// subscriptAST represents an index, a quoted key or the any-element wildcard
type subscriptAST struct {
	Index    *int    `parser:"  @Int"`
	Key      *string `parser:"| @String"`
	Wildcard bool    `parser:"| @'*'"`
}

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Punct", Pattern: `[.\[\]*]`},
})

var pathParser = participle.MustBuild[pathAST](
	participle.Lexer(pathLexer),
	participle.Elide("whitespace"),
)

// Parse parses a dotted path such as customer.orders[0].lines["x"] into
// Metadata. Bracketed keys are always strings.
func Parse(pathStr string) (Metadata, error) {
	if pathStr == "" {
		return Metadata{}, fmt.Errorf("empty path")
	}

	ast, err := pathParser.ParseString("", pathStr)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to parse path '%s': %w", pathStr, err)
	}

	md := ForVariable(ast.Root)
	for _, seg := range ast.Segments {
		switch {
		case seg.Property != nil:
			md = ForProperty(md, *seg.Property)
		case seg.Subscript == nil:
			return Metadata{}, fmt.Errorf("invalid segment in path '%s'", pathStr)
		case seg.Subscript.Index != nil:
			md = ForListAccess(md, *seg.Subscript.Index)
		case seg.Subscript.Key != nil:
			key, err := strconv.Unquote(*seg.Subscript.Key)
			if err != nil {
				return Metadata{}, fmt.Errorf("invalid key %s in path '%s': %w", *seg.Subscript.Key, pathStr, err)
			}
			md = ForMapAccess(md, key)
		case seg.Subscript.Wildcard:
			md = ForCollectionAny(md)
		}
	}
	return md, nil
}

// MustParse is like Parse but panics on error
func MustParse(pathStr string) Metadata {
	md, err := Parse(pathStr)
	if err != nil {
		panic(err)
	}
	return md
}

// ValidatePath checks if a path string is valid
func ValidatePath(pathStr string) bool {
	_, err := Parse(pathStr)
	return err == nil
}
