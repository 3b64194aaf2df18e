package fontspec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// This file parses CSS-like font shorthands, e.g. "bold 32px Go Mono" or
// "italic 700 18pt/1.4 'Go Smallcaps', Go": optional style and weight
// tokens, a mandatory size (px or pt, optionally followed by /line-height),
// then one or more comma-separated family names.

var (
	fontLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Size", Pattern: `(?:\d+\.\d+|\d+)(?:px|pt)`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|'(?:\\.|[^'])*'`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Slash", Pattern: `/`},
		{Name: "Comma", Pattern: `,`},
	})

	shorthandParser = participle.MustBuild[shorthandAST](
		participle.Lexer(fontLexer),
		participle.Elide("Whitespace"),
	)
)

// shorthandAST is the raw grammar; semantic checks happen in fromAST.
type shorthandAST struct {
	Leading    []string       `parser:"( @'normal' | @'italic' | @'oblique' | @'bold' | @'bolder' | @'lighter' | @Number )*"`
	Size       string         `parser:"@Size"`
	LineHeight *lineHeightAST `parser:"( Slash @@ )?"`
	Families   []*familyAST   `parser:"@@ ( Comma @@ )*"`
}

type lineHeightAST struct {
	Absolute *string `parser:"  @Size"`
	Factor   *string `parser:"| @Number"`
}

type familyAST struct {
	Quoted *string  `parser:"  @String"`
	Words  []string `parser:"| @Ident+"`
}

// Font style keywords.
const (
	StyleNormal  = "normal"
	StyleItalic  = "italic"
	StyleOblique = "oblique"
)

const ptToPx = 96.0 / 72.0

// Spec is a parsed font description. Zero values are normalized by Parse:
// Style "normal", Weight 400.
type Spec struct {
	Style      string      `json:"style"`
	Weight     int         `json:"weight"`
	SizePx     float64     `json:"sizePx"`
	LineHeight *LineHeight `json:"lineHeight,omitempty"`
	Families   []string    `json:"families"`
}

// LineHeightKind distinguishes factor-based vs absolute line-height values.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeight preserves author intent: a factor of the font size (1.4) or an
// absolute pixel value (40px).
type LineHeight struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Px     float64        `json:"px,omitempty"`
}

func (lh LineHeight) IsZero() bool { return lh.Factor == 0 && lh.Px == 0 }

// Coefficient resolves the line height into the advance multiplier
// lineHeight/fontSize. The zero value resolves to 1.
func (lh LineHeight) Coefficient(fontSizePx float64) float64 {
	switch lh.Kind {
	case LineHeightAbsolute:
		if fontSizePx <= 0 {
			return 0
		}
		return lh.Px / fontSizePx
	default:
		if lh.Factor > 0 {
			return lh.Factor
		}
		return 1
	}
}

// Default returns the spec used when no shorthand is given: 16px regular Go.
func Default() Spec {
	return Spec{Style: StyleNormal, Weight: 400, SizePx: 16, Families: []string{"Go"}}
}

// Parse parses a font shorthand into a Spec.
func Parse(input string) (Spec, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Spec{}, fmt.Errorf("empty font shorthand")
	}
	ast, err := shorthandParser.ParseString("", trimmed)
	if err != nil {
		return Spec{}, fmt.Errorf("invalid font shorthand %q: %w", input, err)
	}
	return fromAST(ast)
}

// MustParse is like Parse but panics on error. Intended for fixed shorthands.
func MustParse(input string) Spec {
	spec, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return spec
}

func fromAST(ast *shorthandAST) (Spec, error) {
	spec := Spec{Style: StyleNormal, Weight: 400}

	for _, tok := range ast.Leading {
		switch tok {
		case "normal":
			// resets both style and weight, which are already at defaults
		case "italic":
			spec.Style = StyleItalic
		case "oblique":
			spec.Style = StyleOblique
		case "bold", "bolder":
			spec.Weight = 700
		case "lighter":
			spec.Weight = 300
		default:
			n, err := strconv.Atoi(tok)
			if err != nil {
				return Spec{}, fmt.Errorf("invalid font weight %q", tok)
			}
			if n < 1 || n > 1000 {
				return Spec{}, fmt.Errorf("font weight %d out of range 1-1000", n)
			}
			spec.Weight = n
		}
	}

	size, err := parseSize(ast.Size)
	if err != nil {
		return Spec{}, err
	}
	spec.SizePx = size

	if ast.LineHeight != nil {
		lh, err := ast.LineHeight.resolve()
		if err != nil {
			return Spec{}, err
		}
		spec.LineHeight = &lh
	}

	for _, fam := range ast.Families {
		name := fam.name()
		if name == "" {
			return Spec{}, fmt.Errorf("empty font family name")
		}
		spec.Families = append(spec.Families, name)
	}
	return spec, nil
}

func parseSize(value string) (float64, error) {
	num, unit := value, "px"
	if strings.HasSuffix(value, "px") || strings.HasSuffix(value, "pt") {
		num, unit = value[:len(value)-2], value[len(value)-2:]
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid font size %q", value)
	}
	if unit == "pt" {
		f *= ptToPx
	}
	if f <= 0 {
		return 0, fmt.Errorf("font size must be positive, got %q", value)
	}
	return f, nil
}

func (lh *lineHeightAST) resolve() (LineHeight, error) {
	if lh.Absolute != nil {
		px, err := parseSize(*lh.Absolute)
		if err != nil {
			return LineHeight{}, fmt.Errorf("invalid line-height %q", *lh.Absolute)
		}
		return LineHeight{Kind: LineHeightAbsolute, Px: px}, nil
	}
	f, err := strconv.ParseFloat(*lh.Factor, 64)
	if err != nil || f <= 0 {
		return LineHeight{}, fmt.Errorf("invalid line-height factor %q", *lh.Factor)
	}
	return LineHeight{Kind: LineHeightFactor, Factor: f}, nil
}

func (f *familyAST) name() string {
	if f.Quoted != nil {
		return unquote(*f.Quoted)
	}
	return strings.Join(f.Words, " ")
}

func unquote(s string) string {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`).Replace(s)
}

// ParseLineHeight parses a standalone line-height value: a factor ("1.4",
// "1.4x") or an absolute length ("40px", "30pt").
func ParseLineHeight(value string) (LineHeight, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return LineHeight{}, fmt.Errorf("empty line-height")
	}
	switch {
	case strings.HasSuffix(v, "px"), strings.HasSuffix(v, "pt"):
		px, err := parseSize(v)
		if err != nil {
			return LineHeight{}, fmt.Errorf("invalid line-height %q", value)
		}
		return LineHeight{Kind: LineHeightAbsolute, Px: px}, nil
	case strings.HasSuffix(v, "x"):
		v = strings.TrimSuffix(v, "x")
		fallthrough
	default:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return LineHeight{}, fmt.Errorf("invalid line-height %q", value)
		}
		return LineHeight{Kind: LineHeightFactor, Factor: f}, nil
	}
}

// String reassembles the canonical shorthand form of the spec.
func (s Spec) String() string {
	var b strings.Builder
	if s.Style != "" && s.Style != StyleNormal {
		b.WriteString(s.Style)
		b.WriteByte(' ')
	}
	if s.Weight != 0 && s.Weight != 400 {
		fmt.Fprintf(&b, "%d ", s.Weight)
	}
	fmt.Fprintf(&b, "%gpx", s.SizePx)
	if s.LineHeight != nil {
		if s.LineHeight.Kind == LineHeightAbsolute {
			fmt.Fprintf(&b, "/%gpx", s.LineHeight.Px)
		} else {
			fmt.Fprintf(&b, "/%g", s.LineHeight.Factor)
		}
	}
	for i, fam := range s.Families {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		if strings.ContainsAny(fam, `,"'`) {
			fmt.Fprintf(&b, "%q", fam)
		} else {
			b.WriteString(fam)
		}
	}
	return b.String()
}
