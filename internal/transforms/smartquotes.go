package transforms

import (
	"strings"
	"unicode"

	"github.com/dgallion1/doctree/internal/doctree"
)

// QuoteToken is one text run handed to an Educator. Literal runs give
// context but must come back unchanged.
type QuoteToken struct {
	Literal bool
	Text    string
}

// Educator rewrites the plain tokens with typographic quotes, dashes,
// and ellipses for the given language. It returns one string per
// input token.
type Educator func(tokens []QuoteToken, language string) []string

// SmartQuotes replaces straight quotation marks and ASCII dash and
// ellipsis approximations in ordinary text. Literal and math content
// is left alone. A custom Educate function overrides the built-in
// rules.
type SmartQuotes struct {
	Educate Educator
}

func (SmartQuotes) Priority() int { return 855 }

// literalParents are inline contexts whose text is never educated.
var literalParents = map[doctree.Kind]bool{
	doctree.KindLiteral:     true,
	doctree.KindMath:        true,
	doctree.KindImage:       true,
	doctree.KindRaw:         true,
	doctree.KindProblematic: true,
}

func (t SmartQuotes) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	if !doc.Settings.SmartQuotes {
		return nil
	}
	educate := t.Educate
	if educate == nil {
		educate = EducateText
	}
	blocks := doctree.FindAll(doc, doctree.FindOptions{
		Class:   &doctree.Class{Categories: doctree.TextContainer},
		Self:    false,
		Descend: true,
	})
	for _, n := range blocks {
		el := doctree.AsElement(n)
		if doctree.CategoriesOf(el.Kind())&(doctree.FixedText|doctree.Special) != 0 {
			continue
		}
		// nested text containers are handled with their outermost block
		if p := el.Parent(); p != nil && doctree.HasCategory(p, doctree.TextContainer) {
			continue
		}
		var leaves []*doctree.Text
		var tokens []QuoteToken
		for sub := range doctree.Find(el, doctree.FindOptions{
			Class: &doctree.Class{Text: true}, Self: true, Descend: true,
		}) {
			leaf := sub.(*doctree.Text)
			leaves = append(leaves, leaf)
			tokens = append(tokens, QuoteToken{
				Literal: literalParents[leaf.Parent().Kind()],
				Text:    leaf.Raw(),
			})
		}
		if len(tokens) == 0 {
			continue
		}
		lang := el.GetLanguageCode(doc.Settings.LanguageCode)
		educated := educate(tokens, lang)
		for i, leaf := range leaves {
			if i >= len(educated) || tokens[i].Literal || educated[i] == tokens[i].Text {
				continue
			}
			if p := leaf.Parent(); p != nil {
				p.Replace(leaf, doctree.NewText(educated[i]))
			}
		}
	}
	return nil
}

type quoteSet struct {
	openDouble, closeDouble string
	openSingle, closeSingle string
}

var quoteSets = map[string]quoteSet{
	"en": {"“", "”", "‘", "’"},
	"de": {"„", "“", "‚", "‘"},
	"fr": {"« ", " »", "‹ ", " ›"},
}

// EducateText is the built-in Educator: curly quotes keyed by the
// primary language subtag (falling back to English), en and em dashes,
// and ellipses. Quote direction carries across literal runs.
func EducateText(tokens []QuoteToken, language string) []string {
	lang, _, _ := strings.Cut(language, "-")
	q, ok := quoteSets[lang]
	if !ok {
		q = quoteSets["en"]
	}
	out := make([]string, len(tokens))
	prev := rune(0)
	for i, tok := range tokens {
		if tok.Literal {
			out[i] = tok.Text
			if r := lastRune(tok.Text); r != 0 {
				prev = r
			}
			continue
		}
		var b strings.Builder
		runes := []rune(tok.Text)
		for j := 0; j < len(runes); j++ {
			r := runes[j]
			switch r {
			case '-':
				if j+2 < len(runes) && runes[j+1] == '-' && runes[j+2] == '-' {
					b.WriteRune('—')
					j += 2
				} else if j+1 < len(runes) && runes[j+1] == '-' {
					b.WriteRune('–')
					j++
				} else {
					b.WriteRune(r)
				}
			case '.':
				if j+2 < len(runes) && runes[j+1] == '.' && runes[j+2] == '.' {
					b.WriteRune('…')
					j += 2
				} else {
					b.WriteRune(r)
				}
			case '"':
				if closesQuote(prev) {
					b.WriteString(q.closeDouble)
				} else {
					b.WriteString(q.openDouble)
				}
			case '\'':
				if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
					// apostrophe or closing quote
					b.WriteString(q.closeSingle)
				} else {
					b.WriteString(q.openSingle)
				}
			default:
				b.WriteRune(r)
			}
			prev = r
		}
		out[i] = b.String()
	}
	return out
}

// closesQuote reports whether a quote after this rune closes rather
// than opens.
func closesQuote(prev rune) bool {
	return unicode.IsLetter(prev) || unicode.IsDigit(prev) ||
		prev == '.' || prev == ',' || prev == '!' || prev == '?'
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
