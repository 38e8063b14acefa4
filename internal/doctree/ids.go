package doctree

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

// idDigraphs maps letters that decompose into two ASCII letters.
var idDigraphs = map[rune]string{
	0x00df: "sz", // ß
	0x00e6: "ae", // æ
	0x0153: "oe", // œ
	0x0238: "db", // ȸ
	0x0239: "qp", // ȹ
}

// idTranslations folds letters whose compatibility decomposition does
// not yield an ASCII base letter.
var idTranslations = map[rune]rune{
	0x00f8: 'o', // ø
	0x0111: 'd', // đ
	0x0127: 'h', // ħ
	0x0131: 'i', // ı
	0x0142: 'l', // ł
	0x0167: 't', // ŧ
	0x0180: 'b', // ƀ
	0x0183: 'b', // ƃ
	0x0188: 'c', // ƈ
	0x018c: 'd', // ƌ
	0x0192: 'f', // ƒ
	0x0199: 'k', // ƙ
	0x019a: 'l', // ƚ
	0x019e: 'n', // ƞ
	0x01a5: 'p', // ƥ
	0x01ab: 't', // ƫ
	0x01ad: 't', // ƭ
	0x01b4: 'y', // ƴ
	0x01b6: 'z', // ƶ
	0x01e5: 'g', // ǥ
	0x0225: 'z', // ȥ
	0x0234: 'l', // ȴ
	0x0235: 'n', // ȵ
	0x0236: 't', // ȶ
	0x0237: 'j', // ȷ
	0x023c: 'c', // ȼ
	0x023f: 's', // ȿ
	0x0240: 'z', // ɀ
	0x0247: 'e', // ɇ
	0x0249: 'j', // ɉ
	0x024b: 'q', // ɋ
	0x024d: 'r', // ɍ
	0x024f: 'y', // ɏ
}

var (
	nonAlphanumRe  = regexp.MustCompile(`[^a-z0-9]+`)
	idTrimRe       = regexp.MustCompile(`^[-0-9]+|-+$`)
	nonASCIIRemove = runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	}))
)

// MakeID converts a string into an identifier usable in HTML, CSS, and
// mail headers: lowercase ASCII letters, digits, and hyphens, starting
// with a letter. Accented and special Latin letters are folded to their
// ASCII base forms; everything else is dropped. Returns "" when nothing
// usable remains.
func MakeID(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if d, ok := idDigraphs[r]; ok {
			b.WriteString(d)
		} else if t, ok := idTranslations[r]; ok {
			b.WriteRune(t)
		} else {
			b.WriteRune(r)
		}
	}
	// compatibility-decompose, then strip everything non-ASCII (the
	// combining marks left over from accented letters in particular)
	folded := nonASCIIRemove.String(norm.NFKD.String(b.String()))
	folded = strings.Join(strings.Fields(folded), " ")
	folded = nonAlphanumRe.ReplaceAllString(folded, "-")
	return idTrimRe.ReplaceAllString(folded, "")
}

// Unescape removes null-escape markers from parsed text. With
// restoreBackslashes, each marker turns back into a backslash instead.
func Unescape(text string, restoreBackslashes bool) string {
	if restoreBackslashes {
		return strings.ReplaceAll(text, "\x00", "\\")
	}
	for _, sep := range []string{"\x00 ", "\x00\n", "\x00"} {
		text = strings.ReplaceAll(text, sep, "")
	}
	return text
}

// SerialEscape escapes string values that are elements of a list, for
// serialization: backslashes are doubled, spaces backslash-escaped.
func SerialEscape(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	return strings.ReplaceAll(value, " ", "\\ ")
}

// SplitNameList splits a serialized list of names at non-escaped
// whitespace and unescapes the individual names.
func SplitNameList(s string) []string {
	s = strings.ReplaceAll(s, "\\\\", "\x00")
	s = strings.ReplaceAll(s, "\\ ", "\x01")
	names := strings.Fields(s)
	for i, name := range names {
		name = strings.ReplaceAll(name, "\x01", " ")
		names[i] = strings.ReplaceAll(name, "\x00", "\\")
	}
	return names
}

// FullyNormalizeName lowercases a name and collapses its whitespace.
func FullyNormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// WhitespaceNormalizeName collapses a name's whitespace, keeping case.
func WhitespaceNormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// PseudoQuoteAttr quotes an attribute value for pseudo-XML output. No
// escaping is performed.
func PseudoQuoteAttr(value string) string {
	return `"` + value + `"`
}
