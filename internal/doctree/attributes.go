package doctree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AttributeValidator normalizes an attribute value and checks its
// constraints. Validators accept raw string input (for example from an
// ingest bridge) as well as already-typed values.
type AttributeValidator func(value any) (any, error)

// AttributeValidators maps attribute names to validating functions,
// shared by element validation and by producers coercing raw attribute
// strings.
var AttributeValidators = map[string]AttributeValidator{
	"alt":        validateString,
	"align":      validateString,
	"anonymous":  ValidateYesOrNo,
	"auto":       validateString,
	"backrefs":   ValidateIdentifierList,
	"bullet":     validateString,
	"classes":    ValidateIdentifierList,
	"char":       validateString,
	"charoff":    ValidateNMTOKEN,
	"colname":    ValidateNMTOKEN,
	"colnum":     validateInt,
	"cols":       validateInt,
	"colsep":     ValidateYesOrNo,
	"colwidth":   validateInt,
	"content":    validateString,
	"delimiter":  validateString,
	"dir":        ValidateEnumeratedType("ltr", "rtl", "auto"),
	"dupnames":   ValidateRefnameList,
	"enumtype": ValidateEnumeratedType("arabic", "loweralpha", "lowerroman",
		"upperalpha", "upperroman"),
	"format": validateString,
	"frame": ValidateEnumeratedType("top", "bottom", "topbot", "all",
		"sides", "none"),
	"height":     ValidateMeasure,
	"http-equiv": validateString,
	"ids":        ValidateIdentifierList,
	"lang":       validateString,
	"level":      validateInt,
	"line":       validateInt,
	"ltrim":      ValidateYesOrNo,
	"loading":    ValidateEnumeratedType("embed", "link", "lazy"),
	"media":      validateString,
	"morecols":   validateInt,
	"morerows":   validateInt,
	"name":       validateNameAttr,
	"names":      ValidateRefnameList,
	"namest":     ValidateNMTOKEN,
	"nameend":    ValidateNMTOKEN,
	"pgwide":     ValidateYesOrNo,
	"prefix":     validateString,
	"refid":      ValidateIdentifier,
	"refname":    validateNameAttr,
	"refuri":     validateString,
	"rowsep":     ValidateYesOrNo,
	"rtrim":      ValidateYesOrNo,
	"scale":      validateInt,
	"scheme":     validateString,
	"source":     validateString,
	"start":      validateInt,
	"stub":       ValidateYesOrNo,
	"suffix":     validateString,
	"title":      validateString,
	"type":       ValidateNMTOKEN,
	"uri":        validateString,
	"valign":     ValidateEnumeratedType("top", "middle", "bottom"),
	"width":      ValidateMeasure,
	"xml:space":  ValidateEnumeratedType("default", "preserve"),
}

func validateString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func validateInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to integer", value)
	}
}

func validateNameAttr(value any) (any, error) {
	s, err := asString(value)
	if err != nil {
		return nil, err
	}
	return WhitespaceNormalizeName(s), nil
}

func asString(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string, got %T", value)
}

func asStringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case string:
		return strings.Fields(v), true
	default:
		return nil, false
	}
}

// ValidateIdentifier checks an id or class name: the value must survive
// MakeID unchanged.
func ValidateIdentifier(value any) (any, error) {
	s, err := asString(value)
	if err != nil {
		return nil, err
	}
	if s != MakeID(s) {
		return nil, fmt.Errorf("%q is no valid id or class name", s)
	}
	return s, nil
}

// ValidateIdentifierList accepts a []string or a space-separated string
// of ids or class names.
func ValidateIdentifierList(value any) (any, error) {
	list, ok := asStringList(value)
	if !ok {
		return nil, fmt.Errorf("expected string or string list, got %T", value)
	}
	for _, token := range list {
		if _, err := ValidateIdentifier(token); err != nil {
			return nil, err
		}
	}
	return list, nil
}

var measureRe = regexp.MustCompile(`^[-0-9.]+ *(em|ex|px|in|cm|mm|pt|pc|%)?$`)

// ValidateMeasure checks a length measure (number plus recognized
// unit) and strips internal whitespace.
func ValidateMeasure(value any) (any, error) {
	s, err := asString(value)
	if err != nil {
		return nil, err
	}
	if !measureRe.MatchString(s) {
		return nil, fmt.Errorf("%q is no valid measure; valid units: em ex px in cm mm pt pc %%", s)
	}
	return strings.ReplaceAll(s, " ", ""), nil
}

var nmtokenRe = regexp.MustCompile(`^[-._A-Za-z0-9]+$`)

// ValidateNMTOKEN checks a name token: letters, digits, and [-._].
func ValidateNMTOKEN(value any) (any, error) {
	s, err := asString(value)
	if err != nil {
		return nil, err
	}
	if !nmtokenRe.MatchString(s) {
		return nil, fmt.Errorf("%q is no NMTOKEN", s)
	}
	return s, nil
}

// ValidateNMTOKENS checks a list of name tokens.
func ValidateNMTOKENS(value any) (any, error) {
	list, ok := asStringList(value)
	if !ok {
		return nil, fmt.Errorf("expected string or string list, got %T", value)
	}
	for _, token := range list {
		if _, err := ValidateNMTOKEN(token); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ValidateRefnameList normalizes a list of reference names. String
// input is split at non-escaped whitespace (cf. SerialEscape).
func ValidateRefnameList(value any) (any, error) {
	var list []string
	switch v := value.(type) {
	case []string:
		list = v
	case string:
		list = SplitNameList(v)
	default:
		return nil, fmt.Errorf("expected string or string list, got %T", value)
	}
	normalized := make([]string, len(list))
	for i, name := range list {
		normalized[i] = WhitespaceNormalizeName(name)
	}
	return normalized, nil
}

// ValidateYesOrNo converts CALS-style boolean attributes: "0" and the
// empty string mean false, everything else true.
func ValidateYesOrNo(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case string:
		return v != "" && v != "0", nil
	default:
		return nil, fmt.Errorf("cannot convert %T to boolean", value)
	}
}

// ValidateEnumeratedType returns a validator accepting only the given
// keywords.
func ValidateEnumeratedType(keywords ...string) AttributeValidator {
	return func(value any) (any, error) {
		s, err := asString(value)
		if err != nil {
			return nil, err
		}
		for _, kw := range keywords {
			if s == kw {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %q", s, keywords)
	}
}
