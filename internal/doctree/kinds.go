package doctree

import (
	"slices"
	"strings"
)

// Element kinds. One constant per concrete element type.
const (
	KindDocument Kind = "document"

	// Title elements
	KindTitle    Kind = "title"
	KindSubtitle Kind = "subtitle"
	KindRubric   Kind = "rubric"

	// Meta-data and decorations
	KindMeta       Kind = "meta"
	KindDocinfo    Kind = "docinfo"
	KindDecoration Kind = "decoration"
	KindHeader     Kind = "header"
	KindFooter     Kind = "footer"

	// Bibliographic elements
	KindAuthor       Kind = "author"
	KindAuthors      Kind = "authors"
	KindOrganization Kind = "organization"
	KindAddress      Kind = "address"
	KindContact      Kind = "contact"
	KindVersion      Kind = "version"
	KindRevision     Kind = "revision"
	KindStatus       Kind = "status"
	KindDate         Kind = "date"
	KindCopyright    Kind = "copyright"

	// Structural elements
	KindSection    Kind = "section"
	KindTopic      Kind = "topic"
	KindSidebar    Kind = "sidebar"
	KindTransition Kind = "transition"

	// Body elements
	KindParagraph          Kind = "paragraph"
	KindCompound           Kind = "compound"
	KindContainer          Kind = "container"
	KindBulletList         Kind = "bullet_list"
	KindEnumeratedList     Kind = "enumerated_list"
	KindListItem           Kind = "list_item"
	KindDefinitionList     Kind = "definition_list"
	KindDefinitionListItem Kind = "definition_list_item"
	KindTerm               Kind = "term"
	KindClassifier         Kind = "classifier"
	KindDefinition         Kind = "definition"
	KindFieldList          Kind = "field_list"
	KindField              Kind = "field"
	KindFieldName          Kind = "field_name"
	KindFieldBody          Kind = "field_body"
	KindOptionList         Kind = "option_list"
	KindOptionListItem     Kind = "option_list_item"
	KindOptionGroup        Kind = "option_group"
	KindOption             Kind = "option"
	KindOptionString       Kind = "option_string"
	KindOptionArgument     Kind = "option_argument"
	KindDescription        Kind = "description"
	KindLiteralBlock       Kind = "literal_block"
	KindDoctestBlock       Kind = "doctest_block"
	KindMathBlock          Kind = "math_block"
	KindLineBlock          Kind = "line_block"
	KindLine               Kind = "line"
	KindBlockQuote         Kind = "block_quote"
	KindAttribution        Kind = "attribution"

	// Admonitions
	KindAttention  Kind = "attention"
	KindCaution    Kind = "caution"
	KindDanger     Kind = "danger"
	KindError      Kind = "error"
	KindImportant  Kind = "important"
	KindNote       Kind = "note"
	KindTip        Kind = "tip"
	KindHint       Kind = "hint"
	KindWarning    Kind = "warning"
	KindAdmonition Kind = "admonition"

	// Footnotes and citations
	KindFootnote Kind = "footnote"
	KindCitation Kind = "citation"
	KindLabel    Kind = "label"

	// Graphical elements
	KindImage   Kind = "image"
	KindCaption Kind = "caption"
	KindLegend  Kind = "legend"
	KindFigure  Kind = "figure"

	// Tables
	KindTable   Kind = "table"
	KindTgroup  Kind = "tgroup"
	KindColspec Kind = "colspec"
	KindThead   Kind = "thead"
	KindTbody   Kind = "tbody"
	KindRow     Kind = "row"
	KindEntry   Kind = "entry"

	// Special purpose elements
	KindComment                Kind = "comment"
	KindSubstitutionDefinition Kind = "substitution_definition"
	KindTarget                 Kind = "target"
	KindSystemMessage          Kind = "system_message"
	KindPending                Kind = "pending"
	KindRaw                    Kind = "raw"

	// Inline elements
	KindAbbreviation          Kind = "abbreviation"
	KindAcronym               Kind = "acronym"
	KindEmphasis              Kind = "emphasis"
	KindGenerated             Kind = "generated"
	KindInline                Kind = "inline"
	KindLiteral               Kind = "literal"
	KindStrong                Kind = "strong"
	KindSubscript             Kind = "subscript"
	KindSuperscript           Kind = "superscript"
	KindTitleReference        Kind = "title_reference"
	KindReference             Kind = "reference"
	KindFootnoteReference     Kind = "footnote_reference"
	KindCitationReference     Kind = "citation_reference"
	KindSubstitutionReference Kind = "substitution_reference"
	KindMath                  Kind = "math"
	KindProblematic           Kind = "problematic"
)

// Category is a capability-tag bitmask. Each element kind carries a set
// of categories; content models and traversal predicates match nodes by
// category membership.
type Category uint32

const (
	Root Category = 1 << iota
	Structural
	SubStructural
	Bibliographic
	Decorative
	Body
	Admonition
	Sequential
	General
	Special
	Part
	Inline
	Titular
	PreBibliographic
	Invisible
	Labeled
	Resolvable
	BackLinkable
	Referential
	Targetable
	TextContainer // elements that may contain text and inline elements
	FixedText     // text containers with significant whitespace
	PureText      // text containers that only hold text (no child elements)
)

var categoryNames = []struct {
	cat  Category
	name string
}{
	{Root, "Root"},
	{Structural, "Structural"},
	{SubStructural, "SubStructural"},
	{Bibliographic, "Bibliographic"},
	{Decorative, "Decorative"},
	{Body, "Body"},
	{Admonition, "Admonition"},
	{Sequential, "Sequential"},
	{General, "General"},
	{Special, "Special"},
	{Part, "Part"},
	{Inline, "Inline"},
	{Titular, "Titular"},
	{PreBibliographic, "PreBibliographic"},
	{Invisible, "Invisible"},
	{Labeled, "Labeled"},
	{Resolvable, "Resolvable"},
	{BackLinkable, "BackLinkable"},
	{Referential, "Referential"},
	{Targetable, "Targetable"},
	{TextContainer, "TextContainer"},
	{FixedText, "FixedText"},
	{PureText, "PureText"},
}

func (c Category) String() string {
	var names []string
	for _, cn := range categoryNames {
		if c&cn.cat != 0 {
			names = append(names, cn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Derived masks used when tagging kinds. Sub-categories imply their
// parent category (a Sequential element is a Body element, Invisible
// elements are Special and PreBibliographic, and so on).
const (
	bodyAdmonition = Admonition | Body
	bodySequential = Sequential | Body
	bodyGeneral    = General | Body
	bodySpecial    = Special | Body
	invisible      = Invisible | Special | PreBibliographic | Body
	referential    = Referential | Resolvable
	targetable     = Targetable | Resolvable
	textElem       = TextContainer
	fixedTextElem  = TextContainer | FixedText
	pureTextElem   = TextContainer | PureText
)

// KindSpec is the per-kind entry of the element registry.
type KindSpec struct {
	Categories Category
	// Attributes valid for this kind, including the common attributes.
	Attributes []string
	// Model is the declarative content model, matched left to right.
	Model ContentModel
	// ChildSep joins child text in AsText. Registered kinds always have
	// an explicit value.
	ChildSep string
}

// commonAttributes are valid for every element. The four list
// attributes are initialized to empty lists on construction.
var commonAttributes = []string{"ids", "classes", "names", "dupnames", "source"}

var baseListAttributes = []string{"ids", "classes", "names", "dupnames"}

func attrs(extra ...string) []string {
	return append(slices.Clone(commonAttributes), extra...)
}

const (
	blockSep  = "\n\n"
	inlineSep = ""
)

// one/opt/plus/star build content model parts.
func one(c Class) ModelPart  { return ModelPart{Class: c, Q: One} }
func opt(c Class) ModelPart  { return ModelPart{Class: c, Q: Optional} }
func plus(c Class) ModelPart { return ModelPart{Class: c, Q: OneOrMore} }
func star(c Class) ModelPart { return ModelPart{Class: c, Q: ZeroOrMore} }

func kinds(ks ...Kind) Class { return Class{Kinds: ks} }
func cats(c Category) Class  { return Class{Categories: c} }

// textModel is the content model of ordinary text containers:
// (#PCDATA | inline elements)*.
var textModel = ContentModel{star(Class{Categories: Inline, Text: true})}

// pureTextModel allows a single text leaf: (#PCDATA).
var pureTextModel = ContentModel{opt(Class{Text: true})}

// bodyPlus is the ubiquitous (body elements)+ model.
var bodyPlus = ContentModel{plus(cats(Body))}

// structureModel is the trailing part of section-like content models.
var structureModel = ContentModel{
	star(Class{Categories: Body, Kinds: []Kind{KindTopic, KindSidebar, KindTransition}}),
	star(kinds(KindSection, KindTransition)),
}

func withStructure(parts ...ModelPart) ContentModel {
	return append(ContentModel(parts), structureModel...)
}

var kindSpecs = map[Kind]KindSpec{
	KindDocument: {
		Categories: Root,
		Attributes: attrs("title"),
		Model: withStructure(
			opt(kinds(KindTitle)),
			opt(kinds(KindSubtitle)),
			star(kinds(KindMeta)),
			opt(kinds(KindDecoration)),
			opt(kinds(KindDocinfo)),
			opt(kinds(KindTransition)),
		),
		ChildSep: blockSep,
	},

	KindTitle: {
		Categories: Titular | PreBibliographic | SubStructural | textElem,
		Attributes: attrs("auto", "refid"),
		Model:      textModel,
		ChildSep:   inlineSep,
	},
	KindSubtitle: {
		Categories: Titular | PreBibliographic | SubStructural | textElem,
		Attributes: attrs(),
		Model:      textModel,
		ChildSep:   inlineSep,
	},
	KindRubric: {
		Categories: Titular | bodyGeneral | textElem,
		Attributes: attrs(),
		Model:      textModel,
		ChildSep:   inlineSep,
	},

	KindMeta: {
		Categories: PreBibliographic | SubStructural,
		Attributes: attrs("content", "dir", "http-equiv", "lang", "media", "name", "scheme"),
		ChildSep:   blockSep,
	},
	KindDocinfo: {
		Categories: SubStructural,
		Attributes: attrs(),
		Model:      ContentModel{plus(cats(Bibliographic))},
		ChildSep:   blockSep,
	},
	KindDecoration: {
		Categories: PreBibliographic | SubStructural,
		Attributes: attrs(),
		Model: ContentModel{
			opt(kinds(KindHeader)),
			opt(kinds(KindFooter)),
		},
		ChildSep: blockSep,
	},
	KindHeader: {
		Categories: Decorative,
		Attributes: attrs(),
		Model:      bodyPlus,
		ChildSep:   blockSep,
	},
	KindFooter: {
		Categories: Decorative,
		Attributes: attrs(),
		Model:      bodyPlus,
		ChildSep:   blockSep,
	},

	KindAuthor:       {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindOrganization: {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindAddress:      {Categories: Bibliographic | fixedTextElem, Attributes: attrs("xml:space"), Model: textModel, ChildSep: inlineSep},
	KindContact:      {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindVersion:      {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindRevision:     {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindStatus:       {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindDate:         {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindCopyright:    {Categories: Bibliographic | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindAuthors: {
		Categories: Bibliographic,
		Attributes: attrs(),
		// Matched repeatedly: (author, organization?, address?, contact?)+
		Model: ContentModel{
			plus(kinds(KindAuthor)),
			opt(kinds(KindOrganization)),
			opt(kinds(KindAddress)),
			opt(kinds(KindContact)),
		},
		ChildSep: blockSep,
	},

	KindSection: {
		Categories: Structural,
		Attributes: attrs(),
		Model: withStructure(
			one(kinds(KindTitle)),
			opt(kinds(KindSubtitle)),
		),
		ChildSep: blockSep,
	},
	KindTopic: {
		Categories: Structural,
		Attributes: attrs(),
		Model: ContentModel{
			opt(kinds(KindTitle)),
			plus(cats(Body)),
		},
		ChildSep: blockSep,
	},
	KindSidebar: {
		Categories: Structural,
		Attributes: attrs(),
		Model: ContentModel{
			opt(kinds(KindTitle)),
			opt(kinds(KindSubtitle)),
			plus(Class{Categories: Body, Kinds: []Kind{KindTopic}}),
		},
		ChildSep: blockSep,
	},
	KindTransition: {
		Categories: SubStructural,
		Attributes: attrs(),
		ChildSep:   blockSep,
	},

	KindParagraph: {Categories: bodyGeneral | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindCompound:  {Categories: bodyGeneral, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindContainer: {Categories: bodyGeneral, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},

	KindBulletList: {
		Categories: bodySequential,
		Attributes: attrs("bullet"),
		Model:      ContentModel{plus(kinds(KindListItem))},
		ChildSep:   blockSep,
	},
	KindEnumeratedList: {
		Categories: bodySequential,
		Attributes: attrs("enumtype", "prefix", "suffix", "start"),
		Model:      ContentModel{plus(kinds(KindListItem))},
		ChildSep:   blockSep,
	},
	KindListItem: {
		Categories: Part,
		Attributes: attrs(),
		Model:      ContentModel{star(cats(Body))},
		ChildSep:   blockSep,
	},
	KindDefinitionList: {
		Categories: bodySequential,
		Attributes: attrs(),
		Model:      ContentModel{plus(kinds(KindDefinitionListItem))},
		ChildSep:   blockSep,
	},
	KindDefinitionListItem: {
		Categories: Part,
		Attributes: attrs(),
		Model: ContentModel{
			one(kinds(KindTerm)),
			star(kinds(KindClassifier)),
			one(kinds(KindDefinition)),
		},
		ChildSep: blockSep,
	},
	KindTerm:       {Categories: Part | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindClassifier: {Categories: Part | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindDefinition: {Categories: Part, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},

	KindFieldList: {
		Categories: bodySequential,
		Attributes: attrs(),
		Model:      ContentModel{plus(kinds(KindField))},
		ChildSep:   blockSep,
	},
	KindField: {
		Categories: Part | Bibliographic,
		Attributes: attrs(),
		Model: ContentModel{
			one(kinds(KindFieldName)),
			one(kinds(KindFieldBody)),
		},
		ChildSep: blockSep,
	},
	KindFieldName: {Categories: Part | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindFieldBody: {Categories: Part, Attributes: attrs(), Model: ContentModel{star(cats(Body))}, ChildSep: blockSep},

	KindOptionList: {
		Categories: bodySequential,
		Attributes: attrs(),
		Model:      ContentModel{plus(kinds(KindOptionListItem))},
		ChildSep:   blockSep,
	},
	KindOptionListItem: {
		Categories: Part,
		Attributes: attrs(),
		Model: ContentModel{
			one(kinds(KindOptionGroup)),
			one(kinds(KindDescription)),
		},
		ChildSep: "  ",
	},
	KindOptionGroup: {
		Categories: Part,
		Attributes: attrs(),
		Model:      ContentModel{plus(kinds(KindOption))},
		ChildSep:   ", ",
	},
	KindOption: {
		Categories: Part,
		Attributes: attrs(),
		Model: ContentModel{
			one(kinds(KindOptionString)),
			star(kinds(KindOptionArgument)),
		},
		ChildSep: "",
	},
	KindOptionString: {Categories: Part | pureTextElem, Attributes: attrs(), Model: pureTextModel, ChildSep: inlineSep},
	KindOptionArgument: {
		Categories: Part | pureTextElem,
		Attributes: attrs("delimiter"),
		Model:      pureTextModel,
		ChildSep:   inlineSep,
	},
	KindDescription: {Categories: Part, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},

	KindLiteralBlock: {Categories: bodyGeneral | fixedTextElem, Attributes: attrs("xml:space"), Model: textModel, ChildSep: inlineSep},
	KindDoctestBlock: {Categories: bodyGeneral | fixedTextElem, Attributes: attrs("xml:space"), Model: textModel, ChildSep: inlineSep},
	KindMathBlock:    {Categories: bodyGeneral | fixedTextElem | PureText, Attributes: attrs("xml:space"), Model: pureTextModel, ChildSep: inlineSep},
	KindLine:         {Categories: Part | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindLineBlock: {
		Categories: bodyGeneral,
		Attributes: attrs(),
		Model:      ContentModel{plus(kinds(KindLine, KindLineBlock))},
		ChildSep:   blockSep,
	},
	KindBlockQuote: {
		Categories: bodyGeneral,
		Attributes: attrs(),
		Model: ContentModel{
			plus(cats(Body)),
			opt(kinds(KindAttribution)),
		},
		ChildSep: blockSep,
	},
	KindAttribution: {Categories: Part | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},

	KindAttention: {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindCaution:   {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindDanger:    {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindError:     {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindImportant: {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindNote:      {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindTip:       {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindHint:      {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindWarning:   {Categories: bodyAdmonition, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindAdmonition: {
		Categories: bodyAdmonition,
		Attributes: attrs(),
		Model: ContentModel{
			one(kinds(KindTitle)),
			plus(cats(Body)),
		},
		ChildSep: blockSep,
	},

	KindLabel: {Categories: Part | pureTextElem, Attributes: attrs(), Model: pureTextModel, ChildSep: inlineSep},
	KindFootnote: {
		Categories: bodyGeneral | BackLinkable | Labeled | targetable,
		Attributes: attrs("auto", "backrefs"),
		Model: ContentModel{
			opt(kinds(KindLabel)),
			plus(cats(Body)),
		},
		ChildSep: blockSep,
	},
	KindCitation: {
		Categories: bodyGeneral | BackLinkable | Labeled | targetable,
		Attributes: attrs("backrefs"),
		Model: ContentModel{
			one(kinds(KindLabel)),
			plus(cats(Body)),
		},
		ChildSep: blockSep,
	},

	KindImage: {
		Categories: bodyGeneral | Inline,
		Attributes: attrs("uri", "alt", "align", "height", "width", "scale", "loading"),
		ChildSep:   blockSep,
	},
	KindCaption: {Categories: Part | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindLegend:  {Categories: Part, Attributes: attrs(), Model: bodyPlus, ChildSep: blockSep},
	KindFigure: {
		Categories: bodyGeneral,
		Attributes: attrs("align", "width"),
		Model: ContentModel{
			one(kinds(KindImage)),
			opt(kinds(KindCaption)),
			opt(kinds(KindLegend)),
		},
		ChildSep: blockSep,
	},

	KindTable: {
		Categories: bodyGeneral,
		Attributes: attrs("align", "colsep", "frame", "pgwide", "rowsep", "width"),
		Model: ContentModel{
			opt(kinds(KindTitle)),
			plus(kinds(KindTgroup)),
		},
		ChildSep: blockSep,
	},
	KindTgroup: {
		Categories: Part,
		Attributes: attrs("align", "cols", "colsep", "rowsep"),
		Model: ContentModel{
			star(kinds(KindColspec)),
			opt(kinds(KindThead)),
			one(kinds(KindTbody)),
		},
		ChildSep: blockSep,
	},
	KindColspec: {
		Categories: Part,
		Attributes: attrs("align", "char", "charoff", "colname", "colnum",
			"colsep", "colwidth", "rowsep", "stub"),
		ChildSep: blockSep,
	},
	KindThead: {
		Categories: Part,
		Attributes: attrs("valign"),
		Model:      ContentModel{plus(kinds(KindRow))},
		ChildSep:   blockSep,
	},
	KindTbody: {
		Categories: Part,
		Attributes: attrs("valign"),
		Model:      ContentModel{plus(kinds(KindRow))},
		ChildSep:   blockSep,
	},
	KindRow: {
		Categories: Part,
		Attributes: attrs("rowsep", "valign"),
		Model:      ContentModel{plus(kinds(KindEntry))},
		ChildSep:   blockSep,
	},
	KindEntry: {
		Categories: Part,
		Attributes: attrs("align", "char", "charoff", "colname", "colsep",
			"morecols", "morerows", "namest", "nameend", "rowsep", "valign"),
		Model:    ContentModel{star(cats(Body))},
		ChildSep: blockSep,
	},

	KindComment: {Categories: invisible | fixedTextElem | PureText, Attributes: attrs("xml:space"), Model: pureTextModel, ChildSep: inlineSep},
	KindSubstitutionDefinition: {
		Categories: invisible | textElem,
		Attributes: attrs("ltrim", "rtrim"),
		Model:      textModel,
		ChildSep:   inlineSep,
	},
	KindTarget: {
		Categories: invisible | Inline | textElem | targetable,
		Attributes: attrs("anonymous", "refid", "refname", "refuri"),
		Model:      textModel,
		ChildSep:   inlineSep,
	},
	KindSystemMessage: {
		Categories: bodySpecial | BackLinkable | PreBibliographic,
		Attributes: attrs("backrefs", "level", "line", "type"),
		Model:      bodyPlus,
		ChildSep:   blockSep,
	},
	KindPending: {
		Categories: invisible,
		Attributes: attrs(),
		ChildSep:   blockSep,
	},
	KindRaw: {
		Categories: bodySpecial | Inline | PreBibliographic | fixedTextElem | PureText,
		Attributes: attrs("format", "xml:space"),
		Model:      pureTextModel,
		ChildSep:   inlineSep,
	},

	KindAbbreviation:   {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindAcronym:        {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindEmphasis:       {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindGenerated:      {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindInline:         {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindLiteral:        {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindStrong:         {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindSubscript:      {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindSuperscript:    {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindTitleReference: {Categories: Inline | textElem, Attributes: attrs(), Model: textModel, ChildSep: inlineSep},
	KindReference: {
		Categories: bodyGeneral | Inline | referential | textElem,
		Attributes: attrs("anonymous", "name", "refid", "refname", "refuri"),
		Model:      textModel,
		ChildSep:   inlineSep,
	},
	KindFootnoteReference: {
		Categories: Inline | referential | pureTextElem,
		Attributes: attrs("auto", "refid", "refname"),
		Model:      pureTextModel,
		ChildSep:   inlineSep,
	},
	KindCitationReference: {
		Categories: Inline | referential | pureTextElem,
		Attributes: attrs("refid", "refname"),
		Model:      pureTextModel,
		ChildSep:   inlineSep,
	},
	KindSubstitutionReference: {
		Categories: Inline | textElem,
		Attributes: attrs("refname"),
		Model:      textModel,
		ChildSep:   inlineSep,
	},
	KindMath:        {Categories: Inline | pureTextElem, Attributes: attrs(), Model: pureTextModel, ChildSep: inlineSep},
	KindProblematic: {Categories: Inline | textElem, Attributes: attrs("refid", "refname", "refuri"), Model: textModel, ChildSep: inlineSep},
}

// unknownSpec is used for element kinds not present in the registry,
// such as foreign elements produced by ingest bridges. Unknown elements
// accept any content.
var unknownSpec = KindSpec{
	Categories: Special | Inline,
	Attributes: commonAttributes,
	Model:      ContentModel{star(Class{Any: true})},
	ChildSep:   blockSep,
}

// Spec returns the registry entry for a kind. Unregistered kinds get
// the permissive unknown-element spec.
func Spec(k Kind) KindSpec {
	if s, ok := kindSpecs[k]; ok {
		return s
	}
	return unknownSpec
}

// KnownKind reports whether k is a registered element kind.
func KnownKind(k Kind) bool {
	_, ok := kindSpecs[k]
	return ok
}

// CategoriesOf returns the category set of a kind (0 for unknown kinds
// beyond the unknown-element defaults).
func CategoriesOf(k Kind) Category { return Spec(k).Categories }

// HasCategory reports whether the node's kind carries the category.
func HasCategory(n Node, c Category) bool {
	if AsElement(n) == nil {
		return false
	}
	return CategoriesOf(n.Kind())&c != 0
}

func listAttributesFor(k Kind) []string {
	if Spec(k).Categories&BackLinkable != 0 {
		return append(slices.Clone(baseListAttributes), "backrefs")
	}
	return baseListAttributes
}
