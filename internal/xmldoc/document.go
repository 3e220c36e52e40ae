// Package xmldoc loads AndroidManifest.xml files into a document tree and
// provides the tag and attribute lookups used by the extractors.
package xmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/ralt/apkstats/internal/models"
	"github.com/shogo82148/androidbinary"
	"github.com/spf13/afero"
	"golang.org/x/net/html/charset"
)

// Element is a node of a loaded document
type Element = etree.Element

var (
	// Binary AXML files start with RES_XML_TYPE (0x0003) and an 8 byte header size
	axmlMagic = []byte{0x03, 0x00, 0x08, 0x00}

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	errNoRoot = errors.New("document has no root element")
)

// Document is a parsed and normalized XML document
type Document struct {
	root *Element
}

// Load reads and parses the XML file at path
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &models.StatsError{
			Type: models.ErrResource,
			Err:  fmt.Errorf("failed to read %s: %w", path, err),
		}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &models.StatsError{
			Type: models.ErrParse,
			Err:  fmt.Errorf("failed to parse %s: %w", path, err),
		}
	}
	return doc, nil
}

// Parse builds a document from text XML or binary AXML data
func Parse(data []byte) (*Document, error) {
	if IsBinaryXML(data) {
		text, err := decodeBinary(data)
		if err != nil {
			return nil, err
		}
		data = text
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, err
	}

	root := tree.Root()
	if root == nil {
		return nil, errNoRoot
	}
	normalize(root)

	return &Document{root: root}, nil
}

// IsBinaryXML reports whether data looks like compiled Android XML
func IsBinaryXML(data []byte) bool {
	return bytes.HasPrefix(data, axmlMagic)
}

func decodeBinary(data []byte) ([]byte, error) {
	f, err := androidbinary.NewXMLFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode binary XML: %w", err)
	}
	return io.ReadAll(f.Reader())
}

// normalize drops whitespace-only text between elements
func normalize(el *Element) {
	for _, tok := range append([]etree.Token(nil), el.Child...) {
		if cd, ok := tok.(*etree.CharData); ok && cd.IsWhitespace() {
			el.RemoveChild(cd)
		}
	}
	for _, child := range el.ChildElements() {
		normalize(child)
	}
}

// Root returns the document element
func (d *Document) Root() *Element {
	return d.root
}

// elementsByTag returns every element with the qualified tag name, in
// document order
func (d *Document) elementsByTag(tag string) []*Element {
	var found []*Element
	walk(d.root, func(el *Element) bool {
		if el.FullTag() == tag {
			found = append(found, el)
		}
		return true
	})
	return found
}

// CountByTag returns the number of elements with the qualified tag name
func (d *Document) CountByTag(tag string) int {
	n := 0
	walk(d.root, func(el *Element) bool {
		if el.FullTag() == tag {
			n++
		}
		return true
	})
	return n
}

// SingleElementByTag returns the first element with the tag, or nil.
// Duplicates of tags the schema allows only once are not reported.
func (d *Document) SingleElementByTag(tag string) *Element {
	var found *Element
	walk(d.root, func(el *Element) bool {
		if el.FullTag() == tag {
			found = el
			return false
		}
		return true
	})
	return found
}

// AttributeValuesByTag collects the distinct non-empty values of attr over
// every element with the tag, in order of first appearance. The result is
// never nil.
func (d *Document) AttributeValuesByTag(tag, attr string) []string {
	values := []string{}
	seen := make(map[string]struct{})
	for _, el := range d.elementsByTag(tag) {
		v, ok := NonEmptyStringAttribute(el, attr)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// walk visits el and its descendants depth-first until visit returns false
func walk(el *Element, visit func(*Element) bool) bool {
	if !visit(el) {
		return false
	}
	for _, child := range el.ChildElements() {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}
