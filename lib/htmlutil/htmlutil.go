package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// non-printable runes become spaces rather than disappearing: tabs and
// newlines between elements carry word boundaries the label regexes need.
func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		} else {
			newStr.WriteRune(' ')
		}
	}
	return newStr.String()
}

// CleanText replaces non-printable runes with spaces and collapses runs of
// whitespace, producing the "flattened text" the scorecard regexes run
// against.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// FlattenText renders a selection's text content in reading order with
// whitespace normalized. rendered cells are separated by single spaces.
func FlattenText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		parts = append(parts, GetText(n))
	}
	return CleanText(strings.Join(parts, " "))
}

// FindLabelRow locates a bold label (e.g. "Quality Certification:") and
// walks up to its containing table row. returns an empty selection when the
// label is absent.
func FindLabelRow(doc *goquery.Document, label string) *goquery.Selection {
	strong := doc.Find("strong").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	})
	return strong.First().ParentsFiltered("tr").First()
}
