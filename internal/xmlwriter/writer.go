// =============================================================================
// Stock Movement Converter - XML Writer Module
// =============================================================================
//
// This module renders decoded records as an XML document for systems that
// ingest XML instead of ";"-delimited text.
//
// XML STRUCTURE:
//
//   <movements batch="0d5a...">                  <!-- Root element -->
//     <movement n="1" kind="written_off">        <!-- One per record -->
//       <Status>Списанный товар</Status>
//       <Date>01.01.2023</Date>
//       <Name>Товар A</Name>
//       <Quantity>10</Quantity>
//       <Reason>Причина</Reason>                 <!-- Cost for incoming -->
//       <ProductID>123</ProductID>
//     </movement>
//   </movements>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/stock-movements/internal/record"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement is the name of the root element.
	// Default: "movements"
	RootElement string

	// RecordElement is the name of the element wrapping each record.
	// Default: "movement"
	RecordElement string

	// RootAttributes are additional attributes for the root element.
	// Example: {"batch": "0d5a..."}
	RootAttributes map[string]string

	// IndexAttribute is the attribute holding the 1-based record number.
	// Default: "n"
	IndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "movements",
		RecordElement:         "movement",
		RootAttributes:        make(map[string]string),
		IndexAttribute:        "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from records using the default options.
func Generate(records []record.Record) ([]byte, error) {
	return GenerateWithOptions(records, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
//
// PARAMETERS:
//   - records: The records to render, in output order.
//   - options: The generation options.
//
// RETURNS:
//   - The XML document as UTF-8 bytes.
//   - An error if an element or attribute name is empty.
func GenerateWithOptions(records []record.Record, options GenerateOptions) ([]byte, error) {
	if options.RootElement == "" || options.RecordElement == "" {
		return nil, fmt.Errorf("root and record element names are required")
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}

	buffer.WriteString("<")
	buffer.WriteString(options.RootElement)
	writeAttributes(&buffer, sortedAttributes(options.RootAttributes))
	if len(records) == 0 {
		buffer.WriteString("/>\n")
		return buffer.Bytes(), nil
	}
	buffer.WriteString(">\n")

	for i, r := range records {
		attrs := [][2]string{{"kind", r.Kind().String()}}
		if options.IndexAttribute != "" {
			attrs = append([][2]string{{options.IndexAttribute, strconv.Itoa(i + 1)}}, attrs...)
		}

		writeIndent(&buffer, options.Indent, 1)
		buffer.WriteString("<")
		buffer.WriteString(options.RecordElement)
		writeAttributes(&buffer, attrs)
		buffer.WriteString(">\n")

		for _, field := range recordFields(r) {
			writeIndent(&buffer, options.Indent, 2)
			writeSimpleElement(&buffer, field[0], field[1])
		}

		writeIndent(&buffer, options.Indent, 1)
		buffer.WriteString("</")
		buffer.WriteString(options.RecordElement)
		buffer.WriteString(">\n")
	}

	buffer.WriteString("</")
	buffer.WriteString(options.RootElement)
	buffer.WriteString(">\n")

	return buffer.Bytes(), nil
}

// recordFields lists the child elements of a record in output order.
func recordFields(r record.Record) [][2]string {
	fields := [][2]string{
		{"Status", r.Label()},
		{"Date", r.Date()},
		{"Name", r.Name()},
		{"Quantity", strconv.FormatInt(r.Quantity(), 10)},
	}

	switch r.Kind() {
	case record.WrittenOff:
		fields = append(fields, [2]string{"Reason", r.Reason()})
	case record.Incoming:
		fields = append(fields, [2]string{"Cost", r.Extra()})
	}

	return append(fields, [2]string{"ProductID", strconv.FormatInt(r.ProductID(), 10)})
}

// sortedAttributes returns map attributes ordered by name so output is stable.
func sortedAttributes(attrs map[string]string) [][2]string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, attrs[k]})
	}
	return out
}

func writeAttributes(buffer *bytes.Buffer, attrs [][2]string) {
	for _, attr := range attrs {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr[0], escapeXML(attr[1])))
	}
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	buffer.WriteString(strings.Repeat(indent, level))
}

// writeSimpleElement writes <name>value</name>, or <name/> for empty values.
func writeSimpleElement(buffer *bytes.Buffer, name, value string) {
	if value == "" {
		buffer.WriteString("<" + name + "/>\n")
		return
	}
	buffer.WriteString("<" + name + ">")
	buffer.WriteString(escapeXML(value))
	buffer.WriteString("</" + name + ">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
