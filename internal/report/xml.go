// =============================================================================
// Seller Performance Report - XML Writer
// =============================================================================
//
// XML STRUCTURE:
//
//   <sellers_report>
//     <seller n="1">                   <!-- n is the 1-based rank -->
//       <seller_id>seller_1</seller_id>
//       <name>Alexey Petrov</name>
//       <revenue>40.00</revenue>
//       <profit>20.00</profit>
//       <sales_count>1</sales_count>
//       <top_products>
//         <product sku="P1" quantity="2"/>
//       </top_products>
//       <bonus>3.00</bonus>
//     </seller>
//   </sellers_report>
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// XMLOptions contains options for XML generation.
type XMLOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement names the document element.
	// Default: "sellers_report"
	RootElement string

	// RowElement names the per-seller element.
	// Default: "seller"
	RowElement string

	// RankAttribute is the attribute carrying the 1-based rank.
	// Default: "n"
	RankAttribute string
}

// DefaultXMLOptions returns the default XML options.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "sellers_report",
		RowElement:            "seller",
		RankAttribute:         "n",
	}
}

// element is a generic XML element.
type element struct {
	name     string
	attrs    [][2]string
	value    string
	children []element
}

// RenderXML renders rows as an XML document.
func RenderXML(rows []types.ReportRow, options XMLOptions) ([]byte, error) {
	if options.RootElement == "" || options.RowElement == "" {
		return nil, fmt.Errorf("XML root and row element names are required")
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}

	root := element{name: options.RootElement}
	for i, row := range rows {
		root.children = append(root.children, buildRowElement(row, i+1, options))
	}

	writeElement(&buffer, root, options.Indent, 0)

	return buffer.Bytes(), nil
}

// buildRowElement constructs the element for one seller.
func buildRowElement(row types.ReportRow, rank int, options XMLOptions) element {
	el := element{name: options.RowElement}
	if options.RankAttribute != "" {
		el.attrs = append(el.attrs, [2]string{options.RankAttribute, strconv.Itoa(rank)})
	}

	top := element{name: "top_products"}
	for _, p := range row.TopProducts {
		top.children = append(top.children, element{
			name:  "product",
			attrs: [][2]string{{"sku", p.SKU}, {"quantity", strconv.Itoa(p.Quantity)}},
		})
	}

	el.children = []element{
		simpleElement("seller_id", row.SellerID),
		simpleElement("name", row.Name),
		simpleElement("revenue", row.Revenue.StringFixed(2)),
		simpleElement("profit", row.Profit.StringFixed(2)),
		simpleElement("sales_count", strconv.Itoa(row.SalesCount)),
		top,
		simpleElement("bonus", row.Bonus.StringFixed(2)),
	}
	return el
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func simpleElement(name, value string) element {
	return element{name: name, value: value}
}

// writeElement writes an element and its children to the buffer with
// indentation. Elements without value or children are self-closing.
func writeElement(buffer *bytes.Buffer, el element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(el.name)

	for _, attr := range el.attrs {
		fmt.Fprintf(buffer, " %s=\"%s\"", attr[0], escapeXML(attr[1]))
	}

	if len(el.children) == 0 && el.value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(el.children) == 0 {
		buffer.WriteString(escapeXML(el.value))
	} else {
		buffer.WriteString("\n")

		for _, child := range el.children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(el.name)
	buffer.WriteString(">\n")
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
