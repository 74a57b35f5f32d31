package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRows() []types.ReportRow {
	return []types.ReportRow{
		{
			SellerID:    "seller_1",
			Name:        "Alexey Petrov",
			Revenue:     d("40"),
			Profit:      d("20.5"),
			SalesCount:  1,
			TopProducts: []types.TopProduct{{SKU: "P1", Quantity: 2}},
			Bonus:       d("3.08"),
		},
		{
			SellerID: "seller_2",
			Name:     "Tom & Jerry <Ltd>",
			Revenue:  d("0"),
			Profit:   d("-1.1"),
			Bonus:    d("0"),
		},
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := RenderJSON(sampleRows())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"seller_id": "seller_1"`)
	assert.Contains(t, s, `"revenue": 40.00`)
	assert.Contains(t, s, `"profit": 20.50`)
	assert.Contains(t, s, `"bonus": 3.08`)
	assert.Contains(t, s, `"profit": -1.10`)
	assert.Contains(t, s, `"top_products": []`)
	assert.Contains(t, s, `"name": "Tom & Jerry <Ltd>"`)
	assert.True(t, strings.HasSuffix(s, "]\n"))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(1), decoded[0]["sales_count"])
	top := decoded[0]["top_products"].([]interface{})
	assert.Equal(t, map[string]interface{}{"sku": "P1", "quantity": float64(2)}, top[0])
}

func TestRenderJSON_Empty(t *testing.T) {
	out, err := RenderJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestRenderJSON_KeyOrder(t *testing.T) {
	out, err := RenderJSON(sampleRows()[:1])
	require.NoError(t, err)

	s := string(out)
	keys := []string{"seller_id", "name", "revenue", "profit", "sales_count", "top_products", "bonus"}
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, `"`+k+`"`)
		require.Greater(t, idx, last, k)
		last = idx
	}
}

func TestRenderXML(t *testing.T) {
	out, err := RenderXML(sampleRows(), DefaultXMLOptions())
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, "<sellers_report>\n")
	assert.Contains(t, s, `  <seller n="1">`)
	assert.Contains(t, s, `  <seller n="2">`)
	assert.Contains(t, s, "    <revenue>40.00</revenue>\n")
	assert.Contains(t, s, `      <product sku="P1" quantity="2"/>`)
	assert.Contains(t, s, "    <top_products/>\n")
	assert.Contains(t, s, "<name>Tom &amp; Jerry &lt;Ltd&gt;</name>")
	assert.True(t, strings.HasSuffix(s, "</sellers_report>\n"))
}

func TestRenderXML_Options(t *testing.T) {
	opts := XMLOptions{Indent: "\t", RootElement: "ranking", RowElement: "row"}
	out, err := RenderXML(sampleRows()[:1], opts)
	require.NoError(t, err)

	s := string(out)
	assert.False(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<ranking>\n\t<row>\n")

	_, err = RenderXML(nil, XMLOptions{})
	assert.Error(t, err)
}

func TestRenderXML_Empty(t *testing.T) {
	out, err := RenderXML(nil, DefaultXMLOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "<sellers_report/>\n")
}

func TestRenderXLSX(t *testing.T) {
	out, err := RenderXLSX(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetReport, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"rank", "seller_id", "name", "revenue", "profit", "sales_count", "top_products", "bonus"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "seller_1", rows[1][1])
	assert.Equal(t, "20.5", rows[1][4])
	assert.Equal(t, "P1 x2", rows[1][6])
	assert.Equal(t, "-1.1", rows[2][4])
}

func TestRenderTable(t *testing.T) {
	out, err := RenderTable(sampleRows())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[0], "TOP PRODUCTS")
	assert.Contains(t, lines[1], "seller_1")
	assert.Contains(t, lines[1], "20.50")
	assert.Contains(t, lines[1], "P1 x2")
	assert.Contains(t, lines[2], "-1.10")

	// columns line up
	assert.Equal(t, strings.Index(lines[0], "SELLER"), strings.Index(lines[1], "seller_1"))
}

func TestRender_Dispatch(t *testing.T) {
	for _, format := range []string{"json", "xml", "xlsx", "table", "JSON"} {
		out, err := Render(sampleRows(), format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, out, format)
	}

	_, err := Render(sampleRows(), "pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRows(), "table"))
	assert.Contains(t, buf.String(), "seller_2")

	assert.Error(t, Write(&buf, sampleRows(), "csv"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".json", Extension("json"))
	assert.Equal(t, ".xml", Extension("XML"))
	assert.Equal(t, ".xlsx", Extension("xlsx"))
	assert.Equal(t, ".txt", Extension("table"))
}
