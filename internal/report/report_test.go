package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:       "Customers",
		GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Columns:     []string{"name", "email"},
		Rows: [][]string{
			{"Ana Souza", "ana@example.com"},
			{"Oficina <Bento>", "bento@example.com"},
		},
	}
}

func TestLookup(t *testing.T) {
	f, err := Lookup("EXCEL")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", f.Extension)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", f.MIME)

	_, err = Lookup("docx")
	assert.Error(t, err)
}

func TestFormats_AllDeclared(t *testing.T) {
	var names []string
	for _, f := range Formats() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"csv", "excel", "html", "json", "pdf", "xml"}, names)
}

func TestLoadFormats_Incomplete(t *testing.T) {
	_, err := loadFormats([]byte("formats:\n  - name: txt\n"))
	assert.Error(t, err)
}

func TestRender_CSV(t *testing.T) {
	body, f, err := Render("csv", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "csv", f.Name)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"name", "email"}, records[0])
	assert.Equal(t, "Oficina <Bento>", records[2][0])
}

func TestRender_JSON(t *testing.T) {
	body, _, err := Render("json", sampleTable())
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ana@example.com", got[0]["email"])
}

func TestRender_XML(t *testing.T) {
	body, _, err := Render("xml", sampleTable())
	require.NoError(t, err)
	s := string(body)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `<report title="Customers"`)
	assert.Contains(t, s, `<field name="name">Oficina &lt;Bento&gt;</field>`)
}

func TestRender_HTMLEscapes(t *testing.T) {
	body, _, err := Render("html", sampleTable())
	require.NoError(t, err)
	s := string(body)
	assert.Contains(t, s, "<th>email</th>")
	assert.Contains(t, s, "Oficina &lt;Bento&gt;")
	assert.NotContains(t, s, "<Bento>")
}

func TestRender_Excel(t *testing.T) {
	body, _, err := Render("excel", sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "name", v)
	v, err = f.GetCellValue(sheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "bento@example.com", v)
}

func TestRender_PDF(t *testing.T) {
	body, f, err := Render("pdf", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.MIME)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestRender_Unknown(t *testing.T) {
	_, _, err := Render("docx", sampleTable())
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	f, _ := Lookup("pdf")
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "reports/t1/invoices/20260301T093000Z.pdf", ObjectKey("t1", "invoices", f, at))
}

func TestNewS3Storage_NoBucket(t *testing.T) {
	assert.Nil(t, NewS3Storage(S3Config{}))
}

func TestS3Storage_PresignGet(t *testing.T) {
	s := NewS3Storage(S3Config{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		Bucket:    "reports",
		AccessKey: "access",
		SecretKey: "secret",
	})
	require.NotNil(t, s)

	url, err := s.PresignGet(context.Background(), "reports/t1/customers/x.csv", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/reports/reports/t1/customers/x.csv?"))
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=900")
}
