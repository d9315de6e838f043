package specdoc

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Project: Aura Wellness</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Stage 1: </w:t></w:r><w:r><w:t>Foundation</w:t></w:r></w:p>
    <w:p><w:r><w:t>Col A</w:t><w:tab/><w:t>Col B</w:t></w:r></w:p>
    <w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>
    <w:p/>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadDocument_Docx(t *testing.T) {
	path := writeDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		documentXMLPath:       sampleDocumentXML,
	})

	paras, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Project: Aura Wellness",
		"Stage 1: Foundation",
		"Col A\tCol B",
		"line one\nline two",
		"",
	}, paras)
}

func TestReadDocument_DocxWithoutBody(t *testing.T) {
	path := writeDocx(t, map[string]string{"[Content_Types].xml": `<Types/>`})
	_, err := ReadDocument(path)
	assert.ErrorIs(t, err, ErrNoDocumentBody)
}

func TestReadDocument_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.txt")
	require.NoError(t, os.WriteFile(path, []byte("Project: X\r\nStage 1: A\n- task\n"), 0o600))

	paras, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Project: X", "Stage 1: A", "- task"}, paras)
}

func TestReadDocument_Missing(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "nope.docx"))
	assert.Error(t, err)
	_, err = ReadDocument(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}

func TestParseDocumentXML_TextBoxAndTabStops(t *testing.T) {
	const doc = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
      <w:r><w:t xml:space="preserve">Stage 1: </w:t></w:r>
      <w:r><w:txbxContent><w:p><w:r><w:t>Sidebar note</w:t></w:r></w:p></w:txbxContent></w:r>
      <w:r><w:t>Foundation</w:t></w:r>
    </w:p>
    <w:p><w:r><a:p><a:t>shape text</a:t></a:p><w:t>Stage 2: API</w:t></w:r></w:p>
  </w:body>
</w:document>`

	paras, err := parseDocumentXML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sidebar note", "Stage 1: Foundation", "Stage 2: API"}, paras)
}
