package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToolType(t *testing.T) {
	for _, valid := range []string{"merge", "split", "compress", "word", "excel"} {
		tool, err := ParseToolType(valid)
		assert.NoError(t, err)
		assert.Equal(t, ToolType(valid), tool)
	}

	for _, invalid := range []string{"", "rotate", "MERGE", "merge "} {
		_, err := ParseToolType(invalid)
		assert.ErrorIs(t, err, ErrValidation, "input %q", invalid)
	}
}

func TestInputBounds(t *testing.T) {
	min, max := ToolMerge.InputBounds()
	assert.Equal(t, 2, min)
	assert.Equal(t, 10, max)

	for _, tool := range []ToolType{ToolSplit, ToolCompress, ToolWord, ToolExcel} {
		min, max := tool.InputBounds()
		assert.Equal(t, 1, min)
		assert.Equal(t, 1, max)
	}
}

func TestOutputNames(t *testing.T) {
	assert.Equal(t, "merged.pdf", ToolMerge.OutputName())
	assert.Equal(t, "split_pages.zip", ToolSplit.OutputName())
	assert.Equal(t, "compressed.pdf", ToolCompress.OutputName())
	assert.Equal(t, "converted.docx", ToolWord.OutputName())
	assert.Equal(t, "converted.xlsx", ToolExcel.OutputName())
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "application/pdf", ToolMerge.ContentType())
	assert.Equal(t, "application/zip", ToolSplit.ContentType())
	assert.Equal(t, "application/pdf", ToolCompress.ContentType())
}
