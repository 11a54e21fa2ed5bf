package models

import "fmt"

// ToolType identifies one of the supported PDF operations.
type ToolType string

const (
	ToolMerge    ToolType = "merge"
	ToolSplit    ToolType = "split"
	ToolCompress ToolType = "compress"
	ToolWord     ToolType = "word"
	ToolExcel    ToolType = "excel"
)

// ParseToolType validates s against the closed set of tool types.
func ParseToolType(s string) (ToolType, error) {
	switch t := ToolType(s); t {
	case ToolMerge, ToolSplit, ToolCompress, ToolWord, ToolExcel:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown tool type %q", ErrValidation, s)
}

// InputBounds returns the allowed number of uploaded files for the tool.
// Merge takes between 2 and 10 inputs, every other tool exactly one.
func (t ToolType) InputBounds() (min, max int) {
	if t == ToolMerge {
		return 2, 10
	}
	return 1, 1
}

// OutputName is the display filename for the produced download.
func (t ToolType) OutputName() string {
	switch t {
	case ToolMerge:
		return "merged.pdf"
	case ToolSplit:
		return "split_pages.zip"
	case ToolCompress:
		return "compressed.pdf"
	case ToolWord:
		return "converted.docx"
	case ToolExcel:
		return "converted.xlsx"
	}
	return "output.bin"
}

// ContentType is the MIME type of the produced download.
func (t ToolType) ContentType() string {
	switch t {
	case ToolMerge, ToolCompress:
		return "application/pdf"
	case ToolSplit:
		return "application/zip"
	case ToolWord:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ToolExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}
