// Package pdf wraps the pdfcpu toolkit behind the single Transform
// entry point the processing gateway calls. All byte-level PDF work is
// delegated to pdfcpu; word and excel conversion are stubs.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/arzan03/pdftoolbox/internal/models"
)

// Input is one uploaded file staged on disk. Name is the original
// upload name, kept so engine errors can point at the offending file.
type Input struct {
	Name string
	Path string
}

// Output is one produced file in the request work directory.
type Output struct {
	Name string
	Path string
}

type Engine struct {
	conf *model.Configuration
}

func NewEngine() *Engine {
	return &Engine{conf: model.NewDefaultConfiguration()}
}

// Transform runs one tool over the staged inputs and returns the
// produced files. Outputs live inside workDir; the caller owns cleanup.
func (e *Engine) Transform(tool models.ToolType, workDir string, inputs []Input) ([]Output, error) {
	switch tool {
	case models.ToolMerge:
		return e.merge(workDir, inputs)
	case models.ToolSplit:
		return e.split(workDir, inputs[0])
	case models.ToolCompress:
		return e.compress(workDir, inputs[0])
	case models.ToolWord:
		return writeStub(workDir, "converted.docx", wordStub)
	case models.ToolExcel:
		return writeStub(workDir, "converted.xlsx", excelStub)
	}
	return nil, fmt.Errorf("%w: no engine for tool %q", models.ErrEngine, tool)
}

func (e *Engine) merge(workDir string, inputs []Input) ([]Output, error) {
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if err := pdfapi.ValidateFile(in.Path, e.conf); err != nil {
			return nil, fmt.Errorf("%w: %s is not a valid PDF: %v", models.ErrEngine, in.Name, err)
		}
		paths = append(paths, in.Path)
	}

	out := filepath.Join(workDir, "merged.pdf")
	if err := pdfapi.MergeCreateFile(paths, out, false, e.conf); err != nil {
		return nil, fmt.Errorf("%w: merge: %v", models.ErrEngine, err)
	}
	return []Output{{Name: "merged.pdf", Path: out}}, nil
}

func (e *Engine) split(workDir string, in Input) ([]Output, error) {
	if err := pdfapi.ValidateFile(in.Path, e.conf); err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid PDF: %v", models.ErrEngine, in.Name, err)
	}

	pageCount, err := pdfapi.PageCountFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrEngine, in.Name, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: %s contains no pages", models.ErrValidation, in.Name)
	}

	pagesDir := filepath.Join(workDir, "pages")
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	if err := pdfapi.SplitFile(in.Path, pagesDir, 1, e.conf); err != nil {
		return nil, fmt.Errorf("%w: split %s: %v", models.ErrEngine, in.Name, err)
	}

	return collectPages(pagesDir)
}

func (e *Engine) compress(workDir string, in Input) ([]Output, error) {
	if err := pdfapi.ValidateFile(in.Path, e.conf); err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid PDF: %v", models.ErrEngine, in.Name, err)
	}

	out := filepath.Join(workDir, "compressed.pdf")
	if err := pdfapi.OptimizeFile(in.Path, out, e.conf); err != nil {
		return nil, fmt.Errorf("%w: compress %s: %v", models.ErrEngine, in.Name, err)
	}
	return []Output{{Name: "compressed.pdf", Path: out}}, nil
}

// collectPages maps pdfcpu's <base>_<n>.pdf split naming onto the
// page-<n>.pdf entries the archive is built from, ordered by page.
func collectPages(pagesDir string) ([]Output, error) {
	entries, err := os.ReadDir(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	type page struct {
		n    int
		path string
	}
	pages := make([]page, 0, len(entries))
	for _, entry := range entries {
		base := strings.TrimSuffix(entry.Name(), ".pdf")
		idx := strings.LastIndex(base, "_")
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(base[idx+1:])
		if err != nil {
			continue
		}
		pages = append(pages, page{n: n, path: filepath.Join(pagesDir, entry.Name())})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: split produced no pages", models.ErrEngine)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	outputs := make([]Output, 0, len(pages))
	for _, p := range pages {
		outputs = append(outputs, Output{Name: fmt.Sprintf("page-%d.pdf", p.n), Path: p.path})
	}
	return outputs, nil
}

// Conversion stubs, kept deliberately fake: real word/excel conversion
// is out of scope and the produced placeholder says so.
var (
	wordStub  = []byte("This would be a Word document in a real implementation")
	excelStub = []byte("This would be an Excel file in a real implementation")
)

func writeStub(workDir, name string, content []byte) ([]Output, error) {
	out := filepath.Join(workDir, name)
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	return []Output{{Name: name, Path: out}}, nil
}
