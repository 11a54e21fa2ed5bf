package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arzan03/pdftoolbox/internal/models"
	"github.com/arzan03/pdftoolbox/internal/pdf"
	"github.com/arzan03/pdftoolbox/internal/utils"
)

// BlobStore persists opaque byte payloads under generated names.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader, size int64, contentType, suggestedExt string) (string, error)
	Get(ctx context.Context, storedName string) ([]byte, error)
	Delete(ctx context.Context, storedName string) error
	Exists(ctx context.Context, storedName string) (bool, error)
}

// Engine performs the actual PDF byte transformation.
type Engine interface {
	Transform(tool models.ToolType, workDir string, inputs []pdf.Input) ([]pdf.Output, error)
}

// Upload is one decoded multipart file from the request.
type Upload struct {
	Name string
	Data []byte
}

// ProcessResult carries the produced bytes plus the ledger record that
// authorizes later downloads.
type ProcessResult struct {
	Record      models.File
	Data        []byte
	Filename    string
	ContentType string
}

// ProcessService is the processing gateway: it validates one tool
// request, drives the engine and persists the result, blob first, then
// ledger record.
type ProcessService struct {
	blobs          BlobStore
	ledger         Ledger
	engine         Engine
	scratchDir     string
	ownedRetention time.Duration
	anonRetention  time.Duration
	logger         *slog.Logger
}

func NewProcessService(blobs BlobStore, ledger Ledger, engine Engine, scratchDir string, ownedRetention, anonRetention time.Duration, logger *slog.Logger) *ProcessService {
	return &ProcessService{
		blobs:          blobs,
		ledger:         ledger,
		engine:         engine,
		scratchDir:     scratchDir,
		ownedRetention: ownedRetention,
		anonRetention:  anonRetention,
		logger:         logger,
	}
}

// Process runs one tool invocation end to end. An empty owner marks an
// anonymous request, which gets the short retention window. On any
// failure nothing stays behind: the scratch dir is removed and an
// already-stored blob is deleted before the error is returned.
func (s *ProcessService) Process(ctx context.Context, owner string, tool models.ToolType, uploads []Upload) (*ProcessResult, error) {
	if err := validateUploads(tool, uploads); err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(s.scratchDir, "pdfjob-")
	if err != nil {
		return nil, fmt.Errorf("%w: create work dir: %v", models.ErrStorage, err)
	}
	defer os.RemoveAll(workDir)

	inputs := make([]pdf.Input, 0, len(uploads))
	for i, upload := range uploads {
		path := filepath.Join(workDir, fmt.Sprintf("in-%03d.pdf", i))
		if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
			return nil, fmt.Errorf("%w: stage upload: %v", models.ErrStorage, err)
		}
		inputs = append(inputs, pdf.Input{Name: upload.Name, Path: path})
	}

	outputs, err := s.engine.Transform(tool, workDir, inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: engine produced no output", models.ErrEngine)
	}

	outPath := outputs[0].Path
	if len(outputs) > 1 {
		outPath = filepath.Join(workDir, "bundle.zip")
		if err := packageZip(outputs, outPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", models.ErrStorage, err)
	}

	// Blob before record: a ledger entry must never point at bytes
	// that are not durably stored yet.
	storedName, err := s.blobs.Put(ctx, bytes.NewReader(data), int64(len(data)),
		tool.ContentType(), filepath.Ext(tool.OutputName()))
	if err != nil {
		return nil, err
	}

	retention := s.ownedRetention
	if owner == "" {
		retention = s.anonRetention
	}

	record, err := s.ledger.Create(ctx, owner, tool, uploads[0].Name, storedName, int64(len(data)), retention)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, storedName); delErr != nil {
			s.logger.Error("failed to clean up blob after ledger failure",
				"stored_name", storedName, "err", delErr)
		}
		return nil, err
	}

	return &ProcessResult{
		Record:      record,
		Data:        data,
		Filename:    tool.OutputName(),
		ContentType: tool.ContentType(),
	}, nil
}

// Download returns the record and bytes for one owned file and bumps
// its download counter. A reaped blob or record reads as not found.
func (s *ProcessService) Download(ctx context.Context, id, owner string) (models.File, []byte, error) {
	record, err := s.ledger.Get(ctx, id, owner)
	if err != nil {
		return models.File{}, nil, err
	}

	data, err := s.blobs.Get(ctx, record.StoredName)
	if err != nil {
		return models.File{}, nil, err
	}

	if err := s.ledger.IncrementDownload(ctx, id); err != nil {
		return models.File{}, nil, err
	}
	record.DownloadCount++
	return record, data, nil
}

// DiscardOneShot removes an anonymous record and its blob right after
// delivery. Failures are logged only; the reaper is the backstop.
func (s *ProcessService) DiscardOneShot(ctx context.Context, record models.File) {
	err := utils.RunParallel(
		func() error { return s.ledger.Delete(ctx, record.ID.Hex()) },
		func() error { return s.blobs.Delete(ctx, record.StoredName) },
	)
	if err != nil {
		s.logger.Error("one-shot cleanup incomplete, reaper will retry",
			"file_id", record.ID.Hex(), "err", err)
	}
}

func validateUploads(tool models.ToolType, uploads []Upload) error {
	min, max := tool.InputBounds()
	if len(uploads) < min || len(uploads) > max {
		if min == max {
			return fmt.Errorf("%w: %s requires exactly %d PDF file", models.ErrValidation, tool, min)
		}
		return fmt.Errorf("%w: %s requires between %d and %d PDF files", models.ErrValidation, tool, min, max)
	}

	for _, upload := range uploads {
		if len(upload.Data) == 0 {
			return fmt.Errorf("%w: %s is empty", models.ErrValidation, upload.Name)
		}
		if !strings.EqualFold(filepath.Ext(upload.Name), ".pdf") {
			return fmt.Errorf("%w: %s is not a PDF", models.ErrValidation, upload.Name)
		}
	}
	return nil
}

// packageZip bundles multiple engine outputs into a single archive.
func packageZip(outputs []pdf.Output, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: create archive: %v", models.ErrStorage, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, output := range outputs {
		w, err := zw.Create(output.Name)
		if err != nil {
			return fmt.Errorf("%w: archive entry %s: %v", models.ErrStorage, output.Name, err)
		}
		data, err := os.ReadFile(output.Path)
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", models.ErrStorage, output.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: write %s: %v", models.ErrStorage, output.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: finalize archive: %v", models.ErrStorage, err)
	}
	return nil
}
