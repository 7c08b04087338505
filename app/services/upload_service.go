package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/google/uuid"
)

// UploadService persists pending listing media and returns stable references
// that can be embedded in submission payloads.
type UploadService interface {
	Upload(ctx context.Context, file *models.PendingFile) (string, error)
	// UploadBatch uploads files and returns one reference per input file,
	// in the same order as the input slice.
	UploadBatch(ctx context.Context, files []*models.PendingFile) ([]string, error)
}

// DiskUploadService stores uploaded files under a base directory
type DiskUploadService struct {
	baseDir     string
	maxFileSize int64
}

// NewDiskUploadService creates a disk-backed upload service
func NewDiskUploadService(baseDir string, maxFileSize int64) (UploadService, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskUploadService{baseDir: baseDir, maxFileSize: maxFileSize}, nil
}

// Upload writes the file to disk under a generated name and returns its reference
func (s *DiskUploadService) Upload(ctx context.Context, file *models.PendingFile) (string, error) {
	if file == nil || len(file.Content) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if s.maxFileSize > 0 && int64(len(file.Content)) > s.maxFileSize {
		return "", fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Filename, s.maxFileSize)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.New().String() + ext
	dest := filepath.Join(s.baseDir, name)

	if err := os.WriteFile(dest, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", file.Filename, err)
	}

	return name, nil
}

// UploadBatch uploads all files, preserving input order in the returned references
func (s *DiskUploadService) UploadBatch(ctx context.Context, files []*models.PendingFile) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		ref, err := s.Upload(ctx, f)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// MockUploadService returns deterministic references without touching disk
type MockUploadService struct{}

func NewMockUploadService() UploadService {
	return &MockUploadService{}
}

func (s *MockUploadService) Upload(ctx context.Context, file *models.PendingFile) (string, error) {
	if file == nil || len(file.Content) == 0 {
		return "", fmt.Errorf("empty file")
	}
	ref := "mock-" + file.Filename
	log.Printf("uploaded %s as %s", file.Filename, ref)
	return ref, nil
}

func (s *MockUploadService) UploadBatch(ctx context.Context, files []*models.PendingFile) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		ref, err := s.Upload(ctx, f)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
