package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// SnapshotSource is anything that can hand out a timer snapshot.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// ExporterFactory resolves an export format name to an exporter.
type ExporterFactory func(format string) (ports.Exporter, error)

// ReportService turns timer snapshots into exported lap reports.
type ReportService struct {
	timer     SnapshotSource
	git       ports.GitDetector
	exporters ExporterFactory
	exportDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewReportService creates a report service. git may be nil.
func NewReportService(timer SnapshotSource, git ports.GitDetector, exporters ExporterFactory, exportDir string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		timer:     timer,
		git:       git,
		exporters: exporters,
		exportDir: exportDir,
		logger:    logger,
		now:       time.Now,
	}
}

// Build assembles a report from the current snapshot.
func (s *ReportService) Build(ctx context.Context) domain.Report {
	return s.BuildFrom(ctx, s.timer.Snapshot())
}

// BuildFrom assembles a report for snap. Git context is best-effort and
// left empty outside a repository.
func (s *ReportService) BuildFrom(ctx context.Context, snap domain.Snapshot) domain.Report {
	report := domain.Report{
		Snapshot:    snap,
		GeneratedAt: s.now(),
	}
	if s.git != nil {
		if info, err := s.git.Detect(ctx, ""); err == nil {
			report.GitBranch = info.Branch
			report.GitCommit = info.Commit
			report.GitRepository = info.Repository
			report.GitClean = info.IsClean
		} else {
			s.logger.Debug("git context unavailable", "error", err)
		}
	}
	return report
}

// Write renders the current report in format to w.
func (s *ReportService) Write(ctx context.Context, w io.Writer, format string) error {
	exp, err := s.exporters(format)
	if err != nil {
		return err
	}
	report := s.Build(ctx)
	if len(report.Snapshot.Laps) == 0 {
		return domain.ErrNoLaps
	}
	return exp.Export(w, report)
}

// SaveFile writes the current report into the export directory and
// returns the file path.
func (s *ReportService) SaveFile(ctx context.Context, format string) (string, error) {
	return s.SaveSnapshot(ctx, s.timer.Snapshot(), format)
}

// SaveSnapshot is SaveFile for a snapshot taken earlier, such as the one
// a run finished with.
func (s *ReportService) SaveSnapshot(ctx context.Context, snap domain.Snapshot, format string) (string, error) {
	exp, err := s.exporters(format)
	if err != nil {
		return "", err
	}
	report := s.BuildFrom(ctx, snap)
	if len(report.Snapshot.Laps) == 0 {
		return "", domain.ErrNoLaps
	}

	if err := os.MkdirAll(s.exportDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("reps-%s-%s.%s", report.GeneratedAt.Format("20060102-150405"), shortRunID(report.Snapshot.RunID), exp.Extension())
	path := filepath.Join(s.exportDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := exp.Export(bw, report); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	s.logger.Info("laps exported", "run_id", report.Snapshot.RunID, "path", path, "laps", len(report.Snapshot.Laps))
	return path, nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "run"
	}
	return id
}
