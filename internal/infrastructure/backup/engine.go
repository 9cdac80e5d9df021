// Package backup archives the document directory into timestamped zip
// files and restores them on demand.
package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase/errs"
)

const (
	// DirName is the backup directory under the store root.
	DirName = "BACKUPS"

	// MaxBackups is the retention cap; oldest archives are deleted first.
	MaxBackups = 25

	timestampLayout = "02-01_15-04-05"
)

// Info describes one stored backup archive.
type Info struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Created int64  `json:"created"`
}

// Engine creates and restores zip archives of the JSON document
// directory. Archive entries are named relative to the store root, so a
// restored tree lands back in place.
type Engine struct {
	baseDir   string
	docDir    string
	backupDir string
	logger    *logging.Logger
}

func NewEngine(baseDir, docDir string, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		baseDir:   baseDir,
		docDir:    docDir,
		backupDir: filepath.Join(baseDir, DirName),
		logger:    logger.With("component", "backup"),
	}
}

// Create archives every document and returns the archive name. A second
// backup within the same second gets a _NN suffix instead of clobbering
// the first.
func (e *Engine) Create(_ context.Context, now time.Time) (string, error) {
	if err := os.MkdirAll(e.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create backup dir: %v", errs.ErrStorageUnavailable, err)
	}

	name := e.freeName(now)
	target := filepath.Join(e.backupDir, name)
	tmp := target + ".tmp"

	if err := e.writeArchive(tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: finalize backup: %v", errs.ErrStorageUnavailable, err)
	}

	e.enforceRetention()
	e.logger.Info("backup created", "name", name)
	return name, nil
}

func (e *Engine) freeName(now time.Time) string {
	base := now.Format(timestampLayout)
	name := base + ".zip"
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(e.backupDir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s_%02d.zip", base, n)
	}
}

func (e *Engine) writeArchive(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create archive: %v", errs.ErrStorageUnavailable, err)
	}
	defer file.Close()

	writer := zip.NewWriter(file)

	entries, err := os.ReadDir(e.docDir)
	if err != nil {
		writer.Close()
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: enumerate documents: %v", errs.ErrStorageUnavailable, err)
	}

	relDir, err := filepath.Rel(e.baseDir, e.docDir)
	if err != nil {
		relDir = filepath.Base(e.docDir)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		arcName := filepath.ToSlash(filepath.Join(relDir, entry.Name()))
		if err := addFile(writer, filepath.Join(e.docDir, entry.Name()), arcName); err != nil {
			writer.Close()
			return fmt.Errorf("%w: archive %s: %v", errs.ErrStorageUnavailable, entry.Name(), err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: close archive: %v", errs.ErrStorageUnavailable, err)
	}
	return file.Sync()
}

func addFile(writer *zip.Writer, path, arcName string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := writer.Create(arcName)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// List returns stored backups, newest first.
func (e *Engine) List(_ context.Context) ([]Info, error) {
	entries, err := os.ReadDir(e.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list backups: %v", errs.ErrStorageUnavailable, err)
	}

	out := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{Name: entry.Name(), Size: info.Size(), Created: info.ModTime().Unix()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created > out[j].Created })
	return out, nil
}

// Path validates a backup name and returns its location for download.
func (e *Engine) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".zip") {
		return "", fmt.Errorf("%w: bad backup name %q", errs.ErrInvalidInput, name)
	}
	path := filepath.Join(e.backupDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: backup %q", errs.ErrNotFound, name)
	}
	return path, nil
}

// Restore extracts a named archive over the document directory. The
// current documents are archived first so a bad restore can be undone.
func (e *Engine) Restore(ctx context.Context, name string) error {
	path, err := e.Path(name)
	if err != nil {
		return err
	}

	if safety, err := e.Create(ctx, time.Now()); err != nil {
		return err
	} else {
		e.logger.Info("safety copy before restore", "name", safety)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: open backup %s: %v", errs.ErrStorageUnavailable, name, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(e.baseDir, filepath.FromSlash(entry.Name))
		rel, err := filepath.Rel(e.baseDir, target)
		if err != nil || strings.HasPrefix(rel, "..") {
			e.logger.Warn("skipping archive entry outside store root", "entry", entry.Name)
			continue
		}
		if err := extractFile(entry, target); err != nil {
			return fmt.Errorf("%w: restore %s: %v", errs.ErrStorageUnavailable, entry.Name, err)
		}
	}

	e.logger.Info("backup restored", "name", name)
	return nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	tmp := target + ".tmp"
	dst, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}

func (e *Engine) enforceRetention() {
	backups, err := e.List(context.Background())
	if err != nil || len(backups) <= MaxBackups {
		return
	}
	for _, old := range backups[MaxBackups:] {
		if err := os.Remove(filepath.Join(e.backupDir, old.Name)); err != nil {
			e.logger.Warn("retention delete failed", "name", old.Name, "error", err)
			continue
		}
		e.logger.Info("old backup removed", "name", old.Name)
	}
}
