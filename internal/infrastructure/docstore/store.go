// Package docstore persists every operational document as a JSON file
// under a single directory. Writes are atomic (tmp file then rename) and
// reads are lenient: a missing or unparsable file yields the document's
// zero value so a fresh host bootstraps without seeding.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

// Document file names under the store's JSON directory.
const (
	filePlayers            = "players.json"
	fileTeams              = "teams.json"
	fileTeamISO            = "team_iso.json"
	fileTeamStages         = "team_stages.json"
	fileSplitRequests      = "split_requests.json"
	fileSplitRequestLog    = "split_request_log.json"
	fileBets               = "bets.json"
	fileBetResults         = "bet_results.json"
	fileStageNotifications = "stage_notifications.json"
	fileFanZoneResults     = "fanzone_results.json"
	fileFanVotes           = "fan_votes.json"
	fileFanWinners         = "fan_winners.json"
	fileVerified           = "verified.json"
	fileVerificationCodes  = "verification_codes.json"
	fileNotifySettings     = "notification_settings.json"
	fileAdminSettings      = "admin_settings.json"
	fileHealth             = "health.json"
)

// Store is the document store rooted at a base directory. Documents live
// in <base>/JSON; the queue, backups, and logs live alongside it.
type Store struct {
	baseDir string
	docDir  string
	logger  *logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New prepares the store layout under baseDir, creating the document
// directory if needed.
func New(baseDir string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	docDir := filepath.Join(baseDir, "JSON")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create document dir: %v", usecase.ErrStorageUnavailable, err)
	}
	return &Store{
		baseDir: baseDir,
		docDir:  docDir,
		locks:   make(map[string]*sync.Mutex),
		logger:  logger.With("component", "docstore"),
	}, nil
}

// BaseDir is the store root; queue and backup paths hang off it.
func (s *Store) BaseDir() string { return s.baseDir }

// DocDir is the directory holding the JSON documents.
func (s *Store) DocDir() string { return s.docDir }

// pathLock returns the mutex serializing writes to one document.
func (s *Store) pathLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}

// readDoc loads and decodes one document. Any failure returns the zero
// value; readers never error.
func readDoc[T any](s *Store, name string) T {
	var out T
	raw, err := os.ReadFile(filepath.Join(s.docDir, name))
	if err != nil {
		return out
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("ignoring unparsable document", "file", name, "error", err)
		var zero T
		return zero
	}
	return out
}

// writeDoc atomically replaces one document: encode, write <name>.tmp in
// the same directory, flush, rename over the target.
func writeDoc[T any](s *Store, name string, doc T) error {
	lock := s.pathLock(name)
	lock.Lock()
	defer lock.Unlock()

	raw, err := sonic.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", usecase.ErrStorageUnavailable, name, err)
	}

	target := filepath.Join(s.docDir, name)
	tmp := target + ".tmp"

	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", usecase.ErrStorageUnavailable, name, err)
	}
	if _, err := file.Write(raw); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", usecase.ErrStorageUnavailable, name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: flush %s: %v", usecase.ErrStorageUnavailable, name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", usecase.ErrStorageUnavailable, name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", usecase.ErrStorageUnavailable, name, err)
	}
	return nil
}
