package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// consumerState is the per-consumer progress file: the byte offset into
// the queue file processed so far.
type consumerState struct {
	Offset int64 `json:"offset"`
}

const stateSuffix = "_queue_state.json"

func statePath(baseDir, consumer string) string {
	return filepath.Join(baseDir, consumer+stateSuffix)
}

// readState is lenient like document reads: missing or corrupt state means
// start from zero, which only risks re-dispatching already-seen records.
func readState(path string) consumerState {
	raw, err := os.ReadFile(path)
	if err != nil {
		return consumerState{}
	}
	var state consumerState
	if err := sonic.Unmarshal(raw, &state); err != nil || state.Offset < 0 {
		return consumerState{}
	}
	return state
}

func writeState(path string, state consumerState) error {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// stateFiles lists every consumer state file under baseDir with its
// consumer name.
func stateFiles(baseDir string) (map[string]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, stateSuffix) {
			continue
		}
		consumer := strings.TrimSuffix(name, stateSuffix)
		out[consumer] = filepath.Join(baseDir, name)
	}
	return out, nil
}
