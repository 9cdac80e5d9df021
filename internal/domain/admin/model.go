package admin

import (
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// MinBackupIntervalHours is the floor applied to the auto-backup interval.
const MinBackupIntervalHours = 0.1

// Settings is the operator-controlled runtime configuration document.
// Key names are kept upper-case to match the stored file.
type Settings struct {
	StageAnnounceChannel    string    `json:"STAGE_ANNOUNCE_CHANNEL"`
	SelectedGuildID         flexid.ID `json:"SELECTED_GUILD_ID"`
	MaintenanceMode         bool      `json:"MAINTENANCE_MODE"`
	AutoBackupEnabled       bool      `json:"AUTO_BACKUP_ENABLED"`
	AutoBackupIntervalHours float64   `json:"AUTO_BACKUP_INTERVAL_HOURS"`
	AutoBackupLastTS        int64     `json:"AUTO_BACKUP_LAST_TS"`
}

// BackupInterval returns the configured auto-backup interval clamped to
// the minimum allowed value.
func (s Settings) BackupInterval() time.Duration {
	hours := s.AutoBackupIntervalHours
	if hours < MinBackupIntervalHours {
		hours = MinBackupIntervalHours
	}
	return time.Duration(hours * float64(time.Hour))
}

// BackupDue reports whether an auto-backup should run at the given time.
func (s Settings) BackupDue(now time.Time) bool {
	if !s.AutoBackupEnabled {
		return false
	}
	last := time.Unix(s.AutoBackupLastTS, 0)
	return now.Sub(last) >= s.BackupInterval()
}
