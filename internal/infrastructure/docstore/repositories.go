package docstore

import (
	"context"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/bet"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/fanzone"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/roster"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/splitreq"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/team"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/verify"
)

// One repository type per aggregate, all sharing the same underlying
// store so path locking stays centralized.

type RosterRepository struct{ store *Store }

func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) Load(_ context.Context) (roster.Roster, error) {
	doc := readDoc[roster.Roster](r.store, filePlayers)
	if doc == nil {
		doc = make(roster.Roster)
	}
	return doc, nil
}

func (r *RosterRepository) Save(_ context.Context, doc roster.Roster) error {
	return writeDoc(r.store, filePlayers, doc)
}

type TeamRepository struct{ store *Store }

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(_ context.Context) ([]string, error) {
	return readDoc[[]string](r.store, fileTeams), nil
}

func (r *TeamRepository) SaveList(_ context.Context, teams []string) error {
	return writeDoc(r.store, fileTeams, teams)
}

func (r *TeamRepository) ISOCodes(_ context.Context) (map[string]string, error) {
	codes := readDoc[map[string]string](r.store, fileTeamISO)
	if codes == nil {
		codes = make(map[string]string)
	}
	return codes, nil
}

func (r *TeamRepository) SaveISOCodes(_ context.Context, codes map[string]string) error {
	return writeDoc(r.store, fileTeamISO, codes)
}

func (r *TeamRepository) Stages(_ context.Context) (map[string]team.Stage, error) {
	stages := readDoc[map[string]team.Stage](r.store, fileTeamStages)
	if stages == nil {
		stages = make(map[string]team.Stage)
	}
	return stages, nil
}

func (r *TeamRepository) SaveStages(_ context.Context, stages map[string]team.Stage) error {
	return writeDoc(r.store, fileTeamStages, stages)
}

type SplitRequestRepository struct{ store *Store }

func NewSplitRequestRepository(store *Store) *SplitRequestRepository {
	return &SplitRequestRepository{store: store}
}

func (r *SplitRequestRepository) Pending(_ context.Context) (map[string]splitreq.Request, error) {
	pending := readDoc[map[string]splitreq.Request](r.store, fileSplitRequests)
	if pending == nil {
		pending = make(map[string]splitreq.Request)
	}
	return pending, nil
}

func (r *SplitRequestRepository) SavePending(_ context.Context, pending map[string]splitreq.Request) error {
	return writeDoc(r.store, fileSplitRequests, pending)
}

func (r *SplitRequestRepository) Log(_ context.Context) ([]splitreq.LogRecord, error) {
	return readDoc[[]splitreq.LogRecord](r.store, fileSplitRequestLog), nil
}

func (r *SplitRequestRepository) AppendLog(_ context.Context, record splitreq.LogRecord) error {
	log := readDoc[[]splitreq.LogRecord](r.store, fileSplitRequestLog)
	log = append(log, record)
	return writeDoc(r.store, fileSplitRequestLog, log)
}

type BetRepository struct{ store *Store }

func NewBetRepository(store *Store) *BetRepository {
	return &BetRepository{store: store}
}

func (r *BetRepository) List(_ context.Context) ([]bet.Bet, error) {
	return readDoc[[]bet.Bet](r.store, fileBets), nil
}

func (r *BetRepository) Save(_ context.Context, bets []bet.Bet) error {
	return writeDoc(r.store, fileBets, bets)
}

type NotificationRepository struct{ store *Store }

func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Settings(_ context.Context) (notify.Settings, error) {
	settings := readDoc[notify.Settings](r.store, fileNotifySettings)
	if settings == nil {
		settings = make(notify.Settings)
	}
	return settings, nil
}

func (r *NotificationRepository) SaveSettings(_ context.Context, settings notify.Settings) error {
	return writeDoc(r.store, fileNotifySettings, settings)
}

func (r *NotificationRepository) BetResults(_ context.Context) (notify.Feed, error) {
	return readDoc[notify.Feed](r.store, fileBetResults), nil
}

func (r *NotificationRepository) SaveBetResults(_ context.Context, feed notify.Feed) error {
	return writeDoc(r.store, fileBetResults, feed)
}

func (r *NotificationRepository) StageNotifications(_ context.Context) (notify.Feed, error) {
	return readDoc[notify.Feed](r.store, fileStageNotifications), nil
}

func (r *NotificationRepository) SaveStageNotifications(_ context.Context, feed notify.Feed) error {
	return writeDoc(r.store, fileStageNotifications, feed)
}

func (r *NotificationRepository) FanZoneResults(_ context.Context) (notify.Feed, error) {
	return readDoc[notify.Feed](r.store, fileFanZoneResults), nil
}

func (r *NotificationRepository) SaveFanZoneResults(_ context.Context, feed notify.Feed) error {
	return writeDoc(r.store, fileFanZoneResults, feed)
}

type FanzoneRepository struct{ store *Store }

func NewFanzoneRepository(store *Store) *FanzoneRepository {
	return &FanzoneRepository{store: store}
}

func (r *FanzoneRepository) Votes(_ context.Context) (fanzone.Votes, error) {
	return readDoc[fanzone.Votes](r.store, fileFanVotes), nil
}

func (r *FanzoneRepository) SaveVotes(_ context.Context, votes fanzone.Votes) error {
	return writeDoc(r.store, fileFanVotes, votes)
}

func (r *FanzoneRepository) Winners(_ context.Context) (fanzone.Winners, error) {
	return readDoc[fanzone.Winners](r.store, fileFanWinners), nil
}

func (r *FanzoneRepository) SaveWinners(_ context.Context, winners fanzone.Winners) error {
	return writeDoc(r.store, fileFanWinners, winners)
}

type VerificationRepository struct{ store *Store }

func NewVerificationRepository(store *Store) *VerificationRepository {
	return &VerificationRepository{store: store}
}

func (r *VerificationRepository) Verified(_ context.Context) (verify.Registry, error) {
	return readDoc[verify.Registry](r.store, fileVerified), nil
}

func (r *VerificationRepository) SaveVerified(_ context.Context, registry verify.Registry) error {
	return writeDoc(r.store, fileVerified, registry)
}

func (r *VerificationRepository) Codes(_ context.Context) (verify.CodeBook, error) {
	return readDoc[verify.CodeBook](r.store, fileVerificationCodes), nil
}

func (r *VerificationRepository) SaveCodes(_ context.Context, codes verify.CodeBook) error {
	return writeDoc(r.store, fileVerificationCodes, codes)
}

type AdminSettingsRepository struct{ store *Store }

func NewAdminSettingsRepository(store *Store) *AdminSettingsRepository {
	return &AdminSettingsRepository{store: store}
}

func (r *AdminSettingsRepository) Settings(_ context.Context) (admin.Settings, error) {
	return readDoc[admin.Settings](r.store, fileAdminSettings), nil
}

func (r *AdminSettingsRepository) SaveSettings(_ context.Context, settings admin.Settings) error {
	return writeDoc(r.store, fileAdminSettings, settings)
}

// Health is the worker's periodic liveness snapshot, surfaced by the
// admin panel.
type Health struct {
	Timestamp  int64   `json:"timestamp"`
	UptimeSecs float64 `json:"uptime_secs"`
	Goroutines int     `json:"goroutines"`
	HeapBytes  uint64  `json:"heap_bytes"`
	QueueBytes int64   `json:"queue_bytes"`
}

type HealthRepository struct{ store *Store }

func NewHealthRepository(store *Store) *HealthRepository {
	return &HealthRepository{store: store}
}

func (r *HealthRepository) Load(_ context.Context) (Health, error) {
	return readDoc[Health](r.store, fileHealth), nil
}

func (r *HealthRepository) Save(_ context.Context, health Health) error {
	return writeDoc(r.store, fileHealth, health)
}
