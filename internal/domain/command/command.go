package command

import "time"

// Known command kinds. Consumers ignore kinds they do not recognize, so
// the set can grow without coordinated deploys.
const (
	KindOwnershipReassign      = "ownership_reassign"
	KindTeamsRandomised        = "teams_randomised"
	KindSplitRequested         = "split_requested"
	KindSplitAccept            = "split_accept"
	KindSplitDecline           = "split_decline"
	KindTeamStageProgress      = "team_stage_progress"
	KindFanzoneWinner          = "fanzone_winner"
	KindBetWinnerDeclared      = "bet_winner_declared"
	KindMaintenanceModeEnabled = "maintenance_mode_enabled"
	KindUserVerified           = "user_verified"
	KindCogLoad                = "cog_load"
	KindCogUnload              = "cog_unload"
	KindCogReload              = "cog_reload"
	KindBotStart               = "bot_start"
	KindBotStop                = "bot_stop"
	KindBotRestart             = "bot_restart"
)

// Record is one queued command, serialized as a single JSON line.
type Record struct {
	TS   int64          `json:"ts"`
	Kind string         `json:"kind"`
	Data map[string]any `json:"data"`
}

// New builds a record stamped at the given time.
func New(now time.Time, kind string, data map[string]any) Record {
	return Record{TS: now.Unix(), Kind: kind, Data: data}
}

// String returns a value from the record payload, or "" when absent or
// not a string.
func (r Record) String(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// Strings returns a string-slice value from the record payload. JSON
// decoding yields []any, so elements are coerced individually.
func (r Record) Strings(key string) []string {
	raw, ok := r.Data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
