package roster

import (
	"fmt"
	"sort"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// Ownership records who holds a team. MainOwner is always the canonical
// holder; SplitWith lists co-owners and is only populated on the canonical
// entry (mirror entries carry an empty list).
type Ownership struct {
	MainOwner flexid.ID   `json:"main_owner"`
	SplitWith []flexid.ID `json:"split_with"`
}

// TeamEntry is one slot in a player's team list. A pending entry has no team
// and no ownership; random assignment overwrites it in place.
type TeamEntry struct {
	Team            string     `json:"team,omitempty"`
	Ownership       *Ownership `json:"ownership,omitempty"`
	PublicMessageID flexid.ID  `json:"public_message_id,omitempty"`
	Pending         bool       `json:"pending,omitempty"`
}

// Player is a sweepstake participant.
type Player struct {
	DisplayName string      `json:"display_name"`
	Teams       []TeamEntry `json:"teams"`
}

// Roster is the Players document: user id -> player record.
type Roster map[string]Player

// CanonicalOwner returns the user id holding the canonical entry for a team,
// the entry itself, and whether one exists. The canonical entry is the one
// whose main_owner equals the holding user's id.
func (r Roster) CanonicalOwner(teamName string) (string, TeamEntry, bool) {
	for userID, player := range r {
		for _, entry := range player.Teams {
			if entry.Team != teamName || entry.Ownership == nil {
				continue
			}
			if entry.Ownership.MainOwner.String() == userID {
				return userID, entry, true
			}
		}
	}
	return "", TeamEntry{}, false
}

// Owners returns every owner of a team: the canonical main owner first, then
// split co-owners in the order recorded on the canonical entry.
func (r Roster) Owners(teamName string) []string {
	mainID, entry, ok := r.CanonicalOwner(teamName)
	if !ok {
		return nil
	}

	out := make([]string, 0, 1+len(entry.Ownership.SplitWith))
	out = append(out, mainID)
	for _, coOwner := range entry.Ownership.SplitWith {
		if id := coOwner.String(); id != "" && id != mainID {
			out = append(out, id)
		}
	}
	return out
}

// OwnsTeam reports whether the user is main owner or co-owner of the team.
func (r Roster) OwnsTeam(userID, teamName string) bool {
	player, ok := r[userID]
	if !ok {
		return false
	}
	for _, entry := range player.Teams {
		if entry.Team == teamName && entry.Ownership != nil {
			return true
		}
	}
	return false
}

// OwnedTeamCount counts assigned (non-pending) entries for the user.
func (r Roster) OwnedTeamCount(userID string) int {
	count := 0
	for _, entry := range r[userID].Teams {
		if !entry.Pending && entry.Team != "" {
			count++
		}
	}
	return count
}

// AssignedTeams returns the set of team names held by any canonical entry.
func (r Roster) AssignedTeams() map[string]struct{} {
	out := make(map[string]struct{})
	for userID, player := range r {
		for _, entry := range player.Teams {
			if entry.Ownership != nil && entry.Ownership.MainOwner.String() == userID && entry.Team != "" {
				out[entry.Team] = struct{}{}
			}
		}
	}
	return out
}

// PendingUsers returns user ids with at least one pending entry, sorted so
// callers that iterate get a stable order.
func (r Roster) PendingUsers() []string {
	seen := make(map[string]int)
	for userID, player := range r {
		for _, entry := range player.Teams {
			if entry.Pending {
				seen[userID]++
			}
		}
	}

	out := make([]string, 0, len(seen))
	for userID := range seen {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out
}

// PendingCount counts pending entries across all players.
func (r Roster) PendingCount() int {
	count := 0
	for _, player := range r {
		for _, entry := range player.Teams {
			if entry.Pending {
				count++
			}
		}
	}
	return count
}

// RemoveTeam deletes every entry for the team from every player's list.
func (r Roster) RemoveTeam(teamName string) {
	for userID, player := range r {
		kept := player.Teams[:0]
		for _, entry := range player.Teams {
			if entry.Team != teamName {
				kept = append(kept, entry)
			}
		}
		player.Teams = kept
		r[userID] = player
	}
}

// ShareString renders the per-owner dividend share for a team with the given
// owner count: an integer percent when exact, one decimal otherwise.
func ShareString(ownerCount int) string {
	if ownerCount <= 0 {
		return "0"
	}
	if 100%ownerCount == 0 {
		return fmt.Sprintf("%d", 100/ownerCount)
	}
	return fmt.Sprintf("%.1f", 100.0/float64(ownerCount))
}

// Validate checks the cross-player ownership invariants: at most one
// canonical entry per team, and every co-owner carries a mirror entry
// pointing back at the canonical main owner.
func (r Roster) Validate() error {
	canonicalByTeam := make(map[string]string)
	for userID, player := range r {
		for _, entry := range player.Teams {
			if entry.Pending {
				if entry.Team != "" || entry.Ownership != nil {
					return fmt.Errorf("user %s: pending entry carries team data", userID)
				}
				continue
			}
			if entry.Ownership == nil {
				return fmt.Errorf("user %s: assigned entry for %q has no ownership", userID, entry.Team)
			}
			if entry.Ownership.MainOwner.String() == userID {
				if prior, dup := canonicalByTeam[entry.Team]; dup {
					return fmt.Errorf("team %q has two canonical owners: %s and %s", entry.Team, prior, userID)
				}
				canonicalByTeam[entry.Team] = userID
			}
		}
	}

	for userID, player := range r {
		for _, entry := range player.Teams {
			if entry.Pending || entry.Ownership == nil {
				continue
			}
			mainID := entry.Ownership.MainOwner.String()
			if mainID == userID {
				continue
			}
			// Mirror entry: must reference the canonical owner and carry no
			// split list of its own.
			if canonical, ok := canonicalByTeam[entry.Team]; !ok || canonical != mainID {
				return fmt.Errorf("user %s: mirror entry for %q points at %s, canonical is %s", userID, entry.Team, mainID, canonicalByTeam[entry.Team])
			}
			if len(entry.Ownership.SplitWith) != 0 {
				return fmt.Errorf("user %s: mirror entry for %q carries split_with", userID, entry.Team)
			}
		}
	}

	return nil
}
