package verify

import "github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"

// CodeLength is the length of a generated verification challenge code.
const CodeLength = 5

// User is a completed verification linking a chat identity to a Habbo name.
type User struct {
	DiscordID   flexid.ID `json:"discord_id"`
	HabboName   string    `json:"habbo_name"`
	DisplayName string    `json:"display_name,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
}

// Registry is the verified-users document.
type Registry struct {
	VerifiedUsers []User `json:"verified_users"`
}

// Contains reports whether the user id has already completed verification.
func (r Registry) Contains(discordID string) bool {
	for i := range r.VerifiedUsers {
		if string(r.VerifiedUsers[i].DiscordID) == discordID {
			return true
		}
	}
	return false
}

// Find returns the verified entry for a user id, if present.
func (r Registry) Find(discordID string) (User, bool) {
	for i := range r.VerifiedUsers {
		if string(r.VerifiedUsers[i].DiscordID) == discordID {
			return r.VerifiedUsers[i], true
		}
	}
	return User{}, false
}

// PendingCode is an in-flight verification attempt. Habbo is the name the
// attempt was opened against; the user cannot switch names mid-attempt.
type PendingCode struct {
	Code      string `json:"code"`
	Habbo     string `json:"habbo"`
	Timestamp int64  `json:"timestamp"`
}

// CodeBook is the pending-attempts document, keyed by user id. A user id
// never appears here and in the Registry at the same time.
type CodeBook struct {
	VerificationData map[string]PendingCode `json:"verification_data"`
}

// Pending returns the open attempt for a user id, if any.
func (c CodeBook) Pending(discordID string) (PendingCode, bool) {
	pending, ok := c.VerificationData[discordID]
	return pending, ok
}

// Set records an attempt, allocating the map on first use.
func (c *CodeBook) Set(discordID string, pending PendingCode) {
	if c.VerificationData == nil {
		c.VerificationData = make(map[string]PendingCode)
	}
	c.VerificationData[discordID] = pending
}

// Remove drops the attempt for a user id.
func (c *CodeBook) Remove(discordID string) {
	delete(c.VerificationData, discordID)
}
