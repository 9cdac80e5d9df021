package bet

import (
	"fmt"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// Winner values. Empty means the bet is still open; anything else is
// terminal.
const (
	WinnerNone    = ""
	WinnerOption1 = "option1"
	WinnerOption2 = "option2"
)

// Bet is a head-to-head wager between two users. Option2UserID empty means
// nobody has claimed the other side yet.
type Bet struct {
	BetID           string    `json:"bet_id"`
	MessageID       flexid.ID `json:"message_id"`
	Title           string    `json:"bet_title"`
	Wager           string    `json:"wager"`
	Option1         string    `json:"option1"`
	Option2         string    `json:"option2"`
	Option1UserID   flexid.ID `json:"option1_user_id"`
	Option1UserName string    `json:"option1_user_name"`
	Option2UserID   flexid.ID `json:"option2_user_id,omitempty"`
	Option2UserName string    `json:"option2_user_name,omitempty"`
	ChannelID       flexid.ID `json:"channel_id"`
	Winner          string    `json:"winner"`
}

func (b Bet) Claimed() bool {
	return !b.Option2UserID.IsZero()
}

func (b Bet) Settled() bool {
	return b.Winner != WinnerNone
}

// FormatID renders the zero-padded 5-digit bet id.
func FormatID(n int) string {
	return fmt.Sprintf("%05d", n)
}

// NextID returns the next free bet id given the existing sequence.
func NextID(existing []Bet) string {
	highest := 0
	for _, b := range existing {
		var n int
		if _, err := fmt.Sscanf(b.BetID, "%d", &n); err == nil && n > highest {
			highest = n
		}
	}
	return FormatID(highest + 1)
}
