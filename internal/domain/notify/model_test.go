package notify

import (
	"fmt"
	"testing"
)

func TestFeedPush(t *testing.T) {
	t.Run("prepends newest first", func(t *testing.T) {
		var feed Feed
		feed.Push(Event{ID: "a", TS: 1})
		feed.Push(Event{ID: "b", TS: 2})

		if len(feed.Events) != 2 || feed.Events[0].ID != "b" {
			t.Fatalf("unexpected feed order: %+v", feed.Events)
		}
	})

	t.Run("duplicate id is dropped", func(t *testing.T) {
		var feed Feed
		if !feed.Push(Event{ID: "stage:Argentina:Final:100"}) {
			t.Fatal("first push should succeed")
		}
		if feed.Push(Event{ID: "stage:Argentina:Final:100"}) {
			t.Fatal("duplicate push should be rejected")
		}
		if len(feed.Events) != 1 {
			t.Fatalf("unexpected event count: got=%d want=1", len(feed.Events))
		}
	})

	t.Run("caps at limit", func(t *testing.T) {
		var feed Feed
		for i := 0; i < FeedCap+10; i++ {
			feed.Push(Event{ID: fmt.Sprintf("ev-%d", i)})
		}
		if len(feed.Events) != FeedCap {
			t.Fatalf("unexpected event count: got=%d want=%d", len(feed.Events), FeedCap)
		}
		if feed.Events[0].ID != fmt.Sprintf("ev-%d", FeedCap+9) {
			t.Fatalf("newest event missing from head: %s", feed.Events[0].ID)
		}
	})
}

func TestPreferenceDefaults(t *testing.T) {
	var settings Settings

	pref := settings.For("12345")
	if !pref.WantsBell() || !pref.WantsDM() {
		t.Fatal("missing preference should enable both channels")
	}
	for _, cat := range []string{CategorySplits, CategoryMatches, CategoryBets, CategoryStages} {
		if !pref.Enabled(cat) {
			t.Fatalf("default preference should enable %s", cat)
		}
	}
}

func TestPreferenceChannels(t *testing.T) {
	bell := Preference{Channel: ChannelBell}
	if !bell.WantsBell() || bell.WantsDM() {
		t.Fatal("bell-only preference misreported")
	}

	dms := Preference{Channel: ChannelDMs}
	if dms.WantsBell() || !dms.WantsDM() {
		t.Fatal("dm-only preference misreported")
	}
}

func TestEventIDs(t *testing.T) {
	if got := StageEventID("Argentina", "Quarter-finals", "100"); got != "stage:Argentina:Quarter-finals:100" {
		t.Fatalf("unexpected stage id: %s", got)
	}
	if got := BetEventID("00042", "100"); got != "bet:00042:100" {
		t.Fatalf("unexpected bet id: %s", got)
	}
}
