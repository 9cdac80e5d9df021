package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/bet"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/fanzone"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/roster"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/splitreq"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/team"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/verify"
)

// In-memory fakes for every repository, shared across the service tests.

type memStore struct {
	roster      roster.Roster
	teams       []string
	isoCodes    map[string]string
	stages      map[string]team.Stage
	pending     map[string]splitreq.Request
	splitLog    []splitreq.LogRecord
	bets        []bet.Bet
	settings    notify.Settings
	betFeed     notify.Feed
	stageFeed   notify.Feed
	fanFeed     notify.Feed
	votes       fanzone.Votes
	winners     fanzone.Winners
	registry    verify.Registry
	codes       verify.CodeBook
	adminConfig admin.Settings
}

func newMemStore() *memStore {
	return &memStore{
		roster:   make(roster.Roster),
		isoCodes: make(map[string]string),
		stages:   make(map[string]team.Stage),
		pending:  make(map[string]splitreq.Request),
		settings: make(notify.Settings),
	}
}

func (m *memStore) Load(context.Context) (roster.Roster, error)    { return m.roster, nil }
func (m *memStore) Save(_ context.Context, r roster.Roster) error  { m.roster = r; return nil }
func (m *memStore) List(context.Context) ([]string, error)         { return m.teams, nil }
func (m *memStore) SaveList(_ context.Context, t []string) error   { m.teams = t; return nil }
func (m *memStore) ISOCodes(context.Context) (map[string]string, error) {
	return m.isoCodes, nil
}
func (m *memStore) SaveISOCodes(_ context.Context, c map[string]string) error {
	m.isoCodes = c
	return nil
}
func (m *memStore) Stages(context.Context) (map[string]team.Stage, error) { return m.stages, nil }
func (m *memStore) SaveStages(_ context.Context, s map[string]team.Stage) error {
	m.stages = s
	return nil
}

func (m *memStore) Pending(context.Context) (map[string]splitreq.Request, error) {
	return m.pending, nil
}
func (m *memStore) SavePending(_ context.Context, p map[string]splitreq.Request) error {
	m.pending = p
	return nil
}
func (m *memStore) Log(context.Context) ([]splitreq.LogRecord, error) { return m.splitLog, nil }
func (m *memStore) AppendLog(_ context.Context, r splitreq.LogRecord) error {
	m.splitLog = append(m.splitLog, r)
	return nil
}

type memBets struct{ store *memStore }

func (b memBets) List(context.Context) ([]bet.Bet, error)      { return b.store.bets, nil }
func (b memBets) Save(_ context.Context, v []bet.Bet) error    { b.store.bets = v; return nil }

type memNotify struct{ store *memStore }

func (n memNotify) Settings(context.Context) (notify.Settings, error) { return n.store.settings, nil }
func (n memNotify) SaveSettings(_ context.Context, s notify.Settings) error {
	n.store.settings = s
	return nil
}
func (n memNotify) BetResults(context.Context) (notify.Feed, error) { return n.store.betFeed, nil }
func (n memNotify) SaveBetResults(_ context.Context, f notify.Feed) error {
	n.store.betFeed = f
	return nil
}
func (n memNotify) StageNotifications(context.Context) (notify.Feed, error) {
	return n.store.stageFeed, nil
}
func (n memNotify) SaveStageNotifications(_ context.Context, f notify.Feed) error {
	n.store.stageFeed = f
	return nil
}
func (n memNotify) FanZoneResults(context.Context) (notify.Feed, error) { return n.store.fanFeed, nil }
func (n memNotify) SaveFanZoneResults(_ context.Context, f notify.Feed) error {
	n.store.fanFeed = f
	return nil
}

type memFanzone struct{ store *memStore }

func (f memFanzone) Votes(context.Context) (fanzone.Votes, error) { return f.store.votes, nil }
func (f memFanzone) SaveVotes(_ context.Context, v fanzone.Votes) error {
	f.store.votes = v
	return nil
}
func (f memFanzone) Winners(context.Context) (fanzone.Winners, error) { return f.store.winners, nil }
func (f memFanzone) SaveWinners(_ context.Context, w fanzone.Winners) error {
	f.store.winners = w
	return nil
}

type memVerify struct{ store *memStore }

func (v memVerify) Verified(context.Context) (verify.Registry, error) { return v.store.registry, nil }
func (v memVerify) SaveVerified(_ context.Context, r verify.Registry) error {
	v.store.registry = r
	return nil
}
func (v memVerify) Codes(context.Context) (verify.CodeBook, error) { return v.store.codes, nil }
func (v memVerify) SaveCodes(_ context.Context, c verify.CodeBook) error {
	v.store.codes = c
	return nil
}

type memAdmin struct{ store *memStore }

func (a memAdmin) Settings(context.Context) (admin.Settings, error) {
	return a.store.adminConfig, nil
}
func (a memAdmin) SaveSettings(_ context.Context, s admin.Settings) error {
	a.store.adminConfig = s
	return nil
}

// captureQueue records enqueued commands in order.
type captureQueue struct {
	records []command.Record
}

func (q *captureQueue) Enqueue(_ context.Context, record command.Record) error {
	q.records = append(q.records, record)
	return nil
}

func (q *captureQueue) kinds() []string {
	out := make([]string, 0, len(q.records))
	for _, record := range q.records {
		out = append(out, record.Kind)
	}
	return out
}

// seqGenerator yields deterministic ids and a fixed code.
type seqGenerator struct {
	n    int
	code string
}

func (g *seqGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("req-%03d", g.n), nil
}

func (g *seqGenerator) NewCode(int) (string, error) {
	if g.code == "" {
		return "AB2CD", nil
	}
	return g.code, nil
}

// staticMotto is a ProfileLookup returning a canned motto per name.
type staticMotto struct {
	mottos map[string]string
	err    error
}

func (p staticMotto) Motto(_ context.Context, name string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.mottos[name], nil
}

func fixedClock(ts int64) func() time.Time {
	return func() time.Time { return time.Unix(ts, 0) }
}
