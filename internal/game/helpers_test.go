package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
	"sudooom.im.xuezhan/internal/game/mahjong/policy"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
)

// tiles 解析 "1m 2s 9p"，m=万 s=条 p=筒
func tiles(text string) []core.Tile {
	fields := strings.Fields(text)
	out := make([]core.Tile, 0, len(fields))
	for _, f := range fields {
		out = append(out, tile(f))
	}
	return out
}

func tile(f string) core.Tile {
	rank := int(f[0] - '0')
	switch f[1] {
	case 'm':
		return core.MustTile(core.SuitWan, rank)
	case 's':
		return core.MustTile(core.SuitTiao, rank)
	case 'p':
		return core.MustTile(core.SuitTong, rank)
	}
	panic("bad tile " + f)
}

// memSnapshots 内存快照存储
type memSnapshots struct {
	mu    sync.Mutex
	data  map[string]*Snapshot
	saves int
	err   error
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: map[string]*Snapshot{}}
}

func (m *memSnapshots) Save(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[snap.GameID] = snap
	m.saves++
	return nil
}

func (m *memSnapshots) Load(_ context.Context, gameID string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.data[gameID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *memSnapshots) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, gameID)
	return nil
}

func (m *memSnapshots) get(gameID string) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[gameID]
}

type memRecords struct {
	mu      sync.Mutex
	records []*Record
}

func (m *memRecords) SaveRecord(_ context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memRecords) FindByID(_ context.Context, gameID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.GameID == gameID {
			return r, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *memRecords) all() []*Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Record(nil), m.records...)
}

type memPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func (m *memPublisher) PublishGameEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memPublisher) all() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("game-%d", s.n)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errStoreDown = errors.New("store down")

type fixture struct {
	svc       *GameService
	manager   *GameManager
	snapshots *memSnapshots
	records   *memRecords
	publisher *memPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	quiet := discardLogger()

	f := &fixture{
		snapshots: newMemSnapshots(),
		records:   &memRecords{},
		publisher: &memPublisher{},
	}
	f.manager = NewGameManager(f.snapshots, 16, time.Hour, WithManagerLogger(quiet))
	t.Cleanup(func() { _ = f.manager.Shutdown(context.Background()) })

	engine := xzmahjong.NewEngine(core.DefaultRules(),
		xzmahjong.WithRand(rand.New(rand.NewPCG(1, 2))),
		xzmahjong.WithLogger(quiet))
	f.svc = NewGameService(ServiceDeps{
		Manager:   f.manager,
		Engine:    engine,
		Policy:    policy.NewHeuristic(rand.New(rand.NewPCG(3, 4))),
		IDs:       &seqIDs{},
		Records:   f.records,
		Publisher: f.publisher,
	})
	f.svc.logger = quiet
	return f
}

// craftedState 行牌中的局面，p0 为人类玩家，所有人定缺筒子
func craftedState(wall string, hands ...string) *core.GameState {
	players := make([]*core.Player, 4)
	for i := range players {
		p := core.NewPlayer(fmt.Sprintf("p%d", i), 100)
		p.Hand = tiles(hands[i])
		p.Buried = tiles("1p 2p 3p")
		p.MissingSuit = core.SuitTong
		p.Discarded = 1
		players[i] = p
	}
	return &core.GameState{
		ID:                "crafted",
		Players:           players,
		Wall:              tiles(wall),
		Discards:          []core.DiscardedTile{},
		Phase:             core.PhasePlaying,
		BaseUnit:          1,
		InitialTotalScore: 400,
		Transfers:         []core.Transfer{},
		Wins:              []core.WinRecord{},
		Rules:             core.DefaultRules(),
	}
}

// 人类手牌: 123456789万 + 5万 + 111条，听 5万
const (
	humanHand  = "1m 2m 3m 4m 5m 5m 6m 7m 8m 9m 1s 1s 1s"
	tiaoHand   = "1s 1s 2s 2s 3s 3s 4s 5s 6s 7s 8s 9s 9s"
	tongWall   = "2p 3p 4p 5p 6p 7p 8p 9p"
	discarder  = "1s 2s 3s 4s 5s 6s 7s 8s 9s 2s 3s 4s 5s"
	humanID    = "p0"
	craftedGID = "crafted"
)

// pendingFromP3 p3 刚打出 5万，等待响应
func pendingFromP3() *core.GameState {
	s := craftedState(tongWall, humanHand, tiaoHand, tiaoHand, discarder)
	d := core.DiscardedTile{Tile: tile("5m"), PlayerID: "p3", Seq: 0}
	s.Discards = append(s.Discards, d)
	s.PendingDiscard = &d
	s.CurrentPlayer = 3
	return s
}

func (f *fixture) install(t *testing.T, s *core.GameState) *Session {
	t.Helper()
	session := NewSession(s, humanID)
	if err := f.manager.Add(session); err != nil {
		t.Fatalf("add session: %v", err)
	}
	return session
}
