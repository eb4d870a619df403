package service

import (
	"context"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/testutil"
	"mindleap_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLeaderboardCache struct {
	mu      sync.Mutex
	entries map[string][]LeaderboardEntry
}

func (c *memoryLeaderboardCache) Get(ctx context.Context, scope string) ([]LeaderboardEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[scope]
	return e, ok, nil
}

func (c *memoryLeaderboardCache) Set(ctx context.Context, scope string, entries []LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string][]LeaderboardEntry{}
	}
	c.entries[scope] = entries
	return nil
}

func (c *memoryLeaderboardCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	return nil
}

func TestRankEntries_StableForTies(t *testing.T) {
	entries := RankEntries([]LeaderboardEntry{
		{StudentID: 1, Name: "low", TotalPoints: 500},
		{StudentID: 2, Name: "first tie", TotalPoints: 1500},
		{StudentID: 3, Name: "second tie", TotalPoints: 1500},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, uint(2), entries[0].StudentID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(3), entries[1].StudentID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, uint(1), entries[2].StudentID)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, "Bronze", entries[0].Badge)
}

func TestBuildLeaderboard_FiltersBySchoolAndDeduplicates(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 10))
	svc := NewLeaderboardService(f.studentRepo, f.streakRepo, nil)
	ctx := context.Background()

	viewer := f.addStudent(t, "Viewer", "S1", uintPtr(10))
	dup := f.addStudent(t, "Viewer again", "S1", uintPtr(10))
	peer := f.addStudent(t, "Peer", "S1", nil)
	other := f.addStudent(t, "Other school", "S2", uintPtr(11))

	f.addRecord(t, viewer.ID, "2024-06-03", true, 200)
	f.addRecord(t, dup.ID, "2024-06-03", true, 5000)
	f.addRecord(t, other.ID, "2024-06-03", true, 200)
	// 没有作答记录时使用冗余存储的积分
	require.NoError(t, f.streakRepo.EnsureState(ctx, peer.ID, time.Now()))
	require.NoError(t, f.streakRepo.AddToState(ctx, peer.ID, 3, 1500, time.Now()))

	entries, err := svc.BuildLeaderboard(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, peer.ID, entries[0].StudentID)
	assert.Equal(t, 1500, entries[0].TotalPoints)
	assert.Equal(t, 3, entries[0].CurrentStreak)
	assert.Equal(t, viewer.ID, entries[1].StudentID)
	assert.Equal(t, 200, entries[1].TotalPoints)

	all, err := svc.BuildLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBuildLeaderboard_ViewerWithoutSchoolSeesEveryone(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 10))
	svc := NewLeaderboardService(f.studentRepo, f.streakRepo, nil)

	viewer := f.addStudent(t, "No school", "", nil)
	f.addStudent(t, "A", "S1", nil)
	f.addStudent(t, "B", "S2", nil)

	entries, err := svc.BuildLeaderboard(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestBuildLeaderboard_UnknownViewer(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 10))
	svc := NewLeaderboardService(f.studentRepo, f.streakRepo, nil)

	_, err := svc.BuildLeaderboard(context.Background(), 99)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestBuildLeaderboard_UsesCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 10))
	cache := &memoryLeaderboardCache{}
	svc := NewLeaderboardService(f.studentRepo, f.streakRepo, cache)
	ctx := context.Background()

	f.addStudent(t, "A", "", nil)
	first, err := svc.BuildLeaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	f.addStudent(t, "B", "", nil)
	cached, err := svc.BuildLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	require.NoError(t, cache.Invalidate(ctx))
	fresh, err := svc.BuildLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestRedisLeaderboardCache_NilSafe(t *testing.T) {
	var c *RedisLeaderboardCache
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "all")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(ctx, "all", nil))
	assert.NoError(t, c.Invalidate(ctx))

	withTTL := NewRedisLeaderboardCache(nil, 0)
	assert.Equal(t, time.Minute, withTTL.TTL())
	withTTL.SetTTL(5 * time.Second)
	assert.Equal(t, 5*time.Second, withTTL.TTL())
}

func TestIdentityKey(t *testing.T) {
	withUser := model.Student{UserID: uintPtr(4)}
	withUser.ID = 9
	imported := model.Student{}
	imported.ID = 9

	assert.Equal(t, "uid:4", withUser.IdentityKey())
	assert.Equal(t, "student:9", imported.IdentityKey())
}
