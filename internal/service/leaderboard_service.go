package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"mindleap_backend/pkg/monitoring"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaderboardEntry 排行榜中的一行
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	StudentID     uint   `json:"studentId"`
	Name          string `json:"name"`
	Grade         string `json:"grade"`
	SchoolName    string `json:"schoolName"`
	SchoolCode    string `json:"schoolCode"`
	TotalPoints   int    `json:"totalPoints"`
	CurrentStreak int    `json:"currentStreak"`
	Badge         string `json:"badge"`
}

// LeaderboardCache 按学校范围缓存排行榜
type LeaderboardCache interface {
	Get(ctx context.Context, scope string) ([]LeaderboardEntry, bool, error)
	Set(ctx context.Context, scope string, entries []LeaderboardEntry) error
	LeaderboardInvalidator
}

type LeaderboardService struct {
	StudentRepo *repository.StudentRepository
	StreakRepo  *repository.StreakRepository
	Cache       LeaderboardCache
}

func NewLeaderboardService(studentRepo *repository.StudentRepository, streakRepo *repository.StreakRepository, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		StudentRepo: studentRepo,
		StreakRepo:  streakRepo,
		Cache:       cache,
	}
}

// BuildLeaderboard viewerStudentID 为 0 时（管理员）不按学校过滤
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, viewerStudentID uint) ([]LeaderboardEntry, error) {
	schoolCode := ""
	if viewerStudentID != 0 {
		viewer, err := s.StudentRepo.FindByID(ctx, viewerStudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrStudentNotFound
			}
			return nil, err
		}
		schoolCode = viewer.SchoolCode
	}

	scope := "all"
	if schoolCode != "" {
		scope = "school:" + schoolCode
	}

	if s.Cache != nil {
		entries, ok, err := s.Cache.Get(ctx, scope)
		if err != nil {
			logger.Log.Warn("Leaderboard cache read failed", zap.String("scope", scope), zap.Error(err))
		} else if ok {
			monitoring.LeaderboardCache.WithLabelValues("hit").Inc()
			return entries, nil
		}
		monitoring.LeaderboardCache.WithLabelValues("miss").Inc()
	}

	entries, err := s.compute(ctx, schoolCode)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, scope, entries); err != nil {
			logger.Log.Warn("Leaderboard cache write failed", zap.String("scope", scope), zap.Error(err))
		}
	}
	return entries, nil
}

func (s *LeaderboardService) compute(ctx context.Context, schoolCode string) ([]LeaderboardEntry, error) {
	students, err := s.StudentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// 同一登录身份只保留第一条学生记录
	seen := make(map[string]struct{}, len(students))
	kept := make([]model.Student, 0, len(students))
	for _, st := range students {
		key := st.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if schoolCode != "" && st.SchoolCode != schoolCode {
			continue
		}
		kept = append(kept, st)
	}

	ids := make([]uint, len(kept))
	for i, st := range kept {
		ids[i] = st.ID
	}
	points, err := s.StreakRepo.PointsByStudent(ctx, ids)
	if err != nil {
		return nil, err
	}
	states, err := s.StreakRepo.ListStates(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(kept))
	for _, st := range kept {
		state := states[st.ID]
		total := state.TotalPoints
		if p, ok := points[st.ID]; ok && p.Records > 0 {
			total = p.Points
		}
		entries = append(entries, LeaderboardEntry{
			StudentID:     st.ID,
			Name:          st.Name,
			Grade:         st.Grade,
			SchoolName:    st.SchoolName,
			SchoolCode:    st.SchoolCode,
			TotalPoints:   total,
			CurrentStreak: state.CurrentStreak,
		})
	}
	return RankEntries(entries), nil
}

// RankEntries 按积分降序稳定排序，名次为下标加一，同分保持原顺序
func RankEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Badge = BadgeFor(entries[i].TotalPoints)
	}
	return entries
}

const leaderboardGenerationKey = "mindleap:leaderboard:gen"

// RedisLeaderboardCache 通过代数号整体失效：作答后 INCR 代数，旧键自然过期
type RedisLeaderboardCache struct {
	Client *redis.Client
	ttl    atomic.Int64
}

func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration) *RedisLeaderboardCache {
	c := &RedisLeaderboardCache{Client: client}
	c.SetTTL(ttl)
	return c
}

func (c *RedisLeaderboardCache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c.ttl.Store(int64(ttl))
}

func (c *RedisLeaderboardCache) TTL() time.Duration {
	return time.Duration(c.ttl.Load())
}

func (c *RedisLeaderboardCache) key(ctx context.Context, scope string) (string, error) {
	gen, err := c.Client.Get(ctx, leaderboardGenerationKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("mindleap:leaderboard:%d:%s", gen, scope), nil
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, scope string) ([]LeaderboardEntry, bool, error) {
	if c == nil || c.Client == nil {
		return nil, false, nil
	}
	key, err := c.key(ctx, scope)
	if err != nil {
		return nil, false, err
	}
	data, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, scope string, entries []LeaderboardEntry) error {
	if c == nil || c.Client == nil {
		return nil
	}
	key, err := c.key(ctx, scope)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, data, c.TTL()).Err()
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Incr(ctx, leaderboardGenerationKey).Err()
}
