package service

import (
	"mindleap_backend/internal/util"
	"sync"
	"time"
)

// Calendar 统一“今天”的定义：所有日期按同一时区计算
type Calendar struct {
	mu  sync.RWMutex
	loc *time.Location
	now func() time.Time
}

func NewCalendar(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, now: now}
}

func (c *Calendar) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loc
}

// SetLocation 配置热更新时调用
func (c *Calendar) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	c.mu.Lock()
	c.loc = loc
	c.mu.Unlock()
}

func (c *Calendar) Now() time.Time {
	return c.now().In(c.Location())
}

// Today 今天零点
func (c *Calendar) Today() time.Time {
	return util.StartOfDay(c.now(), c.Location())
}

func (c *Calendar) TodayKey() string {
	return util.DayKey(c.now(), c.Location())
}

func (c *Calendar) Parse(day string) (time.Time, error) {
	return util.ParseDay(day, c.Location())
}

func (c *Calendar) Key(t time.Time) string {
	return util.DayKey(t, c.Location())
}
