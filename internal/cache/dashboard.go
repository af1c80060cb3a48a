// Package cache 在 redis 中缓存仪表盘摘要，摘要使用 CBOR 编码。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: 无法初始化 CBOR 编码器: " + err.Error())
	}
}

// 每个组织只缓存一份摘要，Date 与请求日期不同视为未命中
type entry struct {
	Date    string                  `cbor:"1,keyasint"`
	Summary domain.DashboardSummary `cbor:"2,keyasint"`
}

type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func key(orgID string) string {
	return fmt.Sprintf("dashboard_summary_%s", orgID)
}

func (c *DashboardCache) Get(ctx context.Context, orgID, date string) (*domain.DashboardSummary, bool, error) {
	data, err := c.rdb.Get(ctx, key(orgID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return decode(data, date)
}

func (c *DashboardCache) Set(ctx context.Context, orgID, date string, summary *domain.DashboardSummary) error {
	data, err := encode(date, summary)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(orgID), data, c.ttl).Err()
}

// Invalidate 在班次、排班或请假发生变化后调用。
// 与并发的 Set 之间没有顺序保证，旧摘要最多保留 ttl
func (c *DashboardCache) Invalidate(ctx context.Context, orgID string) error {
	return c.rdb.Del(ctx, key(orgID)).Err()
}

func encode(date string, summary *domain.DashboardSummary) ([]byte, error) {
	return encMode.Marshal(entry{Date: date, Summary: *summary})
}

func decode(data []byte, date string) (*domain.DashboardSummary, bool, error) {
	var e entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, false, err
	}
	if e.Date != date {
		return nil, false, nil
	}
	if e.Summary.OvertimeRisks == nil {
		e.Summary.OvertimeRisks = []domain.OvertimeRisk{}
	}
	return &e.Summary, true, nil
}
