// Package cache: Valkey(Redis) 기반 읽기 캐시.
// 캐시는 지연시간 최적화 수단일 뿐이며, 미설정/장애 시 모든 조회는 DB 직접 조회로 동작해야 한다.
package cache

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"log/slog"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/pkg/errors"
)

// Service: Valkey 클라이언트를 래핑하여 JSON 캐싱 기능을 제공하는 서비스
// nil *Service 수신자도 안전하게 동작한다. (캐시 미설정 환경)
type Service struct {
	client    valkey.Client
	logger    *slog.Logger
	closeOnce sync.Once
}

// Config: Valkey 연결 설정을 담는 구조체
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	DisableCache bool // 클라이언트 사이드 캐싱 비활성화 (miniredis 등 테스트 환경용)
}

// NewCacheService: 새로운 Valkey 캐시 서비스 인스턴스를 생성하고 연결을 수립한다.
func NewCacheService(cfg Config, logger *slog.Logger) (*Service, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		DisableCache:      cfg.DisableCache,
		ConnWriteTimeout:  constants.ValkeyConfig.ConnWriteTimeout,
		BlockingPoolSize:  constants.ValkeyConfig.BlockingPoolSize,
		PipelineMultiplex: constants.ValkeyConfig.PipelineMultiplex,
		Dialer:            net.Dialer{Timeout: constants.ValkeyConfig.DialTimeout},
	})
	if err != nil {
		return nil, errors.NewCacheError("init", "", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ValkeyConfig.ReadyTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, errors.NewCacheError("ping", "", err)
	}

	logger.Info("Cache store connected",
		slog.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		slog.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// Get: 키에 해당하는 값을 조회하고, 결과를 dest에 언마샬링한다.
// 키가 없거나 캐시가 비활성화된 경우 (false, nil)을 반환한다.
func (c *Service) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if valkey.IsValkeyNil(resp.Error()) {
		return false, nil
	}
	if resp.Error() != nil {
		c.logger.Warn("Cache get operation failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return false, errors.NewCacheError("get", key, resp.Error())
	}

	value, err := resp.ToString()
	if err != nil {
		return false, errors.NewCacheError("get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Warn("Cache value unmarshal failed", slog.String("key", key), slog.Any("error", err))
			return false, errors.NewCacheError("unmarshal", key, err)
		}
	}

	return true, nil
}

// Set: 값을 JSON으로 마샬링하여 키에 저장한다. (TTL 지정 가능)
func (c *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal", key, err)
	}

	var cmd valkey.Completed
	if ttl > 0 {
		cmd = c.client.B().Set().Key(key).Value(string(jsonData)).Ex(ttl).Build()
	} else {
		cmd = c.client.B().Set().Key(key).Value(string(jsonData)).Build()
	}

	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("Cache set operation failed", slog.String("key", key), slog.Any("error", err))
		return errors.NewCacheError("set", key, err)
	}

	return nil
}

// Delete: 키를 삭제한다. 존재하지 않는 키 삭제는 에러가 아니다.
func (c *Service) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	if err := c.client.Do(ctx, c.client.B().Del().Key(keys...).Build()).Error(); err != nil {
		c.logger.Warn("Cache delete operation failed", slog.Int("keys", len(keys)), slog.Any("error", err))
		return errors.NewCacheError("delete", keys[0], err)
	}

	return nil
}

// DeleteByPrefix: 접두사로 시작하는 모든 키를 SCAN으로 순회하며 삭제한다.
// 유저 통계 변경 시 "user:" 네임스페이스 전체 무효화에 사용된다.
func (c *Service) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c == nil || prefix == "" {
		return nil
	}

	pattern := prefix + "*"
	var cursor uint64
	for {
		resp := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if resp.Error() != nil {
			return errors.NewCacheError("scan", pattern, resp.Error())
		}

		entry, err := resp.AsScanEntry()
		if err != nil {
			return errors.NewCacheError("scan", pattern, err)
		}

		if len(entry.Elements) > 0 {
			if err := c.Delete(ctx, entry.Elements...); err != nil {
				return err
			}
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// Ping: 캐시 연결 상태를 확인한다.
func (c *Service) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.client.Do(ctx, c.client.B().Ping().Build()).Error(); err != nil {
		return errors.NewCacheError("ping", "", err)
	}
	return nil
}

// Close: 캐시 연결을 종료한다. 중복 호출에 안전하다.
func (c *Service) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.client.Close()
	})
	return nil
}
