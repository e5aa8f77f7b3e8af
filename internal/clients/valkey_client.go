package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_QUOTA_KEY_PREFIX = "youtube:quota:"

// YouTube resets the daily quota at midnight Pacific time.
var quotaLocation = loadQuotaLocation()

func loadQuotaLocation() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.UTC
	}
	return loc
}

type ValkeyClient struct {
	Client valkey.Client
}

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

func NewValkeyClient(ctx context.Context, opts ValkeyOptions) (*ValkeyClient, error) {
	clientOpts := valkey.ClientOption{
		InitAddress: []string{
			opts.Address,
		},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return &ValkeyClient{Client: client}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

// reserveScript books units and rolls them back when the day's total would
// exceed the limit, in one atomic step. Returns 1 when booked, 0 otherwise.
var reserveScript = valkey.NewLuaScript(`
local used = redis.call('INCRBY', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[3])
local limit = tonumber(ARGV[2])
if limit > 0 and used > limit then
  redis.call('DECRBY', KEYS[1], ARGV[1])
  return 0
end
return 1
`)

const VALKEY_QUOTA_TTL = 48 * time.Hour

type reserveFunc func(ctx context.Context, key string, units, limit int64) (int64, error)

// ValkeyQuota shares the daily YouTube quota count between runs and machines
// using the same API key.
type ValkeyQuota struct {
	vc      *ValkeyClient
	limit   int64
	now     func() time.Time
	reserve reserveFunc
}

func NewValkeyQuota(vc *ValkeyClient, limit int64) *ValkeyQuota {
	q := &ValkeyQuota{vc: vc, limit: limit, now: time.Now}
	q.reserve = q.runReserveScript
	return q
}

func quotaKey(day time.Time) string {
	return VALKEY_QUOTA_KEY_PREFIX + day.Format("2006-01-02")
}

func (q *ValkeyQuota) key() string {
	return quotaKey(q.now().In(quotaLocation))
}

func reserveArgs(units, limit int64) []string {
	return []string{
		strconv.FormatInt(units, 10),
		strconv.FormatInt(limit, 10),
		strconv.FormatInt(int64(VALKEY_QUOTA_TTL.Seconds()), 10),
	}
}

func (q *ValkeyQuota) runReserveScript(ctx context.Context, key string, units, limit int64) (int64, error) {
	return reserveScript.Exec(ctx, q.vc.Client, []string{key}, reserveArgs(units, limit)).AsInt64()
}

// Reserve sends the booking once. The increment is not idempotent, so a
// failure is reported instead of resent.
func (q *ValkeyQuota) Reserve(ctx context.Context, units int64) (bool, error) {
	key := q.key()
	booked, err := q.reserve(ctx, key, units, q.limit)
	if err != nil {
		return false, fmt.Errorf("[ValkeyQuota] failed to book quota: %w", err)
	}
	if booked == 0 {
		slog.Debug("[ValkeyQuota] Daily quota exhausted", slog.String("key", key))
		return false, nil
	}
	return true, nil
}

func (q *ValkeyQuota) Used(ctx context.Context) (int64, error) {
	res := q.vc.DoWithRetry(ctx, q.vc.Client.B().Get().Key(q.key()).Build(), 3)
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("[ValkeyQuota] failed to read quota: %w", err)
	}
	return res.AsInt64()
}
