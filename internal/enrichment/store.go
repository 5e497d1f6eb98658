// internal/enrichment/store.go
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists entries per provider namespace. Get returns nil, nil on a miss.
type Store interface {
	Get(ctx context.Context, provider, itemID string) (*Entry, error)
	GetMany(ctx context.Context, provider string, itemIDs []string) (map[string]*Entry, error)
	Put(ctx context.Context, entry *Entry) error
	DeleteExpired(ctx context.Context, provider string, now time.Time) (int, error)
	Purge(ctx context.Context, provider string) (int, error)
}

const scanBatch = 200

// RedisStore keeps each entry as a JSON string at enrich:<provider>:<itemId>. Entries with an
// expiry are also indexed in a sorted set scored by expiry time, which the sweep reads.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func entryKey(provider, itemID string) string {
	return "enrich:" + provider + ":" + itemID
}

func expiryKey(provider string) string {
	return "enrich-expiry:" + provider
}

func (s *RedisStore) Get(ctx context.Context, provider, itemID string) (*Entry, error) {
	val, err := s.client.Get(ctx, entryKey(provider, itemID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s/%s: %w", provider, itemID, err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("decode entry %s/%s: %w", provider, itemID, err)
	}
	return &entry, nil
}

// GetMany reads every id with a single MGET. Missing or undecodable entries are left out.
func (s *RedisStore) GetMany(ctx context.Context, provider string, itemIDs []string) (map[string]*Entry, error) {
	out := make(map[string]*Entry, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = entryKey(provider, id)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget entries %s: %w", provider, err)
	}

	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			continue
		}
		out[itemIDs[i]] = &entry
	}
	return out, nil
}

func (s *RedisStore) Put(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry %s/%s: %w", entry.Provider, entry.ItemID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey(entry.Provider, entry.ItemID), data, 0)
		if entry.ExpiresAt != nil {
			pipe.ZAdd(ctx, expiryKey(entry.Provider), redis.Z{
				Score:  float64(entry.ExpiresAt.UnixMilli()),
				Member: entry.ItemID,
			})
		} else {
			pipe.ZRem(ctx, expiryKey(entry.Provider), entry.ItemID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put entry %s/%s: %w", entry.Provider, entry.ItemID, err)
	}
	return nil
}

// deleteExpiredScript reads the due members of the expiry index and deletes them in one step, so
// an entry rewritten with a later expiry between the read and the delete is never removed.
var deleteExpiredScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local deleted = 0
for _, id in ipairs(ids) do
  deleted = deleted + redis.call('DEL', ARGV[2] .. id)
  redis.call('ZREM', KEYS[1], id)
end
return deleted
`)

func (s *RedisStore) DeleteExpired(ctx context.Context, provider string, now time.Time) (int, error) {
	n, err := deleteExpiredScript.Run(ctx, s.client,
		[]string{expiryKey(provider)},
		strconv.FormatInt(now.UnixMilli(), 10), entryKey(provider, ""),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("delete expired entries %s: %w", provider, err)
	}
	return n, nil
}

// Purge removes every entry of the provider namespace along with its expiry index.
func (s *RedisStore) Purge(ctx context.Context, provider string) (int, error) {
	var (
		deleted int
		batch   []string
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	iter := s.client.Scan(ctx, 0, entryKey(provider, "*"), scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= scanBatch {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("purge %s: %w", provider, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scan %s: %w", provider, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("purge %s: %w", provider, err)
	}

	if err := s.client.Del(ctx, expiryKey(provider)).Err(); err != nil {
		return deleted, fmt.Errorf("purge expiry index %s: %w", provider, err)
	}
	return deleted, nil
}
