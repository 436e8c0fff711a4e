package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var (
	client    *redis.Client
	keyPrefix string
)

// Options configures the shared client
type Options struct {
	URL      string
	Password string
	PoolSize int
	// KeyPrefix namespaces every key written through this package.
	KeyPrefix string
}

// Init connects the shared client and verifies it with a ping
func Init(opts Options) error {
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return err
	}
	if opts.Password != "" {
		redisOpts.Password = opts.Password
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}

	c := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return err
	}

	client = c
	keyPrefix = opts.KeyPrefix
	return nil
}

// SetClient swaps the shared client and clears the key prefix. Used by tests.
func SetClient(c *redis.Client) {
	client = c
	keyPrefix = ""
}

// GetClient returns the shared client
func GetClient() *redis.Client {
	return client
}

// Close releases the client connection pool
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	keyPrefix = ""
	return err
}

// IsNil reports whether err means the key does not exist
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func namespaced(key string) string {
	return keyPrefix + key
}

// Set stores value under key with a TTL. A zero ttl keeps the key forever.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return client.Set(ctx, namespaced(key), value, ttl).Err()
}

// Get returns the string stored under key. Missing keys yield an error matched by IsNil.
func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, namespaced(key)).Result()
}

func Del(ctx context.Context, key string) error {
	return client.Del(ctx, namespaced(key)).Err()
}

var compareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CompareAndDelete removes key only if it currently holds value. The check and
// the delete run as one script, so concurrent callers cannot both succeed.
func CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, client, []string{namespaced(key)}, value).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetNX stores value only when key is absent and reports whether it did.
func SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	return client.SetNX(ctx, namespaced(key), value, ttl).Result()
}
