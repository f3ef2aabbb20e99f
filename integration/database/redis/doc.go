// Package redis provides Redis client initialization, health checking and a shared
// localstore.Store.
//
//   - Connect: validates the URL, pings with exponential retry inside ConnectTimeout
//   - Healthcheck: returns a probe for readiness endpoints
//   - LocalStore: browser local storage backed by plain string keys
//
// Sharing local storage through Redis lets several beacon instances serve tabs of the same
// visitor: the session blob and the returning-visitor flag are seen by all of them, with the
// same last-write-wins semantics a browser gives.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	shared := redis.NewLocalStore(client, cfg.KeyPrefix, cfg.KeyTTL)
//	tab := localstore.Prefixed(shared, "client:"+clientID+":")
//
// # Configuration
//
//	REDIS_URL              (required, default: redis://localhost:6379/0)
//	REDIS_RETRY_ATTEMPTS   (default: 3)
//	REDIS_RETRY_INTERVAL   (default: 5s)
//	REDIS_CONNECT_TIMEOUT  (default: 30s)
//	REDIS_KEY_PREFIX       (default: localstore:)
//	REDIS_KEY_TTL          (default: 720h)
//
// Both redis:// and rediss:// (TLS) schemes are accepted.
package redis
