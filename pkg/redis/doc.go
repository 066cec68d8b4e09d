// Package redis connects to a Redis server with startup retries and exposes
// a health check closure. The client backs the distributed rate limit store
// in pkg/guard.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
