package database

import (
	"context"
	"fmt"
	"time"

	"lumen/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache category.
const (
	// GENERAL_CACHE_INDEX holds miscellaneous short-lived values.
	GENERAL_CACHE_INDEX = iota

	// EVENTS_CACHE_INDEX carries the pub/sub event bus.
	EVENTS_CACHE_INDEX

	// CLIENT_API_CACHE_INDEX caches responses from external services such as the AI model.
	CLIENT_API_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Error("failed to initialize cache database", "reason", "address or port is empty")
	}

	initAddress := []string{fmt.Sprintf("%s:%d", address, port)}
	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&s.Cache.General, GENERAL_CACHE_INDEX, "general"},
		{&s.Cache.Events, EVENTS_CACHE_INDEX, "events"},
		{&s.Cache.ClientAPI, CLIENT_API_CACHE_INDEX, "client api"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: initAddress,
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, s.Cache)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client, dbName = cacheDB.General, "General"
	case EVENTS_CACHE_INDEX:
		client, dbName = cacheDB.Events, "Events"
	case CLIENT_API_CACHE_INDEX:
		client, dbName = cacheDB.ClientAPI, "ClientAPI"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
