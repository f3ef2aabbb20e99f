// Package mongo provides MongoDB client initialization, health checking and a
// recordstore.Store where each table is a collection.
//
// New and NewWithDatabase retry the initial ping to ride out Atlas cold starts (5-8 seconds)
// and brief network interruptions.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//		return err
//	}
//	store := mongo.NewRecordStore(db)
//
// Updates use $set on every matching document. Select drops the driver-assigned _id and
// returns dates as time.Time.
//
// # Configuration
//
//	MONGODB_URL                 (required)
//	MONGODB_DATABASE            (default: analytics)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
package mongo
