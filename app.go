package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/annazecevic/music-service/config"
	"github.com/annazecevic/music-service/locker"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/repository"
	"github.com/annazecevic/music-service/service"
	"github.com/annazecevic/music-service/storage"
	"github.com/annazecevic/music-service/storage/hdfs"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// app holds the connections and services shared by every subcommand.
type app struct {
	cfg *config.Config

	mongo     *mongo.Client
	cassandra *gocql.Session
	redis     *redis.Client
	files     *hdfs.Client

	users   service.UserService
	subs    service.SubscriptionService
	social  service.SocialService
	reviews service.ReviewService
	content service.ContentService
	feed    service.FeedService
}

func loadConfig(consoleOnly bool) (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(logger.Config{
		ServiceName: "music-service",
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		HMACKey:     cfg.LogHMACKey,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
		ConsoleOnly: consoleOnly,
	})
	return cfg, nil
}

// newApp connects to MongoDB and, depending on configuration, Cassandra,
// Redis and HDFS. withStorage is false for commands that never touch files.
func newApp(ctx context.Context, cfg *config.Config, withStorage bool) (*app, error) {
	a := &app{cfg: cfg}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.mongo = client
	if err := client.Ping(connectCtx, nil); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Info(logger.EventDBConnection, "Connected to MongoDB successfully", logger.Fields(
		"database", cfg.MongoDatabase,
	))

	db := client.Database(cfg.MongoDatabase)
	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)

	followRepo, err := a.followRepository(db)
	if err != nil {
		a.Close()
		return nil, err
	}

	locks, err := a.locker()
	if err != nil {
		a.Close()
		return nil, err
	}

	var store storage.TrackStore = storage.Unavailable()
	if withStorage && cfg.HDFSNamenode != "" {
		files, err := hdfs.NewClient(cfg.HDFSNamenode, cfg.HDFSBaseDir)
		if err != nil {
			// uploads fail until restarted; metadata endpoints keep working
			logger.Error(logger.EventStorage, "HDFS unavailable, track uploads disabled", logger.Fields(
				"namenode", cfg.HDFSNamenode,
				"error", err.Error(),
			))
		} else {
			a.files = files
			store = files
			logger.Info(logger.EventStorage, "Connected to HDFS", logger.Fields("base_dir", cfg.HDFSBaseDir))
		}
	}

	a.users = service.NewUserService(userRepo)
	a.subs = service.NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		userRepo,
	)
	a.social = service.NewSocialService(userRepo, followRepo, playlistRepo, locks)
	a.reviews = service.NewReviewService(repository.NewReviewRepository(db), trackRepo, userRepo)
	a.content = service.NewContentService(trackRepo, playlistRepo, store)
	a.feed = service.NewFeedService(a.users, a.content, a.social, a.reviews, a.subs)
	return a, nil
}

func (a *app) followRepository(db *mongo.Database) (repository.FollowRepository, error) {
	if a.cfg.FollowStore != config.FollowStoreCassandra {
		return repository.NewFollowRepository(db), nil
	}

	cluster := gocql.NewCluster(a.cfg.CassandraHosts...)
	cluster.Keyspace = a.cfg.CassandraKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Cassandra: %w", err)
	}
	a.cassandra = session

	for _, stmt := range strings.Split(repository.FollowSchemaCQL, ";") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if err := session.Query(stmt).Exec(); err != nil {
			return nil, fmt.Errorf("failed to create follow tables: %w", err)
		}
	}

	logger.Info(logger.EventDBConnection, "Connected to Cassandra successfully", logger.Fields(
		"keyspace", a.cfg.CassandraKeyspace,
	))
	return repository.NewCassandraFollowRepository(session), nil
}

func (a *app) locker() (locker.Locker, error) {
	if a.cfg.RedisURL == "" {
		return locker.NewKeyedMutex(), nil
	}

	client, err := locker.NewRedisClient(a.cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.redis = client
	logger.Info(logger.EventDBConnection, "Using Redis for follow locks", nil)
	return locker.NewRedisLocker(client, a.cfg.LockTTL), nil
}

func (a *app) Close() {
	if a.files != nil {
		a.files.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.cassandra != nil {
		a.cassandra.Close()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(context.Background()); err != nil {
			logger.Error(logger.EventDBError, "Error disconnecting from MongoDB", logger.Fields("error", err.Error()))
		}
	}
}
