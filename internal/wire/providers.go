// Package wire assembles the serve command's object graph.
package wire

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"parallel/internal/api"
	"parallel/internal/calendar"
	chat "parallel/internal/chat/service"
	"parallel/internal/common"
	"parallel/internal/config"
	"parallel/internal/dbmongo"
	"parallel/internal/dbmysql"
	"parallel/internal/media"
	"parallel/internal/notif"
	"parallel/internal/relay"
)

// Application is everything the serve command runs.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	API      *api.Handler
	Media    *media.HTTPServer
	Acks     *relay.AckRouter
	Notifier *notif.Service
}

func ProvideDatabase(cfg *config.Config, logger *slog.Logger) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := dbmysql.Close(db); err != nil {
			logger.Warn("failed to close MySQL", "error", err)
		}
	}
	return db, cleanup, nil
}

func ProvideCipher(cfg *config.Config) (*common.MessageCipher, error) {
	return common.NewMessageCipher(cfg.Crypto.MessageKey)
}

func ProvideStore(db *gorm.DB, cipher *common.MessageCipher) common.RelationshipStore {
	return dbmysql.NewStore(db, cipher)
}

func ProvideMongo(cfg *config.Config, logger *slog.Logger) (*dbmongo.MongoClient, func(), error) {
	client, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			logger.Warn("failed to close MongoDB", "error", err)
		}
	}
	return client, cleanup, nil
}

func ProvideMediaStorage(cfg *config.Config, client *dbmongo.MongoClient, logger *slog.Logger) *dbmongo.MediaStorage {
	return dbmongo.NewMediaStorage(client.GridFS, cfg.Server.MediaBaseURL, logger)
}

func ProvideNATS(cfg *config.Config) (*nats.Conn, func(), error) {
	conn, err := relay.Connect(cfg.NATS.URL, "parallel")
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { _ = conn.Drain() }, nil
}

func ProvideTransport(cfg *config.Config, conn *nats.Conn, logger *slog.Logger) (*relay.Transport, func()) {
	t := relay.NewTransport(conn, cfg.NATS.SubjectPrefix, logger)
	return t, func() { _ = t.Close() }
}

func ProvideClock() common.Clock {
	return common.SystemClock
}

func ProvideLocation(cfg *config.Config) *time.Location {
	return cfg.Location()
}

func ProvideChatService(
	store common.RelationshipStore,
	transport *relay.Transport,
	uploader *dbmongo.MediaStorage,
	clock common.Clock,
	recorder common.TransitionRecorder,
	logger *slog.Logger,
) chat.ChatService {
	return chat.NewChatService(store, transport,
		chat.WithUploader(uploader),
		chat.WithClock(clock),
		chat.WithRecorder(recorder),
		chat.WithLogger(logger),
	)
}

func ProvideEventService(store common.RelationshipStore, loc *time.Location, clock common.Clock, logger *slog.Logger) calendar.EventService {
	return calendar.NewEventService(store, calendar.NewScheduler(loc), clock, logger)
}

// ProvideAckRouter subscribes chat to transport acknowledgements.
func ProvideAckRouter(svc chat.ChatService, transport *relay.Transport, logger *slog.Logger) (*relay.AckRouter, error) {
	router := relay.NewAckRouter(svc, logger)
	if err := router.Start(transport); err != nil {
		return nil, err
	}
	return router, nil
}

func ProvideNotifier(
	cfg *config.Config,
	repo common.ReminderRepository,
	conn *nats.Conn,
	clock common.Clock,
	logger *slog.Logger,
) (*notif.Service, func()) {
	manager := notif.NewNotificationManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize, logger)
	manager.Subscribe(notif.NewLogObserver(logger))
	manager.Subscribe(notif.NewPushObserver(conn, cfg.NATS.SubjectPrefix))

	interval := time.Duration(cfg.Notification.ScheduledCheckInterval) * time.Second
	svc := notif.NewService(manager, repo, clock, interval, logger)
	return svc, svc.Shutdown
}

func ProvideMediaServer(storage *dbmongo.MediaStorage, logger *slog.Logger) *media.HTTPServer {
	return media.NewHTTPServer(storage, logger)
}
