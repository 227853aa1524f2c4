//go:build wireinject
// +build wireinject

package wire

import (
	"log/slog"

	"github.com/google/wire"

	"parallel/internal/api"
	"parallel/internal/common"
	"parallel/internal/config"
	"parallel/internal/dbmysql"
	"parallel/internal/diary"
	"parallel/internal/location"
	"parallel/internal/metrics"
	"parallel/internal/notif"
	"parallel/internal/relay"
)

var storageSet = wire.NewSet(
	ProvideDatabase,
	ProvideCipher,
	ProvideStore,
	dbmysql.NewReminderRepository,
	ProvideMongo,
	ProvideMediaStorage,
)

var transportSet = wire.NewSet(
	ProvideNATS,
	ProvideTransport,
	ProvideAckRouter,
	wire.Bind(new(api.PositionPublisher), new(*relay.Transport)),
)

var engineSet = wire.NewSet(
	ProvideClock,
	ProvideLocation,
	metrics.NewRecorder,
	wire.Bind(new(common.TransitionRecorder), new(*metrics.Recorder)),
	ProvideChatService,
	diary.NewDiaryService,
	location.NewLocationService,
	ProvideEventService,
	ProvideNotifier,
	wire.Bind(new(api.ReminderService), new(*notif.Service)),
)

func InitializeApplication(cfg *config.Config, logger *slog.Logger) (*Application, func(), error) {
	wire.Build(
		storageSet,
		transportSet,
		engineSet,
		wire.Struct(new(api.Deps), "*"),
		api.NewHandler,
		ProvideMediaServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
