package bootstrap

import (
	"bookstore-backoffice/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	JWTModule,
	LimiterModule,
	BrokerModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
