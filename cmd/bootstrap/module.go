package bootstrap

import (
	"entrypass-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	EngineModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
