package components

import (
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewTravelerUseCase,
		commands.NewEntryUseCase,
		commands.NewSystemUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewEntryQueries,
		queries.NewWarningQueries,
		queries.NewSystemQueries,
	),
)
