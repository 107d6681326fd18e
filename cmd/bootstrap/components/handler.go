package components

import (
	"entrypass-engine/internal/handler"
	"entrypass-engine/internal/handler/api"
	"entrypass-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewTravelerHandler,
		api.NewEntryHandler,
		api.NewWarningHandler,
		api.NewSystemHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
