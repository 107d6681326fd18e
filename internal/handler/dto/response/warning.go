package response

import "entrypass-engine/internal/usecase/queries"

type WarningResponse = queries.WarningView

type SystemStatsResponse = queries.SystemStatsView
