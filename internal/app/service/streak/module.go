package streak

import "go.uber.org/fx"

// Module exposes the streak service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
