package member

import "go.uber.org/fx"

// Module exposes the member service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
