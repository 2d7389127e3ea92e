package categorization

import "go.uber.org/fx"

// Module exposes the categorization service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
