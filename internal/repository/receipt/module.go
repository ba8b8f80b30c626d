package receipt

import "go.uber.org/fx"

// Module provides the receipt store to Fx.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(Store))),
)
