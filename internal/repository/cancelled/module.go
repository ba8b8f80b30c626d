package cancelled

import "go.uber.org/fx"

// Module provides the cancelled-order store to Fx.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(Store))),
)
