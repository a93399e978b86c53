package farmer

import "go.uber.org/fx"

// Module provides the farmer dashboard service to Fx.
var Module = fx.Provide(NewService)
