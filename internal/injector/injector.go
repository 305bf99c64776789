//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/arena/internal/config"
)

func InitializeServices(cfg *config.Config) (*Services, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
