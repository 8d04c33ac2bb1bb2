package config

import (
	"github.com/tauraamui/pixrecord/internal/config"
	"github.com/tauraamui/pixrecord/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

type Creator interface {
	configdef.Creator
}

type Destroyer interface {
	configdef.Destroyer
}

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}
