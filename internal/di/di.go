package di

import "github.com/defval/di"

const (
	ModuleSkinsystem = "skinsystem"
	ModuleApi        = "api"
)

func New() (*di.Container, error) {
	return di.New(
		configDiOptions,
		contextDiOptions,
		dispatcherDiOptions,
		loggerDiOptions,
		dbDiOptions,
		appearancesDiOptions,
		securityDiOptions,
		handlersDiOptions,
		serverDiOptions,
	)
}
