package di

import (
	"github.com/defval/di"

	"ely.by/appearance/internal/appearances"
	"ely.by/appearance/internal/dispatcher"
	. "ely.by/appearance/internal/http"
)

var appearancesDiOptions = di.Options(
	di.Provide(newAppearancesManager,
		di.As(new(AppearancesManager)),
		di.As(new(AppearancesProvider)),
	),
)

func newAppearancesManager(r appearances.AppearancesRepository, emitter dispatcher.Emitter) *appearances.Manager {
	return appearances.NewManager(r, emitter)
}
