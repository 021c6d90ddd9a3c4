package di

import (
	"errors"

	"github.com/defval/di"
	"github.com/spf13/viper"

	"ely.by/appearance/internal/dispatcher"
	"ely.by/appearance/internal/http"
	"ely.by/appearance/internal/security"
)

var securityDiOptions = di.Options(
	di.Provide(newAuthenticator, di.As(new(http.Authenticator))),
)

func newAuthenticator(config *viper.Viper, emitter dispatcher.Emitter) (*security.Jwt, error) {
	key := config.GetString("chrly.secret")
	if key == "" {
		return nil, errors.New("chrly.secret must be set in order to use authenticator")
	}

	return security.NewJwt([]byte(key), emitter), nil
}
