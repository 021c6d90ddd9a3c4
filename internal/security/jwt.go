package security

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/SermoDigital/jose/crypto"
	"github.com/SermoDigital/jose/jws"

	"ely.by/appearance/internal/dispatcher"
)

var now = time.Now
var hashAlg = crypto.SigningMethodHS256

const scopesClaim = "scopes"

type Scope string

const (
	AppearanceScope Scope = "appearance"
)

var validScopes = []Scope{
	AppearanceScope,
}

var (
	MissingAuthenticationError = errors.New("authentication value not provided")
	InvalidTokenError          = errors.New("passed authentication value is invalid")
	InsufficientScopeError     = errors.New("the token doesn't have the scope to perform the action")
)

func NewJwt(key []byte, emitter dispatcher.Emitter) *Jwt {
	return &Jwt{
		Key:     key,
		Emitter: emitter,
	}
}

type Jwt struct {
	dispatcher.Emitter
	Key []byte
}

func (t *Jwt) NewToken(scopes ...Scope) ([]byte, error) {
	if len(t.Key) == 0 {
		return nil, errors.New("signing key not available")
	}

	if len(scopes) == 0 {
		return nil, errors.New("you must specify at least one scope")
	}

	for _, scope := range scopes {
		if !slices.Contains(validScopes, scope) {
			return nil, fmt.Errorf("unknown scope %s", scope)
		}
	}

	claims := jws.Claims{}
	claims.Set(scopesClaim, scopes)
	claims.SetIssuer("appearance")
	claims.SetIssuedAt(now())

	return jws.NewJWT(claims, hashAlg).Serialize(t.Key)
}

func (t *Jwt) Authenticate(req *http.Request) error {
	return t.AuthenticateScope(req, AppearanceScope)
}

func (t *Jwt) AuthenticateScope(req *http.Request, scope Scope) error {
	if len(t.Key) == 0 {
		return t.emitErr(errors.New("signing key not set"))
	}

	bearerToken := req.Header.Get("Authorization")
	if bearerToken == "" {
		return t.emitErr(MissingAuthenticationError)
	}

	if !strings.HasPrefix(strings.ToLower(bearerToken), "bearer ") {
		return t.emitErr(InvalidTokenError)
	}

	tokenStr := bearerToken[7:] // trim "bearer " part
	token, err := jws.ParseJWT([]byte(tokenStr))
	if err != nil {
		return t.emitErr(fmt.Errorf("%w: %w", InvalidTokenError, err))
	}

	err = token.Validate(t.Key, hashAlg)
	if err != nil {
		return t.emitErr(fmt.Errorf("%w: %w", InvalidTokenError, err))
	}

	if !hasScope(token.Claims().Get(scopesClaim), scope) {
		return t.emitErr(InsufficientScopeError)
	}

	t.Emit(dispatcher.AuthenticationSuccess)

	return nil
}

func (t *Jwt) emitErr(err error) error {
	t.Emit(dispatcher.AuthenticationError, err)
	return err
}

// The claim may arrive either as a single string or as a list
func hasScope(claim interface{}, scope Scope) bool {
	switch value := claim.(type) {
	case string:
		return Scope(value) == scope
	case []interface{}:
		for _, item := range value {
			if str, ok := item.(string); ok && Scope(str) == scope {
				return true
			}
		}
	case []string:
		return slices.Contains(value, string(scope))
	}

	return false
}
