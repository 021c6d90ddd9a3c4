package eventsubscribers

import (
	"net/http"
	"strings"

	"github.com/mono83/slf"
	"github.com/mono83/slf/wd"

	"ely.by/appearance/internal/dispatcher"
)

type Logger struct {
	slf.Logger
}

func (l *Logger) ConfigureWithDispatcher(d dispatcher.Subscriber) {
	d.Subscribe(dispatcher.AfterRequest, l.handleAfterSkinsystemRequest)
	d.Subscribe(dispatcher.AuthenticationError, l.handleAuthenticationError)
	d.Subscribe(dispatcher.AppearancePersisted, l.handleAppearancePersisted)
	d.Subscribe(dispatcher.AppearanceRemoved, l.handleAppearanceRemoved)
	d.Subscribe(dispatcher.AppearanceRejected, l.handleAppearanceRejected)
}

func (l *Logger) handleAfterSkinsystemRequest(req *http.Request, statusCode int) {
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path += "?" + req.URL.RawQuery
	}

	l.Info(
		":ip - - \":method :path\" :statusCode - \":userAgent\" \":forwardedIp\"",
		wd.StringParam("ip", trimPort(req.RemoteAddr)),
		wd.StringParam("method", req.Method),
		wd.StringParam("path", path),
		wd.IntParam("statusCode", statusCode),
		wd.StringParam("userAgent", req.UserAgent()),
		wd.StringParam("forwardedIp", req.Header.Get("X-Forwarded-For")),
	)
}

func (l *Logger) handleAuthenticationError(err error) {
	l.Debug("Authentication failed: :err", wd.ErrParam(err))
}

func (l *Logger) handleAppearancePersisted(uuid string) {
	l.Info("Appearance for :uuid has been persisted", wd.StringParam("uuid", uuid))
}

func (l *Logger) handleAppearanceRemoved(uuid string) {
	l.Info("Appearance for :uuid has been removed", wd.StringParam("uuid", uuid))
}

func (l *Logger) handleAppearanceRejected(uuid string, err error) {
	l.Debug("Appearance for :uuid was rejected: :err", wd.StringParam("uuid", uuid), wd.ErrParam(err))
}

func trimPort(ip string) string {
	// Don't care about possible -1 result because in this case there will be a nil string
	cutTo := strings.LastIndexByte(ip, ':')
	if cutTo == -1 {
		return ip
	}

	return ip[0:cutTo]
}
