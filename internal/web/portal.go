package web

import (
	"net/http"
	"time"

	"github.com/accessdeck/webclient/internal/lifecycle"
	"github.com/accessdeck/webclient/internal/monitoring"
	"github.com/accessdeck/webclient/internal/notify"
	"github.com/accessdeck/webclient/internal/web/forms"
	"github.com/rs/zerolog/log"
)

var cookieNamePortalSession = "portal_session"

type portalView struct {
	LoggedIn     bool
	Online       bool
	UserID       string
	CanAccess    bool
	CanLeave     bool
	LoginNotice  notify.Notice
	AccessNotice notify.Notice
	History      portalHistoryView
}

type portalHistoryView struct {
	Sessions []monitoring.UserSession
}

// portalStatus resolves the lifecycle status of the requesting browser out of
// its session cookie. A missing, unknown or expired session means LoggedOut.
func (service *Service) portalStatus(request *http.Request) (lifecycle.Status, string) {
	cookie, err := request.Cookie(cookieNamePortalSession)
	if err != nil || cookie.Value == "" {
		return lifecycle.Status{}, ""
	}

	ses, err := service.Sessions.GetByRawToken(request.Context(), cookie.Value)
	if err != nil {
		log.Error().Err(err).Msg("could not look up a portal session")
		return lifecycle.Status{}, ""
	}
	if ses == nil {
		return lifecycle.Status{}, ""
	}

	return lifecycle.Status{
		UserID: ses.UserID,
		Online: ses.Online,
	}, cookie.Value
}

// storeStatus persists a new lifecycle status for the requesting browser,
// creating a fresh session (and cookie) if it does not hold one yet
func (service *Service) storeStatus(writer http.ResponseWriter, request *http.Request, rawToken string, status lifecycle.Status) {
	ctx := request.Context()

	if rawToken != "" {
		if err := service.Sessions.Update(ctx, rawToken, status.UserID, status.Online); err != nil {
			log.Error().Err(err).Msg("could not update a portal session")
		}
		return
	}

	newToken, err := service.Sessions.Create(ctx, status.UserID, status.Online, time.Now().Add(sessionLifetime).Unix())
	if err != nil {
		log.Error().Err(err).Msg("could not create a portal session")
		return
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNamePortalSession,
		Value:    newToken,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// EndpointPortal handles the 'GET /portal' endpoint
func (service *Service) EndpointPortal(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)
	status, _ := service.portalStatus(request)

	view := portalView{
		LoggedIn:     status.State() != lifecycle.StateLoggedOut,
		Online:       status.Online,
		UserID:       status.UserID,
		CanAccess:    status.State() == lifecycle.StateOffline,
		CanLeave:     status.State() == lifecycle.StateOnline,
		LoginNotice:  service.noticeFor(scope, string(lifecycle.ScopeLogin)),
		AccessNotice: service.noticeFor(scope, string(lifecycle.ScopeAccess)),
	}

	if view.LoggedIn {
		view.History = service.loadPortalHistory(request, status.UserID)
	}

	service.writer.WritePage(writer, http.StatusOK, "portal", view)
}

// loadPortalHistory fetches the session history of the current user.
// A failure only leaves a console diagnostic; the history simply stays empty.
func (service *Service) loadPortalHistory(request *http.Request, userID string) portalHistoryView {
	sessions, err := service.Monitor.UserSessions(request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("could not load the user session history")
		return portalHistoryView{}
	}
	return portalHistoryView{Sessions: sessions}
}

// EndpointPortalHistoryFragment handles the 'GET /portal/fragments/history' endpoint
func (service *Service) EndpointPortalHistoryFragment(writer http.ResponseWriter, request *http.Request) {
	status, _ := service.portalStatus(request)

	view := portalHistoryView{}
	if status.State() != lifecycle.StateLoggedOut {
		view = service.loadPortalHistory(request, status.UserID)
	}
	service.writer.WriteFragment(writer, "portal_history", view)
}

// EndpointPortalLogin handles the 'POST /portal/login' endpoint
func (service *Service) EndpointPortalLogin(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)

	username, validationErr := forms.RequireText(request, "username", "Please enter username")
	if validationErr != nil {
		service.postNotice(scope, string(lifecycle.ScopeLogin), notify.KindError, validationErr.Message)
		http.Redirect(writer, request, "/portal", http.StatusSeeOther)
		return
	}

	status, rawToken := service.portalStatus(request)
	next, notice, transitioned := service.machine.Login(request.Context(), status, username)
	service.applyTransition(writer, request, scope, rawToken, next, notice, transitioned)
}

// EndpointPortalAccess handles the 'POST /portal/access' endpoint
func (service *Service) EndpointPortalAccess(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)
	status, rawToken := service.portalStatus(request)
	next, notice, transitioned := service.machine.Access(request.Context(), status)
	service.applyTransition(writer, request, scope, rawToken, next, notice, transitioned)
}

// EndpointPortalLeave handles the 'POST /portal/leave' endpoint
func (service *Service) EndpointPortalLeave(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)
	status, rawToken := service.portalStatus(request)
	next, notice, transitioned := service.machine.Leave(request.Context(), status)
	service.applyTransition(writer, request, scope, rawToken, next, notice, transitioned)
}

// applyTransition persists the outcome of a lifecycle action, posts its notice
// into the right message region and redirects back to the portal page, whose
// render then reloads the session history.
func (service *Service) applyTransition(writer http.ResponseWriter, request *http.Request, scope, rawToken string, next lifecycle.Status, notice lifecycle.Notice, transitioned bool) {
	if transitioned {
		service.storeStatus(writer, request, rawToken, next)
	}
	service.postNotice(scope, string(notice.Scope), notify.Kind(notice.Kind), notice.Text)

	http.Redirect(writer, request, "/portal", http.StatusSeeOther)
}
