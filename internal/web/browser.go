package web

import (
	"net/http"

	"github.com/accessdeck/webclient/internal/notify"
	"github.com/google/uuid"
)

var cookieNameBrowserID = "browser_id"

// browserScope returns the stable identifier of the requesting browser that
// transient notices are scoped by, assigning a fresh one on first contact
func (service *Service) browserScope(writer http.ResponseWriter, request *http.Request) string {
	if cookie, err := request.Cookie(cookieNameBrowserID); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameBrowserID,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// noticeFor returns the active notice of the given message region of a
// browser. Reading a notice does not consume it; it stays until it expires.
func (service *Service) noticeFor(scope, region string) notify.Notice {
	notice, _ := service.Notices.Get(scope + ":" + region)
	return notice
}

// postNotice places a transient notice into one message region of one browser
func (service *Service) postNotice(scope, region string, kind notify.Kind, text string) {
	service.Notices.Post(scope+":"+region, kind, text)
}
