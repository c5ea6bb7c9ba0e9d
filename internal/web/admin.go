package web

import (
	"context"
	"net/http"
	"net/url"

	"github.com/accessdeck/webclient/internal/monitoring"
	"github.com/accessdeck/webclient/internal/notify"
	"github.com/accessdeck/webclient/internal/web/forms"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const adminRegion = "admin"

type adminFormValues struct {
	UserID     string
	Name       string
	Email      string
	Department string
}

type adminView struct {
	Info           *monitoring.SystemInfo
	Notice         notify.Notice
	CollectProfile bool
	Form           adminFormValues
	History        adminHistoryView
}

type adminHistoryView struct {
	// Info is only set on fragment requests; it carries the refreshed counters
	// that are swapped into the page header alongside the history tables.
	Info           *monitoring.SystemInfo
	CollectProfile bool
	Users          []monitoring.UserRecord
	Sessions       []monitoring.Session
}

// loadAdminHistory fetches the user list, the session list and the system
// counters. Every fetch is caught independently; a failure leaves its part of
// the view empty and adds a user-facing message instead of aborting the rest.
func (service *Service) loadAdminHistory(ctx context.Context) (adminHistoryView, []string) {
	view := adminHistoryView{CollectProfile: service.Config.CollectProfile}
	var failures []string

	users, err := service.Monitor.AccessHistory(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not load the access history")
		failures = append(failures, "Failed to load access history")
	} else {
		view.Users = users
	}

	sessions, err := service.Monitor.Sessions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not load the session list")
		failures = append(failures, "Failed to load session list")
	} else {
		view.Sessions = sessions
	}

	// Refreshing the history always refreshes the counters as well to keep
	// them consistent with the just-fetched list. Its failure is non-fatal.
	info, err := service.Monitor.SystemInfo(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not load the system info")
		failures = append(failures, "Failed to load system info")
	} else {
		view.Info = info
	}

	return view, failures
}

// EndpointAdminPanel handles the 'GET /admin' endpoint
func (service *Service) EndpointAdminPanel(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)

	history, failures := service.loadAdminHistory(request.Context())

	view := adminView{
		Info:           history.Info,
		Notice:         service.noticeFor(scope, adminRegion),
		CollectProfile: service.Config.CollectProfile,
		History:        history,
	}
	// The header renders the counters itself
	view.History.Info = nil

	if view.Notice.Text == "" && len(failures) > 0 {
		view.Notice = notify.Notice{Kind: notify.KindError, Text: failures[0]}
	}

	service.writer.WritePage(writer, http.StatusOK, "admin", view)
}

// EndpointAdminHistoryFragment handles the 'GET /admin/fragments/history' endpoint
func (service *Service) EndpointAdminHistoryFragment(writer http.ResponseWriter, request *http.Request) {
	history, _ := service.loadAdminHistory(request.Context())
	service.writer.WriteFragment(writer, "admin_history", history)
}

// EndpointAdminAddUser handles the 'POST /admin/users' endpoint.
// Local validation failures block the upstream request entirely and re-render
// the form with the entered values kept; everything else is decided upstream
// and its message surfaced verbatim.
func (service *Service) EndpointAdminAddUser(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)

	form := adminFormValues{
		UserID:     forms.Text(request, "userId"),
		Name:       forms.Text(request, "name"),
		Email:      forms.Text(request, "email"),
		Department: forms.Text(request, "department"),
	}

	if validationErr := service.validateAddUserForm(form); validationErr != nil {
		service.renderAdminValidationFailure(writer, request, form, validationErr.Message)
		return
	}

	record := monitoring.UserRecord{UserID: form.UserID}
	if service.Config.CollectProfile {
		record.Name = form.Name
		record.Email = form.Email
		record.Department = form.Department
	}

	result, err := service.Monitor.AddUser(request.Context(), record)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("could not add a user")
		service.postNotice(scope, adminRegion, notify.KindError, "Failed to add user, please try again")
	case !result.Success:
		service.postNotice(scope, adminRegion, notify.KindError, result.Message)
	default:
		service.postNotice(scope, adminRegion, notify.KindSuccess, result.Message)
	}

	http.Redirect(writer, request, "/admin", http.StatusSeeOther)
}

func (service *Service) validateAddUserForm(form adminFormValues) *forms.Error {
	if form.UserID == "" {
		return &forms.Error{Message: "Please enter user ID"}
	}
	if !service.Config.CollectProfile {
		return nil
	}
	if form.Name == "" {
		return &forms.Error{Message: "Please enter name"}
	}
	if form.Email == "" {
		return &forms.Error{Message: "Please enter email"}
	}
	if err := forms.Email(form.Email, "Please enter a valid email address"); err != nil {
		return err
	}
	if form.Department == "" {
		return &forms.Error{Message: "Please enter department"}
	}
	return nil
}

func (service *Service) renderAdminValidationFailure(writer http.ResponseWriter, request *http.Request, form adminFormValues, message string) {
	history, _ := service.loadAdminHistory(request.Context())
	view := adminView{
		Info:           history.Info,
		Notice:         notify.Notice{Kind: notify.KindError, Text: message},
		CollectProfile: service.Config.CollectProfile,
		Form:           form,
		History:        history,
	}
	view.History.Info = nil
	service.writer.WritePage(writer, http.StatusOK, "admin", view)
}

// EndpointAdminConfirmDelete handles the 'GET /admin/users/{id}/delete' endpoint.
// It renders the confirmation step holding the target identifier; the actual
// deletion only happens once the confirmation is posted back.
func (service *Service) EndpointAdminConfirmDelete(writer http.ResponseWriter, request *http.Request) {
	service.writer.WritePage(writer, http.StatusOK, "confirm_delete", struct {
		UserID string
	}{
		UserID: pathParam(request, "id"),
	})
}

// EndpointAdminDeleteUser handles the 'POST /admin/users/{id}/delete' endpoint
func (service *Service) EndpointAdminDeleteUser(writer http.ResponseWriter, request *http.Request) {
	scope := service.browserScope(writer, request)
	userID := pathParam(request, "id")

	result, err := service.Monitor.RemoveUser(request.Context(), userID)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("could not delete a user")
		service.postNotice(scope, adminRegion, notify.KindError, "Failed to delete user, please try again")
	case !result.Success:
		service.postNotice(scope, adminRegion, notify.KindError, result.Message)
	default:
		service.postNotice(scope, adminRegion, notify.KindSuccess, result.Message)
	}

	http.Redirect(writer, request, "/admin", http.StatusSeeOther)
}

// pathParam extracts an URL parameter, undoing its path escaping
func pathParam(request *http.Request, key string) string {
	raw := chi.URLParam(request, key)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}
