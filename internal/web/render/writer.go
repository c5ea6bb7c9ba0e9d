package render

import (
	"bytes"
	"net/http"
)

// Writer helps writing unified HTML responses
type Writer struct {
	Renderer          *Renderer
	InternalErrorHook func(err error)
}

// WritePage renders a full page template to the given response writer using the given HTTP status code
func (writer *Writer) WritePage(rw http.ResponseWriter, code int, page string, data any) {
	tmpl, ok := writer.Renderer.pages[page]
	if !ok {
		writer.WriteInternalError(rw, errUnknownTemplate(page))
		return
	}

	// Render into a buffer first so a template error never produces a half-written page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.gohtml", data); err != nil {
		writer.WriteInternalError(rw, err)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(code)
	rw.Write(buf.Bytes())
}

// WriteFragment renders a named fragment template to the given response writer
func (writer *Writer) WriteFragment(rw http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := writer.Renderer.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		writer.WriteInternalError(rw, err)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Write(buf.Bytes())
}

// WriteErrorPage renders the generic error page
func (writer *Writer) WriteErrorPage(rw http.ResponseWriter, code int, message string) {
	writer.WritePage(rw, code, "error", struct {
		Status  int
		Message string
	}{
		Status:  code,
		Message: message,
	})
}

// WriteInternalError processes an internal error and writes a plain 500 response.
// The error page itself is not used here as the failure may well be a template one.
func (writer *Writer) WriteInternalError(rw http.ResponseWriter, err error) {
	if writer.InternalErrorHook != nil {
		writer.InternalErrorHook(err)
	}
	http.Error(rw, "internal error", http.StatusInternalServerError)
}

type errUnknownTemplate string

func (err errUnknownTemplate) Error() string {
	return "unknown page template " + string(err)
}
