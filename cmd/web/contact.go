package main

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	handlersPkg "luxesalon.cz/salon-web/internal/handlers"
	"luxesalon.cz/salon-web/internal/i18n"
	mw "luxesalon.cz/salon-web/internal/middleware"
	"luxesalon.cz/salon-web/internal/observability"
	"luxesalon.cz/salon-web/internal/sections"
)

const (
	contactFragment = "contact_form"
	// heldField carries an attachment from an earlier post of the form,
	// signed to the session; dropField asks to send without it.
	heldField = "attachment_held"
	dropField = "attachment_drop"
)

// heldAttachment is the content of heldField. FileID is empty when the
// file never reached the content API and has to be attached again.
type heldAttachment struct {
	FileID string
	Name   string
}

// contactSubmitHandler runs the contact workflow for one posted form. htmx
// requests get the form fragment back, plain posts the whole home page.
func (a *app) contactSubmitHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	logger := observability.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, a.maxContactBody())
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.contactTooLarge(w, r)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	fields := sections.ContactFields{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	}
	problems := map[string]string{}
	if email := strings.TrimSpace(fields.Email); email != "" && a.validate.Var(email, "email") != nil {
		problems["email"] = "email"
	}
	attachment, problem := a.attachmentFrom(r)
	if problem != "" {
		problems["attachment"] = problem
	}

	contact := sections.NewContact(a.content, a.contactOptions())
	contact.SetFields(fields)

	if held, ok := a.heldAttachment(r); ok {
		switch {
		case r.PostFormValue(dropField) != "" || attachment != nil:
			contact.DiscardUpload(r.Context(), held.FileID)
		case held.FileID != "":
			attachment = &sections.Attachment{FileName: held.Name, FileID: held.FileID}
		default:
			// Browsers do not resend files.
			attachment = &sections.Attachment{FileName: held.Name}
			if problem == "" {
				problems["attachment"] = "reattach"
			}
		}
	}
	contact.Attach(attachment)

	if err := contact.Validate(); err != nil || len(problems) > 0 {
		view := a.contactView(r, lang, contact.Snapshot(), problems)
		a.respondContact(w, r, lang, http.StatusUnprocessableEntity, view)
		return
	}

	if allowed, err := a.limiter.Allow(r.Context(), mw.ClientIP(r)); !allowed {
		logger.Info("contact: throttled", zap.String("remote_ip", mw.ClientIP(r)))
		view := a.contactView(r, lang, contact.Snapshot(), nil)
		view.Throttled = true
		view.Notice = a.bundle.T(lang, "contact.throttled")
		a.respondContact(w, r, lang, http.StatusTooManyRequests, view)
		return
	} else if err != nil {
		logger.Warn("contact: throttle check failed", zap.Error(err))
	}

	status := http.StatusOK
	switch err := contact.Submit(r.Context()); {
	case errors.Is(err, sections.ErrInvalid):
		status = http.StatusUnprocessableEntity
	case err != nil:
		status = http.StatusBadGateway
	}
	a.respondContact(w, r, lang, status, a.contactView(r, lang, contact.Snapshot(), nil))
}

// contactNewHandler hands out a blank form after a successful submission.
func (a *app) contactNewHandler(w http.ResponseWriter, r *http.Request) {
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/#contact", http.StatusSeeOther)
		return
	}
	lang := mw.Lang(r)
	a.respondContact(w, r, lang, http.StatusOK, a.freshContact(r))
}

// contactTooLarge answers a body over the upload cap with the form and a
// size error. It runs before the CSRF token could be read, so it must not
// submit anything.
func (a *app) contactTooLarge(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	view := a.contactView(r, lang, sections.ContactSnapshot{}, map[string]string{"attachment": "size"})
	a.respondContact(w, r, lang, http.StatusRequestEntityTooLarge, view)
}

// heldAttachment reads heldField. Tokens not signed for this session are ignored.
func (a *app) heldAttachment(r *http.Request) (heldAttachment, bool) {
	token := r.PostFormValue(heldField)
	if token == "" {
		return heldAttachment{}, false
	}
	value, ok := a.sessions.VerifyValue(r, token)
	if !ok {
		observability.FromContext(r.Context()).Warn("contact: rejected attachment reference")
		return heldAttachment{}, false
	}
	id, name, _ := strings.Cut(value, "\x1f")
	if strings.TrimSpace(name) == "" {
		return heldAttachment{}, false
	}
	return heldAttachment{FileID: id, Name: name}, true
}

func (a *app) freshContact(r *http.Request) handlersPkg.ContactView {
	return a.contactView(r, mw.Lang(r), sections.ContactSnapshot{}, nil)
}

func (a *app) contactView(r *http.Request, lang i18n.Language, snap sections.ContactSnapshot, problems map[string]string) handlersPkg.ContactView {
	view := handlersPkg.BuildContactView(snap, problems, lang, a.bundle)
	view.CSRFToken = mw.CSRFToken(r)
	view.MaxUpload = a.cfg.Contact.MaxUploadBytes
	if view.Attachment != "" {
		view.AttachmentRef = a.sessions.SignValue(r, snap.AttachmentFileID+"\x1f"+snap.Attachment)
	}
	return view
}

func (a *app) respondContact(w http.ResponseWriter, r *http.Request, lang i18n.Language, status int, view handlersPkg.ContactView) {
	if mw.IsHTMX(r.Context()) {
		data := handlersPkg.PageData{Lang: lang, LangCode: lang.Code(), CSRFToken: view.CSRFToken, Contact: &view}
		a.templates.renderFragment(w, r, contactFragment, status, data)
		return
	}
	vm := a.homePage(r, lang, view)
	a.templates.renderPage(w, r, "home", status, vm)
}

// attachmentFrom reads the optional "attachment" file. It reports "size"
// or "image" when the file is too large or not an image.
func (a *app) attachmentFrom(r *http.Request) (*sections.Attachment, string) {
	if r.MultipartForm == nil {
		return nil, ""
	}
	files := r.MultipartForm.File["attachment"]
	if len(files) == 0 || files[0] == nil || (files[0].Filename == "" && files[0].Size == 0) {
		return nil, ""
	}
	fh := files[0]
	if fh.Size > a.cfg.Contact.MaxUploadBytes {
		return nil, "size"
	}
	contentType, err := sniffContentType(fh)
	if err != nil || !strings.HasPrefix(contentType, "image/") {
		return nil, "image"
	}
	return &sections.Attachment{
		FileName:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, ""
}

func sniffContentType(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
