package sections

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/observability"
)

var (
	// ErrInvalid means a required field is empty; nothing was sent.
	ErrInvalid = errors.New("contact: invalid fields")
	// ErrBusy means a submission is already in flight.
	ErrBusy = errors.New("contact: submission in progress")
	// ErrNotReady means the previous submission succeeded and Reset was not called.
	ErrNotReady = errors.New("contact: reset before submitting again")
)

// DefaultLeadsCollection receives contact leads.
const DefaultLeadsCollection = "contact_messages"

// LeadClient is the content write surface the workflow needs.
type LeadClient interface {
	UploadFile(ctx context.Context, up cms.Upload, folder string) (string, error)
	CreateRecord(ctx context.Context, collection string, fields map[string]any) (cms.Record, error)
	DeleteFile(ctx context.Context, id string) error
}

// ContactFields is the form content.
type ContactFields struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required"`
	Phone   string `form:"phone"`
	Message string `form:"message" validate:"required"`
}

func (f ContactFields) trimmed() ContactFields {
	return ContactFields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(f.Message),
	}
}

// Attachment is the optional file. Open is called once per upload attempt.
// A non-empty FileID names a file the content API already stores; Submit
// references it instead of uploading again.
type Attachment struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
	FileID      string
}

// SubmitState is the contact workflow lifecycle.
type SubmitState uint8

const (
	SubmitIdle SubmitState = iota
	Submitting
	SubmitSuccess
	SubmitFailed
)

func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case Submitting:
		return "submitting"
	case SubmitSuccess:
		return "success"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ContactOptions configure where leads go.
type ContactOptions struct {
	Collection string // defaults to DefaultLeadsCollection
	Subject    string
	Folder     string // file library folder for attachments
}

// Contact runs one form's submissions.
type Contact struct {
	client   LeadClient
	opts     ContactOptions
	validate *validator.Validate

	mu         sync.Mutex
	state      SubmitState
	fields     ContactFields
	attachment *Attachment
	fieldErrs  map[string]string
	err        error
	lastID     string
}

// ContactSnapshot is the rendered view of Contact.
type ContactSnapshot struct {
	State        SubmitState
	Fields       ContactFields
	Attachment   string // file name of the pending attachment
	// AttachmentFileID is set when the pending attachment is already stored
	// and only the lead is missing.
	AttachmentFileID string
	FieldErrors  map[string]string
	Err          error
	SubmissionID string
}

func NewContact(client LeadClient, opts ContactOptions) *Contact {
	if strings.TrimSpace(opts.Collection) == "" {
		opts.Collection = DefaultLeadsCollection
	}
	return &Contact{client: client, opts: opts, validate: newFieldValidator()}
}

func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return v
}

// SetFields replaces the form content. It is ignored while submitting.
func (c *Contact) SetFields(f ContactFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return
	}
	c.fields = f
}

// Attach sets or, with nil, clears the attachment.
func (c *Contact) Attach(a *Attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return
	}
	c.attachment = a
}

// Validate checks the required fields without sending anything. Field
// errors show up in Snapshot.
func (c *Contact) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fieldErrs = c.check(c.fields.trimmed())
	if len(c.fieldErrs) > 0 {
		return ErrInvalid
	}
	return nil
}

// Submit sends the lead: the attachment first, then the record that points
// at it. Validation failures leave the state untouched. Transport failures
// end in SubmitFailed with the form preserved and are returned. A file
// stored before the record failed stays attached for the next attempt.
func (c *Contact) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return ErrBusy
	case SubmitSuccess:
		c.mu.Unlock()
		return ErrNotReady
	}
	fields := c.fields.trimmed()
	if errs := c.check(fields); len(errs) > 0 {
		c.fieldErrs = errs
		c.mu.Unlock()
		return ErrInvalid
	}
	c.fieldErrs = nil
	c.err = nil
	c.state = Submitting
	attachment := c.attachment
	c.mu.Unlock()

	submissionID := uuid.NewString()
	logger := observability.FromContext(ctx).With(zap.String("submission_id", submissionID))

	fileID, err := c.send(ctx, fields, attachment)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastID = submissionID
	if err != nil {
		logger.Warn("contact: submission failed", zap.Error(err), zap.String("file_id", fileID))
		if fileID != "" {
			stored := *attachment
			stored.FileID, stored.Open = fileID, nil
			c.attachment = &stored
		}
		c.state, c.err = SubmitFailed, err
		return err
	}
	logger.Info("contact: lead created", zap.Bool("attachment", attachment != nil))
	c.state = SubmitSuccess
	c.fields = ContactFields{}
	c.attachment = nil
	return nil
}

// send returns the id of the stored attachment, if any, even when the
// record could not be created.
func (c *Contact) send(ctx context.Context, fields ContactFields, attachment *Attachment) (string, error) {
	var fileID string
	if attachment != nil {
		fileID = attachment.FileID
		if fileID == "" {
			id, err := c.upload(ctx, attachment)
			if err != nil {
				return "", fmt.Errorf("upload attachment: %w", err)
			}
			fileID = id
		}
	}

	record := map[string]any{
		"name":       fields.Name,
		"email":      fields.Email,
		"phone":      fields.Phone,
		"message":    fields.Message,
		"attachment": nil,
		"subject":    c.opts.Subject,
	}
	if fileID != "" {
		record["attachment"] = fileID
	}
	if _, err := c.client.CreateRecord(ctx, c.opts.Collection, record); err != nil {
		return fileID, fmt.Errorf("create lead: %w", err)
	}
	return fileID, nil
}

// DiscardUpload deletes a stored attachment that no lead will reference,
// e.g. when the visitor sends the form without it after all. Failures are
// logged only.
func (c *Contact) DiscardUpload(ctx context.Context, fileID string) {
	if strings.TrimSpace(fileID) == "" {
		return
	}
	if err := c.client.DeleteFile(context.WithoutCancel(ctx), fileID); err != nil {
		observability.FromContext(ctx).Warn("contact: orphaned attachment", zap.String("file_id", fileID), zap.Error(err))
	}
}

func (c *Contact) upload(ctx context.Context, a *Attachment) (string, error) {
	if a.Open == nil {
		return "", errors.New("attachment has no content")
	}
	body, err := a.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()
	return c.client.UploadFile(ctx, cms.Upload{
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Body:        body,
	}, c.opts.Folder)
}

func (c *Contact) check(fields ContactFields) map[string]string {
	err := c.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Reset returns a successful form to SubmitIdle. It reports whether the
// state changed.
func (c *Contact) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != SubmitSuccess {
		return false
	}
	c.state = SubmitIdle
	c.err = nil
	c.fieldErrs = nil
	return true
}

func (c *Contact) Snapshot() ContactSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := ContactSnapshot{
		State:        c.state,
		Fields:       c.fields,
		Err:          c.err,
		SubmissionID: c.lastID,
	}
	if c.attachment != nil {
		snap.Attachment = c.attachment.FileName
		snap.AttachmentFileID = c.attachment.FileID
	}
	if len(c.fieldErrs) > 0 {
		snap.FieldErrors = make(map[string]string, len(c.fieldErrs))
		for k, v := range c.fieldErrs {
			snap.FieldErrors[k] = v
		}
	}
	return snap
}
