package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"amphomeus/internal/domain"
	"amphomeus/internal/pkg/mediastore"
	"amphomeus/internal/pkg/utils"
)

// MaxUploadBytes mirrors the server limit so oversize files are refused
// before any upload starts.
const MaxUploadBytes = mediastore.DefaultMaxUploadBytes

var (
	ErrAlreadySubmitting = errors.New("form is already being submitted")
	ErrFileTooLarge      = errors.New("file too large")
)

// FormError carries the message shown to the user.
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Message }
func (e *FormError) Unwrap() error { return e.Err }

// PendingFile is a local file selected for upload.
type PendingFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func FileFromPath(path string) (PendingFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return PendingFile{}, err
	}
	if st.IsDir() {
		return PendingFile{}, fmt.Errorf("%s is a directory", path)
	}
	return PendingFile{
		Name: filepath.Base(path),
		Size: st.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Backend is what a form needs from the server.
type Backend interface {
	UploadMedia(ctx context.Context, name string, body io.Reader) (*mediastore.UploadResult, error)
	CreateJournal(ctx context.Context, p JournalPayload) (*domain.Journal, error)
	UpdateJournal(ctx context.Context, id string, p JournalPayload) (*domain.Journal, error)
}

// JournalForm holds the editing state of one journal, new or existing.
// Apart from Submitting it is meant to be driven from a single goroutine.
type JournalForm struct {
	Title    string
	Content  string
	Location string
	Date     string

	journalID string
	// loadedDate is the day shown when editing started; the stored
	// timestamp is only rewritten when Date moves away from it.
	loadedDate string
	existing  []domain.Media
	toDelete  []string
	files     []PendingFile
	tags      []string

	mu         sync.Mutex
	submitting bool
	lastErr    string
}

func NewJournalForm() *JournalForm {
	return &JournalForm{}
}

// EditJournalForm starts from the stored state of j.
func EditJournalForm(j *domain.Journal) *JournalForm {
	f := &JournalForm{
		Title:     j.Title,
		journalID: j.ID,
		existing:  append([]domain.Media(nil), j.Media...),
	}
	if j.Content != nil {
		f.Content = *j.Content
	}
	if j.Location != nil {
		f.Location = *j.Location
	}
	if !j.Date.IsZero() {
		f.Date = j.Date.UTC().Format(utils.DayLayout)
		f.loadedDate = f.Date
	}
	for _, t := range j.Tags {
		f.tags = append(f.tags, t.Name)
	}
	return f
}

func (f *JournalForm) JournalID() string { return f.journalID }

func (f *JournalForm) IsEdit() bool { return f.journalID != "" }

// AddFiles appends files not selected yet, matched by name and size.
// Files over MaxUploadBytes are refused and reported.
func (f *JournalForm) AddFiles(files ...PendingFile) []error {
	var errs []error
	for _, nf := range files {
		if nf.Size > MaxUploadBytes {
			errs = append(errs, &FormError{
				Message: fmt.Sprintf("File %s exceeds the %dMB limit (size: %.2fMB)",
					nf.Name, MaxUploadBytes>>20, float64(nf.Size)/(1<<20)),
				Err: ErrFileTooLarge,
			})
			continue
		}
		if f.hasFile(nf) {
			continue
		}
		f.files = append(f.files, nf)
	}
	return errs
}

func (f *JournalForm) hasFile(nf PendingFile) bool {
	for _, existing := range f.files {
		if existing.Name == nf.Name && existing.Size == nf.Size {
			return true
		}
	}
	return false
}

func (f *JournalForm) RemoveFile(index int) {
	if index < 0 || index >= len(f.files) {
		return
	}
	f.files = append(f.files[:index], f.files[index+1:]...)
}

func (f *JournalForm) Files() []PendingFile {
	return append([]PendingFile(nil), f.files...)
}

// AddTag adds the trimmed name unless it is blank or already present.
func (f *JournalForm) AddTag(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, t := range f.tags {
		if t == name {
			return false
		}
	}
	f.tags = append(f.tags, name)
	return true
}

func (f *JournalForm) RemoveTag(name string) {
	for i, t := range f.tags {
		if t == name {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return
		}
	}
}

func (f *JournalForm) Tags() []string {
	return append([]string(nil), f.tags...)
}

func (f *JournalForm) ExistingMedia() []domain.Media {
	return append([]domain.Media(nil), f.existing...)
}

// MarkForDeletion flags an existing media item to be removed on submit.
func (f *JournalForm) MarkForDeletion(mediaID string) bool {
	if f.isMarked(mediaID) {
		return false
	}
	for _, m := range f.existing {
		if m.ID == mediaID {
			f.toDelete = append(f.toDelete, mediaID)
			return true
		}
	}
	return false
}

func (f *JournalForm) UnmarkForDeletion(mediaID string) {
	for i, id := range f.toDelete {
		if id == mediaID {
			f.toDelete = append(f.toDelete[:i], f.toDelete[i+1:]...)
			return
		}
	}
}

func (f *JournalForm) MediaToDelete() []string {
	return append([]string(nil), f.toDelete...)
}

func (f *JournalForm) isMarked(mediaID string) bool {
	for _, id := range f.toDelete {
		if id == mediaID {
			return true
		}
	}
	return false
}

func (f *JournalForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &FormError{Message: "Please provide a title for your journal"}
	}
	if f.Date != "" {
		if _, err := utils.ParseDate(f.Date); err != nil {
			return &FormError{Message: "Please provide a valid date (YYYY-MM-DD)", Err: err}
		}
	}
	return nil
}

func (f *JournalForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Err is the message of the last failed submission, empty after a
// successful one.
func (f *JournalForm) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit uploads the selected files one by one and then creates or updates
// the journal with the complete desired state. The first failed upload
// aborts the submission before the journal call.
func (f *JournalForm) Submit(ctx context.Context, b Backend) (*domain.Journal, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrAlreadySubmitting
	}
	f.submitting = true
	f.mu.Unlock()

	j, err := f.submit(ctx, b)

	f.mu.Lock()
	f.submitting = false
	f.lastErr = ""
	if err != nil {
		f.lastErr = err.Error()
	}
	f.mu.Unlock()

	return j, err
}

func (f *JournalForm) submit(ctx context.Context, b Backend) (*domain.Journal, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	uploaded := make([]MediaPayload, 0, len(f.files))
	for _, pf := range f.files {
		res, err := upload(ctx, b, pf)
		if err != nil {
			return nil, &FormError{
				Message: fmt.Sprintf("Failed to upload file: %s. Please try again or remove the file.", pf.Name),
				Err:     err,
			}
		}
		uploaded = append(uploaded, MediaPayload{
			URL:       res.URL,
			PublicID:  res.PublicID,
			MediaType: string(res.MediaType),
			Width:     res.Width,
			Height:    res.Height,
		})
	}

	p := f.payload(uploaded)

	var (
		j   *domain.Journal
		err error
	)
	if f.IsEdit() {
		j, err = b.UpdateJournal(ctx, f.journalID, p)
	} else {
		j, err = b.CreateJournal(ctx, p)
	}
	if err != nil {
		msg := "Failed to save journal"
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &FormError{Message: msg, Err: err}
	}

	f.files = nil
	if j != nil {
		f.journalID = j.ID
		f.loadedDate = f.Date
		f.existing = append([]domain.Media(nil), j.Media...)
		f.toDelete = nil
	}
	return j, nil
}

func upload(ctx context.Context, b Backend, pf PendingFile) (*mediastore.UploadResult, error) {
	if pf.Open == nil {
		return nil, fmt.Errorf("no content for %s", pf.Name)
	}
	rc, err := pf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return b.UploadMedia(ctx, pf.Name, rc)
}

func (f *JournalForm) payload(uploaded []MediaPayload) JournalPayload {
	p := JournalPayload{
		Title:    f.Title,
		Content:  optional(f.Content),
		Location: optional(f.Location),
		Tags:     f.Tags(),
		Media:    make([]MediaPayload, 0, len(f.existing)+len(uploaded)),
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if !f.IsEdit() || f.Date != f.loadedDate {
		p.Date = f.Date
	}

	for _, m := range f.existing {
		if f.isMarked(m.ID) {
			continue
		}
		p.Media = append(p.Media, MediaPayload{
			ID:        m.ID,
			URL:       m.URL,
			PublicID:  m.PublicID,
			MediaType: string(m.MediaType),
			Caption:   m.Caption,
			Width:     m.Width,
			Height:    m.Height,
		})
	}
	p.Media = append(p.Media, uploaded...)

	if f.IsEdit() {
		p.MediaToDelete = f.MediaToDelete()
	}
	return p
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
