package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/eventsnap/eventsnap-backend/internal/models"
)

// In-memory stores backing the service tests. They mirror the GORM
// repositories closely enough that the recount and pagination semantics can
// be asserted without a database.

type fakeEventStore struct {
	nextID uint
	events map[uint]*models.Event

	createErr  error
	refreshErr error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{nextID: 1, events: make(map[uint]*models.Event)}
}

func (s *fakeEventStore) Create(event *models.Event) (*models.Event, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	event.ID = s.nextID
	s.nextID++
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	cp := *event
	s.events[event.ID] = &cp
	return event, nil
}

func (s *fakeEventStore) GetByID(id uint) (*models.Event, error) {
	if e, ok := s.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, fmt.Errorf("record not found")
}

func (s *fakeEventStore) GetByPublicID(publicID string) (*models.Event, error) {
	for _, e := range s.events {
		if e.PublicID == publicID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (s *fakeEventStore) GetActiveByPublicID(publicID string) (*models.Event, error) {
	e, err := s.GetByPublicID(publicID)
	if err != nil || !e.Active {
		return nil, fmt.Errorf("record not found")
	}
	return e, nil
}

func (s *fakeEventStore) PublicIDExists(publicID string) (bool, error) {
	_, err := s.GetByPublicID(publicID)
	return err == nil, nil
}

func (s *fakeEventStore) Update(event *models.Event) error {
	if _, ok := s.events[event.ID]; !ok {
		return fmt.Errorf("record not found")
	}
	event.UpdatedAt = time.Now()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *fakeEventStore) list(filter func(*models.Event) bool, page, limit int) ([]models.Event, int64, error) {
	var all []models.Event
	for _, e := range s.events {
		if filter(e) {
			all = append(all, *e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *fakeEventStore) ListByOwner(ownerID uint, page, limit int) ([]models.Event, int64, error) {
	return s.list(func(e *models.Event) bool {
		return e.OwnerID != nil && *e.OwnerID == ownerID
	}, page, limit)
}

func (s *fakeEventStore) ListAll(page, limit int) ([]models.Event, int64, error) {
	return s.list(func(*models.Event) bool { return true }, page, limit)
}

type fakePhotoStore struct {
	nextID uint
	photos map[uint]*models.Photo

	createErr error
	updateErr error
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{nextID: 1, photos: make(map[uint]*models.Photo)}
}

// RefreshStats recounts from the photo store the same way the SQL recount
// does: group by status plus a view sum.
func (s *fakeEventStore) RefreshStats(eventID uint) (*models.EventStats, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	stats := models.EventStats{}
	for _, p := range photoStoreRef.photos {
		if p.EventID != eventID {
			continue
		}
		stats.TotalPhotos++
		stats.TotalViews += p.ViewCount
		switch p.Status {
		case models.PhotoStatusApproved:
			stats.ApprovedPhotos++
		case models.PhotoStatusPending:
			stats.PendingPhotos++
		case models.PhotoStatusRejected:
			stats.RejectedPhotos++
		}
	}
	e.Stats = stats
	return &stats, nil
}

// photoStoreRef couples the fake stores the way the SQL recount couples the
// two tables. Each test resets it via newFakeStores.
var photoStoreRef *fakePhotoStore

func newFakeStores() (*fakeEventStore, *fakePhotoStore) {
	events := newFakeEventStore()
	photos := newFakePhotoStore()
	photoStoreRef = photos
	return events, photos
}

func (s *fakePhotoStore) Create(photo *models.Photo) error {
	if s.createErr != nil {
		return s.createErr
	}
	photo.ID = s.nextID
	s.nextID++
	photo.CreatedAt = time.Now()
	cp := *photo
	s.photos[photo.ID] = &cp
	return nil
}

func (s *fakePhotoStore) GetByID(id uint) (*models.Photo, error) {
	if p, ok := s.photos[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("record not found")
}

func (s *fakePhotoStore) GetByIDs(ids []uint) ([]models.Photo, error) {
	var out []models.Photo
	for _, id := range ids {
		if p, ok := s.photos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePhotoStore) List(eventID uint, q models.PhotoListQuery) ([]models.Photo, int64, error) {
	var all []models.Photo
	for _, p := range s.photos {
		if p.EventID != eventID {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if q.SortOrder == "asc" {
			return all[i].UploadedAt.Before(all[j].UploadedAt)
		}
		return all[i].UploadedAt.After(all[j].UploadedAt)
	})

	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *fakePhotoStore) Recent(eventID uint, n int) ([]models.Photo, error) {
	all, _, err := s.List(eventID, models.PhotoListQuery{Page: 1, Limit: n, SortOrder: "desc"})
	return all, err
}

func (s *fakePhotoStore) UpdateStatus(id uint, status models.PhotoStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	p, ok := s.photos[id]
	if !ok {
		return fmt.Errorf("record not found")
	}
	p.Status = status
	return nil
}

func (s *fakePhotoStore) Delete(id uint) error {
	if _, ok := s.photos[id]; !ok {
		return fmt.Errorf("record not found")
	}
	delete(s.photos, id)
	return nil
}

func (s *fakePhotoStore) IncrementViewCount(id uint) error {
	p, ok := s.photos[id]
	if !ok {
		return fmt.Errorf("record not found")
	}
	p.ViewCount++
	return nil
}

func (s *fakePhotoStore) IncrementDownloadCount(id uint) error {
	p, ok := s.photos[id]
	if !ok {
		return fmt.Errorf("record not found")
	}
	p.DownloadCount++
	return nil
}

type fakeUserStore struct {
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[uint]*models.User)}
}

func (s *fakeUserStore) Create(user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (s *fakeUserStore) EmailExists(email string) (bool, error) {
	_, err := s.GetByEmail(email)
	return err == nil, nil
}

type fakeHostStore struct {
	nextID uint
	hosts  map[uint]*models.Host
}

func newFakeHostStore() *fakeHostStore {
	return &fakeHostStore{nextID: 1, hosts: make(map[uint]*models.Host)}
}

func (s *fakeHostStore) Create(host *models.Host) error {
	host.ID = s.nextID
	s.nextID++
	cp := *host
	s.hosts[host.ID] = &cp
	return nil
}

func (s *fakeHostStore) GetActiveByEventPublicID(eventPublicID string) (*models.Host, error) {
	for _, h := range s.hosts {
		if h.EventPublicID == eventPublicID && h.Active {
			cp := *h
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (s *fakeHostStore) Update(host *models.Host) error {
	if _, ok := s.hosts[host.ID]; !ok {
		return fmt.Errorf("record not found")
	}
	cp := *host
	s.hosts[host.ID] = &cp
	return nil
}

type fakeQRRenderer struct {
	err   error
	calls int
}

func (f *fakeQRRenderer) GeneratePNG(publicEventID string, size int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf("png-%s-%d", publicEventID, size)), nil
}

func (f *fakeQRRenderer) GenerateDataURL(publicEventID string, size int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("data:image/png;base64,qr-%s-%d", publicEventID, size), nil
}

func (f *fakeQRRenderer) UploadURL(publicEventID string) string {
	return "https://eventsnap.test/upload/" + publicEventID
}

type fakeMailer struct {
	err  error
	sent []string
}

func (f *fakeMailer) SendEventCredentials(to, title, eventID, password, uploadURL string, date time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeMediaStorage struct {
	uploadErr error
	deleteErr error
	uploaded  map[string][]byte
	deleted   []string
}

func newFakeMediaStorage() *fakeMediaStorage {
	return &fakeMediaStorage{uploaded: make(map[string][]byte)}
}

func (f *fakeMediaStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploaded[key] = content
	return "https://media.eventsnap.test/" + key, nil
}

func (f *fakeMediaStorage) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.uploaded, key)
	return nil
}

type fakeImageStorage struct {
	uploadErr error
	nextID    int
	deleted   []string
}

func (f *fakeImageStorage) Upload(ctx context.Context, filename string, reader io.Reader) (string, []string, error) {
	if f.uploadErr != nil {
		return "", nil, f.uploadErr
	}
	f.nextID++
	id := fmt.Sprintf("img-%d", f.nextID)
	return id, []string{f.GetThumbnailURL(id)}, nil
}

func (f *fakeImageStorage) Delete(ctx context.Context, imageID string) error {
	f.deleted = append(f.deleted, imageID)
	return nil
}

func (f *fakeImageStorage) GetThumbnailURL(imageID string) string {
	return "https://imagedelivery.test/" + imageID + "/thumbnail"
}

type fakeEmailChecker struct{}

func (fakeEmailChecker) IsEmail(email string) bool {
	// Just enough shape checking for the tests.
	at := -1
	for i, r := range email {
		if r == '@' {
			at = i
		}
	}
	return at > 0 && at < len(email)-1
}
