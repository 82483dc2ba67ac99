package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/model"
	"github.com/dreamjournal/dreamjournal/internal/service"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newRequest builds a request carrying an optional {id} param and session user.
func newRequest(method, target, body string, id int64, userID int64) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if id != 0 {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", strconv.FormatInt(id, 10))
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if userID != 0 {
		ctx = auth.ContextWithSession(ctx, &model.Session{ID: "01TEST", UserID: userID}, "token")
	}
	return req.WithContext(ctx)
}

type fakeUserService struct {
	users   map[int64]*model.User
	nextID  int64
	deleted []int64
	err     error
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: make(map[int64]*model.User)}
}

func (f *fakeUserService) List(context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(f.users))
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, f.err
}

func (f *fakeUserService) Create(_ context.Context, in service.Credentials) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := validation.New().Validate(in); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Username == in.Username {
			return nil, service.ErrConflict
		}
	}
	f.nextID++
	u := &model.User{ID: f.nextID, Username: in.Username, PasswordHash: "$argon2id$secret"}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserService) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserService) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAuthService struct {
	users     *fakeUserService
	password  map[string]string
	loggedOut []string
}

func (f *fakeAuthService) Signup(ctx context.Context, in service.Credentials) (*service.AuthResult, error) {
	u, err := f.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	f.password[in.Username] = in.Password
	return f.result(u), nil
}

func (f *fakeAuthService) Login(_ context.Context, in service.Credentials) (*service.AuthResult, error) {
	for _, u := range f.users.users {
		if u.Username == in.Username && f.password[in.Username] == in.Password {
			return f.result(u), nil
		}
	}
	return nil, service.ErrInvalidCredentials
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeAuthService) result(u *model.User) *service.AuthResult {
	now := time.Now().UTC()
	return &service.AuthResult{
		User:    u,
		Token:   strings.Repeat("f", 64),
		Session: &model.Session{ID: "01SESSION", UserID: u.ID, Username: u.Username, CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
	}
}

// fakeDreamLogService keeps logs in memory and applies the same ownership
// and visibility rules as the real service.
type fakeDreamLogService struct {
	logs   map[int64]*model.DreamLog
	nextID int64
	tags   map[string]int64
}

func newFakeDreamLogService() *fakeDreamLogService {
	return &fakeDreamLogService{logs: make(map[int64]*model.DreamLog), tags: make(map[string]int64)}
}

func (f *fakeDreamLogService) List(_ context.Context, viewerID int64) ([]*model.DreamLog, error) {
	out := make([]*model.DreamLog, 0)
	for id := f.nextID; id >= 1; id-- {
		if log, ok := f.logs[id]; ok && log.IsVisibleTo(viewerID) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeDreamLogService) Get(_ context.Context, viewerID, id int64) (*model.DreamLog, error) {
	log, ok := f.logs[id]
	if !ok || !log.IsVisibleTo(viewerID) {
		return nil, service.ErrNotFound
	}
	return log, nil
}

func (f *fakeDreamLogService) Create(_ context.Context, ownerID int64, in service.CreateDreamLogInput) (*model.DreamLog, error) {
	if ownerID <= 0 {
		return nil, service.ErrUnauthenticated
	}
	if err := validation.New().Validate(in); err != nil {
		return nil, err
	}
	f.nextID++
	now := time.Now().UTC()
	log := &model.DreamLog{
		ID:          f.nextID,
		Title:       *in.Title,
		TextContent: *in.TextContent,
		IsPublic:    *in.IsPublic,
		PublishedAt: now,
		EditedAt:    now,
		UserID:      ownerID,
		Owner:       model.User{ID: ownerID, Username: "owner" + strconv.FormatInt(ownerID, 10)},
		Tags:        f.resolve(in.Tags),
	}
	if in.Rating != nil {
		r := model.Rating(*in.Rating)
		log.Rating = &r
	}
	f.logs[log.ID] = log
	return log, nil
}

func (f *fakeDreamLogService) Patch(_ context.Context, viewerID, id int64, in service.PatchDreamLogInput) (*model.DreamLog, error) {
	if viewerID <= 0 {
		return nil, service.ErrUnauthenticated
	}
	log, ok := f.logs[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	if !log.IsOwnedBy(viewerID) {
		return nil, service.ErrForbidden
	}
	if err := in.Validate(validation.New()); err != nil {
		return nil, err
	}

	changes := in.Changes()
	updated := *log
	if changes.Title != nil {
		updated.Title = *changes.Title
	}
	if changes.TextContent != nil {
		updated.TextContent = *changes.TextContent
	}
	if changes.IsPublic != nil {
		updated.IsPublic = *changes.IsPublic
	}
	if changes.RatingSet {
		updated.Rating = changes.Rating
	}
	if changes.TagsSet {
		updated.Tags = f.resolve(changes.Tags)
	}
	updated.EditedAt = time.Now().UTC()
	f.logs[id] = &updated
	return &updated, nil
}

func (f *fakeDreamLogService) Delete(_ context.Context, viewerID, id int64) error {
	if viewerID <= 0 {
		return service.ErrUnauthenticated
	}
	log, ok := f.logs[id]
	if !ok {
		return service.ErrNotFound
	}
	if !log.IsOwnedBy(viewerID) {
		return service.ErrForbidden
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeDreamLogService) resolve(names []string) []model.Tag {
	tags := make([]model.Tag, 0)
	for _, name := range model.UniqueTagNames(names) {
		id, ok := f.tags[name]
		if !ok {
			id = int64(len(f.tags) + 1)
			f.tags[name] = id
		}
		tags = append(tags, model.Tag{ID: id, Name: name})
	}
	return tags
}

type fakeTagService struct {
	tags      []model.Tag
	dreamTags map[int64]*model.DreamTag
	nextDT    int64
}

func newFakeTagService() *fakeTagService {
	return &fakeTagService{dreamTags: make(map[int64]*model.DreamTag)}
}

func (f *fakeTagService) ListTags(context.Context) ([]model.Tag, error) { return f.tags, nil }

func (f *fakeTagService) CreateTag(_ context.Context, in service.TagInput) (*model.Tag, error) {
	if err := validation.New().Validate(in); err != nil {
		return nil, err
	}
	for _, t := range f.tags {
		if t.Name == in.Name {
			return nil, service.ErrConflict
		}
	}
	tag := model.Tag{ID: int64(len(f.tags) + 1), Name: in.Name}
	f.tags = append(f.tags, tag)
	return &tag, nil
}

func (f *fakeTagService) ListDreamTags(context.Context) ([]model.DreamTag, error) {
	out := make([]model.DreamTag, 0, len(f.dreamTags))
	for id := int64(1); id <= f.nextDT; id++ {
		if dt, ok := f.dreamTags[id]; ok {
			out = append(out, *dt)
		}
	}
	return out, nil
}

func (f *fakeTagService) GetDreamTag(_ context.Context, id int64) (*model.DreamTag, error) {
	dt, ok := f.dreamTags[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return dt, nil
}

func (f *fakeTagService) CreateDreamTag(_ context.Context, in service.DreamTagInput) (*model.DreamTag, error) {
	if err := validation.New().Validate(in); err != nil {
		return nil, err
	}
	for _, dt := range f.dreamTags {
		if dt.DreamLogID == in.DreamLogID && dt.TagID == in.TagID {
			return nil, service.ErrConflict
		}
	}
	f.nextDT++
	dt := &model.DreamTag{ID: f.nextDT, DreamLogID: in.DreamLogID, TagID: in.TagID}
	f.dreamTags[dt.ID] = dt
	return dt, nil
}

func (f *fakeTagService) DeleteDreamTag(_ context.Context, id int64) error {
	if _, ok := f.dreamTags[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.dreamTags, id)
	return nil
}
