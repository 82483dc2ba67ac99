package handler

import (
	"context"

	"github.com/dreamjournal/dreamjournal/internal/model"
	"github.com/dreamjournal/dreamjournal/internal/service"
)

// UserService is the subset of service.UserService used by UserHandler.
type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, in service.Credentials) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

// AuthService is the subset of service.AuthService used by AuthHandler.
type AuthService interface {
	Signup(ctx context.Context, in service.Credentials) (*service.AuthResult, error)
	Login(ctx context.Context, in service.Credentials) (*service.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// DreamLogService is the subset of service.DreamLogService used by DreamLogHandler.
type DreamLogService interface {
	List(ctx context.Context, viewerID int64) ([]*model.DreamLog, error)
	Get(ctx context.Context, viewerID, id int64) (*model.DreamLog, error)
	Create(ctx context.Context, ownerID int64, in service.CreateDreamLogInput) (*model.DreamLog, error)
	Patch(ctx context.Context, viewerID, id int64, in service.PatchDreamLogInput) (*model.DreamLog, error)
	Delete(ctx context.Context, viewerID, id int64) error
}

// TagService is the subset of service.TagService used by TagHandler.
type TagService interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	CreateTag(ctx context.Context, in service.TagInput) (*model.Tag, error)
	ListDreamTags(ctx context.Context) ([]model.DreamTag, error)
	GetDreamTag(ctx context.Context, id int64) (*model.DreamTag, error)
	CreateDreamTag(ctx context.Context, in service.DreamTagInput) (*model.DreamTag, error)
	DeleteDreamTag(ctx context.Context, id int64) error
}
