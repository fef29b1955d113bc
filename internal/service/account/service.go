package account

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/repository"
)

// Service implements registration, login/logout and session resolution.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// RegisterInput is the profile draft accepted at registration.
type RegisterInput struct {
	Username    string            `json:"username"`
	Password    string            `json:"password"`
	Type        db.ProfileType    `json:"type"`
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline"`
	Description string            `json:"description"`
	Topics      []string          `json:"topics"`
	Skills      []string          `json:"skills"`
	Projects    []string          `json:"projects"`
	ImageURL    string            `json:"image_url"`
	Links       map[string]string `json:"links"`
}

// Register creates a new profile.
//
// Validation happens before any write: the username must be free and the
// type must be one of the two matchable kinds (ADMIN accounts are not
// self-registrable).
func (s *Service) Register(ctx context.Context, in RegisterInput) (*db.Profile, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, svcErr.InvalidArgument("username must not be empty")
	}
	if in.Password == "" {
		return nil, svcErr.InvalidArgument("password must not be empty")
	}
	if in.Type != db.TypeOrganization && in.Type != db.TypeIndividual {
		return nil, svcErr.InvalidArgument("type must be ORGANIZATION or INDIVIDUAL")
	}

	taken, err := s.profileRepo.UsernameExists(ctx, username)
	if err != nil {
		s.appCtx.Logger.Error("username lookup failed", "err", err)
		return nil, err
	}
	if taken {
		return nil, svcErr.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &db.Profile{
		Username:     username,
		PasswordHash: string(hash),
		Type:         in.Type,
		Name:         in.Name,
		Tagline:      in.Tagline,
		Description:  in.Description,
		Topics:       in.Topics,
		Skills:       in.Skills,
		Projects:     in.Projects,
		ImageURL:     in.ImageURL,
		Links:        in.Links,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		s.appCtx.Logger.Error("profile create failed", "username", username, "err", err)
		return nil, err
	}

	s.appCtx.Logger.Info("profile registered", "id", profile.ID, "type", profile.Type)
	return profile, nil
}

// Login verifies credentials and mints a bearer session token in Redis.
//
// Unknown username and wrong password both surface as ErrNotFound; a
// blocked account surfaces as ErrAccountBlocked before the password is
// even checked.
func (s *Service) Login(ctx context.Context, username, password string) (*db.Profile, string, error) {
	profile, err := s.profileRepo.ByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", svcErr.ErrNotFound
	} else if err != nil {
		return nil, "", err
	}

	if profile.Blocked {
		return nil, "", svcErr.ErrAccountBlocked
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, "", svcErr.ErrNotFound
	}

	token, err := s.appCtx.RedisCache.CreateSession(ctx, profile.ID)
	if err != nil {
		s.appCtx.Logger.Error("session create failed", "user", profile.ID, "err", err)
		return nil, "", err
	}

	s.appCtx.Logger.Info("login", "user", profile.ID)
	return profile, token, nil
}

// Logout invalidates the session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.appCtx.RedisCache.DeleteSession(ctx, token)
}
