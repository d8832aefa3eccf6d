package accounts

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app"
	"github.com/oggyb/pinmark/internal/db"
	svcErr "github.com/oggyb/pinmark/internal/errors"
	"github.com/oggyb/pinmark/internal/identity"
	"github.com/oggyb/pinmark/internal/repository"
)

// dateLayout is the wire format of date_of_birth.
const dateLayout = "2006-01-02"

var errBadCredentials = svcErr.Unauthenticated("invalid credentials")

// Service implements the Account gRPC API.
type Service struct {
	appCtx *app.AppContext
	now    func() time.Time
}

// NewAccountService creates a new Account service with dependencies from AppContext.
func NewAccountService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, now: time.Now}
}

// Register creates a user and records "has created an account".
//
// Behavior:
//   - username, a valid email and a password of 6 to 72 chars are required.
//   - Taken username or email → AlreadyExists.
func (s *Service) Register(ctx context.Context, req *api.RegisterRequest) (*api.AccountResponse, error) {
	in := *req
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	s.appCtx.Logger.Debug("Register called", "username", in.Username)

	if err := svcErr.Validate(&in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	user := &db.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Active:       true,
		LastLoginAt:  s.now().UTC(),
	}
	if err := s.appCtx.Users.Create(ctx, user); err != nil {
		return nil, svcErr.Map(err)
	}
	if _, err := s.appCtx.Recorder.Record(ctx, user.ID, activity.VerbCreatedAccount, activity.Target{}); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("account created", "user_id", user.ID, "username", user.Username)
	return &api.AccountResponse{UserId: strconv.FormatUint(user.ID, 10), Username: user.Username}, nil
}

// Login checks credentials and records "logged in".
//
// Behavior:
//   - The account is found by username, or by email when only email is given.
//     A username containing "@" that matches no user is retried as an email.
//   - Unknown account, wrong password and inactive accounts all answer Unauthenticated.
func (s *Service) Login(ctx context.Context, req *api.LoginRequest) (*api.AccountResponse, error) {
	in := *req
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := svcErr.Validate(&in); err != nil {
		return nil, err
	}

	user, err := s.lookup(ctx, in.Username, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}
	if !user.Active {
		return nil, svcErr.Unauthenticated("account is disabled")
	}

	if err := s.appCtx.Users.TouchLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, svcErr.Map(err)
	}
	if _, err := s.appCtx.Recorder.Record(ctx, user.ID, activity.VerbLoggedIn, activity.Target{}); err != nil {
		return nil, svcErr.Map(err)
	}

	return &api.AccountResponse{UserId: strconv.FormatUint(user.ID, 10), Username: user.Username}, nil
}

func (s *Service) lookup(ctx context.Context, username, email string) (*db.User, error) {
	if username == "" {
		return s.appCtx.Users.GetByEmail(ctx, email)
	}
	user, err := s.appCtx.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) && strings.Contains(username, "@") {
		return s.appCtx.Users.GetByEmail(ctx, normalizeEmail(username))
	}
	return user, err
}

// UpdateAccount replaces the viewer's name, email and date of birth.
//
// Behavior:
//   - The email must stay unique among other users → AlreadyExists otherwise.
//   - An empty date_of_birth clears it.
func (s *Service) UpdateAccount(ctx context.Context, req *api.UpdateAccountRequest) (*api.AccountDetails, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	in := *req
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	if err := svcErr.Validate(&in); err != nil {
		return nil, err
	}

	profile := db.Profile{UserID: viewerID}
	if in.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, in.DateOfBirth)
		if err != nil {
			return nil, svcErr.InvalidArgument("date_of_birth must be a date formatted as " + dateLayout)
		}
		profile.DateOfBirth = &dob
	}

	user, err := s.appCtx.Users.UpdateAccount(ctx, viewerID, in.FirstName, in.LastName, in.Email)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if err := s.appCtx.Users.SaveProfile(ctx, &profile); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("account updated", "user_id", user.ID)
	return details(*user, profile), nil
}

// ListUsers returns every active user ordered by username.
func (s *Service) ListUsers(ctx context.Context, _ *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	users, err := s.appCtx.Users.ListActive(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &api.ListUsersResponse{Users: make([]*api.UserSummary, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, summary(u))
	}
	return resp, nil
}

// GetUser returns a profile with follower/action counts and whether the viewer follows it.
func (s *Service) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.GetUserResponse, error) {
	user, err := s.appCtx.Users.GetByUsername(ctx, strings.TrimSpace(req.GetUsername()))
	if err != nil {
		return nil, svcErr.Map(err)
	}

	followers, following, err := s.appCtx.Graph.Counts(ctx, user.ID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	actions, err := s.appCtx.Actions.CountByActor(ctx, user.ID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &api.GetUserResponse{User: summary(*user), Followers: followers, Following: following, Actions: actions}

	if viewerID, ok := identity.ViewerID(ctx); ok && viewerID != user.ID {
		resp.IsFollowing, err = s.appCtx.Graph.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
	}
	return resp, nil
}

func details(u db.User, p db.Profile) *api.AccountDetails {
	out := &api.AccountDetails{
		UserId:    strconv.FormatUint(u.ID, 10),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = p.DateOfBirth.Format(dateLayout)
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func summary(u db.User) *api.UserSummary {
	return &api.UserSummary{Id: strconv.FormatUint(u.ID, 10), Username: u.Username}
}
