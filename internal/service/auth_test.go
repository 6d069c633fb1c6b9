package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tdnguyen/user-api/internal/apperror"
	"github.com/tdnguyen/user-api/internal/auth"
	"github.com/tdnguyen/user-api/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory repository.UserRepository. A hand-written
// fake (not a mock framework) keeps these tests easy to read — you can see
// exactly what the fake does.
type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	// set to a non-nil error to simulate a storage failure
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	users := []model.User{}
	for id := int64(1); id < f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFoundField("user", "username", username)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperror.Conflict("username or email already exists")
		}
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return u, nil
}

// discardLogger silences service logging in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAuthService wires an AuthService over the fake repo with fast
// bcrypt and a fixed token secret.
func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *auth.TokenService) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", 0)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	return NewAuthService(repo, tokens, passwords, discardLogger()), repo, tokens
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "pw1", "a@x.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("Register() did not assign an id")
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}

	// The stored password must be a hash, never the plaintext.
	stored := repo.users[user.ID]
	if stored.PasswordHash == "pw1" {
		t.Error("Register() stored the plaintext password")
	}
	if err := auth.NewPasswordServiceForTest(bcrypt.MinCost).Verify(stored.PasswordHash, "pw1"); err != nil {
		t.Errorf("stored hash does not verify against the plaintext: %v", err)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "bob", "first", "b1@x.com"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "bob", "second", "b2@x.com")
	if err == nil {
		t.Fatal("Register() should fail for a taken username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, want ErrConflict", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Username is already taken" {
		t.Errorf("Register() message = %v, want %q", err, "Username is already taken")
	}
}

func TestRegister_NoDuplicateRow(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	svc.Register(context.Background(), "carol", "pw", "c@x.com")
	svc.Register(context.Background(), "carol", "pw", "c2@x.com")

	count := 0
	for _, u := range repo.users {
		if u.Username == "carol" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("found %d rows for username carol, want 1", count)
	}
}

func TestRegister_StorageError(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	repo.failWith = errors.New("connection refused")

	if _, err := svc.Register(context.Background(), "dave", "pw", "d@x.com"); err == nil {
		t.Error("Register() should surface storage errors")
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_CorrectPassword(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "erin", "secret123", "e@x.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(context.Background(), "erin", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// The token's subject is the registered user's id.
	userID, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != user.ID {
		t.Errorf("token user id = %d, want %d", userID, user.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	svc.Register(context.Background(), "frank", "rightpw", "f@x.com")

	_, err := svc.Login(context.Background(), "frank", "wrongpw")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	svc.Register(context.Background(), "grace", "rightpw", "g@x.com")

	_, errWrongPw := svc.Login(context.Background(), "grace", "wrongpw")
	_, errNoUser := svc.Login(context.Background(), "ghost", "wrongpw")

	// Same message for both paths — no username enumeration.
	if errWrongPw == nil || errNoUser == nil {
		t.Fatal("both login attempts should fail")
	}
	if errWrongPw.Error() != errNoUser.Error() {
		t.Errorf("failure messages differ: %q vs %q", errWrongPw.Error(), errNoUser.Error())
	}
}

// =========================================================================
// PROFILE TESTS
// =========================================================================

func TestProfile(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	created, _ := svc.Register(context.Background(), "henry", "pw", "h@x.com")

	user, err := svc.Profile(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if user.Username != "henry" {
		t.Errorf("Username = %q, want %q", user.Username, "henry")
	}
}

func TestProfile_UnknownID(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Profile(context.Background(), 404); err == nil {
		t.Error("Profile() should fail for an unknown id")
	}
}
