package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ferreadmin/internal/common"
	"ferreadmin/internal/dbx"
	"ferreadmin/internal/server/auth"
	"ferreadmin/internal/server/config"
	"ferreadmin/internal/server/models"
	refreshtokensrepo "ferreadmin/internal/server/repositories/refreshtokens"
	usersrepo "ferreadmin/internal/server/repositories/users"
)

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	getOut    *models.User
	getErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeTokensRepo struct {
	created   []string
	findOut   *models.RefreshToken
	findErr   error
	deleted   []string
	deleteErr error
}

func (f *fakeTokensRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.created = append(f.created, token)
	return nil
}

func (f *fakeTokensRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeTokensRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.deleteErr
}

type fakeRepoMgr struct {
	users  *fakeUsersRepo
	tokens *fakeTokensRepo
}

func (f *fakeRepoMgr) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *fakeRepoMgr) Users(db dbx.DBTX) usersrepo.Repository              { return f.users }
func (f *fakeRepoMgr) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return f.tokens
}

func newUserServiceForTest(t *testing.T, mgr *fakeRepoMgr) (*UserService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, mgr, cfg), mock, db
}

// --- tests ---

func TestRegister_HashesPassword(t *testing.T) {
	mgr := &fakeRepoMgr{users: &fakeUsersRepo{}, tokens: &fakeTokensRepo{}}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	user, err := svc.Register(context.Background(), " Ana@Example.COM ", "secreta123")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("secreta123")))
}

func TestRegister_Validation(t *testing.T) {
	mgr := &fakeRepoMgr{users: &fakeUsersRepo{}, tokens: &fakeTokensRepo{}}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	_, err := svc.Register(context.Background(), "sin-arroba", "secreta123")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.Register(context.Background(), "ana@example.com", "corta")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)

	mgr := &fakeRepoMgr{
		users:  &fakeUsersRepo{getOut: &models.User{ID: "u-1", Email: "ana@example.com", PasswordHash: hash}},
		tokens: &fakeTokensRepo{},
	}
	svc, mock, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := svc.Login(context.Background(), "ana@example.com", "secreta123")
	require.NoError(t, err)
	require.NotNil(t, pair)

	userID, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	require.Len(t, mgr.tokens.created, 1)
	assert.Equal(t, pair.RefreshToken, mgr.tokens.created[0])
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)

	mgr := &fakeRepoMgr{
		users:  &fakeUsersRepo{getOut: &models.User{ID: "u-1", PasswordHash: hash}},
		tokens: &fakeTokensRepo{},
	}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	_, err = svc.Login(context.Background(), "ana@example.com", "incorrecta")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	mgr := &fakeRepoMgr{
		users:  &fakeUsersRepo{getErr: common.ErrorNotFound},
		tokens: &fakeTokensRepo{},
	}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	_, err := svc.Login(context.Background(), "nadie@example.com", "loquesea")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_RotatesToken(t *testing.T) {
	mgr := &fakeRepoMgr{
		users: &fakeUsersRepo{},
		tokens: &fakeTokensRepo{
			findOut: &models.RefreshToken{UserID: "u-1", Expires: time.Now().Add(time.Hour)},
		},
	}
	svc, mock, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := svc.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)

	assert.Equal(t, []string{"old-token"}, mgr.tokens.deleted)
	require.Len(t, mgr.tokens.created, 1)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
}

func TestRefreshToken_Expired(t *testing.T) {
	mgr := &fakeRepoMgr{
		users: &fakeUsersRepo{},
		tokens: &fakeTokensRepo{
			findOut: &models.RefreshToken{UserID: "u-1", Expires: time.Now().Add(-time.Minute)},
		},
	}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	_, err := svc.RefreshToken(context.Background(), "old-token")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestRefreshToken_Unknown(t *testing.T) {
	mgr := &fakeRepoMgr{
		users:  &fakeUsersRepo{},
		tokens: &fakeTokensRepo{findErr: common.ErrorNotFound},
	}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	_, err := svc.RefreshToken(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestLogout_DeletesToken(t *testing.T) {
	mgr := &fakeRepoMgr{users: &fakeUsersRepo{}, tokens: &fakeTokensRepo{}}
	svc, _, db := newUserServiceForTest(t, mgr)
	defer db.Close()

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.Equal(t, []string{"tok"}, mgr.tokens.deleted)
}
