package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wego/internal/core/crypto"
	"wego/internal/core/validate"
	"wego/internal/domain"
)

// -------- test fakes --------

type fakeUserRepo struct {
	domain.UserRepository

	byID      map[int64]*domain.User
	byLogin   map[string]*domain.User
	created   []*domain.User
	createErr error
	deleted   []int64
	hashes    map[int64]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[int64]*domain.User{},
		byLogin: map[string]*domain.User{},
		hashes:  map[int64]string{},
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.byID[u.ID] = u
	f.byLogin[u.Username] = u
	f.byLogin[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = int64(len(f.byID) + 1)
	f.created = append(f.created, u)
	f.add(u)
	return nil
}

func (f *fakeUserRepo) FindLiveByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f.byID[id]; ok && u.Live() {
		return u, nil
	}
	return nil, domain.E(domain.KindNotFound, "user not found")
}

func (f *fakeUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	if u, ok := f.byLogin[login]; ok && u.Live() {
		return u, nil
	}
	return nil, domain.E(domain.KindNotFound, "user not found")
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.E(domain.KindNotFound, "user not found")
	}
	f.hashes[id] = hash
	return nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.E(domain.KindNotFound, "user not found")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// -------- helpers --------

func testUserService(repo *fakeUserRepo) (*UserService, *crypto.Hasher) {
	h := crypto.NewHasher(crypto.Params{TimeCost: 1, MemoryKiB: 64, Lanes: 1}, 4)
	return NewUserService(repo, h, validate.NewRules()), h
}

func adminOp() *domain.User  { return &domain.User{ID: 1, IsAdmin: true} }
func memberOp() *domain.User { return &domain.User{ID: 2} }

func tombstoned(u *domain.User) *domain.User {
	u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return u
}

func validCreate() CreateUserInput {
	return CreateUserInput{
		Username:        "newuser",
		Email:           "new@u.io",
		Password:        "Secret123!",
		ConfirmPassword: "Secret123!",
	}
}

// -------- tests --------

func TestCreateRequiresAdmin(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	svc, _ := testUserService(repo)

	_, err := svc.Create(context.Background(), memberOp(), validCreate())
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.created)
}

func TestCreateDeletedAdminIsForbidden(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	svc, _ := testUserService(repo)

	_, err := svc.Create(context.Background(), tombstoned(adminOp()), validCreate())
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestCreateStoresHashNotPassword(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	svc, h := testUserService(repo)
	ctx := context.Background()

	u, err := svc.Create(ctx, adminOp(), validCreate())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.False(t, u.IsAdmin, "created accounts are never admin")
	assert.NotEqual(t, "Secret123!", u.PasswordHash)
	ok, err := h.Verify(ctx, u.PasswordHash, "Secret123!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	svc, _ := testUserService(repo)
	ctx := context.Background()

	bad := validCreate()
	bad.Username = "abc"
	_, err := svc.Create(ctx, adminOp(), bad)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	bad = validCreate()
	bad.ConfirmPassword = "Different1!"
	_, err = svc.Create(ctx, adminOp(), bad)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	assert.Empty(t, repo.created)
}

func TestCreateDuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	repo.createErr = domain.E(domain.KindConflict, "username or email already taken")
	svc, _ := testUserService(repo)

	_, err := svc.Create(context.Background(), adminOp(), validCreate())
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestDeleteSelfIsForbiddenEvenForAdmin(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	op := repo.add(&domain.User{ID: 1, Username: "root5", IsAdmin: true})
	svc, _ := testUserService(repo)

	err := svc.Delete(context.Background(), op, op.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.deleted)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	repo.add(&domain.User{ID: 3, Username: "victim"})
	svc, _ := testUserService(repo)

	err := svc.Delete(context.Background(), memberOp(), 3)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.deleted)
}

func TestDeleteByAdmin(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	repo.add(&domain.User{ID: 3, Username: "victim"})
	svc, _ := testUserService(repo)

	require.NoError(t, svc.Delete(context.Background(), adminOp(), 3))
	assert.Equal(t, []int64{3}, repo.deleted)
}

func TestUpdatePasswordChecksOldPassword(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	svc, h := testUserService(repo)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "OldSecret1!")
	require.NoError(t, err)
	repo.add(&domain.User{ID: 7, Username: "carol7", PasswordHash: hash})

	err = svc.UpdatePassword(ctx, 7, UpdatePasswordInput{
		OldPassword:     "WrongOld1!",
		Password:        "NewSecret1!",
		ConfirmPassword: "NewSecret1!",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.hashes)

	err = svc.UpdatePassword(ctx, 7, UpdatePasswordInput{
		OldPassword:     "OldSecret1!",
		Password:        "NewSecret1!",
		ConfirmPassword: "NewSecret1!",
	})
	require.NoError(t, err)

	ok, err := h.Verify(ctx, repo.hashes[7], "NewSecret1!")
	require.NoError(t, err)
	assert.True(t, ok)
}
