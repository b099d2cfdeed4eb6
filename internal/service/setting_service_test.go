package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wego/internal/domain"
)

type fakeSettingRepo struct {
	domain.SettingRepository

	byOwner map[int64]*domain.Setting
	nextID  int64
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{byOwner: map[int64]*domain.Setting{}, nextID: 1}
}

func (f *fakeSettingRepo) FindByOwner(_ context.Context, ownerID int64) (*domain.Setting, error) {
	st, ok := f.byOwner[ownerID]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "setting not found")
	}
	cp := *st
	return &cp, nil
}

func (f *fakeSettingRepo) Upsert(_ context.Context, s *domain.Setting) error {
	if existing, ok := f.byOwner[s.OwnerID]; ok {
		existing.Theme = s.Theme
		existing.BgImage = s.BgImage
		existing.BgBlur = s.BgBlur
		return nil
	}
	cp := *s
	cp.ID = f.nextID
	f.nextID++
	f.byOwner[s.OwnerID] = &cp
	return nil
}

func TestSettingGetBeforeFirstSaveIsZeroValued(t *testing.T) {
	s := NewSettingService(newFakeSettingRepo())

	st, err := s.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.OwnerID)
	assert.Nil(t, st.Theme)
	assert.Nil(t, st.BgImage)
}

func TestSettingUpdateReturnsStoredRow(t *testing.T) {
	repo := newFakeSettingRepo()
	s := NewSettingService(repo)

	theme := 1
	first, err := s.Update(context.Background(), 7, SettingInput{Theme: &theme})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// updating the existing row must echo the same stored identity
	blur := 5
	second, err := s.Update(context.Background(), 7, SettingInput{Theme: &theme, BgBlur: &blur})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.BgBlur)
	assert.Equal(t, 5, *second.BgBlur)
}

func TestSettingUpdateValidation(t *testing.T) {
	s := NewSettingService(newFakeSettingRepo())

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	img := string(long)
	_, err := s.Update(context.Background(), 7, SettingInput{BgImage: &img})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	blur := 21
	_, err = s.Update(context.Background(), 7, SettingInput{BgBlur: &blur})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
