package repo

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wego/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

const (
	selectOwnedForUpdate = `SELECT "id" FROM "apps"`
	updateAppIndex       = `UPDATE "apps" SET "index"`
)

func ownedRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

func TestResequenceCommitsFullPermutation(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewAppRepo(gdb)

	// apps a=10 b=11 c=12 submitted as [c,a,b]
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnedForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(ownedRows(10, 11, 12))
	mock.ExpectExec(regexp.QuoteMeta(updateAppIndex)).
		WithArgs(0, sqlmock.AnyArg(), int64(12), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateAppIndex)).
		WithArgs(1, sqlmock.AnyArg(), int64(10), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateAppIndex)).
		WithArgs(2, sqlmock.AnyArg(), int64(11), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := r.Resequence(context.Background(), 1, []int64{12, 10, 11})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResequenceForeignIDRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewAppRepo(gdb)

	// id 99 belongs to another owner: abort before any UPDATE is issued
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnedForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(ownedRows(10, 11, 12))
	mock.ExpectRollback()

	err := r.Resequence(context.Background(), 1, []int64{12, 10, 99})
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResequenceIncompleteSetRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewAppRepo(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnedForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(ownedRows(10, 11, 12))
	mock.ExpectRollback()

	err := r.Resequence(context.Background(), 1, []int64{12, 10})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResequenceDuplicateIDRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewAppRepo(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnedForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(ownedRows(10, 11, 12))
	mock.ExpectRollback()

	err := r.Resequence(context.Background(), 1, []int64{10, 10, 11})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResequenceStorageFaultRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewAppRepo(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnedForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(ownedRows(10, 11))
	mock.ExpectExec(regexp.QuoteMeta(updateAppIndex)).
		WithArgs(0, sqlmock.AnyArg(), int64(11), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateAppIndex)).
		WithArgs(1, sqlmock.AnyArg(), int64(10), int64(1)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := r.Resequence(context.Background(), 1, []int64{11, 10})
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockMySQLDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func listRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "index", "owner_id"})
	for i, id := range ids {
		rows.AddRow(id, i, int64(1))
	}
	return rows
}

// index is a reserved word in both dialects; these pin the dialect-correct
// quoting so the ranking does not silently degrade to an unordered scan.
func TestListByOwnerOrdersByIndexPostgres(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewAppRepo(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY "index"`)).
		WithArgs(int64(1)).
		WillReturnRows(listRows(10, 11))

	apps, err := r.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerOrdersByIndexMySQL(t *testing.T) {
	gdb, mock := newMockMySQLDB(t)
	r := NewAppRepo(gdb)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY `index`")).
		WithArgs(int64(1)).
		WillReturnRows(listRows(10, 11))

	apps, err := r.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
