package postgres

import (
	"context"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := open(postgres.New(postgres.Config{Conn: db}), quietLogger())
	require.NoError(t, err)
	return store, mock
}

func TestPriceRange_ScansAggregates(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MIN(hourly_rate), 0) AS lo`)).
		WillReturnRows(sqlmock.NewRows([]string{"lo", "hi", "total"}).AddRow(12.5, 80.0, 2))

	pr, err := store.TutorPosts().PriceRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PriceRange{Min: 12.5, Max: 80, Count: 2}, pr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ConditionedOnOwner(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tutor_posts" WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(5), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tutor_posts" WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.TutorPosts().Delete(context.Background(), 5, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.TutorPosts().Delete(context.Background(), 5, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err := store.Users().Create(context.Background(), &domain.User{Email: "a@sfsu.edu", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestGetUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("missing@sfsu.edu", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Users().GetByEmail(context.Background(), "missing@sfsu.edu")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyFilter_BuildsPredicates(t *testing.T) {
	store, _ := newMockStore(t)
	lo, hi := 10.0, 20.0
	filter := domain.TutorPostFilter{Query: "  Calc_1 ", Subject: "Math", MinPrice: &lo, MaxPrice: &hi}

	sql := store.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []tutorPostModel
		return applyFilter(tx.Model(&tutorPostModel{}), filter).Find(&rows)
	})

	assert.Contains(t, sql, "JOIN users u ON u.id = tutor_posts.user_id")
	assert.Contains(t, sql, `calc\_1`)
	assert.Contains(t, sql, "s.subject_name = 'Math'")
	assert.Contains(t, sql, "tutor_posts.hourly_rate >= 10")
	assert.Contains(t, sql, "tutor_posts.hourly_rate <= 20")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}
