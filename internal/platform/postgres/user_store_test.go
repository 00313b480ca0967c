package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/store"
)

func newMockDB(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserStore(db), mock
}

func TestUserStoreCreateHashesAccessCode(t *testing.T) {
	userStore, mock := newMockDB(t)

	user, err := domain.NewUser("alpha-code-1")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, userStore.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())

	// The plaintext is gone and the stored hash verifies against it.
	assert.Empty(t, user.AccessCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedAccessCode), []byte("alpha-code-1")))
}

func TestUserStoreCreateRejectsInvalidUser(t *testing.T) {
	userStore, mock := newMockDB(t)

	err := userStore.Create(context.Background(), &domain.User{ID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByIDNotFound(t *testing.T) {
	userStore, mock := newMockDB(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT id, hashed_access_code").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hashed_access_code", "created_at", "updated_at"}))

	_, err := userStore.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByAccessCodeMatchesHash(t *testing.T) {
	userStore, mock := newMockDB(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("alpha-code-1"), bcrypt.MinCost)
	require.NoError(t, err)
	otherHash, err := bcrypt.GenerateFromPassword([]byte("different-code"), bcrypt.MinCost)
	require.NoError(t, err)

	matchID := uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "hashed_access_code", "created_at", "updated_at"}).
		AddRow(uuid.New(), string(otherHash), now, now).
		AddRow(matchID, string(hashed), now, now)

	mock.ExpectQuery("SELECT id, hashed_access_code").WillReturnRows(rows)

	user, err := userStore.GetByAccessCode(context.Background(), "alpha-code-1")
	require.NoError(t, err)
	assert.Equal(t, matchID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByAccessCodeNoMatch(t *testing.T) {
	userStore, mock := newMockDB(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("some-code"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "hashed_access_code", "created_at", "updated_at"}).
		AddRow(uuid.New(), string(hashed), now, now)

	mock.ExpectQuery("SELECT id, hashed_access_code").WillReturnRows(rows)

	_, err = userStore.GetByAccessCode(context.Background(), "wrong-code")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByAccessCodeEmptyCode(t *testing.T) {
	userStore, mock := newMockDB(t)

	_, err := userStore.GetByAccessCode(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
