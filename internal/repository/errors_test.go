package repository

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError("Genre", "create", nil))

	testCases := []struct {
		name    string
		err     error
		kind    apperr.Kind
		message string
	}{
		{
			name:    "unique violation",
			err:     fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}),
			kind:    apperr.KindConflict,
			message: "Genre already exists",
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			kind: apperr.KindConflict,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: pgerrcode.CheckViolation},
			kind: apperr.KindValidation,
		},
		{
			name:    "translated duplicate",
			err:     gorm.ErrDuplicatedKey,
			kind:    apperr.KindConflict,
			message: "Genre already exists",
		},
		{
			name:    "anything else",
			err:     errors.New("connection reset"),
			kind:    apperr.KindServer,
			message: "failed to create Genre",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := wrapError("Genre", "create", tc.err)

			appErr := apperr.As(wrapped)
			if assert.NotNil(t, appErr) {
				assert.Equal(t, tc.kind, appErr.Kind)
				if tc.message != "" {
					assert.Equal(t, tc.message, appErr.Message)
				}
			}
			assert.ErrorIs(t, wrapped, tc.err)
		})
	}
}

func TestWrapError_KeepsApplicationErrors(t *testing.T) {
	notFound := apperr.NotFound("Movie", "42")
	wrapped := wrapError("Movie", "update", notFound)

	assert.Same(t, notFound, wrapped)
	assert.Equal(t, http.StatusNotFound, apperr.As(wrapped).Status)
}

func TestSearchSort(t *testing.T) {
	testCases := []struct {
		sortBy   string
		desc     bool
		expected string
	}{
		{"", false, "title ASC"},
		{"unknown", true, "title ASC"},
		{"name", true, "title DESC"},
		{"rating", true, "average_rating DESC, title ASC"},
		{"Views", false, "views ASC, title ASC"},
		{"releasedate", false, "release_date ASC, title ASC"},
		{"featured", true, "featured DESC, title ASC"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, searchSort(tc.sortBy, tc.desc), tc.sortBy)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_real\\`, escapeLike(`100% _real\`))
	assert.Equal(t, "matrix", escapeLike("matrix"))
}
