package tmerr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("post %d not found", 4)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	wrapped := errors.Wrap(Validation("title is required"), "creating post")
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindValidation))
	assert.False(t, Is(nil, KindValidation))
}

func TestInternalKeepsExistingKind(t *testing.T) {
	err := Internal(Conflict("team name taken"), "creating team")
	assert.Equal(t, KindConflict, KindOf(err))

	cause := errors.New("connection reset")
	err = Internal(cause, "loading team %d", 3)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", MessageOf(err))

	assert.Nil(t, Internal(nil, "nothing"))
	assert.Nil(t, Wrap(nil, KindConflict, "nothing"))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Request already accepted", MessageOf(InvalidState("Request already %s", "accepted")))
	assert.Equal(t, "validation_error: title is required", Validation("title is required").Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindSelfRequest, http.StatusBadRequest},
		{KindInvalidState, http.StatusBadRequest},
		{KindUnauthorized, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindDuplicateRequest, http.StatusConflict},
		{KindAlreadyMember, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			assert.Equal(t, test.status, HTTPStatus(test.kind))
		})
	}
}
