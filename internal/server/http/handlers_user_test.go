package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler_Created(t *testing.T) {
	u := &fakeUserSvc{
		registerUser:  &models.User{ID: "u-1", Name: "Mike", Email: "mike@example.com", Age: 18, PasswordHash: []byte("hash"), AvatarKey: "secret-key"},
		registerToken: "tok-1",
	}
	s := newTestServer(u, &fakeSessionSvc{}, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users", "", `{"name":"Mike","email":"mike@example.com","password":"horsestaple"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "u-1", resp.User["id"])
	// internal fields never leave the server
	assert.NotContains(t, resp.User, "passwordHash")
	assert.NotContains(t, resp.User, "avatarKey")
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NotContains(t, rec.Body.String(), "secret-key")
}

func TestRegisterHandler_ValidationError(t *testing.T) {
	u := &fakeUserSvc{registerErr: fmt.Errorf("%w: password is too weak", common.ErrorValidation)}
	s := newTestServer(u, &fakeSessionSvc{}, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users", "", `{"name":"Mike","email":"mike@example.com","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password is too weak")
}

func TestRegisterHandler_MalformedBody(t *testing.T) {
	s := newTestServer(&fakeUserSvc{}, &fakeSessionSvc{}, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler_OK(t *testing.T) {
	u := &fakeUserSvc{
		loginUser:  &models.User{ID: "u-1", Email: "mike@example.com"},
		loginToken: "tok-2",
	}
	s := newTestServer(u, &fakeSessionSvc{}, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users/login", "", `{"email":"mike@example.com","password":"horsestaple"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tok-2")
}

func TestLoginHandler_Unauthorized(t *testing.T) {
	u := &fakeUserSvc{loginErr: common.ErrorUnauthorized}
	s := newTestServer(u, &fakeSessionSvc{}, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users/login", "", `{"email":"mike@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// the reason for the rejection is not observable
	assert.Contains(t, rec.Body.String(), "please authenticate")
}

func TestLogoutHandler_RevokesPresentedToken(t *testing.T) {
	u := &fakeUserSvc{}
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(u, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users/logout", "tok-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-1", u.revokedToken)
}

func TestLogoutAllHandler(t *testing.T) {
	u := &fakeUserSvc{}
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(u, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "POST", "/users/logoutAll", "tok-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, u.revokeAllCalls)
}

func TestGetProfileHandler(t *testing.T) {
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(&fakeUserSvc{}, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "GET", "/users/me", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "u-1", view["id"])
	assert.Equal(t, "mike@example.com", view["email"])
}

func TestUpdateProfileHandler_PassesUpdatesThrough(t *testing.T) {
	u := &fakeUserSvc{updateOut: &models.User{ID: "u-1", Name: "Michael"}}
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(u, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "PATCH", "/users/me", "tok-1", `{"name":"Michael"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"name": "Michael"}, u.updates)
	assert.Contains(t, rec.Body.String(), "Michael")
}

func TestUpdateProfileHandler_DisallowedField(t *testing.T) {
	u := &fakeUserSvc{updateErr: fmt.Errorf("%w: field %q is not updatable", common.ErrorInvalidOperation, "height")}
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(u, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "PATCH", "/users/me", "tok-1", `{"height":180}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccountHandler(t *testing.T) {
	u := &fakeUserSvc{}
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(u, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "DELETE", "/users/me", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, u.deleteCalls)
	assert.Contains(t, rec.Body.String(), "mike@example.com")
}

func TestDeleteAccountHandler_InternalErrorIsGeneric(t *testing.T) {
	u := &fakeUserSvc{deleteErr: common.ErrorInternal}
	ss := &fakeSessionSvc{identity: authedIdentity()}
	s := newTestServer(u, ss, &fakeTaskSvc{}, &fakeAvatarSvc{})

	rec := doRequest(s, "DELETE", "/users/me", "tok-1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
