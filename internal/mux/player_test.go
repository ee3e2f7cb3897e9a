package mux

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/jwt"
	"cardroom-server/internal/util"
	"cardroom-server/pkg/store"
)

type failRecaptcha struct{}

func (failRecaptcha) Verify(token string) error {
	return errors.New("invalid recaptcha token")
}

func Test_postPlayer(t *testing.T) {
	tm := newTestMux(t, "")

	var obj errorResponse
	assertPost(t, tm.ts, "/player", "{}", &obj, 400)
	assert.Equal(t, "missing or invalid email address", obj.Message)

	obj = errorResponse{}
	assertPost(t, tm.ts, "/player", playerPayload{
		DisplayName: "&",
	}, &obj, 400)
	assert.Equal(t, "display name must only contain letters, numbers, and spaces, and be 40 characters or less", obj.Message)

	obj = errorResponse{}
	assertPost(t, tm.ts, "/player", playerPayload{
		DisplayName: strings.Repeat("A", 41),
	}, &obj, 400)
	assert.Equal(t, "display name must only contain letters, numbers, and spaces, and be 40 characters or less", obj.Message)

	email := util.RandomEmail()
	obj = errorResponse{}
	assertPost(t, tm.ts, "/player", playerPayload{
		Email:    email,
		Password: "",
	}, &obj, 400)
	assert.Equal(t, "password must be 6 or more characters", obj.Message)

	var pObj *playerWithEmail
	assertPost(t, tm.ts, "/player", playerPayload{
		Email:    email,
		Password: "123456",
	}, &pObj, 201)
	assert.Greater(t, pObj.ID, int64(0))
	assert.Equal(t, email, pObj.Email)
	assert.Equal(t, "Player", pObj.DisplayName)

	obj = errorResponse{}
	assertPost(t, tm.ts, "/player", &playerPayload{
		Email:    email,
		Password: "123456",
	}, &obj, 400)
	assert.Equal(t, "email address is already taken", obj.Message)

	// test display name
	email = util.RandomEmail()
	assertPost(t, tm.ts, "/player", playerPayload{
		Email:       email,
		Password:    "123456",
		DisplayName: "Tommy",
	}, &pObj, 201)
	assert.Equal(t, "Tommy", pObj.DisplayName)

	// recaptcha rejections surface as bad requests
	tm.recaptcha = failRecaptcha{}
	obj = errorResponse{}
	assertPost(t, tm.ts, "/player", playerPayload{
		Email:    util.RandomEmail(),
		Password: "123456",
	}, &obj, 400)
	assert.Equal(t, "invalid recaptcha token", obj.Message)
}

func Test_postPlayerAuth(t *testing.T) {
	tm := newTestMux(t, "")

	email := util.RandomEmail()
	player, err := tm.store.CreatePlayer(cbg, email, "Auth Test", "my-password")
	assert.NoError(t, err)

	var resp postPlayerAuthResponse
	assertPost(t, tm.ts, "/player/auth", playerPayload{
		Email:    email,
		Password: "my-password",
	}, &resp, 200)

	id, err := jwt.ValidPlayerID(resp.JWT)
	assert.NoError(t, err)
	assert.Equal(t, player.ID, id)
	assert.Equal(t, email, resp.Player.Email)

	var errObj errorResponse
	assertPost(t, tm.ts, "/player/auth", playerPayload{
		Email:    email,
		Password: "wrong-password",
	}, &errObj, 401)
	assert.Equal(t, store.ErrInvalidEmailOrPassword.Error(), errObj.Message)

	var playerObj *playerWithEmail
	assertGet(t, tm.ts, fmt.Sprintf("/player/auth/%s", resp.JWT), &playerObj, 200)
	assert.Equal(t, email, playerObj.Email)

	assertGet(t, tm.ts, "/player/auth/bad", &errObj, 401)
}

func Test_postAdminPlayerID(t *testing.T) {
	tm := newTestMux(t, "")

	admin, adminToken := tm.player(t)
	assert.NoError(t, tm.store.SetSiteAdmin(cbg, admin.ID, true))

	target, targetToken := tm.player(t)

	// only admins may manage players
	path := fmt.Sprintf("/admin/player/%d", target.ID)
	assertPost(t, tm.ts, path, adminPostPlayerIDRequest{Key: "isSiteAdmin", Value: true}, nil, 403, targetToken)

	assertPost(t, tm.ts, path, adminPostPlayerIDRequest{Key: "isSiteAdmin", Value: true}, nil, 200, adminToken)

	updated, err := tm.store.GetPlayerByID(cbg, target.ID)
	assert.NoError(t, err)
	assert.True(t, updated.IsSiteAdmin)

	var errObj errorResponse
	assertPost(t, tm.ts, path, adminPostPlayerIDRequest{Key: "isSiteAdmin", Value: "yes"}, &errObj, 400, adminToken)
	assert.Equal(t, "isSiteAdmin must be a boolean", errObj.Message)

	errObj = errorResponse{}
	assertPost(t, tm.ts, path, adminPostPlayerIDRequest{Key: "bogus"}, &errObj, 400, adminToken)
	assert.Equal(t, "bad payload", errObj.Message)

	assertPost(t, tm.ts, "/admin/player/999999", adminPostPlayerIDRequest{Key: "isSiteAdmin", Value: true}, nil, 404, adminToken)
}
