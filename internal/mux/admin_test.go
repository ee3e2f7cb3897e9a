package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_adminBank(t *testing.T) {
	a := assert.New(t)
	tm := newTestMux(t, "")

	admin, adminToken := tm.player(t)
	a.NoError(tm.store.SetSiteAdmin(cbg, admin.ID, true))

	_, playerToken := tm.player(t)

	// regular players cannot see the house bank
	assertGet(t, tm.ts, "/admin/bank", nil, 403, playerToken)

	var resp bankResponse
	assertGet(t, tm.ts, "/admin/bank", &resp, 200, adminToken)
	a.Equal(100000, resp.Balance)

	assertPost(t, tm.ts, "/admin/bank", postAdminBankPayload{Amount: 5000}, &resp, 200, adminToken)
	a.Equal(105000, resp.Balance)

	assertPost(t, tm.ts, "/admin/bank", postAdminBankPayload{Amount: -25000}, &resp, 200, adminToken)
	a.Equal(80000, resp.Balance)

	var errObj errorResponse
	assertPost(t, tm.ts, "/admin/bank", postAdminBankPayload{Amount: 0}, &errObj, 400, adminToken)
	a.Equal("amount cannot be zero", errObj.Message)

	errObj = errorResponse{}
	assertPost(t, tm.ts, "/admin/bank", postAdminBankPayload{Amount: -1000000}, &errObj, 400, adminToken)
	a.Equal("bank cannot cover the requested amount", errObj.Message)
}
