package mux

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/store"
)

func Test_postTable(t *testing.T) {
	a := assert.New(t)
	tm := newTestMux(t, "")

	player, token := tm.player(t)

	var record store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "blackjack"}, &record, 201, token)
	a.NotEmpty(record.UUID)
	a.Equal("blackjack", record.Game)
	a.Equal(player.ID, record.AdminID)
	a.Empty(record.State)

	var errObj errorResponse
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "war"}, &errObj, 400, token)
	a.Equal("unknown game", errObj.Message)

	errObj = errorResponse{}
	assertPost(t, tm.ts, "/table", postTablePayload{
		Game:    "texas-hold-em",
		Options: playable.AdditionalData{"smallBlind": 100, "bigBlind": 50},
	}, &errObj, 400, token)
	a.Equal("big blind must be at least the small blind", errObj.Message)

	// creating a table requires auth
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "blackjack"}, nil, 401)
}

func Test_getTable(t *testing.T) {
	a := assert.New(t)
	tm := newTestMux(t, "")

	_, token := tm.player(t)

	var first store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "blackjack"}, &first, 201, token)

	var second store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "texas-hold-em"}, &second, 201, token)

	var tables []*store.TableRecord
	assertGet(t, tm.ts, "/table", &tables, 200, token)
	a.Equal(2, len(tables))

	uuids := []string{tables[0].UUID, tables[1].UUID}
	a.Contains(uuids, first.UUID)
	a.Contains(uuids, second.UUID)
	a.Empty(tables[0].State)
}

func Test_tableSeatLifecycle(t *testing.T) {
	a := assert.New(t)
	tm := newTestMux(t, "")

	alice, aliceToken := tm.player(t)
	tm.fundWallet(t, alice.ID, 10000)

	var record store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "texas-hold-em"}, &record, 201, aliceToken)

	seatPath := fmt.Sprintf("/table/%s/seat", record.UUID)
	assertPost(t, tm.ts, seatPath, postSeatPayload{BuyIn: 2000}, nil, 201, aliceToken)

	var wallet walletResponse
	assertGet(t, tm.ts, "/wallet", &wallet, 200, aliceToken)
	a.Equal(8000, wallet.Chips)

	// a second seat anywhere is refused
	var otherTable store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "blackjack"}, &otherTable, 201, aliceToken)

	var errObj errorResponse
	assertPost(t, tm.ts, fmt.Sprintf("/table/%s/seat", otherTable.UUID), postSeatPayload{BuyIn: 500}, &errObj, 400, aliceToken)
	a.Equal("player is already seated at a table", errObj.Message)

	// table state includes the live game state
	var stateResp getTableUUIDResponse
	assertGet(t, tm.ts, "/table/"+record.UUID, &stateResp, 200, aliceToken)
	a.Equal(record.UUID, stateResp.UUID)
	a.NotNil(stateResp.GameState)

	// top up the seat
	assertPost(t, tm.ts, seatPath+"/topup", postTopUpPayload{Amount: 500}, nil, 200, aliceToken)
	assertGet(t, tm.ts, "/wallet", &wallet, 200, aliceToken)
	a.Equal(7500, wallet.Chips)

	// cash out
	assertDelete(t, tm.ts, seatPath, nil, 200, aliceToken)
	assertGet(t, tm.ts, "/wallet", &wallet, 200, aliceToken)
	a.Equal(10000, wallet.Chips)

	// an unknown table is a 404
	assertPost(t, tm.ts, "/table/00000000-0000-0000-0000-000000000000/seat", postSeatPayload{BuyIn: 500}, nil, 404, aliceToken)
}

func Test_postTableUUIDAction(t *testing.T) {
	a := assert.New(t)
	tm := newTestMux(t, "")

	alice, aliceToken := tm.player(t)
	tm.fundWallet(t, alice.ID, 10000)

	bob, bobToken := tm.player(t)
	tm.fundWallet(t, bob.ID, 10000)

	var record store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "texas-hold-em"}, &record, 201, aliceToken)

	seatPath := fmt.Sprintf("/table/%s/seat", record.UUID)
	assertPost(t, tm.ts, seatPath, postSeatPayload{BuyIn: 2000}, nil, 201, aliceToken)
	assertPost(t, tm.ts, seatPath, postSeatPayload{BuyIn: 3000}, nil, 201, bobToken)

	actionPath := fmt.Sprintf("/table/%s/action", record.UUID)
	var resp playable.Response
	assertPost(t, tm.ts, actionPath, playable.PayloadIn{Action: "deal", Context: "c1"}, &resp, 200, aliceToken)
	a.Equal("OK", resp.Value)
	a.Equal("c1", resp.Context)

	// the small blind acts first; everyone else is rejected
	var errObj errorResponse
	assertPost(t, tm.ts, actionPath, playable.PayloadIn{Action: "fold"}, &errObj, 400, bobToken)
	a.Equal("it is not your turn", errObj.Message)

	assertPost(t, tm.ts, actionPath, playable.PayloadIn{Action: "fold"}, nil, 200, aliceToken)

	// bob won the blinds uncontested
	var stateResp getTableUUIDResponse
	assertGet(t, tm.ts, "/table/"+record.UUID, &stateResp, 200, aliceToken)
	data, ok := stateResp.GameState.Data.(map[string]interface{})
	a.True(ok)

	lastHand, ok := data["lastHand"].(map[string]interface{})
	a.True(ok)
	a.Equal(float64(75), lastHand["pot"])

	errObj = errorResponse{}
	assertPost(t, tm.ts, actionPath, playable.PayloadIn{Action: "jump"}, &errObj, 400, aliceToken)
	a.Equal("unknown action: jump", errObj.Message)

	// the table has seen recent activity, so advance is refused
	errObj = errorResponse{}
	assertPost(t, tm.ts, fmt.Sprintf("/table/%s/advance", record.UUID), nil, &errObj, 400, aliceToken)
	a.Equal("the table has not been inactive long enough", errObj.Message)
}

func Test_deleteTableUUID(t *testing.T) {
	a := assert.New(t)
	tm := newTestMux(t, "")

	alice, aliceToken := tm.player(t)
	tm.fundWallet(t, alice.ID, 10000)

	bob, bobToken := tm.player(t)
	tm.fundWallet(t, bob.ID, 10000)

	var record store.TableRecord
	assertPost(t, tm.ts, "/table", postTablePayload{Game: "texas-hold-em"}, &record, 201, aliceToken)

	seatPath := fmt.Sprintf("/table/%s/seat", record.UUID)
	assertPost(t, tm.ts, seatPath, postSeatPayload{BuyIn: 2000}, nil, 201, aliceToken)
	assertPost(t, tm.ts, seatPath, postSeatPayload{BuyIn: 3000}, nil, 201, bobToken)

	// only the table admin (or a site admin) may close
	assertDelete(t, tm.ts, "/table/"+record.UUID, nil, 403, bobToken)
	assertDelete(t, tm.ts, "/table/"+record.UUID, nil, 200, aliceToken)

	// everyone was cashed out
	var wallet walletResponse
	assertGet(t, tm.ts, "/wallet", &wallet, 200, aliceToken)
	a.Equal(10000, wallet.Chips)
	assertGet(t, tm.ts, "/wallet", &wallet, 200, bobToken)
	a.Equal(10000, wallet.Chips)

	// the dealer is gone
	assertGet(t, tm.ts, "/table/"+record.UUID, nil, 404, aliceToken)
}
