package mux

import (
	"net/http"

	"cardroom-server/pkg/store"
)

type walletResponse struct {
	Chips int `json:"chips"`
}

func (m *Mux) getWallet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)

		chips, err := m.wallet.Balance(r.Context(), player.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, walletResponse{Chips: chips})
	}
}

type postWalletClaimPayload struct {
	Token string `json:"token"`
}

func (m *Mux) postWalletClaim() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)

		var payload postWalletClaimPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if err := m.recaptcha.Verify(payload.Token); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		chips, err := m.wallet.ClaimFreeChips(r.Context(), player.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, walletResponse{Chips: chips})
	}
}

type postWalletBuyPayload struct {
	Units int `json:"units"`
}

func (m *Mux) postWalletBuy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)

		var payload postWalletBuyPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		chips, err := m.wallet.BuyChips(r.Context(), player.ID, payload.Units)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, walletResponse{Chips: chips})
	}
}

type postWalletWithdrawPayload struct {
	Chips int `json:"chips"`
}

type postWalletWithdrawResponse struct {
	Units int `json:"units"`
}

func (m *Mux) postWalletWithdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)

		var payload postWalletWithdrawPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		units, err := m.wallet.WithdrawChips(r.Context(), player.ID, payload.Chips)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, postWalletWithdrawResponse{Units: units})
	}
}
