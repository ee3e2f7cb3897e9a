package mux

import (
	"errors"
	"net/http"
)

type bankResponse struct {
	Balance int `json:"balance"`
}

func (m *Mux) getAdminBank() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bankResponse{Balance: m.pitBoss.BankBalance()})
	}
}

type postAdminBankPayload struct {
	// Amount funds the bank when positive; negative defunds
	Amount int `json:"amount"`
}

func (m *Mux) postAdminBank() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postAdminBankPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		var err error
		switch {
		case payload.Amount > 0:
			err = m.pitBoss.FundBank(payload.Amount)
		case payload.Amount < 0:
			err = m.pitBoss.DefundBank(-payload.Amount)
		default:
			err = errors.New("amount cannot be zero")
		}

		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, bankResponse{Balance: m.pitBoss.BankBalance()})
	}
}
