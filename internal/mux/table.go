package mux

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/store"
)

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := m.store.ListTables(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		// the state document is internal; list responses carry the metadata only
		for _, table := range tables {
			table.State = nil
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

type postTablePayload struct {
	Game    string                  `json:"game"`
	Options playable.AdditionalData `json:"options"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		dealer, err := m.pitBoss.CreateTable(r.Context(), player.ID, pp.Game, pp.Options)
		if err != nil {
			// option validation failures and unknown games are caller mistakes
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		record, err := m.store.GetTable(r.Context(), dealer.UUID())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		record.State = nil
		writeJSON(w, http.StatusCreated, record)
	}
}

type getTableUUIDResponse struct {
	*store.TableRecord
	GameState *playable.Response `json:"gameState"`
}

func (m *Mux) getTableUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		dealer, err := m.pitBoss.Dealer(record.UUID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, err)
			return
		}

		state, err := dealer.State(player.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		record.State = nil
		writeJSON(w, http.StatusOK, getTableUUIDResponse{
			TableRecord: record,
			GameState:   state,
		})
	})
}

type postSeatPayload struct {
	BuyIn int `json:"buyIn"`
}

func (m *Mux) postTableUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		var payload postSeatPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if err := m.pitBoss.JoinTable(r.Context(), record.UUID, player.ID, payload.BuyIn); err != nil {
			if errors.Is(err, store.ErrInsufficientChips) {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}

			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, statusOK)
	})
}

func (m *Mux) deleteTableUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		if err := m.pitBoss.LeaveTable(r.Context(), record.UUID, player.ID); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	})
}

type postTopUpPayload struct {
	Amount int `json:"amount"`
}

func (m *Mux) postTableUUIDSeatTopUp() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		var payload postTopUpPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if err := m.pitBoss.TopUpTable(r.Context(), record.UUID, player.ID, payload.Amount); err != nil {
			if errors.Is(err, store.ErrInsufficientChips) {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}

			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	})
}

func (m *Mux) postTableUUIDAction() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		dealer, err := m.pitBoss.Dealer(record.UUID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, err)
			return
		}

		var payload playable.PayloadIn
		if !decodeRequest(w, r, &payload) {
			return
		}

		resp, err := dealer.Act(player.ID, &payload)
		if err != nil {
			writeGameError(w, err)
			return
		}

		if resp == nil {
			resp = playable.OK(payload.Context)
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

// postTableUUIDAdvance drives a stalled table forward. Any caller may poke
// it; the game decides whether enough time has passed.
func (m *Mux) postTableUUIDAdvance() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		dealer, err := m.pitBoss.Dealer(record.UUID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, err)
			return
		}

		resp, err := dealer.Act(player.ID, &playable.PayloadIn{Action: "advance"})
		if err != nil {
			writeGameError(w, err)
			return
		}

		if resp == nil {
			resp = playable.OK()
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

// deleteTableUUID closes the table. Only the table admin or a site admin may do it.
func (m *Mux) deleteTableUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*store.Player)
		record := r.Context().Value(ctxTableKey).(*store.TableRecord)

		if record.AdminID != player.ID && !player.IsSiteAdmin {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		if err := m.pitBoss.CloseTable(r.Context(), record.UUID); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	})
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]
		record, err := m.store.GetTable(r.Context(), uuid)
		if err != nil {
			if errors.Is(err, store.ErrTableNotFound) {
				writeJSONError(w, http.StatusNotFound, nil)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, record)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
