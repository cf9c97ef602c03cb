package mux

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
)

func tableFromContext(ctx context.Context) *sam.Table {
	return ctx.Value(ctxTableKey).(*sam.Table)
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		tables, err := m.store.List(r.Context(), start, rows)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

type postTablePayload struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	BO          int    `json:"bo"`
	PlayerLimit int    `json:"playerLimit"`
	// TurnTimeout is in seconds, 0 disables the turn clock and nil uses the server default
	TurnTimeout *int `json:"turnTimeout"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		n, err := m.store.Count(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		if n >= m.config.tableLimit {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("the server can only hold %d tables", m.config.tableLimit))
			return
		}

		params := sam.TableParams{
			Name:        pp.Name,
			Password:    pp.Password,
			BO:          pp.BO,
			PlayerLimit: pp.PlayerLimit,
			TurnTimeout: m.config.defaultTurnTimeout,
		}

		if pp.TurnTimeout != nil {
			params.TurnTimeout = *pp.TurnTimeout
		}

		player := playerFromContext(r.Context())
		tbl, err := m.engine.NewTable(player, params)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := m.store.Create(r.Context(), tbl); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, tbl.ForViewer(player.ID))
	}
}

func (m *Mux) getTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		writeJSON(w, http.StatusOK, tableFromContext(r.Context()).ForViewer(player.ID))
	}
}

func (m *Mux) deleteTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		tbl := tableFromContext(r.Context())

		if tbl.HostID != player.ID && !player.IsAdmin {
			writeJSONError(w, http.StatusForbidden, errors.New("only the host can delete the table"))
			return
		}

		if err := m.pitBoss.CloseTable(r.Context(), tbl.ID, "the table was deleted"); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		if err := m.store.Delete(r.Context(), tbl.ID); err != nil {
			writeError(w, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"table":  tbl.ID,
			"player": player.ID,
		}).Info("deleted table")

		writeJSON(w, http.StatusOK, statusOK)
	}
}

type postTableIDSeatPayload struct {
	Password string `json:"password"`
}

func (m *Mux) postTableIDSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTableIDSeatPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player := playerFromContext(r.Context())
		tbl, err := m.pitBoss.Enter(r.Context(), tableFromContext(r.Context()).ID, player, pp.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tbl)
	}
}

func (m *Mux) getTableIDActions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		writeJSON(w, http.StatusOK, m.engine.Actions(tableFromContext(r.Context()), player))
	}
}

func (m *Mux) postTableIDAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp playable.PayloadIn
		if !decodeRequest(w, r, &pp) {
			return
		}

		if err := pp.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		a, err := sam.ParseAction(sam.Kind(pp.Action), pp.Payload)
		if err != nil {
			writeError(w, err)
			return
		}

		player := playerFromContext(r.Context())
		tbl, err := m.pitBoss.Apply(r.Context(), tableFromContext(r.Context()).ID, player, a)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tbl)
	}
}

func (m *Mux) getTableIDGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		games, err := m.store.Games(r.Context(), tableFromContext(r.Context()).ID, start, rows)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, games)
	}
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tbl, err := m.store.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, tbl)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
