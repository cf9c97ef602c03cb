package mux

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"sam-server/internal/jwt"
	"sam-server/pkg/playable/sam"
)

type postPlayerPayload struct {
	// Pattern is "name@id", either part may be empty
	Pattern string `json:"pattern"`
}

type postPlayerResponse struct {
	Player  sam.Player `json:"player"`
	Pattern string     `json:"pattern"`
	JWT     string     `json:"jwt"`
}

func (m *Mux) postPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postPlayerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player := sam.NewPlayer(pp.Pattern, m.config.adminPlayerIDs)
		signed, err := jwt.Sign(player)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"player": player.ID,
			"remote": remoteAddr(r),
		}).Info("issued player token")

		writeJSON(w, http.StatusCreated, postPlayerResponse{
			Player:  player,
			Pattern: player.Pattern(),
			JWT:     signed,
		})
	}
}

func (m *Mux) getPlayerMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, playerFromContext(r.Context()))
	}
}
