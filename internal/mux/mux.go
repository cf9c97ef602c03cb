package mux

import (
	"context"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/thoas/go-funk"
	"sam-server/internal/config"
	"sam-server/internal/jwt"
	"sam-server/pkg/playable/sam"
	"sam-server/pkg/room"
	"sam-server/pkg/table"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxTableKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config  muxConfig
	version string
	engine  *sam.Engine
	store   table.Store
	pitBoss *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

type muxConfig struct {
	// tableLimit is how many tables can be open at once
	tableLimit         int
	defaultTurnTimeout int
	adminPlayerIDs     []string
}

// NewMux returns a new HTTP mux
// The pit boss must already be on shift
func NewMux(version string, engine *sam.Engine, store table.Store, pitBoss *room.PitBoss) *Mux {
	cfg := config.Instance()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		engine:  engine,
		store:   store,
		pitBoss: pitBoss,
		config: muxConfig{
			tableLimit:         cfg.Table.Limit,
			defaultTurnTimeout: cfg.Table.DefaultTurnTimeout,
			adminPlayerIDs:     cfg.AdminPlayerIDs,
		},
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/player").Handler(this.postPlayer())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/player/me").Handler(this.getPlayerMe())

		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())

		tr := r.PathPrefix("/table/{id:tbl_[A-Za-z0-9]+}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodGet).Path("").Handler(this.getTableID())
		tr.Methods(http.MethodDelete).Path("").Handler(this.deleteTableID())
		tr.Methods(http.MethodPost).Path("/seat").Handler(this.postTableIDSeat())
		tr.Methods(http.MethodGet).Path("/actions").Handler(this.getTableIDActions())
		tr.Methods(http.MethodPost).Path("/action").Handler(this.postTableIDAction())
		tr.Methods(http.MethodGet).Path("/games").Handler(this.getTableIDGames())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableIDWS())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		player, err := jwt.ValidPlayer(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		// admin rights follow the current configuration, not the token
		player.IsAdmin = funk.ContainsString(m.config.adminPlayerIDs, player.ID)

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, player)
		w.Header().Set("Sam-PlayerID", player.ID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func playerFromContext(ctx context.Context) sam.Player {
	return ctx.Value(ctxPlayerKey).(sam.Player)
}
