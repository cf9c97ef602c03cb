package mux

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
	"sam-server/pkg/table"
)

func intPtr(i int) *int {
	return &i
}

func createTable(t *testing.T, ts *testServer, token string, payload postTablePayload) *sam.Table {
	t.Helper()

	var tbl sam.Table
	assertPost(t, ts.Server, "/table", payload, &tbl, 201, token)
	require.NotEmpty(t, tbl.ID)
	return &tbl
}

func TestMux_postTable(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t)
	host, token := signedPlayer(t, "Host@player_host")

	tbl := createTable(t, ts, token, postTablePayload{Name: "  room  ", Password: "secret", PlayerLimit: 4})
	a.Equal("room", tbl.Name)
	a.Equal(host.ID, tbl.HostID)
	a.Equal("secret", tbl.Password)
	a.Equal(30, tbl.TurnTimeout)
	a.Equal(int64(1), tbl.UpdateSerial)
	if a.NotNil(tbl.Game) {
		a.Len(tbl.Game.Players, 1)
		a.Equal(sam.PhaseWaiting, tbl.Game.State)
	}

	noClock := createTable(t, ts, token, postTablePayload{Name: "no clock", PlayerLimit: 2, TurnTimeout: intPtr(0)})
	a.Equal(0, noClock.TurnTimeout)

	var errObj errorResponse
	assertPost(t, ts.Server, "/table", postTablePayload{Name: "", PlayerLimit: 4}, &errObj, 400, token)
	a.Contains(errObj.Message, "table name")

	assertPost(t, ts.Server, "/table", postTablePayload{Name: "big", PlayerLimit: sam.MaxPlayers + 1}, &errObj, 400, token)
	a.Contains(errObj.Message, "player limit")

	assertPost(t, ts.Server, "/table", postTablePayload{Name: "no auth", PlayerLimit: 4}, &errObj, 401)

	// the server limit
	createTable(t, ts, token, postTablePayload{Name: "third", PlayerLimit: 4})
	assertPost(t, ts.Server, "/table", postTablePayload{Name: "fourth", PlayerLimit: 4}, &errObj, 400, token)
	a.Equal("the server can only hold 3 tables", errObj.Message)
}

func TestMux_getTable(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t)
	_, token := signedPlayer(t, "Host@player_host")

	first := createTable(t, ts, token, postTablePayload{Name: "first", PlayerLimit: 4})
	second := createTable(t, ts, token, postTablePayload{Name: "second", Password: "x", PlayerLimit: 4})

	var summaries []*table.Summary
	assertGet(t, ts.Server, "/table", &summaries, 200, token)
	if a.Len(summaries, 2) {
		ids := []string{summaries[0].ID, summaries[1].ID}
		a.ElementsMatch([]string{first.ID, second.ID}, ids)
	}

	summaries = nil
	assertGet(t, ts.Server, "/table?start=1&rows=1", &summaries, 200, token)
	a.Len(summaries, 1)

	var errObj errorResponse
	assertGet(t, ts.Server, "/table?rows=0", &errObj, 400, token)
	a.Equal("rows must be greater than zero", errObj.Message)
}

func TestMux_getTableID(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t)
	_, hostToken := signedPlayer(t, "Host@player_host")
	_, guestToken := signedPlayer(t, "Guest@player_guest")

	tbl := createTable(t, ts, hostToken, postTablePayload{Name: "room", Password: "secret", PlayerLimit: 4})

	var got sam.Table
	assertGet(t, ts.Server, "/table/"+tbl.ID, &got, 200, hostToken)
	a.Equal("secret", got.Password)

	got = sam.Table{}
	assertGet(t, ts.Server, "/table/"+tbl.ID, &got, 200, guestToken)
	a.Equal(tbl.ID, got.ID)
	a.Empty(got.Password)

	var errObj errorResponse
	assertGet(t, ts.Server, "/table/tbl_missing", &errObj, 404, hostToken)
	a.Equal(table.ErrNotFound.Error(), errObj.Message)

	assertGet(t, ts.Server, "/table/not-a-table", nil, 404, hostToken)
}

func TestMux_postTableIDSeat(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t)
	host, hostToken := signedPlayer(t, "Host@player_host")
	guest, guestToken := signedPlayer(t, "Guest@player_guest")
	_, thirdToken := signedPlayer(t, "Third@player_third")

	tbl := createTable(t, ts, hostToken, postTablePayload{Name: "room", Password: "secret", PlayerLimit: 2})
	path := "/table/" + tbl.ID + "/seat"

	var errObj errorResponse
	assertPost(t, ts.Server, path, postTableIDSeatPayload{Password: "wrong"}, &errObj, 403, guestToken)
	a.Equal(sam.ErrIncorrectPassword.Error(), errObj.Message)

	var got sam.Table
	assertPost(t, ts.Server, path, postTableIDSeatPayload{Password: "secret"}, &got, 200, guestToken)
	if a.NotNil(got.Game) {
		a.Len(got.Game.Players, 2)
		a.NotNil(got.Game.Player(guest.ID))
		a.NotNil(got.Game.Player(host.ID))
	}
	a.Empty(got.Password)

	assertPost(t, ts.Server, path, postTableIDSeatPayload{Password: "secret"}, &errObj, 400, thirdToken)
	a.Contains(errObj.Message, sam.ErrTableFull.Error())

	stored, err := ts.store.Get(cbg, tbl.ID)
	require.NoError(t, err)
	a.Len(stored.Players, 2)
}

func TestMux_actions(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t)
	host, hostToken := signedPlayer(t, "Host@player_host")
	_, guestToken := signedPlayer(t, "Guest@player_guest")

	tbl := createTable(t, ts, hostToken, postTablePayload{Name: "room", PlayerLimit: 4})
	base := "/table/" + tbl.ID

	var states map[sam.Kind]sam.State
	assertGet(t, ts.Server, base+"/actions", &states, 200, hostToken)
	a.True(states[sam.KindReady].Allowed())
	a.False(states[sam.KindPlay].Visible)

	states = nil
	assertGet(t, ts.Server, base+"/actions", &states, 200, guestToken)
	a.False(states[sam.KindReady].Visible)

	var got sam.Table
	assertPost(t, ts.Server, base+"/action", playable.PayloadIn{Action: string(sam.KindReady)}, &got, 200, hostToken)
	a.True(got.Game.Player(host.ID).IsReady)

	var errObj errorResponse
	assertPost(t, ts.Server, base+"/action", playable.PayloadIn{Action: string(sam.KindReady)}, &errObj, 400, guestToken)
	a.Equal(sam.ErrPlayerNotSeated.Error(), errObj.Message)

	assertPost(t, ts.Server, base+"/action", playable.PayloadIn{Action: "dance"}, &errObj, 400, hostToken)
	a.Contains(errObj.Message, sam.ErrUnknownAction.Error())

	assertPost(t, ts.Server, base+"/action", playable.PayloadIn{}, &errObj, 400, hostToken)
	a.Equal("action is required", errObj.Message)

	// one player cannot start a game
	assertPost(t, ts.Server, base+"/action", playable.PayloadIn{Action: string(sam.KindStartGame)}, &errObj, 400, hostToken)

	assertPost(t, ts.Server, base+"/action", playable.PayloadIn{
		Action:  string(sam.KindPlay),
		Payload: json.RawMessage(`{"cards": "nope"}`),
	}, &errObj, 400, hostToken)

	stored, err := ts.store.Get(cbg, tbl.ID)
	require.NoError(t, err)
	a.True(stored.Game.Player(host.ID).IsReady)
	a.Equal(int64(2), stored.UpdateSerial)
}

func TestMux_deleteTableID(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t)
	_, hostToken := signedPlayer(t, "Host@player_host")
	_, guestToken := signedPlayer(t, "Guest@player_guest")
	_, adminToken := signedPlayer(t, "Admin@player_admin")

	tbl := createTable(t, ts, hostToken, postTablePayload{Name: "room", PlayerLimit: 4})
	other := createTable(t, ts, hostToken, postTablePayload{Name: "other", PlayerLimit: 4})

	var errObj errorResponse
	assertDelete(t, ts.Server, "/table/"+tbl.ID, &errObj, 403, guestToken)
	a.Equal("only the host can delete the table", errObj.Message)

	var status map[string]string
	assertDelete(t, ts.Server, "/table/"+tbl.ID, &status, 200, hostToken)
	a.Equal(statusOK, status)

	assertGet(t, ts.Server, "/table/"+tbl.ID, &errObj, 404, hostToken)

	// admins can delete any table
	assertDelete(t, ts.Server, "/table/"+other.ID, &status, 200, adminToken)

	n, err := ts.store.Count(cbg)
	require.NoError(t, err)
	a.Equal(0, n)
}

func TestMux_getTableIDGames(t *testing.T) {
	ts := newTestServer(t)
	_, token := signedPlayer(t, "Host@player_host")
	tbl := createTable(t, ts, token, postTablePayload{Name: "room", PlayerLimit: 4})

	var games []*table.GameRecord
	assertGet(t, ts.Server, "/table/"+tbl.ID+"/games", &games, 200, token)
	assert.Empty(t, games)

	var errObj errorResponse
	assertGet(t, ts.Server, "/table/"+tbl.ID+"/games?start=-1", &errObj, 400, token)
}
