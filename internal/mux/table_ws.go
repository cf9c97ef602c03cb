package mux

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"sam-server/pkg/playable"
	"sam-server/pkg/room"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

// maxMessageSize bounds an inbound message, the largest is a play of every card in a hand
const maxMessageSize = 4096

func (m *Mux) getTableIDWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		client := room.NewClient(conn, playerFromContext(r.Context()), tableFromContext(r.Context()).ID)
		log := logrus.WithFields(logrus.Fields{
			"client": client.String(),
			"remote": remoteAddr(r),
		})

		log.Debug("websocket connected")
		m.pitBoss.ClientConnected(client)

		waitForCloseFrame := make(chan bool)
		defer func() {
			m.pitBoss.ClientDisconnected(client)
			_ = conn.Close()
			close(waitForCloseFrame)
			log.WithField("reason", client.CloseError).Debug("websocket disconnected")
		}()

		go webSocketWriteLoop(client, log, waitForCloseFrame)
		webSocketReadLoop(client, log)
	}
}

// webSocketWriteLoop is the only writer of the connection
func webSocketWriteLoop(client *room.Client, log logrus.FieldLogger, waitForCloseFrame chan bool) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.Conn.Close()
	}()

	write := func(fn func() error) bool {
		_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := fn(); err != nil {
			log.WithError(err).Debug("could not write to websocket")
			return false
		}

		return true
	}

	for {
		select {
		case <-ticker.C:
			if !write(func() error { return client.Conn.WriteMessage(websocket.PingMessage, nil) }) {
				return
			}
		case reason := <-client.Close:
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
			write(func() error { return client.Conn.WriteMessage(websocket.CloseMessage, closeMsg) })

			// give the peer a moment to answer with its own close frame
			select {
			case <-waitForCloseFrame:
			case <-time.After(time.Second):
			}
			return
		case msg, ok := <-client.SendChan():
			if !ok {
				return
			}

			log.WithField("message", msg).Trace("sending message to client")
			if !write(func() error { return client.Conn.WriteJSON(msg) }) {
				return
			}
		}
	}
}

func webSocketReadLoop(client *room.Client, log logrus.FieldLogger) {
	for {
		var msg playable.PayloadIn
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.WithError(err).Warn("websocket closed unexpectedly")
			}

			client.CloseError = err
			return
		}

		client.ReceivedMessage(&msg)
	}
}
