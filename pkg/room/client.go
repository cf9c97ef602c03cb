package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	player  sam.Player
	tableID string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, player sam.Player, tableID string) *Client {
	return &Client{
		send:    make(chan interface{}, 256),
		Close:   make(chan string, 1),
		Conn:    conn,
		player:  player,
		tableID: tableID,
	}
}

// Send send a message to the web client
// A client that can't keep up misses the message
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer is full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Player returns the player behind the connection
func (c *Client) Player() sam.Player {
	return c.player
}

// TableID returns the table the client is watching
func (c *Client) TableID() string {
	return c.tableID
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.player.ID, c.tableID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}

func (c *Client) close(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}
