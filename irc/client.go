package irc

import (
	"bytes"
	"log"
	"net"
	"strings"

	"github.com/google/uuid"
)

const (
	// readBufferSize is the fixed recv chunk; inbound lines longer than the
	// buffer simply span several reads of the partial buffer.
	readBufferSize = 512
	// sendQueueSize bounds the per-client outbound queue. A full queue marks
	// a consumer too slow to keep; the line is dropped and logged.
	sendQueueSize = 128

	serverVersion = "0.1"
)

// Client is one connected session. All fields except the connection and the
// outbound queue are owned by the server's event loop; the reader and writer
// goroutines never touch them.
type Client struct {
	id     int
	uuid   string
	conn   net.Conn
	server *Server

	hostname string
	port     int

	nickname   string
	username   string
	realname   string
	passwordOK bool

	channels map[string]bool // names of joined channels

	out chan string
}

func newClient(s *Server, id int, conn net.Conn) *Client {
	host, port := remoteHostPort(conn.RemoteAddr())
	return &Client{
		id:       id,
		uuid:     uuid.NewString(),
		conn:     conn,
		server:   s,
		hostname: host,
		port:     port,
		channels: make(map[string]bool),
		out:      make(chan string, sendQueueSize),
	}
}

// registered reports whether the session has completed PASS, NICK and USER.
func (c *Client) registered() bool {
	return c.nickname != "" && c.username != "" && c.realname != "" && c.passwordOK
}

// send enqueues one outbound line. It never blocks the event loop; when the
// writer has fallen behind, the line is dropped.
func (c *Client) send(message string) {
	select {
	case c.out <- message:
		linesSent.Inc()
	default:
		log.Printf("[%s] Error: The message has not been sent entirely.", c.hostname)
	}
}

// readLoop frames inbound bytes into lines. Fixed-size reads are appended to
// a partial buffer; each complete "\n"-terminated line (CR stripped) is
// forwarded to the event loop exactly once, and the trailing fragment is
// carried into the next read.
func (c *Client) readLoop() {
	buf := make([]byte, readBufferSize)
	var partial []byte

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			partial = append(partial, buf[:n]...)
			for {
				idx := bytes.IndexByte(partial, '\n')
				if idx < 0 {
					break
				}
				line := strings.TrimSuffix(string(partial[:idx]), "\r")
				partial = partial[idx+1:]
				c.server.post(event{kind: eventLine, client: c, line: line})
			}
			if len(partial) > 0 && c.server.Debug() {
				log.Printf("partial recv(%d): %s", c.id, partial)
			}
		}
		if err != nil {
			c.server.post(event{kind: eventHangup, client: c, err: err})
			return
		}
	}
}

// writeLoop drains the outbound queue in order. Lines missing a trailing
// newline get one appended before transmission. The loop exits when the
// queue is closed (normal teardown) or a write fails.
func (c *Client) writeLoop() {
	for message := range c.out {
		if !strings.HasSuffix(message, "\n") {
			message += "\n"
		}
		if c.server.Debug() {
			log.Printf("send(%d): %s", c.id, message)
		}
		if _, err := c.conn.Write([]byte(message)); err != nil {
			log.Printf("[%s] Error writing to client: %v", c.hostname, err)
			c.server.post(event{kind: eventHangup, client: c, err: err})
			for range c.out {
				// discard until the event loop closes the queue
			}
			break
		}
	}
	c.conn.Close()
}

// joinChannel links the client into the channel and emits the join traffic:
// the JOIN broadcast to every member, then topic status and the name list to
// the joiner.
func (c *Client) joinChannel(ch *Channel) {
	ch.addMember(c)

	ch.broadcast(":" + c.prefix() + " JOIN " + ch.name)

	c.numeric(RPL_NOTOPIC, ch.name+" :No topic is set")
	c.numeric(RPL_NAMREPLY, ch.name+" :"+ch.nickList())
	c.numeric(RPL_ENDOFNAMES, ch.name+" :End of /NAMES list")
}

// welcome emits the registration block. It is invoked after every
// successful PASS, NICK and USER and does nothing until the session is
// fully registered.
func (c *Client) welcome() {
	if !c.registered() {
		return
	}

	srv := c.server
	c.numeric(RPL_WELCOME, ":Welcome to the Internet Relay Network "+c.prefix())
	c.numeric(RPL_YOURHOST, ":Your host is "+srv.Name()+", running version "+serverVersion)
	c.numeric(RPL_CREATED, ":This server was created "+srv.startTime)
	c.numeric(RPL_MYINFO, srv.Name()+" "+serverVersion+" default iklot")

	c.numeric(RPL_MOTDSTART, ":- "+srv.Name()+" Message of the day -")
	for _, line := range srv.motdLines() {
		c.numeric(RPL_MOTD, ":- "+line)
	}
	c.numeric(RPL_ENDOFMOTD, ":End of MOTD command")
}
