package irc

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/presbrey/ircserv/irc/config"
)

type eventKind int

const (
	eventAccept eventKind = iota
	eventLine
	eventHangup
)

// event is the single currency of the server loop: a new connection, one
// complete inbound line, or a dead socket.
type event struct {
	kind   eventKind
	conn   net.Conn
	client *Client
	line   string
	err    error
}

// Server is the coordinator. The run loop goroutine exclusively owns the
// client and channel registries; connection goroutines communicate with it
// only through the event channel, so no locking guards the model and every
// handler runs to completion before the next line is serviced.
type Server struct {
	cfg       *config.Config
	password  string
	startTime string

	listener net.Listener

	events chan event
	done   chan struct{}
	once   sync.Once

	debug atomic.Bool

	commands map[string]command

	// Owned by the run loop.
	nextID   int
	clients  map[int]*Client
	channels map[string]*Channel

	snapshot atomic.Pointer[Snapshot]
}

// NewServer creates a server from a validated configuration.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:       cfg,
		password:  cfg.Server.Password,
		startTime: time.Now().Format(time.ANSIC),
		events:    make(chan event, 512),
		done:      make(chan struct{}),
		clients:   make(map[int]*Client),
		channels:  make(map[string]*Channel),
	}
	s.commands = commandTable()
	s.publishSnapshot()
	return s
}

// Name returns the server identity used in reply prefixes.
func (s *Server) Name() string { return s.cfg.Server.Name }

// Addr returns the bound listener address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Debug reports whether verbose I/O tracing is enabled.
func (s *Server) Debug() bool { return s.debug.Load() }

// SetDebug switches verbose I/O tracing.
func (s *Server) SetDebug(on bool) { s.debug.Store(on) }

// Done closes when the server has been asked to shut down.
func (s *Server) Done() <-chan struct{} { return s.done }

// motdLines returns the configured MOTD body lines.
func (s *Server) motdLines() []string { return s.cfg.Server.MOTD }

// Start binds the listener and launches the accept, signal and event loops.
// It returns immediately; use Done to wait for shutdown.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	s.listener = listener

	log.Printf("Starting %s on %s", s.Name(), listener.Addr())
	log.Printf("Waiting for connections ...")
	log.Printf("Press Ctrl + \\ for debug mode.")
	log.Printf("Press Ctrl + C to close the server.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGQUIT)
	go s.signalLoop(sig)

	go s.acceptLoop()
	go s.run()
	return nil
}

// Stop requests shutdown. Idempotent.
func (s *Server) Stop() {
	s.once.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
	})
}

// post hands an event to the run loop, giving up once shutdown started.
func (s *Server) post(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
			default:
				log.Printf("Error: Failed to accept connection: %v", err)
			}
			return
		}
		s.post(event{kind: eventAccept, conn: conn})
	}
}

func (s *Server) signalLoop(sig chan os.Signal) {
	for {
		select {
		case <-s.done:
			return
		case received := <-sig:
			switch received {
			case syscall.SIGINT:
				log.Printf("You pressed Ctrl+C! The server will shut down. Goodbye!")
				s.Stop()
			case syscall.SIGQUIT:
				if s.debug.CompareAndSwap(false, true) {
					log.Printf("Debug Mode On.")
				} else {
					s.debug.Store(false)
					log.Printf("Debug Mode Off.")
				}
			}
		}
	}
}

// run is the event loop; it is the only goroutine that touches the client
// and channel registries.
func (s *Server) run() {
	for {
		select {
		case <-s.done:
			for _, c := range s.clients {
				close(c.out)
			}
			s.clients = make(map[int]*Client)
			s.channels = make(map[string]*Channel)
			return
		case ev := <-s.events:
			s.handleEvent(ev)
			s.publishSnapshot()
		}
	}
}

func (s *Server) handleEvent(ev event) {
	switch ev.kind {
	case eventAccept:
		s.addClient(ev.conn)
	case eventLine:
		if _, alive := s.clients[ev.client.id]; !alive {
			return
		}
		s.dispatch(ev.client, ev.line)
	case eventHangup:
		if _, alive := s.clients[ev.client.id]; !alive {
			return
		}
		if ev.err != nil && ev.err != io.EOF {
			log.Printf("[%s] Connection error: %v", ev.client.hostname, ev.err)
		}
		s.removeClient(ev.client)
	}
}

func (s *Server) addClient(conn net.Conn) *Client {
	s.nextID++
	c := newClient(s, s.nextID, conn)
	s.clients[c.id] = c

	go c.readLoop()
	go c.writeLoop()

	if s.Debug() {
		log.Printf("* New connection {id: %d, uuid: %s, ip: %s, port: %d}", c.id, c.uuid, c.hostname, c.port)
	}
	return c
}

// removeClient removes the session from every channel it joined (each
// removal broadcasts a PART), drops the record, and closes the outbound
// queue so the writer flushes and closes the socket.
func (s *Server) removeClient(c *Client) {
	if s.Debug() {
		log.Printf("* Closed connection {id: %d, ip: %s, port: %d}", c.id, c.hostname, c.port)
	}

	for name := range c.channels {
		if ch := s.channels[name]; ch != nil {
			ch.part(c, "")
		}
	}
	delete(s.clients, c.id)
	close(c.out)
}

func (s *Server) clientByNick(nickname string) *Client {
	for _, c := range s.clients {
		if c.nickname == nickname {
			return c
		}
	}
	return nil
}

// orderedClients returns all sessions in connection order.
func (s *Server) orderedClients() []*Client {
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

// orderedChannels returns all channels sorted by name.
func (s *Server) orderedChannels() []*Channel {
	channels := make([]*Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].name < channels[j].name })
	return channels
}
