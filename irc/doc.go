/*
Package irc implements a single-process, password-protected IRC server
covering the RFC 1459 client-to-server subset.

# Features

  - Registration sequence (PASS, NICK, USER) gated on a shared connection
    password; welcome block with configurable MOTD
  - Channels with admin and operator roles, created on first JOIN
  - Channel modes: i (invite-only), k (key), l (user limit), o (operator),
    t (topic restriction)
  - PART, KICK, INVITE (with automatic join of the invited user), TOPIC
  - PRIVMSG and NOTICE to channels and nicknames
  - WHO, LIST, PING/PONG
  - CAP is recognised and ignored for capability-negotiating clients

# Architecture

One event-loop goroutine owns every client and channel record. Connection
goroutines frame inbound bytes into lines and drain per-client outbound
queues; they communicate with the loop through a single event channel. All
model mutation is therefore serialised: inbound lines on one connection are
processed in arrival order, outbound lines per recipient keep their enqueue
order, and handlers run to completion before the next event is serviced.

SIGINT requests shutdown; SIGQUIT toggles verbose I/O tracing. The loop
publishes an immutable state snapshot after every event for the optional
admin HTTP server (see the admind package).

# Usage

	cfg := config.Default()
	cfg.Server.Port = 6667
	cfg.Server.Password = "letmein"

	server := irc.NewServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	<-server.Done()
*/
package irc
