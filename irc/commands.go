package irc

import (
	"log"
	"strings"
)

// command binds an IRC verb to its handler. Commands with authRequired set
// reject sessions that have not completed registration.
type command struct {
	execute      func(*Client, []string)
	authRequired bool
}

func commandTable() map[string]command {
	return map[string]command{
		"PASS": {(*Client).handlePass, false},
		"NICK": {(*Client).handleNick, false},
		"USER": {(*Client).handleUser, false},
		"QUIT": {(*Client).handleQuit, false},

		"PING":    {(*Client).handlePing, true},
		"PONG":    {(*Client).handlePong, true},
		"JOIN":    {(*Client).handleJoin, true},
		"PART":    {(*Client).handlePart, true},
		"MODE":    {(*Client).handleMode, true},
		"KICK":    {(*Client).handleKick, true},
		"INVITE":  {(*Client).handleInvite, true},
		"PRIVMSG": {(*Client).handlePrivmsg, true},
		"NOTICE":  {(*Client).handleNotice, true},
		"WHO":     {(*Client).handleWho, true},
		"LIST":    {(*Client).handleList, true},
		"TOPIC":   {(*Client).handleTopic, true},
	}
}

// dispatch tokenises one inbound line and routes it to its handler. The verb
// is the first whitespace-separated word, compared literally. CAP is ignored
// for capability-negotiating clients; any other unknown verb answers 421.
func (s *Server) dispatch(c *Client, line string) {
	if s.Debug() {
		log.Printf("recv(%d): %s", c.id, line)
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name := fields[0]
	args := fields[1:]

	cmd, ok := s.commands[name]
	if !ok {
		if name != "CAP" {
			c.numeric(ERR_UNKNOWNCOMMAND, name+" :Unknown command")
		}
		return
	}

	if cmd.authRequired && !c.registered() {
		c.numeric(ERR_NOTREGISTERED, ":You have not registered")
		return
	}

	linesReceived.Inc()
	cmd.execute(c, args)
}

// joinTrailing rejoins arguments with single spaces and strips one leading
// ":" — the trailing-parameter convention used by the handlers.
func joinTrailing(args []string) string {
	return strings.TrimPrefix(strings.Join(args, " "), ":")
}
