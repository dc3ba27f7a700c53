package irc

import "strings"

// defaultUserLimit is the member cap a channel starts with.
const defaultUserLimit = 1000

// Channel is a named chat room. Members and operators are stored as session
// ids and resolved through the server registry, so removal can never leave a
// dangling reference in either direction.
type Channel struct {
	server *Server
	name   string

	admin     int   // session id of the channel admin
	members   []int // join order
	operators map[int]bool

	inviteOnly      bool
	key             string
	limit           int // 0 = unlimited
	topicRestricted bool
	topic           string
}

func newChannel(s *Server, name, key string) *Channel {
	return &Channel{
		server:    s,
		name:      name,
		key:       key,
		limit:     defaultUserLimit,
		operators: make(map[int]bool),
	}
}

func (ch *Channel) isMember(c *Client) bool {
	for _, id := range ch.members {
		if id == c.id {
			return true
		}
	}
	return false
}

func (ch *Channel) isOperator(c *Client) bool {
	return ch.operators[c.id]
}

// canModerate reports whether c may enforce channel policy (admin or
// operator).
func (ch *Channel) canModerate(c *Client) bool {
	return ch.admin == c.id || ch.operators[c.id]
}

// memberByNick resolves a nickname against the member list only.
func (ch *Channel) memberByNick(nick string) *Client {
	for _, id := range ch.members {
		if c := ch.server.clients[id]; c != nil && c.nickname == nick {
			return c
		}
	}
	return nil
}

// nickList renders the 353 name list: members in join order, the admin
// prefixed with "@", every name followed by a space.
func (ch *Channel) nickList() string {
	var sb strings.Builder
	for _, id := range ch.members {
		c := ch.server.clients[id]
		if c == nil {
			continue
		}
		if id == ch.admin {
			sb.WriteString("@")
		}
		sb.WriteString(c.nickname)
		sb.WriteString(" ")
	}
	return sb.String()
}

// broadcast sends a line to every channel member.
func (ch *Channel) broadcast(message string) {
	for _, id := range ch.members {
		if c := ch.server.clients[id]; c != nil {
			c.send(message)
		}
	}
}

// broadcastExcept sends a line to every channel member but one.
func (ch *Channel) broadcastExcept(message string, except *Client) {
	for _, id := range ch.members {
		if id == except.id {
			continue
		}
		if c := ch.server.clients[id]; c != nil {
			c.send(message)
		}
	}
}

// addMember links the client and the channel. The first member becomes admin
// and operator.
func (ch *Channel) addMember(c *Client) {
	ch.members = append(ch.members, c.id)
	c.channels[ch.name] = true
	if len(ch.members) == 1 {
		ch.admin = c.id
		ch.operators[c.id] = true
	}
}

// removeMember unlinks the client from the channel, reassigns the admin to
// the first remaining member when needed, and destroys the channel when it
// empties.
func (ch *Channel) removeMember(c *Client) {
	for i, id := range ch.members {
		if id == c.id {
			ch.members = append(ch.members[:i], ch.members[i+1:]...)
			break
		}
	}
	delete(ch.operators, c.id)
	delete(c.channels, ch.name)

	if len(ch.members) == 0 {
		delete(ch.server.channels, ch.name)
		return
	}
	if ch.admin == c.id {
		ch.admin = ch.members[0]
	}
}

// removeOperator drops the client from the operator set; absent clients are
// left alone.
func (ch *Channel) removeOperator(c *Client) {
	delete(ch.operators, c.id)
}

// part broadcasts the PART line (reason included when non-empty) and removes
// the member.
func (ch *Channel) part(c *Client, reason string) {
	if reason == "" {
		ch.broadcast(":" + c.prefix() + " PART " + ch.name)
	} else {
		ch.broadcast(":" + c.prefix() + " PART " + ch.name + " :" + reason)
	}
	ch.removeMember(c)
}

// kick broadcasts the KICK line and removes the target without a PART echo.
func (ch *Channel) kick(by, target *Client, reason string) {
	ch.broadcast(":" + by.prefix() + " KICK " + ch.name + " " + target.nickname + " :" + reason)
	ch.removeMember(target)
}
