package irc

import (
	"fmt"
	"strconv"
	"strings"
)

// handlePass checks the connection password. A leading ":" on the supplied
// password is stripped before comparison; the comparison itself is literal.
func (c *Client) handlePass(args []string) {
	if c.registered() {
		c.numeric(ERR_ALREADYREGISTRED, ":You may not reregister")
		return
	}
	if len(args) == 0 {
		c.numeric(ERR_NEEDMOREPARAMS, "PASS :Not enough parameters")
		return
	}
	if c.server.password != strings.TrimPrefix(args[0], ":") {
		c.numeric(ERR_PASSWDMISMATCH, ":Password incorrect")
		return
	}
	c.passwordOK = true
	c.welcome()
}

// handleNick sets the nickname. The lookup covers every session, including
// the caller, so renaming to your current nickname also answers 433.
func (c *Client) handleNick(args []string) {
	if len(args) == 0 || args[0] == "" {
		c.numeric(ERR_NONICKNAMEGIVEN, ":No nickname given")
		return
	}
	nickname := args[0]
	if c.server.clientByNick(nickname) != nil {
		c.numeric(ERR_NICKNAMEINUSE, nickname+" :Nickname is already in use")
		return
	}
	c.nickname = nickname
	c.welcome()
}

// handleUser records username and realname. The realname is the fourth
// argument with its leading ":" stripped.
func (c *Client) handleUser(args []string) {
	if c.registered() {
		c.numeric(ERR_ALREADYREGISTRED, ":You may not reregister")
		return
	}
	if len(args) < 4 {
		c.numeric(ERR_NEEDMOREPARAMS, "USER :Not enough parameters")
		return
	}
	c.username = args[0]
	c.realname = strings.TrimPrefix(args[3], ":")
	c.welcome()
}

// handleQuit echoes the QUIT to the leaving client and tears the session
// down; removal broadcasts a PART on every joined channel.
func (c *Client) handleQuit(args []string) {
	reason := "Leaving..."
	if len(args) > 0 {
		reason = strings.TrimPrefix(args[0], ":")
	}
	c.send(":" + c.prefix() + " QUIT :" + reason)
	c.server.removeClient(c)
}

func (c *Client) handlePing(args []string) {
	if len(args) == 0 {
		c.numeric(ERR_NEEDMOREPARAMS, "PING :Not enough parameters")
		return
	}
	c.reply("PONG " + args[0])
}

func (c *Client) handlePong(args []string) {
	if len(args) == 0 {
		c.numeric(ERR_NEEDMOREPARAMS, "PONG :Not enough parameters")
		return
	}
	c.reply("PONG " + args[0])
}

// handleJoin creates the channel on first join (the creator becomes admin
// and operator, and a provided key seeds the channel key). Rejections are
// checked in order: invite-only, already a member (silent), full, bad key.
// A channel created here and then rejected is destroyed again so no empty
// channel survives the handler.
func (c *Client) handleJoin(args []string) {
	if len(args) == 0 {
		c.numeric(ERR_NEEDMOREPARAMS, "JOIN :Not enough parameters")
		return
	}
	name := args[0]
	key := ""
	if len(args) > 1 {
		key = args[1]
	}
	if !isValidChannelName(name) {
		c.numeric(ERR_NOSUCHCHANNEL, name+" :No such channel")
		return
	}

	srv := c.server
	ch := srv.channels[name]
	created := false
	if ch == nil {
		ch = newChannel(srv, name, key)
		srv.channels[name] = ch
		created = true
	}
	reject := func(code int, text string) {
		c.numeric(code, text)
		if created {
			delete(srv.channels, name)
		}
	}

	if ch.inviteOnly {
		reject(ERR_INVITEONLYCHAN, name+" :Cannot join channel (+i)")
		return
	}
	if ch.isMember(c) {
		return
	}
	if ch.limit > 0 && len(ch.members) >= ch.limit {
		reject(ERR_CHANNELISFULL, name+" :Cannot join channel (+l)")
		return
	}
	if ch.key != "" && ch.key != key {
		reject(ERR_BADCHANNELKEY, name+" :Cannot join channel (+k)")
		return
	}

	c.joinChannel(ch)
}

func (c *Client) handlePart(args []string) {
	if len(args) == 0 {
		c.numeric(ERR_NEEDMOREPARAMS, "PART :Not enough parameters")
		return
	}
	name := args[0]
	reason := ""
	if len(args) > 1 {
		reason = joinTrailing(args[1:])
	}

	ch := c.server.channels[name]
	if ch == nil {
		c.numeric(ERR_NOSUCHCHANNEL, name+" :No such channel")
		return
	}
	if !c.channels[name] {
		c.numeric(ERR_NOTONCHANNEL, name+" :You're not on that channel")
		return
	}
	ch.part(c, reason)
}

// handleKick removes a member. The issuer must be on the channel and be the
// admin or an operator; the target must be a member.
func (c *Client) handleKick(args []string) {
	if len(args) < 2 {
		c.numeric(ERR_NEEDMOREPARAMS, "KICK :Not enough parameters")
		return
	}
	name := args[0]
	targetNick := args[1]
	reason := "No reason specified."
	if len(args) >= 3 {
		reason = joinTrailing(args[2:])
	}

	ch := c.server.channels[name]
	if ch == nil || !ch.isMember(c) {
		c.numeric(ERR_NOTONCHANNEL, name+" :You're not on that channel")
		return
	}
	if !ch.canModerate(c) {
		c.numeric(ERR_CHANOPRIVSNEEDED, name+" :You're not a channel operator")
		return
	}
	target := c.server.clientByNick(targetNick)
	if target == nil || !ch.isMember(target) {
		c.numeric(ERR_USERNOTINCHANNEL, targetNick+" "+name+" :They aren't on that channel")
		return
	}
	ch.kick(c, target, reason)
}

// handleInvite invites a user and, on success, joins the target to the
// channel immediately (the invitation bypasses invite-only, key and limit
// checks).
func (c *Client) handleInvite(args []string) {
	if len(args) < 2 {
		c.numeric(ERR_NEEDMOREPARAMS, "INVITE :Not enough parameters")
		return
	}
	targetNick := args[0]
	name := args[1]

	ch := c.server.channels[name]
	if ch == nil || !ch.isMember(c) {
		c.numeric(ERR_NOTONCHANNEL, name+" :You're not on that channel")
		return
	}
	if ch.inviteOnly && !ch.canModerate(c) {
		c.numeric(ERR_CHANOPRIVSNEEDED, name+" :You're not a channel operator")
		return
	}
	target := c.server.clientByNick(targetNick)
	if target == nil {
		c.numeric(ERR_NOSUCHNICK, targetNick+" :No such nick/channel")
		return
	}
	if ch.isMember(target) {
		c.numeric(ERR_USERONCHANNEL, targetNick+" "+name+" :is already on channel")
		return
	}

	c.numeric(RPL_INVITING, targetNick+" "+name)
	target.send(":" + c.prefix() + " INVITE " + target.nickname + " " + ch.name)
	target.joinChannel(ch)
}

// handleMode scans the flag string one character at a time; a letter is
// "active" when the immediately preceding character is "+". Supported
// letters: i, l, k, o, t. A +o/-o naming a non-member broadcasts 441 to the
// channel and aborts the remainder of the scan.
func (c *Client) handleMode(args []string) {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return
	}
	name := args[0]

	ch := c.server.channels[name]
	if ch == nil {
		c.numeric(ERR_NOSUCHCHANNEL, name+" :No such channel")
		return
	}
	if !ch.canModerate(c) {
		c.numeric(ERR_CHANOPRIVSNEEDED, name+" :You're not a channel operator")
		return
	}

	flags := args[1]
	p := 2 // index of the next mode parameter
	for i := 0; i < len(flags); i++ {
		active := i > 0 && flags[i-1] == '+'

		switch flags[i] {
		case 'i':
			ch.inviteOnly = active
			ch.broadcast(modeLine(c, ch, flagString("i", active), ""))

		case 'l':
			if active && p < len(args) {
				n, _ := strconv.Atoi(args[p])
				ch.limit = n
				ch.broadcast(modeLine(c, ch, "+l", args[p]))
				p++
			} else {
				ch.limit = 0
				ch.broadcast(modeLine(c, ch, "-l", ""))
			}

		case 'k':
			if active && p < len(args) {
				ch.key = args[p]
				ch.broadcast(modeLine(c, ch, "+k", args[p]))
				p++
			} else {
				ch.key = ""
				ch.broadcast(modeLine(c, ch, "-k", ""))
			}

		case 'o':
			if p < len(args) {
				member := ch.memberByNick(args[p])
				if member == nil {
					ch.broadcast(fmt.Sprintf(":%s %03d %s %s %s :They aren't on that channel",
						c.server.Name(), ERR_USERNOTINCHANNEL, c.nickOrStar(), args[p], ch.name))
					return
				}
				if active {
					ch.operators[member.id] = true
					ch.broadcast(modeLine(c, ch, "+o", member.nickname))
				} else {
					ch.removeOperator(member)
					ch.broadcast(modeLine(c, ch, "-o", member.nickname))
				}
				p++
			}

		case 't':
			ch.topicRestricted = active
			ch.broadcast(modeLine(c, ch, flagString("t", active), ""))
		}
	}
}

func flagString(letter string, active bool) string {
	if active {
		return "+" + letter
	}
	return "-" + letter
}

func modeLine(c *Client, ch *Channel, flags, param string) string {
	line := ":" + c.prefix() + " MODE " + ch.name + " " + flags
	if param != "" {
		line += " " + param
	}
	return line
}

// handleTopic queries or sets the channel topic. Setting on a +t channel
// needs admin or operator standing.
func (c *Client) handleTopic(args []string) {
	if len(args) == 0 || args[0] == "" {
		c.numeric(ERR_NEEDMOREPARAMS, "TOPIC :Not enough parameters")
		return
	}
	name := args[0]

	ch := c.server.channels[name]
	if ch == nil {
		c.numeric(ERR_NOSUCHCHANNEL, name+" :No such channel")
		return
	}
	if !ch.isMember(c) {
		c.numeric(ERR_NOTONCHANNEL, name+" :You're not on that channel")
		return
	}

	if len(args) == 1 {
		if ch.topic == "" {
			c.numeric(RPL_NOTOPIC, name+" :No topic is set")
		} else {
			c.numeric(RPL_TOPIC, name+" :"+ch.topic)
		}
		return
	}

	if ch.topicRestricted && !ch.canModerate(c) {
		c.numeric(ERR_CHANOPRIVSNEEDED, name+" :You're not a channel operator")
		return
	}
	topic := joinTrailing(args[1:])
	ch.topic = topic
	ch.broadcast(":" + c.prefix() + " TOPIC " + name + " :" + topic)
}

// handlePrivmsg routes a message to a channel (membership required) or a
// nickname.
func (c *Client) handlePrivmsg(args []string) {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		c.numeric(ERR_NEEDMOREPARAMS, "PRIVMSG :Not enough parameters")
		return
	}
	target := args[0]
	message := joinTrailing(args[1:])

	if strings.HasPrefix(target, "#") {
		ch := c.server.channels[target]
		if ch == nil || !c.channels[target] {
			c.numeric(ERR_NOTONCHANNEL, target+" :You're not on that channel")
			return
		}
		ch.broadcastExcept(":"+c.prefix()+" PRIVMSG "+target+" :"+message, c)
		return
	}

	dest := c.server.clientByNick(target)
	if dest == nil {
		c.numeric(ERR_NOSUCHNICK, target+" :No such nick/channel")
		return
	}
	dest.send(":" + c.prefix() + " PRIVMSG " + target + " :" + message)
}

// handleNotice is PRIVMSG without the error replies: misses of any kind are
// dropped silently.
func (c *Client) handleNotice(args []string) {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return
	}
	target := args[0]
	message := joinTrailing(args[1:])

	if strings.HasPrefix(target, "#") {
		ch := c.server.channels[target]
		if ch == nil || !c.channels[target] {
			return
		}
		ch.broadcastExcept(":"+c.prefix()+" NOTICE "+target+" :"+message, c)
		return
	}

	dest := c.server.clientByNick(target)
	if dest == nil {
		return
	}
	dest.send(":" + c.prefix() + " NOTICE " + target + " :" + message)
}

// handleWho lists registered clients (channel field "*") or, for a "#"
// argument, the members of that channel.
func (c *Client) handleWho(args []string) {
	mask := "*"
	whoLine := func(target *Client, channelName string) string {
		return fmt.Sprintf("%s %s %s %s %s H :0 %s",
			channelName, target.username, target.hostname,
			c.server.Name(), target.nickname, target.realname)
	}

	if len(args) == 0 {
		for _, target := range c.server.orderedClients() {
			if !target.registered() {
				continue
			}
			c.numeric(RPL_WHOREPLY, whoLine(target, mask))
		}
	} else if strings.HasPrefix(args[0], "#") {
		mask = args[0]
		if ch := c.server.channels[mask]; ch != nil {
			for _, id := range ch.members {
				if target := c.server.clients[id]; target != nil {
					c.numeric(RPL_WHOREPLY, whoLine(target, mask))
				}
			}
		}
	}

	c.numeric(RPL_ENDOFWHO, mask+" :End of /WHO list")
}

// handleList enumerates channels, optionally filtered by a comma-separated
// name list. Topics are reported with the placeholder text.
func (c *Client) handleList(args []string) {
	var filter []string
	if len(args) > 0 {
		filter = strings.Split(args[0], ",")
	}

	c.numeric(RPL_LISTSTART, "Channel :Users  Name")
	for _, ch := range c.server.orderedChannels() {
		if filter != nil && !containsString(filter, ch.name) {
			continue
		}
		c.numeric(RPL_LIST, fmt.Sprintf("%s %d :No topic is set", ch.name, len(ch.members)))
	}
	c.numeric(RPL_LISTEND, ":End of /LIST")
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
