package irc

import "sort"

// Snapshot is an immutable view of the server state, republished by the run
// loop after every event. Readers outside the loop (the admin server, tests)
// see a consistent copy and never touch the live registries.
type Snapshot struct {
	ServerName string         `json:"server_name"`
	StartTime  string         `json:"start_time"`
	Clients    []ClientStatus `json:"clients"`
	Channels   []ChanStatus   `json:"channels"`
}

type ClientStatus struct {
	ID         int      `json:"id"`
	UUID       string   `json:"uuid"`
	Nickname   string   `json:"nickname"`
	Username   string   `json:"username"`
	Realname   string   `json:"realname"`
	Hostname   string   `json:"hostname"`
	Port       int      `json:"port"`
	Registered bool     `json:"registered"`
	Channels   []string `json:"channels"`
}

type ChanStatus struct {
	Name            string   `json:"name"`
	Admin           string   `json:"admin"`
	Members         []string `json:"members"`
	Operators       []string `json:"operators"`
	InviteOnly      bool     `json:"invite_only"`
	HasKey          bool     `json:"has_key"`
	Limit           int      `json:"limit"`
	TopicRestricted bool     `json:"topic_restricted"`
	Topic           string   `json:"topic"`
}

// Snapshot returns the most recently published state view.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *Server) publishSnapshot() {
	snap := &Snapshot{
		ServerName: s.cfg.Server.Name,
		StartTime:  s.startTime,
	}

	registered := 0
	for _, c := range s.orderedClients() {
		names := make([]string, 0, len(c.channels))
		for name := range c.channels {
			names = append(names, name)
		}
		sort.Strings(names)
		if c.registered() {
			registered++
		}
		snap.Clients = append(snap.Clients, ClientStatus{
			ID:         c.id,
			UUID:       c.uuid,
			Nickname:   c.nickname,
			Username:   c.username,
			Realname:   c.realname,
			Hostname:   c.hostname,
			Port:       c.port,
			Registered: c.registered(),
			Channels:   names,
		})
	}

	for _, ch := range s.orderedChannels() {
		status := ChanStatus{
			Name:            ch.name,
			InviteOnly:      ch.inviteOnly,
			HasKey:          ch.key != "",
			Limit:           ch.limit,
			TopicRestricted: ch.topicRestricted,
			Topic:           ch.topic,
		}
		if admin := s.clients[ch.admin]; admin != nil {
			status.Admin = admin.nickname
		}
		for _, id := range ch.members {
			if member := s.clients[id]; member != nil {
				status.Members = append(status.Members, member.nickname)
			}
		}
		for id := range ch.operators {
			if oper := s.clients[id]; oper != nil {
				status.Operators = append(status.Operators, oper.nickname)
			}
		}
		sort.Strings(status.Operators)
		snap.Channels = append(snap.Channels, status)
	}

	connectedClients.Set(float64(len(s.clients)))
	registeredClients.Set(float64(registered))
	activeChannels.Set(float64(len(s.channels)))

	s.snapshot.Store(snap)
}
