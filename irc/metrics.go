package irc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects the server's Prometheus metrics; admind exposes it.
var Registry = prometheus.NewRegistry()

var (
	connectedClients = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: "ircserv_connected_clients",
		Help: "Currently connected sessions.",
	})

	registeredClients = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: "ircserv_registered_clients",
		Help: "Sessions that completed PASS/NICK/USER.",
	})

	activeChannels = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: "ircserv_channels",
		Help: "Channels currently in existence.",
	})

	linesReceived = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircserv_lines_received_total",
		Help: "Complete inbound lines dispatched to a handler.",
	})

	linesSent = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircserv_lines_sent_total",
		Help: "Outbound lines enqueued to clients.",
	})
)
