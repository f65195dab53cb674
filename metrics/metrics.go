// Package metrics holds the prometheus collectors shared by the core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "minisync"

var (
	UpdatesApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_applied_total",
		Help:      "Updates applied by the dispatcher, by type.",
	}, []string{"type"})

	UpdatesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_dropped_total",
		Help:      "Pushed frames or updates that were dropped, by reason.",
	}, []string{"reason"})

	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Finished requests by method and result.",
	}, []string{"method", "result"})

	PendingRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rpc_pending",
		Help:      "Requests waiting for a response.",
	})

	MergerEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merger_events_total",
		Help:      "Change events fired by feature mergers.",
	}, []string{"merger"})

	ActiveChats = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_chats",
		Help:      "Chats currently opened on the server.",
	})

	SourceMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_messages_total",
		Help:      "Recorded pushes consumed from kafka, by result.",
	}, []string{"result"})
)

// Drop reasons.
const (
	DropMalformed   = "malformed"
	DropUnknownType = "unknown_type"
	DropNoEntity    = "no_entity"
	DropUnexpected  = "unexpected"
)

// Request results.
const (
	ResultOk        = "ok"
	ResultError     = "error"
	ResultTransport = "transport"
	ResultCancelled = "cancelled"
)

// Source results.
const (
	SourceApplied   = "applied"
	SourceDiscarded = "discarded"
)

func init() {
	prometheus.MustRegister(
		UpdatesApplied,
		UpdatesDropped,
		Requests,
		PendingRequests,
		MergerEvents,
		ActiveChats,
		SourceMessages,
	)
}
