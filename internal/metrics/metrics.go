package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_forum_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_forum_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LinkedTopicsCreated counts create-linked-topic outcomes.
	LinkedTopicsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_forum_linked_topics_total",
			Help: "Linked topic creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	// CardsRendered counts species card outcomes per invocation point.
	CardsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_forum_species_cards_total",
			Help: "Species card renders by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	// CatalogRequests counts outbound catalog queries.
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_forum_catalog_requests_total",
			Help: "Catalog service requests by query mode and result",
		},
		[]string{"mode", "result"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_forum_catalog_request_duration_seconds",
			Help:    "Catalog service request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// AssociationLookups counts topic-by-url lookups.
	AssociationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_forum_association_lookups_total",
			Help: "Topic lookups by url and whether a topic was found",
		},
		[]string{"result"},
	)
)
