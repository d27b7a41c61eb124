package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "list_items_created_total",
		Help: "Total number of list items created",
	})

	ItemsPurchasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "list_items_purchased_total",
		Help: "Total number of items marked purchased",
	})

	ItemsReservedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "list_items_reserved_total",
		Help: "Total number of items marked reserved",
	})

	ItemsBulkUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "list_items_bulk_updated_total",
		Help: "Total number of items changed by bulk status updates",
	})

	PublicListViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "public_list_views_total",
		Help: "Total number of public list views by outcome",
	}, []string{"outcome"})

	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_broadcasts_total",
		Help: "Total number of item events broadcast over WebSocket",
	})

	PushSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_sends_total",
		Help: "Total number of web push deliveries by outcome",
	}, []string{"outcome"})

	BackupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backups_total",
		Help: "Total number of database backups by outcome",
	}, []string{"outcome"})

	BackupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "backup_duration_seconds",
		Help:    "Duration of database backup runs",
		Buckets: prometheus.DefBuckets,
	})

	CSVExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csv_exports_total",
		Help: "Total number of CSV exports generated",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
