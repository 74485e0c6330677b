package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// check results used as label values
const (
	resultOK             = "ok"
	resultFetchFailed    = "fetch_failed"
	resultDeliveryFailed = "delivery_failed"
	resultReseeded       = "reseeded"
	resultError          = "error"
)

var (
	// checksTotal counts company checks by result
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "espi_checks_total",
			Help: "Total number of company checks",
		},
		[]string{"result"},
	)

	// announcementsNew counts announcements detected as new
	announcementsNew = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "espi_announcements_new_total",
			Help: "Total number of new announcements detected",
		},
	)

	// notificationsTotal counts announcement notifications by status
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "espi_notifications_total",
			Help: "Total number of announcement notifications",
		},
		[]string{"status"}, // status: success|failure
	)

	// checkDuration tracks time of a single company check
	checkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "espi_check_duration_seconds",
			Help:    "Company check duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// trackedCompanies is the number of tracked companies seen on last listing
	trackedCompanies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "espi_tracked_companies",
			Help: "Number of tracked companies",
		},
	)
)
