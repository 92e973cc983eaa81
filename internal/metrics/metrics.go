package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OSPReceiptsTotal counts receive calls against OSP lots, labelled by
	// outcome: "accumulated" (still Sent), "completed" (crossed the
	// threshold), "noop" (lot missing or already Received).
	OSPReceiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osp_receipts_total",
			Help: "OSP receive operations by outcome",
		},
		[]string{"outcome"},
	)

	// OSPReceivedPieces counts pieces booked back from vendors.
	OSPReceivedPieces = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osp_received_pieces_total",
			Help: "Pieces received back from vendors, good vs rejected",
		},
		[]string{"disposition"},
	)

	// DependencyCycleChecks counts cycle-check runs by result.
	DependencyCycleChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_card_dependency_cycle_checks_total",
			Help: "Dependency cycle checks by result (ok, cycle, error)",
		},
		[]string{"result"},
	)

	// DependenciesResolved counts dependency edges marked resolved.
	DependenciesResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "job_card_dependencies_resolved_total",
			Help: "Dependency edges marked resolved",
		},
	)

	// JobCardsCompleted counts job cards completed via OSP receipt.
	JobCardsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "job_cards_completed_total",
			Help: "Job cards advanced to Completed by OSP receipts",
		},
	)
)
