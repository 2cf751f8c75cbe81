package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	workerStartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelhost",
			Subsystem: "worker",
			Name:      "starts_total",
			Help:      "Worker processes started, by launch strategy.",
		},
		[]string{"strategy"},
	)
	workerExitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelhost",
			Subsystem: "worker",
			Name:      "exits_total",
			Help:      "Worker processes reaped, by reason (exited|stopped).",
		},
		[]string{"reason"},
	)
	workerRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "modelhost",
		Subsystem: "worker",
		Name:      "running",
		Help:      "1 while a worker occupies the slot.",
	})
	workerOutputLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelhost",
			Subsystem: "worker",
			Name:      "output_lines_total",
			Help:      "Lines read from worker output, by stream.",
		},
		[]string{"stream"},
	)
	eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "modelhost",
		Subsystem: "events",
		Name:      "dropped_total",
		Help:      "Notifications evicted from full subscriber buffers.",
	})
	catalogModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "modelhost",
		Subsystem: "catalog",
		Name:      "models",
		Help:      "Records in the current model catalog.",
	})
)

func init() {
	prometheus.MustRegister(workerStartsTotal, workerExitsTotal, workerRunning, workerOutputLines, eventsDropped, catalogModels)
}

// IncDroppedEvents counts one evicted notification. Pass it to events.NewBus.
func IncDroppedEvents() { eventsDropped.Inc() }
