package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder agrupa las metricas del servicio. Un Recorder nil no registra nada.
type Recorder struct {
	testsStarted  prometheus.Counter
	testsScored   *prometheus.CounterVec
	scoringErrors *prometheus.CounterVec
	answers       prometheus.Histogram
}

// NewRecorder crea y registra las metricas en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		testsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "typescore",
			Name:      "tests_started_total",
			Help:      "Question sets issued to clients.",
		}),
		testsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typescore",
			Name:      "tests_scored_total",
			Help:      "Successful evaluations by resulting type code.",
		}, []string{"type"}),
		scoringErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typescore",
			Name:      "scoring_errors_total",
			Help:      "Rejected submissions by reason.",
		}, []string{"reason"}),
		answers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "typescore",
			Name:      "answers_per_submission",
			Help:      "Number of answers in each scored submission.",
			Buckets:   []float64{4, 8, 16, 24, 32, 44, 64, 100},
		}),
	}
	if reg != nil {
		reg.MustRegister(r.testsStarted, r.testsScored, r.scoringErrors, r.answers)
	}
	return r
}

func (r *Recorder) TestStarted() {
	if r == nil {
		return
	}
	r.testsStarted.Inc()
}

func (r *Recorder) TestScored(typeCode string, answers int) {
	if r == nil {
		return
	}
	r.testsScored.WithLabelValues(typeCode).Inc()
	r.answers.Observe(float64(answers))
}

func (r *Recorder) ScoringError(reason string) {
	if r == nil {
		return
	}
	r.scoringErrors.WithLabelValues(reason).Inc()
}
