package mailer

import (
	"context"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/prometheus/client_golang/prometheus"
)

type sendMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// Instrumented records latency and outcome of every send of the wrapped Mailer.
type Instrumented struct {
	next     Mailer
	provider string
	metrics  *sendMetrics
}

func NewInstrumented(next Mailer, provider string, reg prometheus.Registerer) *Instrumented {
	labels := prometheus.Labels{"provider": provider}
	metrics := &sendMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "contact_relay_email_send_duration_seconds",
			Help:        "Time taken to hand a contact email to the provider",
			Buckets:     []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			ConstLabels: labels,
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "contact_relay_email_errors_total",
			Help:        "Total number of contact email sending errors",
			ConstLabels: labels,
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "contact_relay_emails_sent_total",
			Help:        "Total number of contact emails sent",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &Instrumented{next: next, provider: provider, metrics: metrics}
}

func (i *Instrumented) Send(ctx context.Context, msg Message) error {
	start := time.Now()
	defer func() {
		i.metrics.sendLatency.Observe(time.Since(start).Seconds())
	}()

	// failures are logged by the caller, which has the request context
	if err := i.next.Send(ctx, msg); err != nil {
		i.metrics.errorCount.Inc()
		return err
	}

	i.metrics.sentCount.Inc()
	logger.GetLogger().Infow("Email sent successfully",
		"provider", i.provider,
		"to", msg.To,
		"duration", time.Since(start))
	return nil
}
