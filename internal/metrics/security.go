package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SecurityMetrics defines the interface for recording protection layer
// decisions.
type SecurityMetrics interface {
	// RecordCheck records one security check decision.
	// Check examples: "credential", "csrf", "referrer", "user_agent".
	// Outcome examples: "allowed", "denied".
	RecordCheck(ctx context.Context, check, outcome string)

	// RecordClassification records a referrer classification result
	// ("cloudflare_cdn", "traditional", "invalid").
	RecordClassification(ctx context.Context, classification string)

	// RecordAdmission records a rate limiter decision for an endpoint.
	RecordAdmission(ctx context.Context, endpoint string, admitted bool)
}

// securityMetrics implements SecurityMetrics using OpenTelemetry metrics.
type securityMetrics struct {
	checkCounter          metric.Int64Counter
	classificationCounter metric.Int64Counter
	admissionCounter      metric.Int64Counter
}

// NewSecurityMetrics creates a SecurityMetrics implementation on the provided
// meter provider. The namespace prefixes all metric names.
func NewSecurityMetrics(meterProvider metric.MeterProvider, namespace string) (SecurityMetrics, error) {
	meter := meterProvider.Meter(namespace)

	checkCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_security_checks_total", namespace),
		metric.WithDescription("Total number of security check decisions"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create check counter: %w", err)
	}

	classificationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_referrer_classifications_total", namespace),
		metric.WithDescription("Total number of referrer classifications"),
		metric.WithUnit("{classification}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification counter: %w", err)
	}

	admissionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_rate_limit_decisions_total", namespace),
		metric.WithDescription("Total number of rate limiter decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admission counter: %w", err)
	}

	return &securityMetrics{
		checkCounter:          checkCounter,
		classificationCounter: classificationCounter,
		admissionCounter:      admissionCounter,
	}, nil
}

// RecordCheck increments the check counter with check and outcome labels.
func (s *securityMetrics) RecordCheck(ctx context.Context, check, outcome string) {
	s.checkCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("check", check),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordClassification increments the classification counter.
func (s *securityMetrics) RecordClassification(ctx context.Context, classification string) {
	s.classificationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("classification", classification),
		),
	)
}

// RecordAdmission increments the admission counter with the decision label.
func (s *securityMetrics) RecordAdmission(ctx context.Context, endpoint string, admitted bool) {
	decision := "denied"
	if admitted {
		decision = "admitted"
	}
	s.admissionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("decision", decision),
		),
	)
}

// NoOpSecurityMetrics is a no-op implementation for when metrics are disabled.
type NoOpSecurityMetrics struct{}

// NewNoOpSecurityMetrics creates a no-op SecurityMetrics implementation.
func NewNoOpSecurityMetrics() SecurityMetrics {
	return &NoOpSecurityMetrics{}
}

// RecordCheck does nothing when metrics are disabled.
func (n *NoOpSecurityMetrics) RecordCheck(ctx context.Context, check, outcome string) {
	// No-op
}

// RecordClassification does nothing when metrics are disabled.
func (n *NoOpSecurityMetrics) RecordClassification(ctx context.Context, classification string) {
	// No-op
}

// RecordAdmission does nothing when metrics are disabled.
func (n *NoOpSecurityMetrics) RecordAdmission(ctx context.Context, endpoint string, admitted bool) {
	// No-op
}
