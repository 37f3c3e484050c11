package service

import (
	"errors"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/llm"
)

// mapGatewayError translates gateway error types into domain errors so
// handlers and the error middleware see one taxonomy.
func mapGatewayError(err error) *domain.DomainError {
	var transport *llm.TransportError
	if errors.As(err, &transport) {
		return domain.NewTransportError("LLM provider unreachable", err)
	}
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		return domain.NewUpstreamError("LLM provider returned an error", err)
	}
	var malformed *llm.MalformedResponseError
	if errors.As(err, &malformed) {
		return domain.NewUpstreamError("LLM provider returned an unexpected response shape", err)
	}
	return domain.NewInternalError("LLM call failed", err)
}
