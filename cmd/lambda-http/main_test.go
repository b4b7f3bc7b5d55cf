package main

import (
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestWithGatewayRequestID(t *testing.T) {
	req := events.APIGatewayV2HTTPRequest{Headers: map[string]string{"x-guest-id": "g1"}}
	req.RequestContext.RequestID = "gw-1"

	got := withGatewayRequestID(req)
	assert.Equal(t, "gw-1", got.Headers["x-request-id"])
	assert.Equal(t, "g1", got.Headers["x-guest-id"])
	assert.NotContains(t, req.Headers, "x-request-id")

	req.Headers["X-Request-Id"] = "client-1"
	got = withGatewayRequestID(req)
	assert.Equal(t, "client-1", got.Headers["X-Request-Id"])
	assert.NotContains(t, got.Headers, "x-request-id")
}

func TestErrorResponseEnvelope(t *testing.T) {
	resp := errorResponse(http.StatusServiceUnavailable, "bootstrap_failed", "down")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"code":"bootstrap_failed","message":"down"}}`, resp.Body)
}
