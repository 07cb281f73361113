package restmachinery

import "github.com/xeipuuv/gojsonschema"

// OutboundRequest describes a single call to the API server.
type OutboundRequest struct {
	Method      string
	Path        string
	QueryParams map[string]string
	Headers     map[string]string
	// Unauthenticated omits the persisted bearer token. It is used for
	// endpoints, like login, that issue credentials rather than consume them.
	Unauthenticated bool
	ReqBodyObj  interface{}
	// SuccessCode is the status code that indicates success. Zero means 200.
	SuccessCode int
	RespObj     interface{}
	// RespSchema, if non-nil, is used to validate the response body before it is
	// unmarshaled into RespObj.
	RespSchema gojsonschema.JSONLoader
}
