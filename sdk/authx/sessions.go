package authx

import (
	"context"
	"net/http"
	"strings"

	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/krancour/kurban/sdk/meta"
	"github.com/xeipuuv/gojsonschema"
)

// LoginCredentials are exchanged with the API server for a bearer token.
type LoginCredentials struct {
	// PhoneOrEmail identifies the staff member by either their phone number or
	// their email address.
	PhoneOrEmail string `json:"phoneOrEmail"`
	Password     string `json:"password"`
}

// LoginResult is the API server's response to a successful login.
type LoginResult struct {
	// Token is an opaque bearer token.
	Token string `json:"token"`
	// RefreshToken is only issued by some deployments.
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}

// SessionsClient is the specialized client for exchanging credentials for a
// session.
type SessionsClient interface {
	// Login exchanges the given credentials for a bearer token. Responses that
	// do not match the expected shape are rejected with a
	// *meta.ErrMalformedResponse.
	Login(context.Context, LoginCredentials) (LoginResult, error)
}

type sessionsClient struct {
	*restmachinery.BaseClient
	loginResponseSchemaLoader gojsonschema.JSONLoader
}

// NewSessionsClient returns a specialized client for exchanging credentials
// for a session.
func NewSessionsClient(baseClient *restmachinery.BaseClient) SessionsClient {
	return &sessionsClient{
		BaseClient: baseClient,
		loginResponseSchemaLoader: gojsonschema.NewBytesLoader(
			loginResponseSchemaBytes,
		),
	}
}

func (s *sessionsClient) Login(
	ctx context.Context,
	creds LoginCredentials,
) (LoginResult, error) {
	result := LoginResult{}
	creds.PhoneOrEmail = strings.TrimSpace(creds.PhoneOrEmail)
	if creds.PhoneOrEmail == "" || creds.Password == "" {
		return result, &meta.ErrBadRequest{
			Reason: "a phone number or email address and a password are required",
		}
	}
	return result, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "auth/login",
			ReqBodyObj:  creds,
			SuccessCode: http.StatusOK,
			RespObj:     &result,
			RespSchema:  s.loginResponseSchemaLoader,
			// A stale token on record must not be presented, nor purged on a
			// rejected login.
			Unauthenticated: true,
		},
	)
}

// nolint: lll
var loginResponseSchemaBytes = []byte(`
{
	"$schema": "http://json-schema.org/draft-07/schema#",

	"definitions": {

		"optionalString": {
			"type": ["string", "null"]
		},

		"user": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {
					"type": "string",
					"minLength": 1
				},
				"firstName": { "$ref": "#/definitions/optionalString" },
				"lastName": { "$ref": "#/definitions/optionalString" },
				"email": { "$ref": "#/definitions/optionalString" },
				"phone": { "$ref": "#/definitions/optionalString" },
				"roles": {
					"type": ["array", "null"],
					"items": {
						"type": "string",
						"minLength": 1
					}
				},
				"createdAt": {
					"oneOf": [
						{ "type": "string", "format": "date-time" },
						{ "type": "null" }
					]
				}
			}
		}

	},

	"type": "object",
	"required": ["token", "user"],
	"properties": {
		"token": {
			"type": "string",
			"minLength": 1
		},
		"refreshToken": { "$ref": "#/definitions/optionalString" },
		"user": { "$ref": "#/definitions/user" }
	}
}
`)
