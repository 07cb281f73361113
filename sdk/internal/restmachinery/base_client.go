package restmachinery

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/krancour/kurban/sdk/meta"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
)

// maxErrorBodyBytes bounds how much of an unsuccessful response is read while
// looking for an error message.
const maxErrorBodyBytes = 1 << 20

// BaseClient is the transport shared by all specialized API clients. A single
// BaseClient is constructed per API client and injected into each
// specialized client so they share credentials and session expiry handling.
type BaseClient struct {
	APIAddress string
	Tokens     tokens.Store
	HTTPClient *http.Client
	Logger     logrus.FieldLogger

	unauthorizedMu sync.Mutex
	listeners      sessionExpiryListeners
}

// NewBaseClient returns a BaseClient for the API server at the given address.
// An address that is not an absolute http(s) URL is replaced with
// DefaultAPIAddress. Credentials are read from, and purged from, the given
// store. A nil store is replaced with an in-memory store.
func NewBaseClient(
	apiAddress string,
	store tokens.Store,
	opts *APIClientOptions,
) *BaseClient {
	if opts == nil {
		opts = &APIClientOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if store == nil {
		store = tokens.NewMemoryStore()
	}
	address, ok := ResolveAPIAddress(apiAddress)
	if !ok && strings.TrimSpace(apiAddress) != "" {
		logger.WithField("address", apiAddress).Warnf(
			"invalid API address; falling back to %s",
			DefaultAPIAddress,
		)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: opts.AllowInsecureConnections, // nolint: gosec
	}
	return &BaseClient{
		APIAddress: address,
		Tokens:     store,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		Logger: logger,
	}
}

// OnSessionExpired registers a handler that is invoked whenever the API
// server rejects the client's bearer token. The handler fires once per
// rejected token, after persisted credentials have been purged. The returned
// function unregisters the handler.
func (b *BaseClient) OnSessionExpired(handler func()) func() {
	return b.listeners.subscribe(handler)
}

// ExecuteRequest submits the request and, if the request specifies a RespObj,
// validates and unmarshals the response body into it.
func (b *BaseClient) ExecuteRequest(
	ctx context.Context,
	req OutboundRequest,
) error {
	resp, err := b.SubmitRequest(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if req.RespObj == nil {
		return nil
	}
	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "error reading response body")
	}
	if req.RespSchema != nil {
		validationResult, err := gojsonschema.Validate(
			req.RespSchema,
			gojsonschema.NewBytesLoader(respBodyBytes),
		)
		if err != nil {
			return &meta.ErrMalformedResponse{
				Reason: fmt.Sprintf("could not validate response body: %s", err),
			}
		}
		if !validationResult.Valid() {
			verrStrs := make([]string, len(validationResult.Errors()))
			for i, verr := range validationResult.Errors() {
				verrStrs[i] = verr.String()
			}
			return &meta.ErrMalformedResponse{
				Reason:  "response body failed JSON validation",
				Details: verrStrs,
			}
		}
	}
	if err := json.Unmarshal(respBodyBytes, req.RespObj); err != nil {
		return &meta.ErrMalformedResponse{
			Reason: fmt.Sprintf("could not unmarshal response body: %s", err),
		}
	}
	return nil
}

// SubmitRequest submits the request and returns the response if its status
// code indicates success. The caller is responsible for closing the response
// body. Unsuccessful responses are converted into errors from the meta
// package.
func (b *BaseClient) SubmitRequest(
	ctx context.Context,
	req OutboundRequest,
) (*http.Response, error) {
	var reqBodyReader io.Reader
	if req.ReqBodyObj != nil {
		switch rb := req.ReqBodyObj.(type) {
		case []byte:
			reqBodyReader = bytes.NewBuffer(rb)
		default:
			reqBodyBytes, err := json.Marshal(req.ReqBodyObj)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling request body")
			}
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	r, err := http.NewRequestWithContext(
		ctx,
		req.Method,
		b.url(req.Path),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.Method,
			req.Path,
		)
	}
	if len(req.QueryParams) > 0 {
		q := r.URL.Query()
		for k, v := range req.QueryParams {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}

	var sentToken string
	if !req.Unauthenticated {
		token, err := tokens.LoadCredentials(ctx, b.Tokens)
		if err != nil {
			return nil, errors.Wrap(err, "error loading credentials")
		}
		if token != nil {
			token.SetAuthHeader(r)
			sentToken = token.AccessToken
		}
	}
	requestID := uuid.NewString()
	r.Header.Set("Accept", "application/json")
	r.Header.Set("X-Request-ID", requestID)
	if reqBodyReader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	logger := b.Logger.WithFields(logrus.Fields{
		"method":    req.Method,
		"path":      req.Path,
		"requestID": requestID,
	})
	logger.Debug("sending request")

	resp, err := b.HTTPClient.Do(r)
	if err != nil {
		// A deadline or cancellation imposed by the caller is not the client's
		// own timeout.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, "error invoking API")
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &meta.ErrTimeout{
				Timeout: b.HTTPClient.Timeout,
				Cause:   err,
			}
		}
		return nil, errors.Wrap(err, "error invoking API")
	}
	logger.WithField("status", resp.StatusCode).Debug("received response")

	if (req.SuccessCode == 0 && resp.StatusCode == http.StatusOK) ||
		(req.SuccessCode != 0 && resp.StatusCode == req.SuccessCode) {
		return resp, nil
	}

	defer resp.Body.Close()
	apiErr := errorFromResponse(resp)
	if resp.StatusCode == http.StatusUnauthorized && !req.Unauthenticated {
		b.handleUnauthorized(sentToken)
	}
	return nil, apiErr
}

// handleUnauthorized purges persisted credentials and notifies session expiry
// listeners, but only if the rejected token is still the one on record. This
// collapses any number of concurrent rejections of the same token into a
// single purge and a single notification, and keeps a stale rejection from
// clobbering credentials from a newer login. A rejected request that carried
// no token only clears a leftover refresh token and notifies no one.
func (b *BaseClient) handleUnauthorized(sentToken string) {
	// The request's context may already be done; the purge must happen anyway.
	ctx := context.Background()
	b.unauthorizedMu.Lock()
	current, err := tokens.LoadCredentials(ctx, b.Tokens)
	if err != nil {
		b.unauthorizedMu.Unlock()
		b.Logger.WithError(err).Error("error reading credentials after 401")
		return
	}
	if sentToken == "" {
		if current == nil {
			err = b.Tokens.Delete(ctx, tokens.RefreshTokenKey)
		}
		b.unauthorizedMu.Unlock()
		if err != nil {
			b.Logger.WithError(err).Error("error purging refresh token after 401")
		}
		return
	}
	if current == nil || current.AccessToken != sentToken {
		b.unauthorizedMu.Unlock()
		return
	}
	err = tokens.PurgeCredentials(ctx, b.Tokens)
	b.unauthorizedMu.Unlock()
	if err != nil {
		b.Logger.WithError(err).Error("error purging credentials after 401")
	}
	b.Logger.Warn("API server rejected bearer token; session expired")
	b.listeners.publish()
}

func (b *BaseClient) url(path string) string {
	return fmt.Sprintf(
		"%s/%s",
		strings.TrimSuffix(b.APIAddress, "/"),
		strings.TrimPrefix(path, "/"),
	)
}

// errorBody is the loosest common denominator of the API server's error
// responses.
type errorBody struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func errorFromResponse(resp *http.Response) error {
	var reason string
	var details []string
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil && len(bodyBytes) > 0 {
		body := errorBody{}
		if json.Unmarshal(bodyBytes, &body) == nil {
			reason = body.Message
			if reason == "" {
				reason = body.Error
			}
			details = body.Details
		} else {
			reason = strings.TrimSpace(string(bodyBytes))
		}
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &meta.ErrAuthentication{Reason: reason}
	case http.StatusForbidden:
		return &meta.ErrAuthorization{Reason: reason}
	case http.StatusBadRequest:
		return &meta.ErrBadRequest{Reason: reason, Details: details}
	case http.StatusNotFound:
		return &meta.ErrNotFound{Reason: reason}
	case http.StatusConflict:
		return &meta.ErrConflict{Reason: reason}
	case http.StatusInternalServerError:
		return &meta.ErrInternalServer{Reason: reason}
	default:
		return &meta.ErrUnexpectedStatus{
			StatusCode: resp.StatusCode,
			Reason:     reason,
		}
	}
}
