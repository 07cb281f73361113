package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/krancour/kurban/sdk/meta"
	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultAuditLogPageSize is used when AuditLogListOptions.Size is zero.
	DefaultAuditLogPageSize = 20
	// MaxAuditLogPageSize is the largest page the API server will return.
	MaxAuditLogPageSize = 100
)

// AuditLogEntry records a single administrative action.
type AuditLogEntry struct {
	ID string `json:"id"`
	// Actor identifies the staff member who performed the action.
	Actor string `json:"actor"`
	// Action is a machine-readable action name, e.g. "donation.refund".
	Action string `json:"action"`
	// Target identifies the object acted upon, if any.
	Target    string    `json:"target,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditLogList is an ordered, most-recent-first page of AuditLogEntries.
type AuditLogList struct {
	Items []AuditLogEntry `json:"items"`
	// Total is the number of entries on record, of which Items is the most
	// recent page.
	Total int `json:"total"`
}

// AuditLogListOptions represents useful filter criteria when listing audit
// log entries.
type AuditLogListOptions struct {
	// Size is the number of entries to return. Zero means
	// DefaultAuditLogPageSize.
	Size int
}

// AuditLogsClient is the specialized client for reading the audit log.
type AuditLogsClient interface {
	// List returns the most recent audit log entries.
	List(context.Context, *AuditLogListOptions) (AuditLogList, error)
}

type auditLogsClient struct {
	*restmachinery.BaseClient
	listSchemaLoader gojsonschema.JSONLoader
}

// NewAuditLogsClient returns a specialized client for reading the audit log.
func NewAuditLogsClient(baseClient *restmachinery.BaseClient) AuditLogsClient {
	return &auditLogsClient{
		BaseClient:       baseClient,
		listSchemaLoader: gojsonschema.NewBytesLoader(auditLogListSchemaBytes),
	}
}

func (a *auditLogsClient) List(
	ctx context.Context,
	opts *AuditLogListOptions,
) (AuditLogList, error) {
	logs := AuditLogList{}
	size := DefaultAuditLogPageSize
	if opts != nil && opts.Size != 0 {
		size = opts.Size
	}
	if size < 1 || size > MaxAuditLogPageSize {
		return logs, &meta.ErrBadRequest{
			Reason: "invalid page size",
			Details: []string{
				"size must be between 1 and " + strconv.Itoa(MaxAuditLogPageSize),
			},
		}
	}
	return logs, a.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "admin/audit-logs",
			QueryParams: map[string]string{"size": strconv.Itoa(size)},
			SuccessCode: http.StatusOK,
			RespObj:     &logs,
			RespSchema:  a.listSchemaLoader,
		},
	)
}

// nolint: lll
var auditLogListSchemaBytes = []byte(`
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "action", "createdAt"],
				"properties": {
					"id": { "type": "string", "minLength": 1 },
					"actor": { "type": ["string", "null"] },
					"action": { "type": "string", "minLength": 1 },
					"target": { "type": ["string", "null"] },
					"ipAddress": { "type": ["string", "null"] },
					"createdAt": { "type": "string", "format": "date-time" }
				}
			}
		},
		"total": { "type": "integer", "minimum": 0 }
	}
}
`)
