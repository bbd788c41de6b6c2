package livequery

import (
	"encoding/json"

	"github.com/MKhiriev/baas-sample/models"
)

// Operations sent by clients.
const (
	OpConnect     = "connect"
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
)

// Operations sent by the server. Object events reuse the models.Event*
// operation names.
const (
	OpConnected    = "connected"
	OpSubscribed   = "subscribed"
	OpUnsubscribed = "unsubscribed"
	OpError        = "error"
)

// Error codes of "error" messages.
const (
	CodeNotConnected          = 1
	CodeSubscriptionNotFound  = 2
	CodeInvalidMessage        = 3
	CodeInvalidKeys           = 4
	CodeClassNotAllowed       = models.CodeOperationForbidden
	CodeUnknownOperation      = 5
	CodeSubscriptionDuplicate = 6
)

// Query selects the objects a subscription receives: every object of
// ClassName whose fields equal all entries of Where.
type Query struct {
	ClassName string         `json:"className"`
	Where     map[string]any `json:"where,omitempty"`
}

// matches reports whether obj satisfies every equality constraint of q.
// Values are compared in their JSON form so numbers decoded from clients
// match numbers stored by the server.
func (q Query) matches(className string, obj models.Object) bool {
	if q.ClassName != className {
		return false
	}
	for key, want := range q.Where {
		got, ok := obj[key]
		if !ok || !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

func jsonEqual(a, b any) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}

// clientMessage is any message received from a client.
type clientMessage struct {
	Op            string `json:"op"`
	RequestID     int    `json:"requestId"`
	ApplicationID string `json:"applicationId,omitempty"`
	MasterKey     string `json:"masterKey,omitempty"`
	ClientKey     string `json:"clientKey,omitempty"`
	Query         *Query `json:"query,omitempty"`
}

// serverMessage is any message sent to a client.
type serverMessage struct {
	Op        string        `json:"op"`
	ClientID  int64         `json:"clientId,omitempty"`
	RequestID int           `json:"requestId,omitempty"`
	Object    models.Object `json:"object,omitempty"`
	Code      int           `json:"code,omitempty"`
	Error     string        `json:"error,omitempty"`
	Reconnect *bool         `json:"reconnect,omitempty"`
}
