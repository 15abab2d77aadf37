// Package appsync adapts AppSync direct Lambda resolver invocations to the
// dynaroute router.
package appsync

import (
	"github.com/aws/aws-lambda-go/events"
	"github.com/nisimpson/dynaroute"
)

// Info describes the GraphQL field being resolved.
type Info struct {
	FieldName        string         `json:"fieldName"`
	ParentTypeName   string         `json:"parentTypeName"`
	SelectionSetList []string       `json:"selectionSetList,omitempty"`
	Variables        map[string]any `json:"variables,omitempty"`
}

// Event is the payload AppSync sends to a direct Lambda resolver.
type Event struct {
	Info      Info                           `json:"info"`
	Arguments map[string]any                 `json:"arguments"`
	Identity  *events.AppSyncCognitoIdentity `json:"identity,omitempty"`
	Source    map[string]any                 `json:"source,omitempty"`
}

// ToEnvelope converts the event to a router Envelope. The field name selects
// the operation.
func (e Event) ToEnvelope() dynaroute.Envelope {
	env := dynaroute.Envelope{
		Operation: e.Info.FieldName,
		Arguments: dynaroute.Arguments(e.Arguments),
	}
	if env.Arguments == nil {
		env.Arguments = dynaroute.Arguments{}
	}
	if e.Identity != nil {
		env.Identity = &dynaroute.Identity{
			Username: e.Identity.Username,
			Claims:   e.Identity.Claims,
		}
	}
	return env
}
