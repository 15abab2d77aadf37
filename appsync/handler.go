package appsync

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/nisimpson/dynaroute"
	"github.com/sirupsen/logrus"
)

// Dispatcher runs an Envelope. *dynaroute.Router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, env dynaroute.Envelope) dynaroute.Result
}

// Handler is the function signature passed to lambda.Start.
type Handler func(ctx context.Context, event Event) (any, error)

// HandlerOptions contains configuration options for a Handler.
type HandlerOptions struct {
	Logger logrus.FieldLogger // Invocation logger. Default is the logrus standard logger.
}

// NewHandler returns a Lambda handler resolving AppSync fields through d.
// The handler returns the result payload and never a Lambda error: lookup
// misses and store failures resolve to null.
func NewHandler(d Dispatcher, opts ...func(*HandlerOptions)) Handler {
	options := HandlerOptions{Logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&options)
	}

	return func(ctx context.Context, event Event) (any, error) {
		log := options.Logger.WithFields(logrus.Fields{
			"field":      event.Info.FieldName,
			"parentType": event.Info.ParentTypeName,
		})
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			log = log.WithField("requestId", lc.AwsRequestID)
		}

		result := d.Dispatch(ctx, event.ToEnvelope())
		if result.Err != nil && !result.NotFound() {
			log.WithError(result.Err).Warn("resolver returned no data")
		}
		return result.Payload(), nil
	}
}
