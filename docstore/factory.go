package docstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/nisimpson/dynaroute"
	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
	BackendRedis    = "redis"
)

// Backends lists every backend name Open understands.
func Backends() []string {
	return []string{BackendDynamoDB, BackendMemory, BackendSQLite, BackendPostgres, BackendMongoDB, BackendRedis}
}

// Store is a dynaroute.Store that holds connections which must be released.
type Store interface {
	dynaroute.Store
	io.Closer
}

// Options selects and configures a backend.
type Options struct {
	Backend string // Default is BackendDynamoDB.

	AWSRegion        string
	DynamoDBEndpoint string // Overrides the service endpoint, e.g. DynamoDB Local.

	SQLitePath    string
	PostgresURL   string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string

	Logger logrus.FieldLogger
}

type dynamoBackend struct {
	*dynaroute.DynamoStore
}

func (dynamoBackend) Close() error { return nil }

// Open creates the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Backend == "" {
		opts.Backend = BackendDynamoDB
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	store, err := open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", opts.Backend, err)
	}
	logger.WithField("backend", opts.Backend).Info("opened document store")
	return store, nil
}

func open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendDynamoDB:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if opts.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(opts.AWSRegion))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			if opts.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(opts.DynamoDBEndpoint)
			}
		})
		return dynamoBackend{dynaroute.NewDynamoStore(client)}, nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("%w: sqlite path", dynaroute.ErrMissingArgument)
		}
		return NewSQLite(opts.SQLitePath)
	case BackendPostgres:
		if opts.PostgresURL == "" {
			return nil, fmt.Errorf("%w: postgres url", dynaroute.ErrMissingArgument)
		}
		return NewPostgres(ctx, opts.PostgresURL)
	case BackendMongoDB:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("%w: mongodb uri", dynaroute.ErrMissingArgument)
		}
		return NewMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("%w: redis address", dynaroute.ErrMissingArgument)
		}
		return NewRedis(ctx, RedisOptions{Addr: opts.RedisAddr})
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: %v)", opts.Backend, Backends())
	}
}
