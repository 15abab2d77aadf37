package app

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/appsync"
	"github.com/nisimpson/dynaroute/internal/config"
	"github.com/nisimpson/dynaroute/internal/logger"
	"github.com/sirupsen/logrus"
)

// ServeLambda runs the AppSync resolver for one domain until the Lambda
// runtime stops the process.
func ServeLambda(d dynaroute.Domain) {
	// .env is optional outside local runs
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	a, err := New(context.Background(), cfg, log, d)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize")
	}
	defer a.Close()

	router, _ := a.Router(d.Name)
	log.WithField("domain", d.Name).Info("starting lambda handler")
	lambda.Start(appsync.NewHandler(router, func(o *appsync.HandlerOptions) {
		o.Logger = log
	}))
}
