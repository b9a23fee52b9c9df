// Command taskrunner is the Lambda function: every invocation event is
// forwarded to ECS RunTask.
package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jecoz/taskrunner"
	"github.com/jecoz/taskrunner/config"
	"github.com/jecoz/taskrunner/ecs"
	"github.com/jecoz/taskrunner/logging"
	"github.com/sirupsen/logrus"
)

var version = "N/A"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	lg, err := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	lg.WithFields(logrus.Fields{
		"version":  version,
		"endpoint": cfg.EndpointURL,
	}).Debug("starting taskrunner")

	sess := session.Must(session.NewSession(cfg.AWSConfig()))
	h := taskrunner.NewHandler(ecs.NewRunner(sess), lg)
	lambda.Start(h.Invoke)
}
