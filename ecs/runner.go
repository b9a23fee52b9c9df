package ecs

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/aws/aws-sdk-go/service/ecs/ecsiface"
	"github.com/jecoz/taskrunner"
)

// Runner runs tasks on ECS through the RunTask API.
type Runner struct {
	client ecsiface.ECSAPI
}

// NewRunner builds the ECS client from p, which is usually a
// *session.Session created once per process.
func NewRunner(p client.ConfigProvider, cfgs ...*aws.Config) *Runner {
	return &Runner{client: ecs.New(p, cfgs...)}
}

func NewRunnerWithClient(c ecsiface.ECSAPI) *Runner { return &Runner{client: c} }

func (r *Runner) input(req *taskrunner.Request) (*ecs.RunTaskInput, error) {
	overrides, err := decodeOverrides(req.Overrides)
	if err != nil {
		return nil, err
	}
	input := &ecs.RunTaskInput{
		TaskDefinition: req.TaskDefinition,
		Cluster:        aws.String(req.Cluster),
		Overrides:      overrides,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return input, nil
}

// RunTask issues a single RunTask call. Both the output and the error are
// returned as the SDK produced them: failures listed in the response are
// left to the caller.
func (r *Runner) RunTask(ctx context.Context, req *taskrunner.Request) (*ecs.RunTaskOutput, error) {
	input, err := r.input(req)
	if err != nil {
		return nil, err
	}
	return r.client.RunTaskWithContext(ctx, input)
}
