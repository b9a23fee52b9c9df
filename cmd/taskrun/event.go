package main

import (
	"github.com/aws/aws-sdk-go/aws"
	awsecs "github.com/aws/aws-sdk-go/service/ecs"
	"github.com/jecoz/taskrunner"
	"github.com/jecoz/taskrunner/ecs"
	"github.com/spf13/cobra"
)

type eventOptions struct {
	job       string
	region    string
	cluster   string
	taskDef   string
	container string
	command   []string
}

func (o *eventOptions) event() (*taskrunner.Event, error) {
	e := &taskrunner.Event{
		JobIdentifier: o.job,
		Region:        o.region,
		Cluster:       o.cluster,
	}
	if o.taskDef != "" {
		e.TaskDefinition = aws.String(o.taskDef)
	}
	if o.container == "" {
		return e, nil
	}

	raw, err := ecs.EncodeOverrides(&awsecs.TaskOverride{
		ContainerOverrides: []*awsecs.ContainerOverride{{
			Name:    aws.String(o.container),
			Command: aws.StringSlice(o.command),
		}},
	})
	if err != nil {
		return nil, err
	}
	e.Overrides = raw
	return e, nil
}

func newEventCmd() *cobra.Command {
	o := &eventOptions{}

	cmd := &cobra.Command{
		Use:   "event",
		Short: "Print an event document, ready for invoke",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.event()
			if err != nil {
				return err
			}
			return taskrunner.EncodeEvent(cmd.OutOrStdout(), e)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.job, "job", "", "Job identifier, carried along untouched")
	f.StringVar(&o.region, "region", "", "Region, logged only")
	f.StringVar(&o.cluster, "cluster", "keepinmind", "ECS cluster")
	f.StringVar(&o.taskDef, "task-def", "video-encoder", "Task definition family[:revision] or ARN")
	f.StringVar(&o.container, "container", "worker", "Container to override, empty for no overrides")
	f.StringArrayVar(&o.command, "command", []string{"ffmpeg", "-i", "this", "-o", "that"}, "Command override, repeat once per argument")
	return cmd
}
