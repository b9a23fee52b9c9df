package taskrunner

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/private/protocol/json/jsonutil"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/sirupsen/logrus"
)

// Handler turns one invocation Event into one run task call. It keeps no
// state between invocations and may be shared by concurrent ones.
type Handler struct {
	runner Runner
	log    *logrus.Logger
}

func NewHandler(r Runner, log *logrus.Logger) *Handler {
	return &Handler{runner: r, log: log}
}

func (h *Handler) logger(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(h.log)
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return entry.WithField("request_id", lc.AwsRequestID)
	}
	return entry
}

// recordLevel is the level of the event and result lines: info, or the
// configured level when that is stricter, so they are written whatever
// LOG_LEVEL says.
func (h *Handler) recordLevel() logrus.Level {
	if h.log.IsLevelEnabled(logrus.InfoLevel) {
		return logrus.InfoLevel
	}
	if lvl := h.log.GetLevel(); lvl > logrus.ErrorLevel {
		return lvl
	}
	return logrus.ErrorLevel
}

// Handle dispatches e. The returned output and error are the ones produced
// by the Runner, neither is retried nor rewritten. A response that lists
// ECS failures is still a success from the handler's point of view.
func (h *Handler) Handle(ctx context.Context, e Event) (*ecs.RunTaskOutput, error) {
	log := h.logger(ctx)
	level := h.recordLevel()
	log.WithField("event", e).Log(level, "event received")

	var taskDef string
	if e.TaskDefinition != nil {
		taskDef = *e.TaskDefinition
	}
	log.WithFields(logrus.Fields{
		"task_definition": taskDef,
		"region":          orPlaceholder(e.Region),
	}).Log(level, "running task")

	req := NewRequest(e)
	out, err := h.runner.RunTask(ctx, req)
	if err != nil {
		errorFields(log, err).Error("run task failed")
		return nil, err
	}

	fields := logrus.Fields{"cluster": req.Cluster, "output": out}
	if out != nil {
		fields["tasks"] = len(out.Tasks)
		fields["failures"] = len(out.Failures)
	}
	log.WithFields(fields).Log(level, "run task completed")
	return out, nil
}

// Invoke is the Lambda entry point. It runs Handle and renders the output
// with the RunTask API member names (tasks, failures...), the shape ECS
// itself answers with. On error no output is returned.
func (h *Handler) Invoke(ctx context.Context, e Event) (json.RawMessage, error) {
	out, err := h.Handle(ctx, e)
	if err != nil {
		return nil, err
	}
	return MarshalOutput(out)
}

func MarshalOutput(out *ecs.RunTaskOutput) (json.RawMessage, error) {
	if out == nil {
		return json.RawMessage("null"), nil
	}
	b, err := jsonutil.BuildJSON(out)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// errorFields attaches whatever diagnostic detail err carries.
func errorFields(log *logrus.Entry, err error) *logrus.Entry {
	log = log.WithError(err)
	aerr, ok := err.(awserr.Error)
	if !ok {
		return log
	}
	fields := logrus.Fields{"code": aerr.Code()}
	if orig := aerr.OrigErr(); orig != nil {
		fields["cause"] = orig.Error()
	}
	if rf, ok := err.(awserr.RequestFailure); ok {
		fields["status_code"] = rf.StatusCode()
		fields["aws_request_id"] = rf.RequestID()
	}
	return log.WithFields(fields)
}
