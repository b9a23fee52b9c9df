package taskrunner

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEvent = `{
	"job_identifier": "job-42",
	"region": "eu-west-1",
	"cluster": "prod",
	"ecs_task_def": "my-task:3",
	"overrides": {
		"containerOverrides": [
			{"name": "app", "command": ["run"]}
		]
	}
}`

func TestNewRequest(t *testing.T) {
	var e Event
	require.NoError(t, DecodeEvent(&e, strings.NewReader(sampleEvent)))

	r := NewRequest(e)
	assert.Equal(t, "my-task:3", aws.StringValue(r.TaskDefinition))
	assert.Equal(t, "prod", r.Cluster)
	assert.JSONEq(t, `{"containerOverrides":[{"name":"app","command":["run"]}]}`, string(r.Overrides))
	assert.True(t, r.HasOverrides())
}

func TestNewRequestDefaults(t *testing.T) {
	tests := []struct {
		name  string
		event string
	}{
		{"missing", `{"ecs_task_def": "T"}`},
		{"empty", `{"ecs_task_def": "T", "cluster": ""}`},
		{"null", `{"ecs_task_def": "T", "cluster": "", "overrides": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Event
			require.NoError(t, DecodeEvent(&e, strings.NewReader(tt.event)))

			r := NewRequest(e)
			assert.Equal(t, "T", aws.StringValue(r.TaskDefinition))
			assert.Equal(t, Placeholder, r.Cluster)
			assert.Equal(t, `"undefined"`, string(r.Overrides))
			assert.False(t, r.HasOverrides())
		})
	}
}

func TestNewRequestMissingTaskDefinition(t *testing.T) {
	r := NewRequest(Event{Cluster: "prod"})
	assert.Nil(t, r.TaskDefinition)
}

func TestNewRequestDoesNotAliasEvent(t *testing.T) {
	e := Event{Overrides: json.RawMessage(`{"cpu":"256"}`)}
	r := NewRequest(e)

	r.Overrides[2] = 'X'
	assert.Equal(t, `{"cpu":"256"}`, string(e.Overrides))
}

func TestRequestJSON(t *testing.T) {
	r := NewRequest(Event{TaskDefinition: aws.String("T")})
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"taskDefinition":"T","cluster":"undefined","overrides":"undefined"}`, string(b))
}

func TestDecodeEventYAML(t *testing.T) {
	doc := `
job_identifier: job-42
cluster: prod
ecs_task_def: my-task:3
overrides:
  containerOverrides:
    - name: app
      command: [run, --fast]
  cpu: "512"
`
	var e Event
	require.NoError(t, DecodeEventYAML(&e, strings.NewReader(doc)))
	assert.Equal(t, "job-42", e.JobIdentifier)
	assert.Equal(t, "prod", e.Cluster)
	assert.Equal(t, "my-task:3", aws.StringValue(e.TaskDefinition))
	assert.JSONEq(t, `{"containerOverrides":[{"name":"app","command":["run","--fast"]}],"cpu":"512"}`, string(e.Overrides))
}

func TestDecodeEventYAMLUnquotedScalars(t *testing.T) {
	doc := `
job_identifier: 42
region: ~
cluster: 2024
ecs_task_def: 3
overrides:
  containerOverrides:
    - name: app
      memory: 512
`
	var e Event
	require.NoError(t, DecodeEventYAML(&e, strings.NewReader(doc)))
	assert.Equal(t, "42", e.JobIdentifier)
	assert.Empty(t, e.Region)
	assert.Equal(t, "2024", e.Cluster)
	assert.Equal(t, "3", aws.StringValue(e.TaskDefinition))
	assert.JSONEq(t, `{"containerOverrides":[{"name":"app","memory":512}]}`, string(e.Overrides))
}

func TestDecodeEventYAMLInvalid(t *testing.T) {
	var e Event
	assert.Error(t, DecodeEventYAML(&e, strings.NewReader("cluster: [unterminated")))
}

func TestEncodeEventRoundTrip(t *testing.T) {
	var e Event
	require.NoError(t, DecodeEvent(&e, strings.NewReader(sampleEvent)))

	var b bytes.Buffer
	require.NoError(t, EncodeEvent(&b, &e))
	assert.JSONEq(t, sampleEvent, b.String())
}

func TestEventString(t *testing.T) {
	e := Event{Cluster: "prod", TaskDefinition: aws.String("T")}
	assert.JSONEq(t, `{"cluster":"prod","ecs_task_def":"T"}`, e.String())

	e.Overrides = json.RawMessage(`{not json`)
	assert.Contains(t, e.String(), "cluster:prod")
}
