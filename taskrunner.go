package taskrunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/service/ecs"
	"gopkg.in/yaml.v3"
)

// Placeholder is the value used for optional event fields that are missing.
const Placeholder = "undefined"

var placeholderJSON = json.RawMessage(`"` + Placeholder + `"`)

// Event is the invocation payload. It is never modified by the handler.
type Event struct {
	// JobIdentifier is accepted for the caller's bookkeeping only.
	JobIdentifier string `json:"job_identifier,omitempty"`
	// Region is logged but never used to route the request: the ECS client
	// resolves its region from the environment.
	Region string `json:"region,omitempty"`
	// Cluster where the task is to be executed.
	Cluster string `json:"cluster,omitempty"`
	// TaskDefinition is the family[:revision] or full ARN of the task
	// definition to run. It is not validated here, ECS rejects bad values.
	TaskDefinition *string `json:"ecs_task_def,omitempty"`
	// Overrides is passed to ECS as is. Most of the time it carries
	// containerOverrides, each one with the container name and the command
	// to run instead of the image default.
	Overrides json.RawMessage `json:"overrides,omitempty"`
}

func (e Event) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		// Overrides is not valid JSON.
		return fmt.Sprintf("{job_identifier:%s region:%s cluster:%s overrides:%q}", e.JobIdentifier, e.Region, e.Cluster, e.Overrides)
	}
	return string(b)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Request is the outbound run task request built from a single Event.
type Request struct {
	TaskDefinition *string         `json:"taskDefinition,omitempty"`
	Cluster        string          `json:"cluster"`
	Overrides      json.RawMessage `json:"overrides"`
}

// NewRequest reshapes e into a Request, filling missing optional fields
// with Placeholder.
func NewRequest(e Event) *Request {
	r := &Request{Cluster: orPlaceholder(e.Cluster)}
	if e.TaskDefinition != nil {
		td := *e.TaskDefinition
		r.TaskDefinition = &td
	}
	overrides := placeholderJSON
	if !isAbsent(e.Overrides) {
		overrides = e.Overrides
	}
	r.Overrides = append(json.RawMessage(nil), overrides...)
	return r
}

// HasOverrides reports whether the request carries caller supplied
// overrides rather than the placeholder.
func (r *Request) HasOverrides() bool {
	return !bytes.Equal(bytes.TrimSpace(r.Overrides), placeholderJSON)
}

type Runner interface {
	// RunTask issues exactly one run task call for r and returns its
	// result untouched.
	RunTask(ctx context.Context, r *Request) (*ecs.RunTaskOutput, error)
}

func DecodeEvent(e *Event, r io.Reader) error { return json.NewDecoder(r).Decode(e) }
func EncodeEvent(w io.Writer, e *Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(e)
}

// stringFields are the event keys that hold plain strings. YAML would
// type an unquoted `cluster: 2024` as an integer.
var stringFields = map[string]bool{
	"job_identifier": true,
	"region":         true,
	"cluster":        true,
	"ecs_task_def":   true,
}

// DecodeEventYAML reads a YAML event document. The document is converted
// to JSON first so that both encodings share the same field names.
func DecodeEventYAML(e *Event, r io.Reader) error {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return fmt.Errorf("decoding yaml event: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			v := doc.Content[i+1]
			if stringFields[doc.Content[i].Value] && v.Kind == yaml.ScalarNode && v.ShortTag() != "!!null" {
				v.Tag = "!!str"
			}
		}
	}

	var v interface{}
	if err := doc.Decode(&v); err != nil {
		return fmt.Errorf("decoding yaml event: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("converting yaml event: %w", err)
	}
	return json.Unmarshal(b, e)
}
