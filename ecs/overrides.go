package ecs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/private/protocol/json/jsonutil"
	"github.com/aws/aws-sdk-go/service/ecs"
)

// EncodeOverrides renders o the way the RunTask API spells it on the wire
// (containerOverrides, command...), ready to be placed in an event.
func EncodeOverrides(o *ecs.TaskOverride) (json.RawMessage, error) {
	b, err := jsonutil.BuildJSON(o)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// decodeOverrides maps the raw override document onto the SDK type. Keys
// must match the API member names exactly: anything else is rejected
// instead of silently dropped.
func decodeOverrides(raw json.RawMessage) (*ecs.TaskOverride, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, awserr.New(request.InvalidParameterErrCode, "overrides: expected a structure", nil)
	}

	var doc interface{}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, awserr.New(request.InvalidParameterErrCode, "overrides: malformed structure", err)
	}
	if err := checkMembers(doc, reflect.TypeOf(ecs.TaskOverride{}), "overrides"); err != nil {
		return nil, err
	}

	var o ecs.TaskOverride
	if err := jsonutil.UnmarshalJSON(&o, bytes.NewReader(trimmed)); err != nil {
		return nil, awserr.New(request.InvalidParameterErrCode, "overrides: malformed structure", err)
	}
	return &o, nil
}

// checkMembers walks v alongside the SDK type t and fails on the first key
// that t has no member for. Value types are checked later by the decoder.
func checkMembers(v interface{}, t reflect.Type, path string) error {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		members := make(map[string]reflect.Type, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}
			name := f.Tag.Get("locationName")
			if name == "" {
				name = f.Name
			}
			members[name] = f.Type
		}
		for k, item := range obj {
			mt, ok := members[k]
			if !ok {
				return awserr.New(request.InvalidParameterErrCode, fmt.Sprintf("unexpected key '%s' found in %s", k, path), nil)
			}
			if err := checkMembers(item, mt, path+"."+k); err != nil {
				return err
			}
		}
	case reflect.Slice:
		list, ok := v.([]interface{})
		if !ok {
			return nil
		}
		for i, item := range list {
			if err := checkMembers(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		for k, item := range m {
			if err := checkMembers(item, t.Elem(), path+"["+k+"]"); err != nil {
				return err
			}
		}
	}
	return nil
}
