package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

type fieldSeen struct {
	name string
	seen bool
}

// checkRequiredFields reports the first required field that was absent from the JSON object, in
// declaration order, matching how the API documents its schemas.
func checkRequiredFields(r *jreader.Reader, objectName string, fields ...fieldSeen) {
	if r.Error() != nil {
		return
	}
	for _, f := range fields {
		if !f.seen {
			r.AddError(missingFieldError(objectName, f.name))
			return
		}
	}
}

// Timestamps are RFC 3339 strings on the wire. time.Parse tolerates an optional fractional
// second part, so a single layout covers everything the API produces.

func readTime(r *jreader.Reader, objectName, field string) time.Time {
	s := r.String()
	if r.Error() != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		r.AddError(badFieldError(objectName, field, "is not a valid datetime"))
		return time.Time{}
	}
	return t
}

func writeTime(obj *jwriter.ObjectState, name string, t time.Time) {
	obj.Name(name).String(t.Format(time.RFC3339Nano))
}

func maybeWriteTime(obj *jwriter.ObjectState, name string, t time.Time) {
	if !t.IsZero() {
		writeTime(obj, name, t)
	}
}

func readStringMap(r *jreader.Reader) map[string]string {
	var ret map[string]string
	for obj := r.ObjectOrNull(); obj.Next(); {
		if ret == nil {
			ret = make(map[string]string)
		}
		ret[string(obj.Name())] = r.String()
	}
	return ret
}

func writeStringMap(obj *jwriter.ObjectState, name string, m map[string]string) {
	subObj := obj.Name(name).Object()
	for k, v := range m {
		subObj.Name(k).String(v)
	}
	subObj.End()
}

func readStringArray(r *jreader.Reader) []string {
	var ret []string
	for arr := r.ArrayOrNull(); arr.Next(); {
		ret = append(ret, r.String())
	}
	return ret
}

func writeStringArray(obj *jwriter.ObjectState, name string, values []string) {
	w := obj.Name(name)
	arr := w.Array()
	for _, v := range values {
		w.String(v)
	}
	arr.End()
}
