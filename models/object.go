package models

import "time"

// Reserved field names of a stored object.
const (
	FieldObjectID  = "objectId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Object is a schemaless document of a class. Reserved fields are
// maintained by the object service; everything else is client data.
type Object map[string]any

// ObjectID returns the id of o or "" when unset.
func (o Object) ObjectID() string {
	id, _ := o[FieldObjectID].(string)
	return id
}

// Public returns a copy of o without internal fields, i.e. keys starting
// with an underscore.
func (o Object) Public() Object {
	out := make(Object, len(o))
	for k, v := range o {
		if len(k) > 0 && k[0] == '_' {
			continue
		}
		out[k] = v
	}
	return out
}

// FormatTime renders t the way objects expose createdAt and updatedAt.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ClassObject pairs an object with the class it belongs to.
type ClassObject struct {
	ClassName string
	Object    Object
}
