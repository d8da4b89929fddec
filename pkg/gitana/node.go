package gitana

import (
	"context"
	"net/http"
	"sort"

	"github.com/spf13/cast"
)

// Object is a raw JSON object, as exchanged with the API
type Object map[string]interface{}

// Query is a filter in the native Cloud CMS query syntax, passed verbatim to the API
type Query map[string]interface{}

// String value of a top-level property, or the empty string
func (o Object) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// ID of the object (the "_doc" property)
func (o Object) ID() string {
	return o.String("_doc")
}

// Paths of a node, when read with paths enabled. Paths are sorted.
func (o Object) Paths() []string {
	raw := cast.ToStringMapString(o["_paths"])
	if len(raw) == 0 {
		return nil
	}
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Enhance returns a copy of a node record, augmented with convenience properties:
//   - "_id": the node id
//   - "_filePath": the first known path of the node, unless already set
//   - "_typeQName": the definition type of the node
func Enhance(o Object) Object {
	enhanced := make(Object, len(o)+3)
	for k, v := range o {
		enhanced[k] = v
	}
	if id := o.ID(); id != "" {
		enhanced["_id"] = id
	}
	if _, ok := o["_filePath"]; !ok {
		if paths := o.Paths(); len(paths) > 0 {
			enhanced["_filePath"] = paths[0]
		}
	}
	if t := o.String("_type"); t != "" {
		enhanced["_typeQName"] = t
	}
	return enhanced
}

// MarshalIndent renders an object as indented JSON
func MarshalIndent(o Object) (string, error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type node struct {
	object Object
	branch *branch
}

func (n *node) ID() string {
	return n.object.ID()
}

func (n *node) Object() Object {
	return n.object
}

// Touch marks the node as modified without changing its content
func (n *node) Touch(ctx context.Context) error {
	return n.branch.do(ctx, http.MethodPost, n.branch.nodePath(n.ID(), "touch"), nil, nil, nil)
}
