// Package query selects nodes out of parsed YAML documents with JSONPath expressions.
package query

import (
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath/config"
	"github.com/speakeasy-api/yamlcodec/errors"
	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPath is returned when an expression cannot be compiled.
const ErrInvalidPath = errors.Error("invalid jsonpath expression")

// Queryable is an interface for querying YAML nodes using JSONPath expressions.
type Queryable interface {
	Query(root *yaml.Node) []*yaml.Node
}

type yamlPathQueryable struct {
	path *yamlpath.Path
}

func (y yamlPathQueryable) Query(root *yaml.Node) []*yaml.Node {
	if y.path == nil {
		return []*yaml.Node{}
	}
	// errors aren't actually possible from yamlpath.
	result, _ := y.path.Find(root)
	return result
}

type rfcJSONPathQueryable struct {
	path *jsonpath.JSONPath
}

func (r rfcJSONPathQueryable) Query(root *yaml.Node) []*yaml.Node {
	return r.path.Query(root)
}

// NewPath compiles expr as an RFC 9535 JSONPath expression, or with the older yamlpath dialect when legacy is set.
func NewPath(expr string, legacy bool) (Queryable, error) {
	if legacy {
		path, err := yamlpath.NewPath(expr)
		if err != nil {
			return nil, ErrInvalidPath.Wrap(err)
		}
		return yamlPathQueryable{path: path}, nil
	}

	path, err := jsonpath.NewPath(expr, config.WithPropertyNameExtension())
	if err != nil {
		return nil, ErrInvalidPath.Wrap(err)
	}
	return rfcJSONPathQueryable{path: path}, nil
}

// Select runs q against every document in docs and returns the matches in document order.
func Select(docs []*yaml.Node, q Queryable) []*yaml.Node {
	var matches []*yaml.Node
	for _, doc := range docs {
		root := doc
		if root != nil && root.Kind == yaml.DocumentNode {
			if len(root.Content) == 0 {
				continue
			}
			root = root.Content[0]
		}
		matches = append(matches, q.Query(root)...)
	}
	return matches
}
