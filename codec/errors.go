package codec

import (
	"fmt"

	"github.com/speakeasy-api/yamlcodec/errors"
	"github.com/speakeasy-api/yamlcodec/scalar"
	"gopkg.in/yaml.v3"
)

const (
	// ErrParse is returned when the input is not well formed YAML.
	ErrParse = errors.Error("malformed YAML")
	// ErrTagMismatch is returned when a scalar cannot satisfy its explicit tag.
	ErrTagMismatch = scalar.ErrTagMismatch
	// ErrDuplicateKey is returned when a mapping repeats a key.
	ErrDuplicateKey = errors.Error("duplicate mapping key")
	// ErrInvalidKey is returned when a mapping key is not a scalar.
	ErrInvalidKey = errors.Error("invalid mapping key")
	// ErrExpansionLimitExceeded is returned when alias expansion would exceed DecodeContext.MaxExpandedNodes.
	ErrExpansionLimitExceeded = errors.Error("alias expansion limit exceeded")
	// ErrRecursionLimitExceeded is returned when a value nests deeper than EncodeContext.MaxRecursionDepth.
	ErrRecursionLimitExceeded = errors.Error("recursion limit exceeded")
	// ErrUnsupportedScalarType is returned when a value has no defined scalar rendering.
	ErrUnsupportedScalarType = scalar.ErrUnsupportedScalarType
)

// NodeError reports a decode failure and the line and column of the node where it occurred.
type NodeError struct {
	Line   int
	Column int
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.Line, e.Column, e.Err.Error())
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// newNodeError attaches the position of node to err, keeping the innermost position if err already has one.
func newNodeError(node *yaml.Node, err error) error {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return err
	}

	return &NodeError{
		Line:   node.Line,
		Column: node.Column,
		Err:    err,
	}
}
