package scpi

import (
	"context"
	"fmt"
	"strings"
)

// Commander sends SCPI messages. Instrument implements it.
type Commander interface {
	// Write sends msg.
	Write(ctx context.Context, msg string) (int, error)
	// Query sends msg and returns the response.
	Query(ctx context.Context, msg string) (string, error)
}

// Property is a node of the SCPI command tree, e.g. SOUR:VOLT.
type Property struct {
	// cmd sends the built messages.
	cmd Commander
	// name is the upper-cased command path.
	name string
	// separator joins arguments.
	separator string
}

// NewProperty returns the property name sent through cmd, with arguments joined by separator.
func NewProperty(cmd Commander, name, separator string) *Property {
	return &Property{
		cmd:       cmd,
		name:      strings.ToUpper(name),
		separator: separator,
	}
}

// Name returns the command path.
func (p *Property) Name() string {
	return p.name
}

// Child returns the sub-command name of p.
func (p *Property) Child(name string) *Property {
	return NewProperty(p.cmd, p.name+":"+name, p.separator)
}

// Call queries "NAME?" when no values are given and writes "NAME v1,v2" otherwise.
// Writes return an empty response.
func (p *Property) Call(ctx context.Context, values ...any) (string, error) {
	if len(values) == 0 {
		return p.Query(ctx)
	}

	if _, err := p.Write(ctx, values...); err != nil {
		return "", err
	}

	return "", nil
}

// Query sends "NAME? v1,v2" and returns the response.
func (p *Property) Query(ctx context.Context, values ...any) (string, error) {
	return p.cmd.Query(ctx, p.name+"?"+p.args(values))
}

// Write sends "NAME v1,v2", also when there are no values.
func (p *Property) Write(ctx context.Context, values ...any) (int, error) {
	return p.cmd.Write(ctx, p.name+p.args(values))
}

// args renders values as " v1<sep>v2", or nothing.
func (p *Property) args(values []any) string {
	if len(values) == 0 {
		return ""
	}

	items := make([]string, len(values))
	for i, v := range values {
		items[i] = fmt.Sprint(v)
	}

	return " " + strings.Join(items, p.separator)
}
