// Package schema defines the YAML pipeline format that compiles into a
// braid graph: a list of nodes referencing registry operations, plus
// optional extra outputs. Parsing is strict — unknown fields are
// rejected so typos fail loudly instead of silently dropping config.
package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"braid/pkg/domain"
	"braid/pkg/graph"
	"braid/pkg/registry"
)

// Pipeline is a declarative model definition.
type Pipeline struct {
	Name    string     `mapstructure:"name"`
	Outputs []string   `mapstructure:"outputs"`
	Nodes   []NodeSpec `mapstructure:"nodes"`
}

// NodeSpec declares one node: the registry operation it runs and the
// value names it consumes and produces.
type NodeSpec struct {
	ID      string   `mapstructure:"id"`
	Func    string   `mapstructure:"func"`
	Params  []string `mapstructure:"params"`
	Returns []string `mapstructure:"returns"`
}

// Parse reads a YAML pipeline definition.
func Parse(data []byte) (*Pipeline, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse pipeline yaml: %w", err)
	}

	var p Pipeline
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &p,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks structural requirements that don't need a registry:
// node identity, callables, and declared returns.
func (p *Pipeline) Validate() error {
	if len(p.Nodes) == 0 {
		return fmt.Errorf("pipeline defines no nodes")
	}
	for i, n := range p.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
		if n.Func == "" {
			return fmt.Errorf("node %q: missing func", n.ID)
		}
		if len(n.Returns) == 0 {
			return fmt.Errorf("node %q: missing returns", n.ID)
		}
	}
	return nil
}

// Compile resolves every node's operation against the registry and
// assembles the graph. Duplicate producers, unknown operations, and
// cycles surface here or at model construction.
func (p *Pipeline) Compile(reg *registry.Registry) (*graph.Graph, error) {
	g := graph.New()
	for _, spec := range p.Nodes {
		fn, err := reg.Bind(spec.Func, spec.Params)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.ID, err)
		}
		err = g.Add(domain.Node{
			ID:      spec.ID,
			Func:    fn,
			Params:  spec.Params,
			Returns: spec.Returns,
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
