// Copyright 2026 The Flowforge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flowforge

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AlgorithmFactory builds a fresh leaf Processor (normally via Wrap)
// for one plan-tree node. Factories are registered once, at package
// init, under a stable name; a PlanManifest then only ever refers to
// algorithms by that name, never by describing new behavior — the
// manifest selects wiring, it does not author algorithms.
type AlgorithmFactory func() (Processor, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AlgorithmFactory)
)

// RegisterAlgorithm installs factory under name. It panics on a
// duplicate name — the same fail-fast-at-init-time contract the
// teacher's module registry (modules.go's ModuleID keying) uses, since
// a silently-shadowed algorithm is a deployment bug, not a runtime
// condition to recover from.
func RegisterAlgorithm(name string, factory AlgorithmFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("flowforge: algorithm %q already registered", name))
	}
	registry[name] = factory
}

func lookupAlgorithm(name string) (AlgorithmFactory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("flowforge: no algorithm registered as %q", name)
	}
	return factory, nil
}

// ManifestNode is one node of a PlanManifest's processor tree. Kind
// selects the composite (or leaf) this node builds into:
// "algorithm" (Algorithm names a RegisterAlgorithm entry), "sequence",
// "parallel", or "race". Data-parallel/data-race groups require a
// compile-time type parameter (the broadcast instance-index key) and
// so are deliberately not manifest-constructible; build those branches
// in Go with DataParallel/DataRace and graft them on afterward if a
// plan needs both.
type ManifestNode struct {
	Kind      string         `yaml:"kind" toml:"kind"`
	Algorithm string         `yaml:"algorithm,omitempty" toml:"algorithm,omitempty"`
	Children  []ManifestNode `yaml:"children,omitempty" toml:"children,omitempty"`
}

// PlanManifest is a complete, loadable plan description: which tracers
// to attach and the processor tree to build, naming algorithms by
// their RegisterAlgorithm key rather than embedding Go code.
type PlanManifest struct {
	Name    string       `yaml:"name" toml:"name"`
	Tracers []string     `yaml:"tracers,omitempty" toml:"tracers,omitempty"`
	Root    ManifestNode `yaml:"root" toml:"root"`
}

// LoadManifestYAML parses data as a PlanManifest in YAML form.
func LoadManifestYAML(data []byte) (*PlanManifest, error) {
	var m PlanManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("flowforge: parsing YAML manifest: %w", err)
	}
	return &m, nil
}

// LoadManifestTOML parses data as a PlanManifest in TOML form.
func LoadManifestTOML(data []byte) (*PlanManifest, error) {
	var m PlanManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("flowforge: parsing TOML manifest: %w", err)
	}
	return &m, nil
}

// Build walks m.Root and constructs the corresponding Processor tree,
// looking up each "algorithm" node's factory in the RegisterAlgorithm
// registry.
func Build(m *PlanManifest) (Processor, error) {
	return buildNode(&m.Root)
}

func buildNode(n *ManifestNode) (Processor, error) {
	switch n.Kind {
	case "algorithm":
		factory, err := lookupAlgorithm(n.Algorithm)
		if err != nil {
			return nil, err
		}
		return factory()
	case "sequence", "parallel", "race":
		children := make([]Processor, len(n.Children))
		for i := range n.Children {
			child, err := buildNode(&n.Children[i])
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		switch n.Kind {
		case "sequence":
			return Sequence(children...), nil
		case "parallel":
			return Parallel(children...), nil
		default:
			return Race(children...), nil
		}
	default:
		return nil, fmt.Errorf("flowforge: manifest node has unknown kind %q", n.Kind)
	}
}

// BuildTracers constructs a Tracer for each name in names ("console" or
// "metrics"), in order, using log for console output and reg for
// metrics registration. Either may be nil, in which case the resulting
// tracer falls back to a no-op logger or skips Prometheus registration
// respectively.
func BuildTracers(names []string, log *zap.Logger, reg prometheus.Registerer) ([]Tracer, error) {
	tracers := make([]Tracer, 0, len(names))
	for _, name := range names {
		switch name {
		case "console":
			tracers = append(tracers, NewConsoleTracer(log))
		case "metrics":
			tracers = append(tracers, NewMetricsTracer(reg))
		default:
			return nil, fmt.Errorf("flowforge: unknown tracer %q", name)
		}
	}
	return tracers, nil
}
