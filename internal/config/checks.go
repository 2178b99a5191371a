package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed checks.yaml
var checksYAML []byte

// Checks holds the fixed candidate lists every scan probes: TCP ports, HTTP
// paths, and the title signatures used for response classification.
type Checks struct {
	Ports              []int    `yaml:"ports"`
	Paths              []string `yaml:"paths"`
	TitleSignatures    []string `yaml:"title_signatures"`
	NotFoundSignatures []string `yaml:"notfound_signatures"`
}

var (
	checksOnce sync.Once
	checksVal  Checks
	checksErr  error
)

// DefaultChecks parses the embedded candidate lists once and returns a copy,
// so callers can never mutate the canonical data.
func DefaultChecks() (Checks, error) {
	checksOnce.Do(func() {
		checksErr = yaml.Unmarshal(checksYAML, &checksVal)
		if checksErr == nil {
			switch {
			case len(checksVal.Ports) == 0:
				checksErr = fmt.Errorf("embedded checks define no ports")
			case len(checksVal.Paths) == 0:
				checksErr = fmt.Errorf("embedded checks define no paths")
			}
		}
	})
	if checksErr != nil {
		return Checks{}, fmt.Errorf("load embedded checks: %w", checksErr)
	}
	return checksVal.clone(), nil
}

func (c Checks) clone() Checks {
	out := Checks{
		Ports:              make([]int, len(c.Ports)),
		Paths:              make([]string, len(c.Paths)),
		TitleSignatures:    make([]string, len(c.TitleSignatures)),
		NotFoundSignatures: make([]string, len(c.NotFoundSignatures)),
	}
	copy(out.Ports, c.Ports)
	copy(out.Paths, c.Paths)
	copy(out.TitleSignatures, c.TitleSignatures)
	copy(out.NotFoundSignatures, c.NotFoundSignatures)
	return out
}
