package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAMLTable reads a rate table published as YAML:
//
//	version: SUROC-12/2024
//	cargo_type: carga_geral
//	entries:
//	  - {axles: "6", ccd: 6.7301, cc: 660.12, max_weight: 32, operation: "Tabela A - Carga Lotação"}
func LoadYAMLTable(path string) (RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RateTable{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseYAMLTable(data)
}

func ParseYAMLTable(data []byte) (RateTable, error) {
	var t RateTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return RateTable{}, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if t.Version == "" {
		return RateTable{}, fmt.Errorf("%w: missing version", ErrInvalidTable)
	}
	if err := ValidateTable(t); err != nil {
		return RateTable{}, err
	}
	return normalize(t), nil
}
