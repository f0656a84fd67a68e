package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML layout of a custom rules file:
//
//	rules:
//	  - primary: "Pagamento com QR Pix"
//	    secondary: "Padaria São José"
//	    description: "Padaria"
//	    category: "Mercado geral"
type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads extra rules from path.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]Rule, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode rules file: %w", err)
	}

	for i, r := range file.Rules {
		if r.Primary == "" {
			return nil, fmt.Errorf("rule %d: primary is required", i+1)
		}
		if r.Description == "" {
			return nil, fmt.Errorf("rule %d: description is required", i+1)
		}
	}
	return file.Rules, nil
}
