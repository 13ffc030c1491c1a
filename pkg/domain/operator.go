package domain

// Rarity bounds.
const (
	MinRarity = 1
	MaxRarity = 6
)

// Operator is a recruitable unit.
type Operator struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	CNName string `json:"cn_name,omitempty" yaml:"cn_name,omitempty" mapstructure:"cn_name"`
	Class  string `json:"class,omitempty" yaml:"class,omitempty" mapstructure:"class"`
	Rarity int    `json:"rarity" yaml:"rarity" mapstructure:"rarity"`
}

// DisplayName prefers the Chinese name used by the chat front-end.
func (o Operator) DisplayName() string {
	if o.CNName != "" {
		return o.CNName
	}
	return o.Name
}

// Matches reports whether name refers to o by either of its names.
func (o Operator) Matches(name string) bool {
	return name != "" && (o.Name == name || o.CNName == name)
}
