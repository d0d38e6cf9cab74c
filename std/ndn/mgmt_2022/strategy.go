package mgmt_2022

import enc "github.com/nfdgo/ndnd/std/encoding"

// StrategyChoice is a single FIB-strategy-table row: the name prefix and
// the strategy chosen to govern it.
type StrategyChoice struct {
	Name     enc.Name
	Strategy *Strategy
}

func (c *StrategyChoice) encode() field {
	fields := []field{{enc.TypeName, nameBytes(c.Name)}}
	if c.Strategy != nil {
		fields = append(fields, field{TypeStrategy, encodeTLV(0, []field{
			{enc.TypeName, nameBytes(c.Strategy.Name)},
		}).Join()})
	}
	return field{typeStrategyChoice, encodeTLV(0, fields).Join()}
}

// StrategyChoiceMsg is the /localhost/nfd/strategy-choice/list dataset.
type StrategyChoiceMsg struct {
	StrategyChoices []*StrategyChoice
}

// Encode serializes m as a sequence of StrategyChoice TLVs.
func (m *StrategyChoiceMsg) Encode() enc.Wire {
	var fields []field
	for _, c := range m.StrategyChoices {
		fields = append(fields, c.encode())
	}
	return encodeTLV(0, fields)
}
