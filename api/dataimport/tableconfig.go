package dataimport

import (
	"fmt"
	"sort"
)

// FieldSpec describes one importable target field with its Arabic label shown
// in the mapping UI.
type FieldSpec struct {
	Value        string      `json:"value"`
	Label        string      `json:"label"`
	DefaultValue interface{} `json:"default_value,omitempty"`
}

// TableConfig is the static per-table import descriptor. Defined at process
// start, never mutated.
type TableConfig struct {
	Name           string      `json:"name"`
	RequiredFields []string    `json:"required_fields"`
	Fields         []FieldSpec `json:"fields"`
}

// labelFor returns the Arabic display label of a declared field, falling back
// to the field name itself.
func (c TableConfig) labelFor(field string) string {
	for _, f := range c.Fields {
		if f.Value == field {
			return f.Label
		}
	}
	return field
}

func (c TableConfig) isRequired(field string) bool {
	for _, f := range c.RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

var tableConfigs = map[string]TableConfig{
	TableCustomers: {
		Name:           "العملاء",
		RequiredFields: []string{"full_name", "mobile_number"},
		Fields: []FieldSpec{
			{Value: "id", Label: "كود"},
			{Value: "sequence_number", Label: "م العميل"},
			{Value: "full_name", Label: "الاسم الكامل"},
			{Value: "mobile_number", Label: "رقم الهاتف"},
			{Value: "mobile_number2", Label: "رقم الهاتف 2"},
			{Value: "civil_id", Label: "الرقم المدني"},
		},
	},
	TableTransactions: {
		Name:           "المعاملات",
		RequiredFields: []string{"customer_id", "cost_price", "extra_price", "installment_amount", "start_date"},
		Fields: []FieldSpec{
			{Value: "sequence_number", Label: "رقم البيع"},
			{Value: "customer_id", Label: "رقم العميل"},
			{Value: "cost_price", Label: "سعر السلعة"},
			{Value: "extra_price", Label: "السعر الاضافى"},
			{Value: "amount", Label: "إجمالي السعر"},
			{Value: "installment_amount", Label: "قيمة القسط"},
			{Value: "number_of_installments", Label: "عدد الدفعات"},
			{Value: "start_date", Label: "تاريخ البدء"},
			{Value: "notes", Label: "ملاحظات"},
			{Value: "status", Label: "الحالة", DefaultValue: "active"},
			{Value: "has_legal_case", Label: "قضية قانونية", DefaultValue: false},
		},
	},
	TablePayments: {
		Name:           "المدفوعات",
		RequiredFields: []string{"transaction_id", "customer_id", "amount", "payment_date"},
		Fields: []FieldSpec{
			{Value: "transaction_id", Label: "معرف المعاملة"},
			{Value: "customer_id", Label: "معرف العميل"},
			{Value: "amount", Label: "المبلغ"},
			{Value: "payment_date", Label: "تاريخ الدفع"},
			{Value: "notes", Label: "ملاحظات"},
		},
	},
}

// GetConfig returns the static import descriptor for a target table.
func GetConfig(table string) (TableConfig, error) {
	cfg, ok := tableConfigs[table]
	if !ok {
		return TableConfig{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return cfg, nil
}

// orderedMappings turns the caller's mapping object into a deterministic
// slice, following the config's field declaration order. Mappings whose
// target is not a declared field keep their source order at the end.
func orderedMappings(cfg TableConfig, mappings map[string]string) []Mapping {
	out := make([]Mapping, 0, len(mappings))
	seen := make(map[string]bool, len(mappings))
	for _, f := range cfg.Fields {
		for src, tgt := range mappings {
			if tgt == f.Value && !seen[src] {
				out = append(out, Mapping{Source: src, Target: tgt})
				seen[src] = true
			}
		}
	}
	// Anything mapped to an undeclared field is still passed through.
	rest := make([]Mapping, 0)
	for src, tgt := range mappings {
		if !seen[src] {
			rest = append(rest, Mapping{Source: src, Target: tgt})
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Source < rest[j].Source })
	return append(out, rest...)
}
