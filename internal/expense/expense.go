package expense

import (
	"strconv"
	"strings"
)

// Category is one of the fixed corporate accounting classes an expense can
// belong to. The set is closed; anything unrecognized normalizes to Other.
type Category string

const (
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryTravel         Category = "Travel & Transportation"
	CategoryMeals          Category = "Meals & Beverage"
	CategoryEntertainment  Category = "Entertainment"
	CategoryCommunication  Category = "Communication & Internet"
	CategoryUtilities      Category = "Utilities"
	CategorySoftware       Category = "Software & Licenses"
	CategoryMarketing      Category = "Marketing"
	CategoryMaintenance    Category = "Repair & Maintenance"
	CategoryFees           Category = "Fees & Taxes"
	CategoryEquipment      Category = "Equipment"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryOfficeSupplies,
	CategoryTravel,
	CategoryMeals,
	CategoryEntertainment,
	CategoryCommunication,
	CategoryUtilities,
	CategorySoftware,
	CategoryMarketing,
	CategoryMaintenance,
	CategoryFees,
	CategoryEquipment,
	CategoryOther,
}

// Categories returns all categories in their fixed display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryLabels returns the category display labels as plain strings, in the
// same order as Categories.
func CategoryLabels() []string {
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = string(c)
	}
	return labels
}

// NormalizeCategory maps arbitrary input to a member of the closed set.
// Unknown or empty labels become Other.
func NormalizeCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// Amount is an expense amount that tolerates sloppy JSON input: it accepts a
// number or a quoted string, and anything unparseable decodes to zero rather
// than failing the request.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// ScanResult is what the analyzer hands to the review form: a best-effort
// extraction with every field already defaulted to something renderable.
type ScanResult struct {
	Date     string   `json:"date"`
	Merchant string   `json:"merchant"`
	Amount   Amount   `json:"amount"`
	Category Category `json:"category"`
	TaxID    string   `json:"taxId"`
	Address  string   `json:"address"`
	Note     string   `json:"note"`
}

// Transaction is a confirmed expense entry. Once created it is immutable;
// the session list only ever grows at the front.
type Transaction struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	Merchant  string   `json:"merchant"`
	Amount    float64  `json:"amount"`
	Category  Category `json:"category"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds
	TaxID     string   `json:"taxId"`
	Address   string   `json:"address"`
	Note      string   `json:"note"`
}
