package scanning

import (
	"fmt"
	"strings"
)

// receiptPromptTemplate is the shared instruction set for all providers. The
// %s placeholder receives the comma-separated category vocabulary.
const receiptPromptTemplate = `You are an expert corporate accountant analyzing a receipt or invoice document. Carefully read all text in the image and extract the following information:

1. **Merchant**: the store or business name, usually the largest text or header at the top of the receipt.

2. **Date**: the transaction, purchase, or invoice date. Convert it to ISO 8601 format (YYYY-MM-DD). Common source formats: MM/DD/YYYY, DD/MM/YYYY, or written dates.

3. **Total Amount**: the final total, grand total, or amount due, usually at the bottom of the receipt. Extract only the numeric value (e.g. 42.75).

4. **Tax ID**: the merchant's tax identification number, if printed.

5. **Address**: the merchant's address, if printed.

6. **Category**: choose exactly one of: %s. Categorize intelligently from the items and the nature of the merchant:
   - paper, pens, ink -> Office Supplies
   - taxi, ride hailing, flights, fuel -> Travel & Transportation
   - restaurant serving one person -> Meals & Beverage
   - restaurant hosting several people -> Entertainment
   - AWS, Google Cloud, Adobe, other software vendors -> Software & Licenses
   - phone or internet bill -> Communication & Internet

7. **Note**: a short summary of what was paid for (e.g. "Cloud server fees", "A4 paper and printer ink").

Return ONLY valid JSON in this exact format:
{"merchant": "Store Name", "date": "YYYY-MM-DD", "amount": 0.00, "category": "...", "taxId": "", "address": "", "note": ""}

Important:
- The date must be in YYYY-MM-DD format
- The amount must be a number (not a string)
- Use an empty string for any field you cannot find
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// scanPrompt builds the provider prompt for the given category vocabulary.
func scanPrompt(categories []string) string {
	return fmt.Sprintf(receiptPromptTemplate, strings.Join(categories, ", "))
}
