// Package categorizer assigns a semantic category to a transaction
// description. The rule table is ordered; the first category whose keyword or
// pattern appears in the description wins, and anything unmatched is Other.
// Plain keywords go through a single Aho-Corasick pass so the whole table is
// matched in one scan of the text; the few patterns that need flexible
// whitespace stay as regular expressions.
package categorizer

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
)

type rule struct {
	category statement.Category
	keywords []string
	patterns []*regexp.Regexp
}

// Table order decides priority: AMAZON PRIME hits entertainment before the
// shopping rule ever sees AMAZON, and UPI-SWIGGY is food before transfer.
func defaultRules() []rule {
	return []rule{
		{statement.CategoryFoodDining, []string{"SWIGGY", "ZOMATO", "DOMINOS", "PIZZA", "RESTAURANT", "CAFE", "HOTEL", "FOOD", "DINING"}, nil},
		{statement.CategoryGroceries, []string{"BIGBASKET", "GROFERS", "DMART", "RELIANCE FRESH", "GROCERY", "SUPERMARKET", "WALMART"}, nil},
		{statement.CategoryFuel, []string{"PETROL", "DIESEL", "FUEL", "BPCL", "IOCL", "SHELL"},
			[]*regexp.Regexp{regexp.MustCompile(`BHARAT\s*PETROLEUM|\bHP\b`)}},
		{statement.CategoryUtilities, []string{"ELECTRICITY", "WATER", "GAS", "BROADBAND", "INTERNET", "MOBILE", "TELECOM", "AIRTEL", "JIO"},
			[]*regexp.Regexp{regexp.MustCompile(`\bVI\b`)}},
		{statement.CategoryEntertainment, []string{"NETFLIX", "HOTSTAR", "SPOTIFY", "BOOKMYSHOW", "CINEMA", "MOVIE"},
			[]*regexp.Regexp{regexp.MustCompile(`AMAZON\s*PRIME`)}},
		{statement.CategoryTransportation, []string{"UBER", "OLA", "METRO", "RAILWAY", "IRCTC", "TAXI", "TRANSPORT"},
			[]*regexp.Regexp{regexp.MustCompile(`\bBUS\b|\bAUTO\b`)}},
		{statement.CategoryShopping, []string{"AMAZON", "FLIPKART", "MYNTRA", "SHOPPING", "MALL", "STORE", "RETAIL"}, nil},
		{statement.CategoryMedical, []string{"HOSPITAL", "MEDICAL", "PHARMACY", "APOLLO", "DOCTOR", "HEALTH", "MEDICINE"}, nil},
		{statement.CategoryEducation, []string{"SCHOOL", "COLLEGE", "UNIVERSITY", "EDUCATION", "COURSE", "TRAINING", "TUITION"}, nil},
		{statement.CategoryInvestment, []string{"SIP", "INSURANCE", "INVESTMENT", "ZERODHA", "GROWW", "UPSTOX"},
			[]*regexp.Regexp{regexp.MustCompile(`MUTUAL\s*FUND`)}},
		{statement.CategoryTransfer, []string{"TRANSFER", "NEFT", "RTGS", "IMPS", "UPI", "PAYTM", "PHONEPE", "GPAY", "WALLET"}, nil},
		{statement.CategorySalary, []string{"SALARY", "PAYROLL", "WAGES", "INCOME"},
			[]*regexp.Regexp{regexp.MustCompile(`SAL\s*CREDIT`)}},
		{statement.CategoryBankCharges, []string{"CHARGES", "FEE", "PENALTY", "INTEREST", "MAINTENANCE", "SERVICE"}, nil},
		{statement.CategoryCashWithdrawal, []string{"ATM", "WITHDRAWAL"},
			[]*regexp.Regexp{regexp.MustCompile(`ATM\s*WDL|CASH\s*WITHDRAWAL`)}},
	}
}

// Categorizer is a pure description → category function. Safe for concurrent
// use; it holds no mutable state after construction.
type Categorizer struct {
	rules   []rule
	matcher *ahocorasick.Matcher
	// keywordRule[i] is the rule index owning the i-th pattern fed to the
	// matcher, in the same order.
	keywordRule []int
}

// New builds a categorizer over the default rule table.
func New() *Categorizer {
	return newWithRules(defaultRules())
}

func newWithRules(rules []rule) *Categorizer {
	var patterns [][]byte
	var owners []int
	for i, r := range rules {
		for _, kw := range r.keywords {
			patterns = append(patterns, []byte(kw))
			owners = append(owners, i)
		}
	}
	return &Categorizer{
		rules:       rules,
		matcher:     ahocorasick.NewMatcher(patterns),
		keywordRule: owners,
	}
}

// Categorize maps a description to its category. Deterministic and pure:
// identical input always yields the identical category.
func (c *Categorizer) Categorize(description string) statement.Category {
	upper := strings.ToUpper(description)

	best := len(c.rules)
	for _, idx := range c.matcher.Match([]byte(upper)) {
		if owner := c.keywordRule[idx]; owner < best {
			best = owner
		}
	}
	// Regex rules only need testing ahead of the best keyword hit.
	for i := 0; i < best; i++ {
		for _, p := range c.rules[i].patterns {
			if p.MatchString(upper) {
				best = i
				break
			}
		}
	}
	if best == len(c.rules) {
		return statement.CategoryOther
	}
	return c.rules[best].category
}
