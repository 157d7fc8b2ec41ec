// Package categorize assigns spending categories to transactions via
// priority-ordered keyword matching over the description text and amount
// sign. A pre-existing category always wins, which also makes batch
// categorization idempotent.
package categorize

// Rule pairs a category label with its lowercase keyword substrings.
type Rule struct {
	Category string
	Keywords []string
}

// Rules is the category rule table. Order is the contract: categories are
// checked top to bottom and the first category with a keyword hit wins, so a
// description matching both "tesco" and "petrol" is Groceries, not Transport.
var Rules = []Rule{
	{
		Category: "Groceries",
		Keywords: []string{
			"tesco", "sainsbury", "sainsburys", "asda", "morrisons",
			"waitrose", "lidl", "aldi", "co-op", "coop", "marks & spencer",
			"m&s", "iceland", "ocado", "supermarket", "groceries",
		},
	},
	{
		Category: "Subscriptions",
		Keywords: []string{
			"netflix", "spotify", "amazon prime", "prime video",
			"apple music", "youtube premium", "disney", "gym",
			"fitness", "puregym", "virgin active", "membership",
		},
	},
	{
		Category: "Eating Out",
		Keywords: []string{
			"restaurant", "cafe", "coffee", "starbucks", "costa", "nero",
			"nando", "nandos", "mcdonald", "mcdonalds", "kfc", "burger king",
			"pizza", "domino", "subway", "greggs", "pret", "takeaway",
			"deliveroo", "uber eats", "just eat",
		},
	},
	{
		Category: "Transport",
		Keywords: []string{
			"uber", "train", "bus", "tube", "tram",
			"oyster", "tfl", "transport for london", "national rail",
			"petrol", "fuel", "shell", "bp", "esso", "parking",
			"taxi", "car park",
		},
	},
	{
		Category: "Shopping",
		Keywords: []string{
			"amazon", "ebay", "asos", "zara", "h&m", "next",
			"primark", "argos", "john lewis", "boots", "superdrug",
			"clothes", "clothing", "fashion",
		},
	},
	{
		Category: "Bills",
		Keywords: []string{
			"electric", "electricity", "gas", "water", "council tax",
			"rent", "mortgage", "internet", "broadband", "virgin media",
			"bt", "sky", "vodafone", "ee", "o2", "three", "phone bill",
			"utilities", "insurance",
		},
	},
}

// IncomeKeywords mark a description as income regardless of the rule table.
var IncomeKeywords = []string{
	"salary", "wage", "wages", "payment received", "transfer in",
	"refund", "cashback", "interest", "dividend", "bonus",
}
