package classifier

// Vocabulary of other sports that share words with football coverage. Only the
// most specific terms are listed.
var denylistTerms = []string{
	// American football
	"NFL", "college football", "NFL draft", "quarterback", "touchdown",
	"Super Bowl", "American Football", "fantasy football", "end zone",
	"field goal", "rushing yards", "passing yards",

	// Hockey
	"NHL", "hockey", "ice hockey", "Stanley Cup", "puck",

	// Basketball
	"NBA", "basketball", "WNBA", "slam dunk", "three-pointer",

	// Rugby
	"rugby", "Rugby Union", "Rugby League", "scrum",

	// Tennis
	"tennis", "Wimbledon", "ATP", "WTA", "Grand Slam tennis",

	// Swimming
	"swimming", "freestyle", "backstroke", "breaststroke", "butterfly stroke",

	// Combat sports
	"UFC", "MMA", "Mixed Martial Arts", "Ultimate Fighting Championship", "octagon",

	// Everything else
	"baseball", "MLB", "World Series", "home run", "cricket", "wicket",
	"bowling average", "golf", "PGA Tour", "boxing", "Formula 1", "F1 racing",
	"NASCAR", "volleyball", "track and field", "marathon", "cycling",
	"Tour de France", "Winter Olympics", "figure skating",
}

var transferTerms = []string{
	"transfer", "transfers", "signing", "signed", "sign", "deal", "deals",
	"move", "moves", "bid", "bids", "target", "targets", "contract",
	"rumour", "rumor", "linked", "interest", "swap", "loan", "agreement",
	"negotiate", "offer", "fee", "price", "valuation",
}

var footballTerms = []string{
	"football", "soccer", "premier league", "champions league", "fifa",
	"uefa", "la liga", "serie a", "bundesliga", "ligue 1",
}

// Built-in keyword sets.
var (
	Denylist         = NewKeywordSet(denylistTerms...)
	TransferKeywords = NewKeywordSet(transferTerms...)
	FootballKeywords = NewKeywordSet(footballTerms...)
)

// Named sets referenced from strategy files.
const (
	SetTransfer = "transfer"
	SetFootball = "football"
)

// NamedSet resolves a built-in confirmation set by name.
func NamedSet(name string) (KeywordSet, bool) {
	switch name {
	case SetTransfer:
		return TransferKeywords, true
	case SetFootball:
		return FootballKeywords, true
	default:
		return KeywordSet{}, false
	}
}
