// Package catalog is the static article set served when no live content is
// available.
package catalog

import (
	"time"

	"github.com/PaulGreetham/football-insight/internal/domain"
)

// SentinelHost is the reserved domain every catalog URL lives under.
const SentinelHost = "example.com"

// Age gap between consecutive catalog entries.
const spacing = 2 * time.Hour

type entry struct {
	title       string
	description string
	body        string
	slug        string
	image       string
	source      string
}

var entries = []entry{
	{
		title:       "Manchester United Complete Signing of Promising Young Midfielder",
		description: "The Red Devils have secured the services of a highly-rated 22-year-old midfielder from Serie A in a deal worth €45 million. The player is expected to bring creativity and energy to United's midfield.",
		body:        "Manchester United have completed the signing of a promising young midfielder...",
		slug:        "man-united-signing",
		image:       "https://images.unsplash.com/photo-1574629810360-7efbbe195018?w=800&h=400&fit=crop",
		source:      "Football Central",
	},
	{
		title:       "Liverpool Eye Summer Move for Champions League Winner",
		description: "Liverpool are reportedly monitoring a 25-year-old striker who scored 18 goals in the Champions League last season. The player's current club values him at €80 million.",
		body:        "Liverpool are planning a major summer overhaul...",
		slug:        "liverpool-target",
		image:       "https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=800&h=400&fit=crop",
		source:      "Football Transfer News",
	},
	{
		title:       "Real Madrid Prepare Record Bid for Premier League Star",
		description: "Los Blancos are ready to break their transfer record to secure the signature of an England international who has been in outstanding form this season with 24 goals and 12 assists.",
		body:        "Real Madrid are preparing a world-record bid...",
		slug:        "real-madrid-bid",
		image:       "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=800&h=400&fit=crop",
		source:      "Madrid Sports Daily",
	},
	{
		title:       "Barcelona Agree Deal for Brazilian Wonderkid",
		description: "The Catalan giants have reached an agreement with Santos for their 18-year-old attacking midfielder. The deal includes a €100m release clause.",
		body:        "Barcelona have agreed terms with Santos...",
		slug:        "barcelona-wonderkid",
		image:       "https://images.unsplash.com/photo-1552318965-6e6be7484ada?w=800&h=400&fit=crop",
		source:      "Barca News",
	},
	{
		title:       "Chelsea Close to Finalizing Double Swoop",
		description: "The Blues are in advanced negotiations for two high-profile signings: a German defender and an Argentine attacking midfielder. Combined fee expected to exceed €120 million.",
		body:        "Chelsea are working on two major signings...",
		slug:        "chelsea-double-deal",
		image:       "https://images.unsplash.com/photo-1508098682722-e99c43a406b2?w=800&h=400&fit=crop",
		source:      "London Football",
	},
	{
		title:       "PSG Set to Lose Star Player to Serie A Giants",
		description: "Paris Saint-Germain's French international midfielder is reportedly close to joining Juventus on a free transfer when his contract expires this summer.",
		body:        "PSG face losing one of their key players...",
		slug:        "psg-departure",
		image:       "https://images.unsplash.com/photo-1489944440615-453fc2b6a9a9?w=800&h=400&fit=crop",
		source:      "Paris Football",
	},
	{
		title:       "Arsenal Target World Cup Hero in January Window",
		description: "The Gunners are planning a January move for the Morocco international who starred at the World Cup. His current club is demanding €60 million for the versatile defender.",
		body:        "Arsenal are targeting a January reinforcement...",
		slug:        "arsenal-january-target",
		image:       "https://images.unsplash.com/photo-1431324155629-1a6deb1dec8d?w=800&h=400&fit=crop",
		source:      "Gunners Report",
	},
	{
		title:       "Bayern Munich Eye Premier League Goalkeeper",
		description: "The German champions are monitoring the situation of England's number one goalkeeper whose contract talks with his current club have stalled.",
		body:        "Bayern Munich are exploring goalkeeper options...",
		slug:        "bayern-goalkeeper",
		image:       "https://images.unsplash.com/photo-1577223625816-7546f13df25d?w=800&h=400&fit=crop",
		source:      "Bundesliga Today",
	},
}

// Catalog serves the fixed article list. Timestamps are relative to the
// clock at the time of each Take call.
type Catalog struct {
	now  func() time.Time
	urls map[string]struct{}
}

// New returns a catalog using now as its clock (time.Now when nil).
func New(now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	urls := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		urls[urlFor(e)] = struct{}{}
	}
	return &Catalog{now: now, urls: urls}
}

// Size is the number of catalog entries.
func (c *Catalog) Size() int { return len(entries) }

// Take returns the first n entries, newest first. n is clamped to [0, Size].
func (c *Catalog) Take(n int) []domain.Article {
	n = max(0, min(n, len(entries)))
	now := c.now().UTC()
	out := make([]domain.Article, 0, n)
	for i, e := range entries[:n] {
		out = append(out, domain.Article{
			Title:       e.title,
			Description: e.description,
			Body:        e.body,
			URL:         urlFor(e),
			ImageURL:    e.image,
			PublishedAt: now.Add(-time.Duration(i) * spacing),
			Source: domain.Source{
				Name: e.source,
				URL:  "https://" + SentinelHost,
			},
		})
	}
	return out
}

// Contains reports whether url identifies a catalog article.
func (c *Catalog) Contains(url string) bool {
	_, ok := c.urls[url]
	return ok
}

func urlFor(e entry) string {
	return "https://" + SentinelHost + "/" + e.slug
}
