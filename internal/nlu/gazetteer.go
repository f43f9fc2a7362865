package nlu

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cityNames is the allow-list of recognized US cities, lowercase.
var cityNames = []string{
	"aberdeen", "abilene", "akron", "albany", "albuquerque", "alexandria", "allentown", "amarillo",
	"anaheim", "anchorage", "ann arbor", "antioch", "apple valley", "appleton", "arlington", "arvada",
	"asheville", "athens", "atlanta", "atlantic city", "augusta", "aurora", "austin", "bakersfield",
	"baltimore", "barnstable", "baton rouge", "beaumont", "bel air", "bellevue", "berkeley",
	"bethlehem", "billings", "birmingham", "bloomington", "boise", "boise city", "bonita springs",
	"boston", "boulder", "bradenton", "bremerton", "bridgeport", "brighton", "brownsville", "bryan",
	"buffalo", "burbank", "burlington", "cambridge", "canton", "cape coral", "carrollton", "cary",
	"cathedral city", "cedar rapids", "champaign", "chandler", "charleston", "charlotte",
	"chattanooga", "chesapeake", "chicago", "chula vista", "cincinnati", "clarke county",
	"clarksville", "clearwater", "cleveland", "college station", "colorado springs", "columbia",
	"columbus", "concord", "coral springs", "corona", "corpus christi", "costa mesa", "dallas",
	"daly city", "danbury", "davenport", "davidson county", "dayton", "daytona beach", "deltona",
	"denton", "denver", "des moines", "detroit", "downey", "duluth", "durham", "el monte", "el paso",
	"elizabeth", "elk grove", "elkhart", "erie", "escondido", "eugene", "evansville", "fairfield",
	"fargo", "fayetteville", "fitchburg", "flint", "fontana", "fort collins", "fort lauderdale",
	"fort smith", "fort walton beach", "fort wayne", "fort worth", "frederick", "fremont", "fresno",
	"fullerton", "gainesville", "garden grove", "garland", "gastonia", "gilbert", "glendale",
	"grand prairie", "grand rapids", "grayslake", "green bay", "greenbay", "greensboro", "greenville",
	"gulfport-biloxi", "hagerstown", "hampton", "harlingen", "harrisburg", "hartford",
	"havre de grace", "hayward", "hemet", "henderson", "hesperia", "hialeah", "hickory", "high point",
	"hollywood", "honolulu", "houma", "houston", "howell", "huntington", "huntington beach",
	"huntsville", "independence", "indianapolis", "inglewood", "irvine", "irving", "jackson",
	"jacksonville", "jefferson", "jersey city", "johnson city", "joliet", "kailua", "kalamazoo",
	"kaneohe", "kansas city", "kennewick", "kenosha", "killeen", "kissimmee", "knoxville", "lacey",
	"lafayette", "lake charles", "lakeland", "lakewood", "lancaster", "lansing", "laredo",
	"las cruces", "las vegas", "layton", "leominster", "lewisville", "lexington", "lincoln",
	"little rock", "long beach", "lorain", "los angeles", "louisville", "lowell", "lubbock", "macon",
	"madison", "manchester", "marina", "marysville", "mcallen", "mchenry", "medford", "melbourne",
	"memphis", "merced", "mesa", "mesquite", "miami", "milwaukee", "minneapolis", "miramar",
	"mission viejo", "mobile", "modesto", "monroe", "monterey", "montgomery", "moreno valley",
	"murfreesboro", "murrieta", "muskegon", "myrtle beach", "naperville", "naples", "nashua",
	"nashville", "new bedford", "new haven", "new london", "new orleans", "new york", "new york city",
	"newark", "newburgh", "newport news", "norfolk", "normal", "norman", "north charleston",
	"north las vegas", "north port", "norwalk", "norwich", "oakland", "ocala", "oceanside", "odessa",
	"ogden", "oklahoma city", "olathe", "olympia", "omaha", "ontario", "orange", "orem", "orlando",
	"overland park", "oxnard", "palm bay", "palm springs", "palmdale", "panama city", "pasadena",
	"paterson", "pembroke pines", "pensacola", "peoria", "philadelphia", "phoenix", "pittsburgh",
	"plano", "pomona", "pompano beach", "port arthur", "port orange", "port saint lucie",
	"port st. lucie", "portland", "portsmouth", "poughkeepsie", "providence", "provo", "pueblo",
	"punta gorda", "racine", "raleigh", "rancho cucamonga", "reading", "redding", "reno", "richland",
	"richmond", "richmond county", "riverside", "roanoke", "rochester", "rockford", "roseville",
	"round lake beach", "sacramento", "saginaw", "saint louis", "saint paul", "saint petersburg",
	"salem", "salinas", "salt lake city", "san antonio", "san bernardino", "san buenaventura",
	"san diego", "san francisco", "san jose", "santa ana", "santa barbara", "santa clara",
	"santa clarita", "santa cruz", "santa maria", "santa rosa", "sarasota", "savannah", "scottsdale",
	"scranton", "seaside", "seattle", "sebastian", "shreveport", "simi valley", "sioux city",
	"sioux falls", "south bend", "south lyon", "spartanburg", "spokane", "springdale", "springfield",
	"st. louis", "st. paul", "st. petersburg", "stamford", "sterling heights", "stockton",
	"sunnyvale", "syracuse", "tacoma", "tallahassee", "tampa", "temecula", "tempe", "thornton",
	"thousand oaks", "toledo", "topeka", "torrance", "trenton", "tucson", "tulsa", "tuscaloosa",
	"tyler", "utica", "vallejo", "vancouver", "vero beach", "victorville", "virginia beach",
	"visalia", "waco", "warren", "washington", "waterbury", "waterloo", "west covina",
	"west valley city", "westminster", "wichita", "wilmington", "winston", "winter haven",
	"worcester", "yakima", "yonkers", "york", "youngstown",
}

// Gazetteer validates and locates city names in free text. It is built once
// and never mutated, so it is safe for concurrent readers.
type Gazetteer struct {
	known map[string]struct{}
	// whole-word and substring matchers; alternatives are ordered longest
	// first so the leftmost match prefers the longest city at that offset
	word *regexp.Regexp
	any  *regexp.Regexp
}

func NewGazetteer(names []string) *Gazetteer {
	known := make(map[string]struct{}, len(names))
	ordered := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := known[n]; dup {
			continue
		}
		known[n] = struct{}{}
		ordered = append(ordered, n)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	quoted := make([]string, len(ordered))
	for i, n := range ordered {
		quoted[i] = regexp.QuoteMeta(n)
	}
	alt := strings.Join(quoted, "|")
	return &Gazetteer{
		known: known,
		word:  regexp.MustCompile(`\b(?:` + alt + `)\b`),
		any:   regexp.MustCompile(`(?:` + alt + `)`),
	}
}

// DefaultGazetteer returns a gazetteer over the built-in city list.
func DefaultGazetteer() *Gazetteer { return NewGazetteer(cityNames) }

func (g *Gazetteer) Len() int { return len(g.known) }

// Lookup returns the display form of name when it is a known city.
func (g *Gazetteer) Lookup(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if _, ok := g.known[n]; !ok {
		return "", false
	}
	return displayName(n), true
}

// FindWord returns the leftmost city appearing in text as a whole word.
func (g *Gazetteer) FindWord(text string) (string, bool) {
	return g.find(g.word, text)
}

// FindSubstring returns the leftmost city appearing anywhere in text,
// including inside longer words.
func (g *Gazetteer) FindSubstring(text string) (string, bool) {
	return g.find(g.any, text)
}

func (g *Gazetteer) find(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindString(strings.ToLower(text))
	if m == "" {
		return "", false
	}
	return displayName(m), true
}

func displayName(city string) string {
	return cases.Title(language.English).String(city)
}
