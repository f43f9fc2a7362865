package events

import (
	"regexp"
	"strings"
	"time"
)

type template struct {
	name, venue, category, description, price string
}

var curated = map[string][]template{
	"seattle": {
		{"Bumbershoot Music & Arts Festival", "Seattle Center", "Music & Arts Festival",
			"Seattle's premier music and arts festival featuring local and international artists, interactive art installations, and diverse food vendors.", "$85 - $165"},
		{"Live at The Crocodile: Indie Rock Night", "The Crocodile", "Live Music",
			"Seattle's best indie bands perform live at the historic Crocodile venue. Features emerging local talent and established acts.", "$25 - $40"},
		{"Pike Place Market Food Tour", "Pike Place Market", "Food & Drink",
			"Guided culinary tour through Seattle's famous Pike Place Market. Sample local delicacies and meet local vendors.", "$45 - $75"},
		{"Climate Pledge Arena Concert Series", "Climate Pledge Arena", "Concert",
			"Major touring artists perform at Seattle's premier arena venue. State-of-the-art sound and production.", "$75 - $250"},
		{"Green Lake Summer Festival", "Green Lake Park", "Community Festival",
			"Family-friendly community festival with live music, local food vendors, activities, and water sports demonstrations.", "$0 - $10"},
	},
	"chicago": {
		{"Lollapalooza After Shows", "House of Blues Chicago", "Music Festival",
			"Official after-show performances featuring Lollapalooza artists in an intimate setting.", "$45 - $85"},
		{"Taste of Chicago", "Grant Park", "Food Festival",
			"Chicago's largest food festival featuring local restaurants, live music, and cooking demonstrations.", "Free entry, food tickets available"},
		{"Blues on the Lake", "Navy Pier", "Live Music",
			"Evening of Chicago Blues music with stunning lakefront views. Features local blues legends.", "$35 - $65"},
		{"Wrigleyville Summer Bash", "Wrigley Field", "Community Festival",
			"Neighborhood celebration with Cubs theme, local vendors, and family activities.", "$10 - $25"},
		{"Art Institute After Dark", "Art Institute of Chicago", "Arts & Culture",
			"Special evening access to exhibitions with live music, cocktails, and interactive art activities.", "$30 - $45"},
	},
	"new york": {
		{"Summer Stage in Central Park", "Central Park", "Concert Series",
			"Free outdoor concerts featuring diverse musical acts in the heart of Central Park.", "Free - $50 VIP"},
		{"Broadway in Bryant Park", "Bryant Park", "Theater",
			"Lunchtime performances featuring cast members from current Broadway shows.", "Free"},
		{"MSG Concert Series", "Madison Square Garden", "Concert",
			"World-class artists perform at The World's Most Famous Arena.", "$85 - $350"},
		{"Times Square Street Food Festival", "Times Square", "Food & Drink",
			"International street food festival featuring NYC's best food trucks and vendors.", "$5 - $25 per item"},
		{"Met Rooftop Bar & Art Installation", "Metropolitan Museum of Art", "Arts & Culture",
			"Enjoy drinks and contemporary art installations with stunning Central Park views.", "$25 - $45"},
	},
}

var curatedAliases = map[string]string{"new york city": "new york"}

// {city} is replaced with the display name.
var generic = []template{
	{"{city} Summer Music Festival", "{city} City Park", "Music Festival",
		"Annual music festival featuring local and regional artists in {city}.", "$25 - $45"},
	{"Food Truck Friday", "{city} Downtown", "Food & Drink",
		"Weekly gathering of the city's best food trucks with live music and local vendors.", "Free entry, food prices vary"},
	{"{city} Arts Walk", "{city} Arts District", "Arts & Culture",
		"Monthly art walk featuring local galleries, street performers, and pop-up exhibitions.", "Free"},
	{"Community Concert Series", "{city} Amphitheater", "Concert",
		"Weekly outdoor concerts featuring diverse musical acts from the local scene.", "$15 - $30"},
	{"{city} Makers Market", "{city} Convention Center", "Shopping",
		"Local artisans and craftspeople showcase their work with demonstrations and workshops.", "$5 - $10"},
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Synthetic builds the fallback event list for location. Dates run one per
// day starting the day after start. at may be nil when geocoding failed.
func Synthetic(location string, at *Coordinates, start time.Time) []Event {
	key := strings.ToLower(strings.TrimSpace(location))
	if alias, ok := curatedAliases[key]; ok {
		key = alias
	}
	list, ok := curated[key]
	if !ok {
		list = generic
	}
	var coords Coordinates
	if at != nil {
		coords = *at
	}
	fill := strings.NewReplacer("{city}", location)

	out := make([]Event, 0, len(list))
	for i, tpl := range list {
		venue := fill.Replace(tpl.venue)
		out = append(out, Event{
			Name:        fill.Replace(tpl.name),
			Description: fill.Replace(tpl.description),
			Location:    venue,
			Date:        start.AddDate(0, 0, i+1).Format(dateLayout),
			URL:         "https://www.eventbrite.com/d/" + slug(location) + "/" + slug(tpl.category) + "/",
			Coordinates: coords,
			Category:    tpl.category,
			Price:       tpl.price,
		})
	}
	return out
}
