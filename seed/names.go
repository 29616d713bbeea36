// names.go - Synthetic attribute pools for seeded people and customers.
//
// Pools are fixed per locale; which entry an entity gets is decided by
// the run's sequence, so two runs with the same seed produce the same
// names in the same order. Unknown locales fall back to "de".
package seed

import (
	"fmt"
	"strings"

	"github.com/warp/dispatch-engine/plan"
)

type namePool struct {
	firstNames []string
	lastNames  []string
	companies  []string
	streets    []string
	cities     []string
}

var namePools = map[string]namePool{
	"de": {
		firstNames: []string{
			"Anna", "Bernd", "Clara", "Daniel", "Elif", "Frank", "Greta",
			"Hannes", "Ingrid", "Jonas", "Katrin", "Lukas", "Miriam", "Nils",
			"Oliver", "Petra", "Rafael", "Sabine", "Tobias", "Ute",
		},
		lastNames: []string{
			"Albrecht", "Brandt", "Czerny", "Dietrich", "Engel", "Fischer",
			"Grünwald", "Hartmann", "Ilgner", "Jäger", "Krüger", "Lorenz",
			"Mertens", "Neumann", "Ostermann", "Pohl", "Richter", "Sommer",
			"Thalberg", "Vogel",
		},
		companies: []string{
			"Pflegeheim Sonnenhof", "Seniorenresidenz Lindenpark",
			"Wohnstift Amselweg", "Hausverwaltung Kastanienhof",
			"Diakonie Werkstatt Nord", "Caritas Wohnen Süd",
			"Stadtwerke Wohnungsbau", "Baugenossenschaft Elbblick",
			"Sanitätshaus Reha Plus", "Wohnpark Rosengarten",
		},
		streets: []string{
			"Ahornstraße 12", "Birkenweg 4", "Dorfstraße 88", "Eichenallee 23",
			"Feldweg 7", "Gartenstraße 15", "Hauptstraße 101", "Lindenplatz 2",
			"Mühlenweg 31", "Schulstraße 9",
		},
		cities: []string{
			"Hamburg", "Lüneburg", "Buchholz", "Stade", "Winsen",
			"Geesthacht", "Pinneberg", "Norderstedt",
		},
	},
	"en": {
		firstNames: []string{
			"Alice", "Ben", "Chloe", "Dylan", "Emma", "Finn", "Grace",
			"Henry", "Isla", "Jack", "Kara", "Liam", "Mia", "Noah",
			"Olivia", "Paul", "Ruby", "Sam", "Tessa", "Will",
		},
		lastNames: []string{
			"Archer", "Bennett", "Carter", "Dawson", "Ellis", "Foster",
			"Graham", "Hayes", "Irwin", "Jennings", "Keller", "Lawson",
			"Mitchell", "Norris", "Osborne", "Parker", "Reid", "Sutton",
			"Turner", "Walsh",
		},
		companies: []string{
			"Sunrise Care Home", "Lakeside Retirement Living",
			"Oakfield Housing Trust", "Harbor View Residences",
			"Meadowbrook Assisted Living", "Northgate Property Group",
			"Riverside Community Housing", "Elm Street Care Services",
			"Summit Home Solutions", "Willow Park Estates",
		},
		streets: []string{
			"12 Maple Street", "4 Birch Lane", "88 Village Road",
			"23 Oak Avenue", "7 Field Close", "15 Garden Terrace",
			"101 High Street", "2 Linden Square", "31 Mill Way",
			"9 School Road",
		},
		cities: []string{
			"Portsmouth", "Winchester", "Guildford", "Reading",
			"Basingstoke", "Salisbury", "Chichester", "Farnham",
		},
	},
}

func poolFor(locale string) namePool {
	if p, ok := namePools[strings.ToLower(locale)]; ok {
		return p
	}
	return namePools["de"]
}

// person draws a first/last name pair and a matching synthetic email.
func person(p namePool, seq *plan.Sequence) (first, last, email string) {
	first = plan.Pick(seq, p.firstNames)
	last = plan.Pick(seq, p.lastNames)
	email = fmt.Sprintf("%s.%s@dispatch.example",
		strings.ToLower(sanitizeASCII(first)), strings.ToLower(sanitizeASCII(last)))
	return first, last, email
}

// company draws a customer name with street and city.
func company(p namePool, seq *plan.Sequence) (name, street, city string) {
	return plan.Pick(seq, p.companies), plan.Pick(seq, p.streets), plan.Pick(seq, p.cities)
}

// sanitizeASCII folds the few non-ASCII letters the pools contain so the
// generated emails stay plain ASCII.
func sanitizeASCII(s string) string {
	r := strings.NewReplacer(
		"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
		"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	)
	return r.Replace(s)
}
