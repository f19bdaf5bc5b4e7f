package sample

// SignalsVersion changes every time the signal table changes. A new
// generation of records needs a new entry in Signals and a new mapping
// table, not new branches in Classify.
const SignalsVersion = 1

// Signals keeps field names that only ever appear in records of one
// generation. The sets are disjoint: keys shared by Legacy and Merged
// records (for example "Chum Fry", "Trap Operating") are not signals.
var Signals = map[Generation][]string{
	Legacy: {
		"Water (°C)",
		"Hobo Temp (°C)",
		"Chum Alevin",
		"Marked Chum Released",
		"Marked Chum Recap",
		"Marked Chum Mort",
		"Coho Marked",
		"Marked Coho Recap",
		"Chinook Fry",
		"Chinook Parr",
		"Pink Fry",
		"Stickleback",
	},
	Intermediate: {
		"date",
		"time",
		"trapOperating",
		"chumCaught",
		"cohoSmoltCaught",
		"userId",
		"submittedBy",
		"createdAt",
	},
	Merged: {
		"Coho Smolt",
		"Water Temp",
		"Hobo Temp",
		"Chum Recap",
		"Chum Mort Marked",
		"Chum Mort Recap",
		"Coho Smolt Marked",
		"Chinook",
		"User ID",
		"Submitted By",
		"Created At",
	},
}

// Keys names the fields of a generation that are used outside of field
// remapping.
type Keys struct {
	Date          string
	Time          string
	TrapOperating string
	// CreatedAt is empty for generations without a creation timestamp.
	CreatedAt string
}

var generationKeys = map[Generation]Keys{
	Legacy: {
		Date:          "Date",
		Time:          "Time",
		TrapOperating: "Trap Operating",
	},
	Intermediate: {
		Date:          "date",
		Time:          "time",
		TrapOperating: "trapOperating",
		CreatedAt:     "createdAt",
	},
	Merged: {
		Date:          "Date",
		Time:          "Time",
		TrapOperating: "Trap Operating",
		CreatedAt:     "Created At",
	},
}

// KeysOf returns well-known field names of a generation.
func KeysOf(g Generation) Keys {
	return generationKeys[g]
}

// Matches returns generations whose signals are present in the record,
// in the order of Generations.
func Matches(rec Record) []Generation {
	var res []Generation
	for _, g := range Generations {
		for _, k := range Signals[g] {
			if rec.Has(k) {
				res = append(res, g)
				break
			}
		}
	}
	return res
}
