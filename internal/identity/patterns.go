package identity

import (
	"regexp"
	"strings"
	"sync"
)

// companyPatterns maps canonical company keys to the expression matched
// against every profile field. Patterns are compiled case-insensitively.
// Most entries also match suffixed handles like "trifork-labs" or
// "trifork_jane", which is how employees tend to write employer handles.
var companyPatterns = map[string]string{
	"nodes":            `\b(nodes(?:[-_ ]\w+)?)\b`,
	"abtion":           `(abtion(?:[-_ ]\w+)?)`,
	"heyday":           `(heyday(?:[-_ ]\w+)?)`,
	"trifork":          `(trifork(?:[-_ ]\w+)?)`,
	"frontit":          `(frontit(?:[-_ ]\w+)?)`,
	"holion":           `(holion(?:[-_ ]\w+)?)`,
	"kruso":            `(kruso(?:[-_ ]\w+)?)`,
	"pandiweb":         `(pandi(?:[-_ ]?web))`,
	"uptime":           `(uptime(?:[-_ ]\w+)?)`,
	"charlie tango":    `(charlie[-_ ]?tango)`,
	"ffw":              `(ffw(?:[-_ ]\w+)?)`,
	"mysupport":        `(mysupport(?:[-_ ]\w+)?)`,
	"shape":            `(shape(?:[-_ ]\w+)?)`,
	"makeable":         `(makeable(?:[-_ ]\w+)?)`,
	"mustache":         `(mustache(?:[-_ ]\w+)?)`,
	"house of code":    `(house[-_ ]?of[-_ ]?code)`,
	"greener pastures": `(greener[-_ ]?pastures)`,
	"axla":             `(axla)`,
	"snapp":            `(snapp(?:[-_ ]\w+)?)`,
	"appscaptain":      `(appscaptain(?:[-_ ]\w+)?)`,
	"adtomic":          `(adtomic(?:[-_ ]\w+)?)`,
	"signifly":         `(signifly(?:[-_ ]\w+)?)`,
	"creuna":           `(creuna(?:[-_ ]\w+)?)`,
	"strømlin":         `(strømlin|stromlin)`,
	"knowit":           `(know[-_ ]?it)`,
	"must":             `\b(mu[-_ ]?st)\b`,
	"netcompany":       `(netcompany(?:[-_ ]\w+)?)`,
	"systematic":       `(systematic(?:[-_ ]\w+)?)`,
	"capgemini":        `(capgemini(?:[-_ ]\w+)?)`,
	"sas institute":    `(sas[-_ ]?institute)`,
	"fellowmind":       `(fellow[-_ ]?mind)`,
	"eg a s":           `\b(eg[-_ ]?a[-_ ]?s|egdw|eg\.dk)\b`,
	"kmd":              `(kmd(?:[-_ ]\w+)?)`,
	"adform":           `(adform)`,
	"oxygen":           `\b(oxygen)\b`,
	"saxo bank":        `(saxo[-_ ]?bank)`,
	"kabellmunk":       `(kabellmunk)`,
	"dgi-it":           `(dgi[-_ ]?it)`,
	"ørsted":           `(?:^|[^\p{L}\d_])(ørsted|orsted)(?:[^\p{L}\d_]|$)`,
	"nuuday":           `(nuuday(?:[-_ ]\w+)?)`,
	"yousee":           `(yousee)`,
	"relatel":          `(relatel(?:[-_ ]\w+)?)`,
	"cphapp":           `(cphapp(?:[-_ ]\w+)?)`,
	"commentor":        `(commentor(?:[-_ ]\w+)?)`,
	"nabto":            `(nabto(?:[-_ ]\w+)?)`,
	"jobindex":         `(jobindex(?:[-_ ]\w+)?)`,
	"miracle":          `(miracle(?:[-_ ]\w+)?)`,
	"immeo":            `(immeo(?:[-_ ]\w+)?)`,
	"siteimprove":      `(siteimprove(?:[-_ ]\w+)?)`,
	"cbrain":           `(cbrain(?:[-_ ]\w+)?)`,
	"deondigital":      `(deon[-_ ]?digital)`,
	"pwc":              `(pwc)`,
	"studiesandme":     `(studiesandme(?:[-_ ]\w+)?)`,
	"tv2":              `(tv2)`,
	"pentia":           `(pentia(?:[-_ ]\w+)?)`,
	"zervme":           `(zervme(?:[-_ ]\w+)?)`,
	"skat":             `\b(skat)\b`,
	"codefort":         `(codefort(?:[-_ ]\w+)?)`,
	"reepay":           `(reepay(?:[-_ ]\w+)?)`,
	"diviso":           `(diviso(?:[-_ ]\w+)?)`,
	"uni-soft":         `(uni[-_ ]?soft)`,
	"delegateas":       `(delegateas(?:[-_ ]\w+)?)`,
	"proactivedk":      `(proactivedk(?:[-_ ]\w+)?)`,
	"monstarlab":       `(monstarlab(?:[-_ ]\w+)?)`,
}

// orstedNamesakePrefix rejects mentions of the physicist H.C. Ørsted
// (streets, institutes) that would otherwise match the energy company.
// RE2 has no lookbehind, so the guard runs against the text preceding a
// candidate match.
var orstedNamesakePrefix = regexp.MustCompile(`(?i)h[\. ]?[- ]?c[\. ]?[- ]?\s*$`)

// dkLocations is the whitelist of Danish location keywords used both for
// profile-text matching and for the search API location-filter clause.
var dkLocations = []string{
	"dk", "Denmark", "Danmark", "CPH", "KBH", "Copenhagen", "Cop",
	"København", "Odense", "Aarhus", "Århus", "Aalborg", "Ålborg",
	"Esbjerg", "Randers", "Kolding", "Horsens", "Vejle", "Roskilde",
	"Herning",
}

var (
	compileOnce     sync.Once
	compiledCompany map[string]*regexp.Regexp
	locationRe      *regexp.Regexp
)

// RE2's \b is ASCII-only, so keywords such as "København" get an explicit
// letter-class boundary instead.
func compilePatterns() {
	compiledCompany = make(map[string]*regexp.Regexp, len(companyPatterns))
	for company, pattern := range companyPatterns {
		compiledCompany[company] = regexp.MustCompile("(?i)" + pattern)
	}

	quoted := make([]string, 0, len(dkLocations))
	for _, loc := range dkLocations {
		quoted = append(quoted, regexp.QuoteMeta(loc))
	}
	locationRe = regexp.MustCompile(
		`(?i)(?:^|[^\p{L}\d_])(` + strings.Join(quoted, "|") + `)(?:[^\p{L}\d_]|$)`)
}

// LocationFilterClause returns the fixed search-qualifier clause limiting
// user search results to Danish locations.
func LocationFilterClause() string {
	parts := make([]string, 0, len(dkLocations)+1)
	parts = append(parts, "type:user&org")
	for _, loc := range dkLocations {
		parts = append(parts, "location:"+loc)
	}
	return strings.Join(parts, " ")
}
