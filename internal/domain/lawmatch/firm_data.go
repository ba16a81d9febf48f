// Package lawmatch scores law firms against a candidate's university and WAM
// using historical graduate intake shares.
package lawmatch

// OtherUniversity is the bucket used when a university is not listed for a firm
const OtherUniversity = "Other"

// Universities lists the tracked universities in display order
var Universities = []string{
	"University of Melbourne",
	"Monash University",
	"University of Sydney",
	"UNSW",
	"University of Queensland",
	"Australian National University",
	"Macquarie University",
	"University of Adelaide",
	OtherUniversity,
}

// FirmData maps a firm to the share (percent) of its graduate intake per university
type FirmData map[string]map[string]int

// Firms lists the tracked firms in display order
var Firms = []string{
	"Allens",
	"Clayton Utz",
	"Herbert Smith Freehills",
	"Ashurst",
	"MinterEllison",
	"King & Wood Mallesons",
	"Corrs Chambers Westgarth",
	"Gilbert + Tobin",
	"Lander & Rogers",
	"Colin Biggers & Paisley",
}

func shares(melb, monash, usyd, unsw, uq, anu, mq, adel, other int) map[string]int {
	return map[string]int{
		"University of Melbourne":        melb,
		"Monash University":              monash,
		"University of Sydney":           usyd,
		"UNSW":                           unsw,
		"University of Queensland":       uq,
		"Australian National University": anu,
		"Macquarie University":           mq,
		"University of Adelaide":         adel,
		OtherUniversity:                  other,
	}
}

// DefaultFirmData returns a fresh copy of the built-in intake table
func DefaultFirmData() FirmData {
	return FirmData{
		"Allens":                   shares(25, 10, 20, 15, 10, 10, 5, 2, 3),
		"Clayton Utz":              shares(20, 15, 20, 15, 10, 10, 5, 3, 2),
		"Herbert Smith Freehills":  shares(25, 10, 20, 15, 10, 10, 5, 2, 3),
		"Ashurst":                  shares(20, 15, 20, 15, 10, 10, 5, 2, 3),
		"MinterEllison":            shares(15, 20, 15, 15, 10, 10, 10, 2, 3),
		"King & Wood Mallesons":    shares(25, 10, 25, 15, 10, 10, 2, 1, 2),
		"Corrs Chambers Westgarth": shares(20, 15, 20, 15, 10, 10, 5, 2, 3),
		"Gilbert + Tobin":          shares(10, 5, 30, 30, 5, 10, 5, 1, 4),
		"Lander & Rogers":          shares(35, 25, 5, 5, 5, 10, 5, 5, 5),
		"Colin Biggers & Paisley":  shares(20, 20, 10, 10, 10, 10, 10, 5, 5),
	}
}

// Share returns the intake share of university at firm, falling back to the
// Other bucket. The second value is false when the firm is unknown.
func (d FirmData) Share(firm, university string) (int, bool) {
	uni, ok := d[firm]
	if !ok {
		return 0, false
	}
	if v, ok := uni[university]; ok {
		return v, true
	}
	return uni[OtherUniversity], true
}
