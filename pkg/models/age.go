package models

import (
	"strconv"
	"strings"
	"time"
)

// AgeFromDOB derives an age in whole years from a DD/MM/YYYY date of
// birth. Returns false when the date is absent or malformed; an
// unparseable birth date is not an error, the derived field is simply
// omitted.
func AgeFromDOB(dob string, now time.Time) (int, bool) {
	parts := strings.Split(strings.TrimSpace(dob), "/")
	if len(parts) != 3 {
		return 0, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, false
	}

	age := now.Year() - year
	if int(now.Month()) < month || (int(now.Month()) == month && now.Day() < day) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
