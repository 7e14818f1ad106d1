package scrape

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DaysPerMonth es el promedio que usamos para todas las conversiones.
const DaysPerMonth = 30.4375

var (
	yearsRE  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*year`)
	monthsRE = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*month`)
	weeksRE  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*week`)
	daysRE   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*day`)
)

// ParseAgeText convierte texto libre de edad a meses totales.
// Acepta "2 years 3 months", "6 months", "1 year", "3 weeks", etc.
// Devuelve nil si ninguna unidad matchea.
func ParseAgeText(age string) *float64 {
	if strings.TrimSpace(age) == "" {
		return nil
	}
	s := strings.ToLower(age)

	total := 0.0
	matched := false
	for _, unit := range []struct {
		re         *regexp.Regexp
		multiplier float64
	}{
		{yearsRE, 12},
		{monthsRE, 1},
		{weeksRE, 7 / DaysPerMonth},
		{daysRE, 1 / DaysPerMonth},
	} {
		for _, m := range unit.re.FindAllStringSubmatch(s, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			total += v * unit.multiplier
			matched = true
		}
	}

	if !matched {
		return nil
	}
	r := round2(total)
	return &r
}

// AgeFromBirthday calcula meses aproximados desde un timestamp unix.
// Algunos feeds mandan milisegundos; timestamps <= 0 o futuros se rechazan.
func AgeFromBirthday(raw string, now time.Time) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	ts, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	if ts > 1_000_000_000_000 {
		ts = ts / 1000.0
	}
	sec := int64(ts)
	if sec <= 0 {
		return nil
	}
	birthday := time.Unix(sec, 0).UTC()
	if birthday.After(now) {
		return nil
	}
	months := now.Sub(birthday).Hours() / 24 / DaysPerMonth
	r := round2(months)
	return &r
}

// AgeGroup son los bounds de edad que mandan algunos feeds en lugar de
// una fecha exacta.
type AgeGroup struct {
	AgeFrom *float64
	AgeTo   *float64

	FromUnit string
	ToUnit   string

	Name             string
	Duration         string
	NameWithDuration string
}

// AgeFromAgeGroup estima meses desde los bounds del grupo etario.
// Preferimos el bound superior (age_to): es la estimación conservadora
// (más vieja) para el filtro de elegibilidad.
func AgeFromAgeGroup(g AgeGroup) *float64 {
	if g.AgeTo != nil {
		if to := UnitToMonths(*g.AgeTo, g.ToUnit); to != nil && *to > 0 {
			r := round2(*to)
			return &r
		}
	}
	if g.AgeFrom != nil {
		if from := UnitToMonths(*g.AgeFrom, g.FromUnit); from != nil && *from > 0 {
			r := round2(*from)
			return &r
		}
	}
	return nil
}

// AgeRawFromAgeGroup arma el texto de edad presentable del grupo etario.
func AgeRawFromAgeGroup(g AgeGroup) string {
	if v := CleanText(g.NameWithDuration); v != "" {
		return v
	}
	name := CleanText(g.Name)
	duration := CleanText(g.Duration)
	if name != "" && duration != "" {
		return name + " " + duration
	}
	return name
}

// UnitToMonths convierte valor+unidad a meses (day/week/month/year).
func UnitToMonths(value float64, unit string) *float64 {
	switch u := strings.ToLower(CleanText(unit)); {
	case strings.HasPrefix(u, "day"):
		v := value / DaysPerMonth
		return &v
	case strings.HasPrefix(u, "week"):
		v := value * 7 / DaysPerMonth
		return &v
	case strings.HasPrefix(u, "month"):
		return &value
	case strings.HasPrefix(u, "year"):
		v := value * 12
		return &v
	default:
		return nil
	}
}

// FormatAgeMonths arma texto amigable ("1 year 3 months") desde meses
// normalizados. Devuelve "" para nil/negativos.
func FormatAgeMonths(ageMonths *float64) string {
	if ageMonths == nil || *ageMonths < 0 {
		return ""
	}
	total := int(*ageMonths)
	years := total / 12
	months := total % 12

	yearLabel := "years"
	if years == 1 {
		yearLabel = "year"
	}
	monthLabel := "months"
	if months == 1 {
		monthLabel = "month"
	}

	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%d %s %d %s", years, yearLabel, months, monthLabel)
	case years > 0:
		return fmt.Sprintf("%d %s", years, yearLabel)
	default:
		return fmt.Sprintf("%d %s", months, monthLabel)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
