// Package validate checks movie form submissions before they are stored.
package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/movielog/internal/model"
)

// NoGenre is the value of the genre select's placeholder option.
const NoGenre = "none"

// Rating bounds accepted by the form.
const (
	MinRating = 0
	MaxRating = 10
)

// MinYear is the earliest release year accepted. The latest is a few years
// past the current one so announced films can be logged.
const (
	MinYear       = 1870
	yearLookahead = 5
)

// now is replaced in tests.
var now = time.Now

// Result holds the outcome of validating a form. Errors lists every
// violation in field order.
type Result struct {
	Valid  bool
	Errors []string
}

// Movie validates a submitted form. It never stops at the first violation.
func Movie(f model.MovieForm) Result {
	var errs []string

	if blank(f.Title) {
		errs = append(errs, "Title Required")
	}
	if blank(f.Director) {
		errs = append(errs, "Director Required")
	}
	if blank(f.Year) {
		errs = append(errs, "Year Required")
	} else if _, ok := ParseYear(f.Year); !ok {
		errs = append(errs, "Year Invalid")
	}
	if blank(f.Genre) || strings.EqualFold(strings.TrimSpace(f.Genre), NoGenre) {
		errs = append(errs, "Genre Required")
	}
	if _, ok := ParseRating(f.Rating); !ok {
		errs = append(errs, "Rating Invalid")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ParseRating converts the rating field, reporting false when it is absent,
// not a number or outside MinRating..MaxRating.
func ParseRating(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < MinRating || v > MaxRating {
		return 0, false
	}
	return v, true
}

// ParseYear converts the year field, reporting false when it is not an
// integer between MinYear and a few years after the current year.
func ParseYear(s string) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < MinYear || y > now().Year()+yearLookahead {
		return 0, false
	}
	return y, true
}

// ToMovie converts a form that passed Movie into a model.Movie. The id and
// owner are left for the caller.
func ToMovie(f model.MovieForm) model.Movie {
	year, _ := ParseYear(f.Year)
	rating, _ := ParseRating(f.Rating)
	return model.Movie{
		Title:    strings.TrimSpace(f.Title),
		Director: strings.TrimSpace(f.Director),
		Genre:    strings.TrimSpace(f.Genre),
		Year:     year,
		Rating:   rating,
		Comments: strings.TrimSpace(f.Comments),
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
