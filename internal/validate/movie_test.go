package validate

import (
	"reflect"
	"testing"
	"time"

	"github.com/iliyamo/movielog/internal/model"
)

func TestMovie(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	valid := model.MovieForm{Title: "Alien", Director: "Ridley Scott", Year: "1979", Genre: "Horror", Rating: "9"}

	tests := []struct {
		name string
		form model.MovieForm
		want []string
	}{
		{"valid", valid, nil},
		{
			"title and genre blank",
			model.MovieForm{Title: "", Director: "D", Year: "2020", Genre: "", Rating: "5"},
			[]string{"Title Required", "Genre Required"},
		},
		{
			"everything missing",
			model.MovieForm{},
			[]string{"Title Required", "Director Required", "Year Required", "Genre Required", "Rating Invalid"},
		},
		{
			"whitespace counts as blank",
			model.MovieForm{Title: "  ", Director: "\t", Year: " ", Genre: "Drama", Rating: "7"},
			[]string{"Title Required", "Director Required", "Year Required"},
		},
		{
			"placeholder genre",
			model.MovieForm{Title: "T", Director: "D", Year: "2000", Genre: "none", Rating: "7"},
			[]string{"Genre Required"},
		},
		{
			"non-numeric year",
			model.MovieForm{Title: "T", Director: "D", Year: "soon", Genre: "Drama", Rating: "7"},
			[]string{"Year Invalid"},
		},
		{
			"rating out of range",
			model.MovieForm{Title: "T", Director: "D", Year: "2000", Genre: "Drama", Rating: "11"},
			[]string{"Rating Invalid"},
		},
		{
			"rating not a number",
			model.MovieForm{Title: "T", Director: "D", Year: "2000", Genre: "Drama", Rating: "great"},
			[]string{"Rating Invalid"},
		},
		{
			"rating NaN",
			model.MovieForm{Title: "T", Director: "D", Year: "2000", Genre: "Drama", Rating: "NaN"},
			[]string{"Rating Invalid"},
		},
		{
			"rating infinite",
			model.MovieForm{Title: "T", Director: "D", Year: "2000", Genre: "Drama", Rating: "+Inf"},
			[]string{"Rating Invalid"},
		},
		{
			"negative year",
			model.MovieForm{Title: "T", Director: "D", Year: "-5", Genre: "Drama", Rating: "7"},
			[]string{"Year Invalid"},
		},
		{
			"year before cinema",
			model.MovieForm{Title: "T", Director: "D", Year: "1869", Genre: "Drama", Rating: "7"},
			[]string{"Year Invalid"},
		},
		{
			"announced release",
			model.MovieForm{Title: "T", Director: "D", Year: "2031", Genre: "Drama", Rating: "7"},
			nil,
		},
		{
			"too far ahead",
			model.MovieForm{Title: "T", Director: "D", Year: "2032", Genre: "Drama", Rating: "7"},
			[]string{"Year Invalid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Movie(tt.form)
			if got.Valid != (len(tt.want) == 0) {
				t.Errorf("Valid = %v, want %v", got.Valid, len(tt.want) == 0)
			}
			if !reflect.DeepEqual(got.Errors, tt.want) {
				t.Errorf("Errors = %q, want %q", got.Errors, tt.want)
			}
		})
	}
}

func TestToMovie(t *testing.T) {
	m := ToMovie(model.MovieForm{Title: " Heat ", Director: "Michael Mann", Year: "1995", Genre: "Action", Rating: "8.5", Comments: " tense "})
	if m.Title != "Heat" || m.Year != 1995 || m.Rating != 8.5 || m.Comments != "tense" {
		t.Errorf("ToMovie() = %+v", m)
	}
}
