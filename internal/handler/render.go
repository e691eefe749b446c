package handler

import (
    "fmt"
    "html/template"
    "io"
    "io/fs"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movielog/internal/model"
)

// pages lists every template rendered through the layout.
var pages = []string{"home", "login", "register", "movie_form", "intro", "message"}

// GenreOptions are offered by the movie form's genre select.
var GenreOptions = []string{
    "Action", "Animation", "Comedy", "Documentary", "Drama",
    "Fantasy", "Horror", "Romance", "Sci-Fi", "Thriller",
}

// genreOptions returns GenreOptions plus current when a stored entry
// carries a genre outside the list, so editing keeps it selected.
func genreOptions(current string) []string {
    current = strings.TrimSpace(current)
    if current == "" || strings.EqualFold(current, "none") {
        return GenreOptions
    }
    for _, g := range GenreOptions {
        if g == current {
            return GenreOptions
        }
    }
    out := make([]string, 0, len(GenreOptions)+1)
    out = append(out, GenreOptions...)
    return append(out, current)
}

// Renderer executes one template set per page, each parsed together with
// the shared layout.
type Renderer struct {
    sets map[string]*template.Template
}

// NewRenderer parses templates/layout.html plus templates/<page>.html from
// fsys for every page.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
    r := &Renderer{sets: make(map[string]*template.Template, len(pages))}
    for _, p := range pages {
        t, err := template.New(p).ParseFS(fsys, "templates/layout.html", "templates/"+p+".html")
        if err != nil {
            return nil, fmt.Errorf("parsing %s: %w", p, err)
        }
        r.sets[p] = t
    }
    return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
    t, ok := r.sets[name]
    if !ok {
        return fmt.Errorf("unknown template %q", name)
    }
    return t.ExecuteTemplate(w, "layout", data)
}

// page is the data passed to every template. Fields unused by a page stay
// at their zero value.
type page struct {
    Title        string
    Session      *model.Session
    Search       string
    Message      string
    Username     string
    Errors       []string
    Form         model.MovieForm
    Action       string
    GenreOptions []string
    Sections     []genreSection
    Content      template.HTML
}

// genreSection groups listed movies under one genre heading.
type genreSection struct {
    Genre  string
    Movies []model.Movie
}

// groupByGenre keeps the incoming order, which the repository sorts by
// genre and then title.
func groupByGenre(movies []model.Movie) []genreSection {
    var out []genreSection
    idx := map[string]int{}
    for _, m := range movies {
        key := strings.ToLower(m.Genre)
        i, ok := idx[key]
        if !ok {
            i = len(out)
            idx[key] = i
            out = append(out, genreSection{Genre: m.Genre})
        }
        out[i].Movies = append(out[i].Movies, m)
    }
    return out
}

// renderMessage shows a plain message page with the given status.
func renderMessage(c echo.Context, status int, title, msg string, s *model.Session) error {
    return c.Render(status, "message", page{Title: title, Message: msg, Session: s})
}
