package tmdb

const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// Title is the normalised view of a movie or TV show returned to clients.
type Title struct {
	ID           int64    `json:"id"`
	MediaType    string   `json:"mediaType"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	ReleaseDate  string   `json:"releaseDate"`
	PosterPath   string   `json:"posterPath"`
	BackdropPath string   `json:"backdropPath"`
	PosterURL    string   `json:"posterUrl,omitempty"`
	VoteAverage  float64  `json:"voteAverage"`
	Runtime      int      `json:"runtime,omitempty"`
	Seasons      int      `json:"seasons,omitempty"`
	Genres       []string `json:"genres,omitempty"`
}

type SearchPage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"totalPages"`
	TotalResults int     `json:"totalResults"`
	Results      []Title `json:"results"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// result covers both movie and TV payloads; TV uses name/first_air_date.
type result struct {
	ID              int64   `json:"id"`
	MediaType       string  `json:"media_type"`
	Title           string  `json:"title"`
	Name            string  `json:"name"`
	Overview        string  `json:"overview"`
	ReleaseDate     string  `json:"release_date"`
	FirstAirDate    string  `json:"first_air_date"`
	PosterPath      string  `json:"poster_path"`
	BackdropPath    string  `json:"backdrop_path"`
	VoteAverage     float64 `json:"vote_average"`
	Runtime         int     `json:"runtime"`
	NumberOfSeasons int     `json:"number_of_seasons"`
	Genres          []genre `json:"genres"`
}

type searchResponse struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []result `json:"results"`
}

func (r result) title(mediaType string) Title {
	t := Title{
		ID:           r.ID,
		MediaType:    mediaType,
		Title:        r.Title,
		Overview:     r.Overview,
		ReleaseDate:  r.ReleaseDate,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		PosterURL:    ImageURL("w500", r.PosterPath),
		VoteAverage:  r.VoteAverage,
		Runtime:      r.Runtime,
		Seasons:      r.NumberOfSeasons,
	}
	if mediaType == MediaTV {
		t.Title = r.Name
		t.ReleaseDate = r.FirstAirDate
	}
	for _, g := range r.Genres {
		t.Genres = append(t.Genres, g.Name)
	}
	return t
}
