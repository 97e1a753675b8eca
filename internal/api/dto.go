package api

import (
	"strconv"
	"time"

	"github.com/mdoering/marquee/internal/domain"
)

// Wire schemas for the movie API. Field names follow the server's JSON
// contract; responses are decoded into these and mapped to domain
// entities at the client boundary so shape mismatches surface here.

type movieDTO struct {
	ID          string      `json:"_id"`
	Title       string      `json:"Title"`
	Description string      `json:"Description"`
	ImagePath   string      `json:"ImagePath"`
	Featured    bool        `json:"Featured"`
	Genre       genreDTO    `json:"Genre"`
	Director    directorDTO `json:"Director"`
}

type genreDTO struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type directorDTO struct {
	Name  string `json:"Name"`
	Bio   string `json:"Bio"`
	Birth string `json:"Birth"`
	Death string `json:"Death"`
}

// userDTO is the account record. FavoriteMovies is a pointer so an
// absent field can be told apart from an empty list.
type userDTO struct {
	Username       string    `json:"Username"`
	Email          string    `json:"Email"`
	Birthday       string    `json:"Birthday"`
	FavoriteMovies *[]string `json:"FavoriteMovies"`
}

type loginResponse struct {
	User  *userDTO `json:"user"`
	Token string   `json:"token"`
}

// addFavoriteResponse wraps the updated user record returned by the
// favorite mutation endpoints.
type favoriteResponse struct {
	User *userDTO `json:"user"`
}

type signupErrorResponse struct {
	Errors []string `json:"errors"`
}

// imageListResponse mirrors the S3-shaped listing the server proxies.
type imageListResponse struct {
	Contents []imageObjectDTO `json:"Contents"`
}

type imageObjectDTO struct {
	Key          string    `json:"Key"`
	LastModified time.Time `json:"LastModified"`
	Size         int64     `json:"Size"`
}

func (d movieDTO) toDomain() *domain.Movie {
	return &domain.Movie{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		ImageRef:    d.ImagePath,
		Featured:    d.Featured,
		Genre: domain.Genre{
			Name:        d.Genre.Name,
			Description: d.Genre.Description,
		},
		Director: domain.Director{
			Name:      d.Director.Name,
			Bio:       d.Director.Bio,
			BirthYear: yearOf(d.Director.Birth),
			DeathYear: yearOf(d.Director.Death),
		},
	}
}

func mapMovies(dtos []movieDTO) []*domain.Movie {
	movies := make([]*domain.Movie, 0, len(dtos))
	for _, d := range dtos {
		movies = append(movies, d.toDomain())
	}
	return movies
}

func (d userDTO) toDomain() *domain.User {
	user := &domain.User{
		Username: d.Username,
		Email:    d.Email,
		Birthday: d.Birthday,
	}
	if d.FavoriteMovies != nil {
		user.FavoriteMovieIDs = *d.FavoriteMovies
	}
	return user
}

func (d imageObjectDTO) toDomain() domain.ImageObject {
	return domain.ImageObject{
		Key:          d.Key,
		LastModified: d.LastModified,
		Size:         d.Size,
	}
}

// yearOf extracts the year from an ISO date string, 0 if absent.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
