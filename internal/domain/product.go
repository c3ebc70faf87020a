package domain

// Level is the difficulty tier of a course.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Product represents a single course in the catalog.
// The json tags correspond to the fields expected in API responses.
// Products are loaded once from the catalog source and never mutated at runtime.
type Product struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullDescription string   `json:"fullDescription"`
	Price           float64  `json:"price"` // smallest currency unit, non-negative
	Thumbnail       string   `json:"thumbnail"`
	Category        string   `json:"category"`
	Instructor      string   `json:"instructor"`
	Rating          float64  `json:"rating"` // 0..5
	ReviewCount     int      `json:"reviewCount"`
	Duration        string   `json:"duration"`
	Level           Level    `json:"level"`
	Tags            []string `json:"tags"`
}

// User is the account shipped alongside the catalog dataset. Its interaction
// lists seed the in-memory interaction store.
type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	FavoriteProducts []string `json:"favoriteProducts"`
	ViewedProducts   []string `json:"viewedProducts"`
}

// ScoredProduct is a product annotated with its suggestion similarity score.
// It only exists inside the scoring/ranking pipeline and in suggestion responses.
type ScoredProduct struct {
	Product
	SimilarityScore int `json:"similarityScore"`
}

// InteractionProfile is the aggregate preference profile derived from a user's
// viewed and favorited products. It is recomputed on every suggestion request
// and never stored.
type InteractionProfile struct {
	Categories        []string `json:"categories"`
	Levels            []Level  `json:"levels"`
	AveragePrice      *float64 `json:"averagePrice,omitempty"` // nil when there is no history
	TotalInteractions int      `json:"totalInteractions"`
}

// PagedResult is one page of an ordered result set.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
