package models

import (
	"encoding/json"
	"time"
)

// Record is the shape shared by every document fetched from the content store.
type Record interface {
	RecordID() string
	DisplayName() string
	ImageURL() string
	Timestamp() time.Time
}

// Slug is a content store slug field.
type Slug struct {
	Current string `json:"current"`
}

// ImageAsset is a dereferenced image asset.
type ImageAsset struct {
	Asset struct {
		URL string `json:"url"`
	} `json:"asset"`
}

// Post represents a car review.
type Post struct {
	ID           string          `json:"_id"`
	Title        string          `json:"title"`
	Slug         Slug            `json:"slug"`
	Excerpt      string          `json:"excerpt,omitempty"`
	MainImageURL string          `json:"mainImageUrl,omitempty"`
	PublishedAt  time.Time       `json:"publishedAt"`
	Body         json.RawMessage `json:"body,omitempty"`
	AuthorName   string          `json:"authorName,omitempty"`
	AuthorImage  string          `json:"authorImage,omitempty"`
}

// Category groups news items for the related articles list.
type Category struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
}

// NewsItem represents a newsAndUpdates document.
type NewsItem struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Slug        Slug            `json:"slug"`
	Excerpt     string          `json:"excerpt,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	Date        time.Time       `json:"date"`
	Author      string          `json:"author,omitempty"`
	AuthorImage *ImageAsset     `json:"authorImage,omitempty"`
	MainImage   *ImageAsset     `json:"mainImage,omitempty"`
	Categories  []Category      `json:"categories,omitempty"`
}

// Engine is the engine attribute group of a car specification.
type Engine struct {
	Type         string  `json:"type"`
	Displacement float64 `json:"displacement"`
	Horsepower   float64 `json:"horsepower"`
	Torque       float64 `json:"torque"`
	FuelType     string  `json:"fuelType"`
}

// Dimensions is measured in metres.
type Dimensions struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Wheelbase float64 `json:"wheelbase"`
}

// Performance holds acceleration, top speed and kerb weight.
type Performance struct {
	ZeroToSixty float64 `json:"ZeroToSixty"`
	TopSpeed    float64 `json:"topSpeed"`
	Weight      float64 `json:"weight"`
}

// CarSpec represents a carSpecifications document.
type CarSpec struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	Engine       Engine      `json:"engine"`
	Transmission string      `json:"transmission"`
	Drivetrain   string      `json:"drivetrain"`
	Dimensions   Dimensions  `json:"dimensions"`
	Performance  Performance `json:"performance"`
	Price        float64     `json:"price"`
	Image        *ImageAsset `json:"image,omitempty"`
}

// Comment represents a reader comment. PostName loosely references the
// post it was written on.
type Comment struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	PostName  string    `json:"postName"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}
