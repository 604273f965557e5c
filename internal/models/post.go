// Package models contains data structures for the application's domain models.
package models

// PostMetadata describes a rental unit. Every field is independently
// optional: a nil pointer means "unknown", never false/zero. The JSON field
// names are fixed by the mobile client's Codable structs and must not change.
type PostMetadata struct {
	IncludesParking       *bool    `gorm:"column:meta_includes_parking" json:"includesParking"`
	LeaseAvailabilityDate *string  `gorm:"column:meta_lease_availability_date" json:"leaseAvailabilityDate"`
	LengthOfLeaseInMonths *int     `gorm:"column:meta_length_of_lease_in_months" json:"lengthOfLeaseInMonths"`
	PetsAllowed           *bool    `gorm:"column:meta_pets_allowed" json:"petsAllowed"`
	Price                 *float64 `gorm:"column:meta_price" json:"price"`
	Sqft                  *float64 `gorm:"column:meta_sqft" json:"sqft"`
	GeneratedDescription  *string  `gorm:"column:meta_generated_description;type:text" json:"generatedDescription"`
	BedroomCount          *int     `gorm:"column:meta_bedroom_count" json:"bedroomCount"`
	BathroomCount         *int     `gorm:"column:meta_bathroom_count" json:"bathroomCount"`
	Furnished             *bool    `gorm:"column:meta_furnished" json:"furnished"`
	Kitchen               *bool    `gorm:"column:meta_kitchen" json:"kitchen"`
	Appliances            *string  `gorm:"column:meta_appliances" json:"appliances"`
	Amenities             *string  `gorm:"column:meta_amenities" json:"amenities"`
	Yard                  *bool    `gorm:"column:meta_yard" json:"yard"`
	Location              *string  `gorm:"column:meta_location" json:"location"`
	UtilitiesIncluded     *bool    `gorm:"column:meta_utilities_included" json:"utilitiesIncluded"`
}

// Post is a published listing. Immutable once created except for UpdatedAt.
// Username comes from the authenticated identity, never from the request body.
type Post struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt Timestamp    `gorm:"index:idx_posts_feed" json:"createdAt"`
	UpdatedAt Timestamp    `json:"updatedAt"`
	Username  string       `gorm:"not null;index" json:"username"`
	MediaKey  string       `gorm:"not null;uniqueIndex" json:"mediaKey"`
	Metadata  PostMetadata `gorm:"embedded" json:"metadata"`
}

// MediaURL resolves the playback URL for the post's video under the given
// media base URL. Readers fetch base + key + ".mp4"; the key itself never
// carries an extension.
func (p *Post) MediaURL(base string) string {
	return base + p.MediaKey + ".mp4"
}

// CreatePostBody is the request body for POST /api/createPost.
type CreatePostBody struct {
	MediaKey string       `json:"mediaKey" validate:"required,max=128,storagekey"`
	Metadata PostMetadata `json:"metadata"`
}

// GenerateDescriptionBody is the request body for POST /api/describe.
type GenerateDescriptionBody struct {
	Transcript string `json:"transcript" validate:"max=20000"`
}

// UploadGrant is an ephemeral upload credential. It is never persisted; the
// key becomes real only once a created Post references it.
type UploadGrant struct {
	Key          string    `json:"key"`
	PresignedURL string    `json:"presignedUrl"`
	ExpiresAt    Timestamp `json:"expiresAt"`
}
