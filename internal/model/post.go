package model

import "time"

// Post is an anonymous geotagged post. There is no author identity;
// the optional delete password is the only handle an author keeps.
type Post struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Lat      float64 `gorm:"type:decimal(10,8);not null" json:"lat"`
	Lng      float64 `gorm:"type:decimal(11,8);not null" json:"lng"`
	ImageRef string  `gorm:"type:varchar(128);not null" json:"image_ref"`
	Comment  string  `gorm:"type:varchar(40)" json:"comment"`
	// bcrypt hash of the delete password; empty means the post can never
	// be deleted through the credential path.
	DeletePassword string    `gorm:"type:varchar(72)" json:"-"`
	CreatedAt      time.Time `gorm:"index:idx_post_created;not null" json:"created_at"`
}

func (Post) TableName() string { return "posts" }

// HasDeletePassword reports whether a delete credential was set at creation.
func (p *Post) HasDeletePassword() bool { return p.DeletePassword != "" }
