package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the central entity: an owned record with label and ingredient
// associations and an optional stored image path.
type Recipe struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64           `gorm:"column:user_id;not null;index"`
	User        *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string          `gorm:"column:title;type:text;not null;uniqueIndex"`
	TimeMinutes int             `gorm:"column:time_minutes;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(7,2);not null"`
	Link        *string         `gorm:"column:link"`
	ImagePath   *string         `gorm:"column:image_path"`
	Tags        []Tag           `gorm:"many2many:recipe_tags"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
