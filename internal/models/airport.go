package models

// Airport is a row of the static airport reference table.
type Airport struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	IATA      string  `gorm:"column:iata;size:3;uniqueIndex;not null" json:"iata" yaml:"iata"`
	ICAO      string  `gorm:"column:icao;size:4" json:"icao" yaml:"icao"`
	Name      string  `gorm:"type:text;not null" json:"name" yaml:"name"`
	City      string  `gorm:"type:text;index" json:"city" yaml:"city"`
	Country   string  `gorm:"type:text" json:"country" yaml:"country"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}
