package model

import "strings"

// Customer is a buying partner registered by a sales user.
type Customer struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	Company       string `gorm:"type:varchar(255)" json:"company"`
	Position      string `gorm:"type:varchar(255)" json:"position"`
	Phone         string `gorm:"type:varchar(32)" json:"phone"`
	Email         string `gorm:"type:varchar(255)" json:"email"`
	Address       string `gorm:"type:text" json:"address"` // "street, ward, district, city"
	Note          string `gorm:"type:text" json:"note,omitempty"`
	RepName       string `gorm:"type:varchar(255)" json:"repName,omitempty"`
	RepPhone      string `gorm:"type:varchar(32)" json:"repPhone,omitempty"`
	RepPosition   string `gorm:"type:varchar(255)" json:"repPosition,omitempty"`
	CreatedByName string `gorm:"type:varchar(255)" json:"createdByName"`
}

// City returns the last comma separated segment of the address.
func (c *Customer) City() string {
	return CityOf(c.Address)
}

// CityOf extracts the province/city from an address string.
func CityOf(address string) string {
	parts := strings.Split(address, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// JoinAddress builds an address from its parts, skipping empty ones.
func JoinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
