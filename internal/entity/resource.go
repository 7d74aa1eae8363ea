package entity

const (
	// Clamp bounds for a resource's download-link lifetime.
	MinExpiryDays = 1
	MaxExpiryDays = 30
)

type Resource struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	FileReference string `json:"file_reference"`
	Availability  string `json:"availability"` // active | inactive
	ExpiryDays    int    `json:"expiry_days"`
}

func (r *Resource) Active() bool {
	return r != nil && r.Availability == "active"
}

// ClampExpiryDays forces a link lifetime into [MinExpiryDays, MaxExpiryDays].
func ClampExpiryDays(days int) int {
	if days < MinExpiryDays {
		return MinExpiryDays
	}
	if days > MaxExpiryDays {
		return MaxExpiryDays
	}
	return days
}
