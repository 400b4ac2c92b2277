package model

// Media represents one analyzed source video, keyed by URL
type Media struct {
	ID       int64  `json:"-"`
	Name     string `json:"name"`               // Display name, advisory only
	URL      string `json:"url"`                // Source locator, unique
	Complete bool   `json:"complete"`           // Monotonic: once true the claim set is final
	Creator  *int64 `json:"creator,omitempty"`  // Optional content creator reference
}

// Creator represents a content creator owning one or more media items
type Creator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreatorStanding is one row of the reputable-creators aggregate
type CreatorStanding struct {
	Creator         Creator  `json:"creator"`
	MediaCount      int      `json:"media_count"`
	AverageAccuracy *float64 `json:"average_accuracy,omitempty"` // nil when no claim was ever verified
}
