package models

// City is one manually selectable catalog city.
type City struct {
	Name     string `json:"name"`
	Point    Point  `json:"point"`
	Timezone string `json:"timezone"`
}

// Cities is the catalog response.
type Cities struct {
	Items []City `json:"items"`
}
