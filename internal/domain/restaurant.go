package domain

// Restaurant is a merchant-owned restaurant listing.
type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	OwnerID  string `json:"ownerId"`
}

// FoodItem is one entry of a restaurant menu.
type FoodItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
	RestID      string   `json:"restId"`
}

// MenuOf keeps the items that belong to the given restaurant.
func MenuOf(items []FoodItem, restID string) []FoodItem {
	menu := make([]FoodItem, 0, len(items))
	for _, item := range items {
		if item.RestID == restID {
			menu = append(menu, item)
		}
	}
	return menu
}

// FindRestaurant returns the restaurant with the given id, if listed.
func FindRestaurant(restaurants []Restaurant, id string) (Restaurant, bool) {
	for _, r := range restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return Restaurant{}, false
}
