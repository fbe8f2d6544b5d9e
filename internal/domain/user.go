package domain

import "time"

// OwnedRestaurant is the short restaurant reference listed on an account.
type OwnedRestaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is the account detail returned by the backend for a subject id.
type Account struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Role      Role              `json:"role"`
	CreatedAt time.Time         `json:"createdAt"`
	RestOwned []OwnedRestaurant `json:"restOwned"`
}
