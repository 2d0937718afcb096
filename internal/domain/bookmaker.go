package domain

// BookmakerStatus is the account state at a bookmaker.
type BookmakerStatus string

const (
	BookmakerOpen    BookmakerStatus = "open"
	BookmakerLimited BookmakerStatus = "limited"
	BookmakerClosed  BookmakerStatus = "closed"
)

// Bookmaker is an account at a betting house or exchange.
type Bookmaker struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Site    string          `json:"site,omitempty"`
	Status  BookmakerStatus `json:"status"`
	Balance float64         `json:"balance"`
}
