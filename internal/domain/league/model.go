package league

type League struct {
	ID          int64
	Name        string
	Type        string
	Logo        string
	CountryName string
	CountryCode string
	CountryFlag string
}
