package domain

// Library is static reference data: a branch a loan is picked up from.
type Library struct {
	ID       string
	Name     string
	Address  string
	Phone    string
	ImageURL string
}
