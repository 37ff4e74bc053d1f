package domain

// Book is a single circulating unit; Available is false exactly while
// one pending or active loan references it. Only the loan lifecycle
// engine writes Available.
type Book struct {
	ID        string
	Title     string
	Author    string
	Editorial string
	ISBN      string
	ImageURL  string
	Badge     string
	Rating    int
	Available bool
}
