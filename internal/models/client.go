package models

// Client is the person or business a loan was extended to.
// Clients are created together with their loan and never edited afterwards.
type Client struct {
	// ID is the unique identifier for the client (UUID format).
	ID string

	// Name is the client's full name.
	Name string

	// PhoneNumber is the client's contact number.
	PhoneNumber string

	// BusinessName is the name of the client's business.
	BusinessName string
}
