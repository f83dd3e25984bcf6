package models

// Unit is one piece of equipment in the fleet registry, addressable by the
// QR code on its sticker.
type Unit struct {
	ID        int64
	QRCode    string
	UnitID    string
	DisplayID string
	Category  string
	UnitType  string
	SFormNum  string
}

// Employee is one roster entry. Lookup accepts the numeric employee id or
// the work email.
type Employee struct {
	ID            int64
	EmployeeID    string
	Name          string
	PreferredName string
	Email         string
	Phone         string
	Active        bool
}
