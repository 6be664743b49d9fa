package booking

// Type distinguishes how the equipment reaches the customer: delivered by
// the yard's float truck, or picked up by the customer at the yard.
type Type string

const (
	TypeDelivery Type = "delivery"
	TypePickup   Type = "pickup"
)

// IsValid returns true if the booking type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeDelivery, TypePickup:
		return true
	}
	return false
}

// String returns the string representation of the booking type.
func (t Type) String() string {
	return string(t)
}
