package ical

type (
	Status string
	Transp string
)

const (
	StatusTentative Status = "TENTATIVE"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"

	TranspOpaque      Transp = "OPAQUE"
	TranspTransparent Transp = "TRANSPARENT"
)

func (s Status) valid() bool {
	switch s {
	case StatusTentative, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (t Transp) valid() bool {
	switch t {
	case TranspOpaque, TranspTransparent:
		return true
	}
	return false
}

// Parse a VEVENT status, case-insensitively.
func ParseStatus(text string) (Status, error) {
	status := Status(toUpper(text))
	if !status.valid() {
		return "", NewCustomError(ErrMalformedInput, "invalid STATUS", map[string]any{
			"value":   text,
			"allowed": "TENTATIVE|CONFIRMED|CANCELLED",
		})
	}
	return status, nil
}

// Parse a time transparency, case-insensitively.
func ParseTransp(text string) (Transp, error) {
	transp := Transp(toUpper(text))
	if !transp.valid() {
		return "", NewCustomError(ErrMalformedInput, "invalid TRANSP", map[string]any{
			"value":   text,
			"allowed": "TRANSPARENT|OPAQUE",
		})
	}
	return transp, nil
}
