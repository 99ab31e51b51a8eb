package holiday

import "time"

type Kind string

const (
	KindNational  Kind = "nacional"
	KindState     Kind = "estadual"
	KindMunicipal Kind = "municipal"
	KindOptional  Kind = "ponto_facultativo"
)

var validKinds = []string{string(KindNational), string(KindState), string(KindMunicipal), string(KindOptional)}

// Holiday is a non-working date of the municipal calendar ("feriado").
type Holiday struct {
	ID          string
	Date        time.Time
	Description string
	Kind        Kind
	Active      bool
	CreatedAt   time.Time
}
