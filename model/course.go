package model

// Course represents an academic offering (e.g., "Matemática Básica")
type Course struct {
	ID   string `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Code string `gorm:"index;not null" json:"code"` // e.g., "MAT-0140"
}

// SectionRating is the aggregate student rating of a section
type SectionRating string

const (
	RatingPositive SectionRating = "positive"
	RatingNeutral  SectionRating = "neutral"
	RatingNegative SectionRating = "negative"
	RatingAbsent   SectionRating = "" // no rating recorded
)

// Section represents one scheduled offering of a course:
// a professor teaching at a given time, campus and modality.
type Section struct {
	ID        string        `gorm:"primaryKey;type:varchar(50)" json:"id"`
	CourseID  string        `gorm:"index;not null" json:"courseId"`
	Professor string        `gorm:"not null" json:"professor"`
	Schedule  string        `json:"schedule"`
	Campus    string        `gorm:"index" json:"campus"`
	NRC       string        `gorm:"column:nrc;index" json:"nrc"`
	Modalidad string        `json:"modalidad"` // free text, categorized at filter time
	Rating    SectionRating `gorm:"type:varchar(10)" json:"rating,omitempty"`
}

// Modality is the three-valued section delivery-mode filter.
// ModalityNone is the explicit "no filter" value; selecting the active
// modality again clears it back to ModalityNone (toggle semantics).
type Modality string

const (
	ModalityNone           Modality = ""
	ModalityVirtual        Modality = "virtual"
	ModalitySemipresencial Modality = "semipresencial"
)

// Valid reports whether m is one of the three known filter values.
func (m Modality) Valid() bool {
	switch m {
	case ModalityNone, ModalityVirtual, ModalitySemipresencial:
		return true
	}
	return false
}

// Toggle returns the selection that results from choosing m while cur is
// active: picking the same value twice clears the filter.
func (m Modality) Toggle(cur Modality) Modality {
	if m == cur {
		return ModalityNone
	}
	return m
}

// AllCampuses is the fixed list of UASD locations offered by the campus
// filter. Campus matching is exact and case-sensitive against these values.
var AllCampuses = []string{
	"Santo Domingo",
	"Santiago",
	"San Fco de Macorís",
	"Puerto Plata",
	"San Juan",
	"Barahona",
	"Mao",
	"Hato Mayor",
	"Higüey",
	"Bonao",
	"La Vega",
	"Baní",
	"Azua de Compostela",
	"Neyba",
	"Cotuí",
	"Nagua",
	"Dajabón",
}
