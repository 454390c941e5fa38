package pitch

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "pitch not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to manage this pitch")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidSurface   = apperror.New(http.StatusBadRequest, "invalid surface type")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid pitch status")
	ErrInvalidRate      = apperror.New(http.StatusBadRequest, "hourly rate must be positive")
)

type SurfaceType string

const (
	SurfaceNaturalGrass   SurfaceType = "natural_grass"
	SurfaceArtificialTurf SurfaceType = "artificial_turf"
	SurfaceIndoor         SurfaceType = "indoor"
	SurfaceHybrid         SurfaceType = "hybrid"
)

var ValidSurfaceTypes = []SurfaceType{
	SurfaceNaturalGrass, SurfaceArtificialTurf, SurfaceIndoor, SurfaceHybrid,
}

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// DayHours describes opening hours for a single weekday.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

// Pitch is a bookable sports ground owned by a user.
type Pitch struct {
	ID          string
	OwnerID     string
	Name        string
	Description string

	Address    string
	City       string
	Country    string
	PostalCode *string
	Latitude   float64
	Longitude  float64

	SurfaceType SurfaceType
	Capacity    int // number of players, e.g. 10 for 5v5
	Length      float64
	Width       float64
	Indoor      bool
	Lighting    bool
	Amenities   []string

	HourlyRate   decimal.Decimal
	PeakHourRate *decimal.Decimal
	Currency     string

	BusinessHours map[string]DayHours

	Rules                *string
	CancellationPolicy   *string
	MinCancellationHours int

	Images   []string
	VideoURL *string

	AverageRating decimal.Decimal
	TotalReviews  int
	TotalBookings int

	Status         Status
	Verified       bool
	InstantBooking bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Filter defines search parameters for listing pitches.
type Filter struct {
	OwnerID     string
	City        string
	Country     string
	Latitude    *float64
	Longitude   *float64
	RadiusKm    *float64
	SurfaceType string
	MinCapacity int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Indoor      *bool
	Lighting    *bool
	Amenities   []string
	Status      Status
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
