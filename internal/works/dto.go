package works

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ArtWorkInput asks for quantity pieces of an art type.
type ArtWorkInput struct {
	ArtType  uuid.UUID `json:"art_type"`
	Quantity int       `json:"quantity"`
}

// DesignerInput assigns or releases a designer.
type DesignerInput struct {
	Designer   uuid.UUID `json:"designer"`
	ActiveWork bool      `json:"active_work"`
}

// FileUpload is a raw file received with a create or update.
type FileUpload struct {
	Name string
	Data []byte
}

// CreateWorkInput is the payload of a work creation.
type CreateWorkInput struct {
	Executive            uuid.UUID       `json:"executive" validate:"required"`
	Contact              uuid.UUID       `json:"contact" validate:"required"`
	CurrentStatus        *enums.StatusID `json:"current_status"`
	WorkType             uuid.UUID       `json:"work_type" validate:"required"`
	Iguala               *uuid.UUID      `json:"iguala"`
	CreationDate         *string         `json:"creation_date"`
	Name                 string          `json:"name" validate:"required,max=100"`
	ExpectedDeliveryDate string          `json:"expected_delivery_date" validate:"required"`
	Brief                string          `json:"brief"`
	FinalLink            string          `json:"final_link" validate:"max=1000"`
	ArtWorks             []ArtWorkInput  `json:"art_works"`
	WorkDesigners        []DesignerInput `json:"work_designers"`
	Files                []FileUpload    `json:"-"`
}

// OptionalUUID records whether a nullable UUID field was present in the
// payload. A present null (or the all-zero UUID) clears the reference.
type OptionalUUID struct {
	Set   bool
	Value uuid.UUID
}

// SetUUID returns a present OptionalUUID holding id.
func SetUUID(id uuid.UUID) OptionalUUID {
	return OptionalUUID{Set: true, Value: id}
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = uuid.Nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Clears reports whether the field was sent to detach the reference.
func (o OptionalUUID) Clears() bool {
	return o.Set && o.Value == uuid.Nil
}

// UpdateWorkInput is a partial update. Nil fields are left untouched. Iguala
// is left untouched when absent and detached when sent as null.
type UpdateWorkInput struct {
	Version              *int            `json:"version"`
	Executive            *uuid.UUID      `json:"executive"`
	Contact              *uuid.UUID      `json:"contact"`
	CurrentStatus        *enums.StatusID `json:"current_status"`
	WorkType             *uuid.UUID      `json:"work_type"`
	Iguala               OptionalUUID    `json:"iguala"`
	Name                 *string         `json:"name" validate:"omitempty,max=100"`
	ExpectedDeliveryDate *string         `json:"expected_delivery_date"`
	Brief                *string         `json:"brief"`
	FinalLink            *string         `json:"final_link" validate:"omitempty,max=1000"`
	ArtWorks             []ArtWorkInput  `json:"art_works"`
	WorkDesigners        []DesignerInput `json:"work_designers"`
	Files                []FileUpload    `json:"-"`
}

// WorkDTO is the serialized work returned by every mutation and the detail endpoint.
type WorkDTO struct {
	ID                   uuid.UUID         `json:"id"`
	Executive            uuid.UUID         `json:"executive"`
	Contact              uuid.UUID         `json:"contact"`
	CurrentStatus        enums.StatusID    `json:"current_status"`
	CurrentStatusName    string            `json:"current_status_name"`
	WorkType             uuid.UUID         `json:"work_type"`
	Iguala               *uuid.UUID        `json:"iguala"`
	CreationDate         string            `json:"creation_date"`
	Name                 string            `json:"name"`
	ExpectedDeliveryDate string            `json:"expected_delivery_date"`
	Brief                string            `json:"brief"`
	FinalLink            string            `json:"final_link"`
	Version              int               `json:"version"`
	ArtWorks             []ArtWorkDTO      `json:"art_works"`
	Files                []FileDTO         `json:"files"`
	WorkDesigners        []WorkDesignerDTO `json:"work_designers"`
}

type ArtWorkDTO struct {
	ID       uuid.UUID `json:"id"`
	ArtType  uuid.UUID `json:"art_type"`
	Quantity int       `json:"quantity"`
}

type FileDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url,omitempty"`
}

type WorkDesignerDTO struct {
	ID         uuid.UUID  `json:"id"`
	Designer   uuid.UUID  `json:"designer"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	ActiveWork bool       `json:"active_work"`
}

// StatusDTO is one entry of the status catalog.
type StatusDTO struct {
	StatusID enums.StatusID `json:"status_id"`
	Name     string         `json:"name"`
}

// StatusChangeDTO is one history entry.
type StatusChangeDTO struct {
	ID       uuid.UUID      `json:"id"`
	StatusID enums.StatusID `json:"status_id"`
	Name     string         `json:"name"`
	User     uuid.UUID      `json:"user"`
	Date     time.Time      `json:"date"`
}

func StatusesFrom(ids []enums.StatusID) []StatusDTO {
	out := make([]StatusDTO, 0, len(ids))
	for _, id := range ids {
		out = append(out, StatusDTO{StatusID: id, Name: id.String()})
	}
	return out
}

func fromWork(w *models.Work) *WorkDTO {
	return &WorkDTO{
		ID:                   w.ID,
		Executive:            w.ExecutiveID,
		Contact:              w.ContactID,
		CurrentStatus:        w.CurrentStatus,
		CurrentStatusName:    w.CurrentStatus.String(),
		WorkType:             w.WorkTypeID,
		Iguala:               w.IgualaID,
		CreationDate:         formatDate(w.CreationDate),
		Name:                 w.Name,
		ExpectedDeliveryDate: formatDate(w.ExpectedDeliveryDate),
		Brief:                w.Brief,
		FinalLink:            w.FinalLink,
		Version:              w.Version,
		ArtWorks:             []ArtWorkDTO{},
		Files:                []FileDTO{},
		WorkDesigners:        []WorkDesignerDTO{},
	}
}

func parseDate(raw string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return datatypes.Date(t), nil
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

func sameDate(a, b datatypes.Date) bool {
	return formatDate(a) == formatDate(b)
}

func dateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
