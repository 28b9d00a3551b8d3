package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Record describes a remark in a transport-friendly format.
type Record struct {
	ID        string   `json:"id"`
	Inspector string   `json:"inspector"`
	Trainset  string   `json:"trainset"`
	Carriage  string   `json:"carriage"`
	Level     string   `json:"level"`
	Zone      string   `json:"zone"`
	Comment   string   `json:"comment"`
	Photos    []string `json:"photos"`
	Title     string   `json:"title"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// Attachment describes a stored photo without its content.
type Attachment struct {
	ID          string `json:"id"`
	RecordID    string `json:"recordId"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Profile is the inspector identity kept between sessions.
type Profile struct {
	Inspector string `json:"inspector"`
	Trainset  string `json:"trainset"`
}

// NewRecordRequest is the body of POST /api/records. Inspector and Trainset
// default to the saved profile.
type NewRecordRequest struct {
	Inspector string `json:"inspector,omitempty"`
	Trainset  string `json:"trainset,omitempty"`
	Carriage  string `json:"carriage"`
	Level     string `json:"level"`
	Zone      string `json:"zone"`
	Comment   string `json:"comment"`
}

// CommentRequest is the body of PATCH /api/records/{id}.
type CommentRequest struct {
	Comment string `json:"comment"`
}

// RecordListResponse wraps a collection of records.
type RecordListResponse struct {
	Items []Record `json:"items"`
}

// RecordResponse wraps a single record.
type RecordResponse struct {
	Record Record `json:"record"`
}

// AttachmentListResponse wraps a record's photos.
type AttachmentListResponse struct {
	Items []Attachment `json:"items"`
}

// ClearResponse reports the outcome of DELETE /api/records.
type ClearResponse struct {
	Records     int `json:"records"`
	Attachments int `json:"attachments"`
}

// Plan describes a plan image and its region map.
type Plan struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	MapID         string `json:"mapId"`
	Title         string `json:"title"`
	NaturalWidth  int    `json:"naturalWidth"`
	NaturalHeight int    `json:"naturalHeight"`
	Regions       int    `json:"regions"`
}

// PlanListResponse wraps every known plan.
type PlanListResponse struct {
	Items []Plan `json:"items"`
}

// HitResponse reports which zone lies under a click on a plan.
type HitResponse struct {
	Hit  bool   `json:"hit"`
	Zone string `json:"zone,omitempty"`
	// Matched is the catalog zone the clicked label resolves to, if any.
	Matched string `json:"matched,omitempty"`
}

// CatalogLevel lists the zones of one level of a carriage.
type CatalogLevel struct {
	Level string   `json:"level"`
	Title string   `json:"title"`
	Note  string   `json:"note,omitempty"`
	Zones []string `json:"zones"`
	Plan  string   `json:"plan,omitempty"`
}

// CatalogCarriage describes one carriage of the train.
type CatalogCarriage struct {
	ID           string         `json:"id"`
	PowerCar     bool           `json:"powerCar"`
	ZoneRequired bool           `json:"zoneRequired"`
	Levels       []CatalogLevel `json:"levels"`
}

// Catalog is the full train composition.
type Catalog struct {
	Train     Plan              `json:"train"`
	Carriages []CatalogCarriage `json:"carriages"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running         bool     `json:"running"`
	PID             int      `json:"pid"`
	DatabasePath    string   `json:"databasePath"`
	LockFilePath    string   `json:"lockFilePath"`
	PlansDir        string   `json:"plansDir"`
	Records         int      `json:"records"`
	Attachments     int      `json:"attachments"`
	AttachmentBytes int64    `json:"attachmentBytes"`
	Issues          []string `json:"issues,omitempty"`
}
