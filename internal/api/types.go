package api

import "github.com/samcharles93/ecoff/internal/report"

// HeaderObjectName carries the original file name of an upload.
const HeaderObjectName = "X-Object-Name"

type ObjectResponse struct {
	ID        string          `json:"id"`
	Object    string          `json:"object"`
	Name      string          `json:"name,omitempty"`
	Size      int64           `json:"size"`
	CreatedAt int64           `json:"created_at"`
	Document  report.Document `json:"document"`
}

type ObjectSummary struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Name      string `json:"name,omitempty"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
	Summary   string `json:"summary"`
}

type ObjectList struct {
	Object string          `json:"object"`
	Data   []ObjectSummary `json:"data"`
}

type StringsResponse struct {
	ID      string             `json:"id"`
	Table   string             `json:"table"`
	Size    int                `json:"size"`
	Strings []report.StringDoc `json:"strings"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

func objectResponse(obj *Object, opts report.Options) ObjectResponse {
	return ObjectResponse{
		ID:        obj.ID,
		Object:    "ecoff.object",
		Name:      obj.Name,
		Size:      obj.Size,
		CreatedAt: obj.CreatedAt.Unix(),
		Document:  report.Build(obj.Name, obj.File, opts),
	}
}

func objectSummary(obj *Object) ObjectSummary {
	return ObjectSummary{
		ID:        obj.ID,
		Object:    "ecoff.object",
		Name:      obj.Name,
		Size:      obj.Size,
		CreatedAt: obj.CreatedAt.Unix(),
		Summary:   report.Summary(obj.File),
	}
}
